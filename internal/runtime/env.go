// SPDX-License-Identifier: MPL-2.0

package runtime

import (
	"fmt"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// EnvArgs holds all task arguments joined by spaces.
	EnvArgs = "MX_ARGS"
	// EnvArgPrefix prefixes the zero-based per-argument variables (MX_ARG_0, ...).
	EnvArgPrefix = "MX_ARG_"
)

// LoadEnvFiles reads dotenv files in order into one map; later files override
// earlier ones. Paths suffixed with '?' are optional and may be missing.
func LoadEnvFiles(paths []string) (map[string]string, error) {
	env := make(map[string]string)
	for _, path := range paths {
		optional := strings.HasSuffix(path, "?")
		path = strings.TrimSuffix(path, "?")

		vars, err := godotenv.Read(path)
		if err != nil {
			if optional && os.IsNotExist(err) {
				continue
			}
			return nil, fmt.Errorf("failed to read env file '%s': %w", path, err)
		}
		maps.Copy(env, vars)
	}
	return env, nil
}

// ArgsEnv exports task arguments. MX_ARGS is only set when there are arguments.
func ArgsEnv(args []string) map[string]string {
	env := make(map[string]string, len(args)+1)
	if len(args) == 0 {
		return env
	}
	env[EnvArgs] = strings.Join(args, " ")
	for i, arg := range args {
		env[EnvArgPrefix+strconv.Itoa(i)] = arg
	}
	return env
}

// EnvToSlice converts a map of environment variables to a KEY=value slice
// sorted by key.
func EnvToSlice(env map[string]string) []string {
	result := make([]string, 0, len(env))
	for _, k := range slices.Sorted(maps.Keys(env)) {
		result = append(result, k+"="+env[k])
	}
	return result
}

// FilterTaskArgVars drops MX_ARGS and MX_ARG_* from environ so that a task
// started from inside another task does not see its parent's arguments.
func FilterTaskArgVars(environ []string) []string {
	result := make([]string, 0, len(environ))
	for _, e := range environ {
		name, _, found := strings.Cut(e, "=")
		if found && (name == EnvArgs || strings.HasPrefix(name, EnvArgPrefix)) {
			continue
		}
		result = append(result, e)
	}
	return result
}

// buildEnv layers the host environment, dotenv values and task arguments,
// lowest precedence first.
func buildEnv(host []string, fileEnv map[string]string, args []string) []string {
	extra := make(map[string]string, len(fileEnv)+len(args)+1)
	maps.Copy(extra, fileEnv)
	maps.Copy(extra, ArgsEnv(args))
	return append(FilterTaskArgVars(host), EnvToSlice(extra)...)
}
