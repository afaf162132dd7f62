// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mxrun/mx/internal/issue"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/go-viper/mapstructure/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	// AppName is the application name.
	AppName = "mx"
	// ConfigFileName is the default config file name.
	ConfigFileName = "mx.toml"
	// EnvPrefix prefixes environment overrides (MX_HEADING_LEVEL, MX_FILE, ...).
	EnvPrefix = "MX"

	// MaxFileSize bounds the size of a config file.
	MaxFileSize = 1 << 20

	runtimesKey = "runtimes"
)

//go:embed config_schema.cue
var configSchema string

// ErrConfigNotFound is returned when an explicit config file does not exist.
var ErrConfigNotFound = errors.New("config file not found")

// loadWithOptions performs option-driven config loading. Precedence, lowest
// first: built-in defaults, the config file, MX_* environment variables.
func loadWithOptions(ctx context.Context, opts LoadOptions) (*Config, error) {
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("load config canceled: %w", ctx.Err())
	default:
	}

	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("heading_level", int(defaults.HeadingLevel))
	v.SetDefault("fail_fast", defaults.FailFast)
	v.SetDefault("strict", defaults.Strict)
	v.SetDefault("file", string(defaults.File))

	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	var (
		resolvedPath string
		raw          map[string]any
	)

	// An explicit --config path must exist.
	if opts.ConfigFilePath != "" {
		if !fileExists(opts.ConfigFilePath) {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(opts.ConfigFilePath).
				WithSuggestion("Verify the file path is correct").
				WithSuggestion("Run 'mx init' to generate a configuration file").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(fmt.Errorf("%w: %s", ErrConfigNotFound, opts.ConfigFilePath)).
				BuildError()
		}
		resolvedPath = opts.ConfigFilePath
	} else {
		localPath := filepath.Join(opts.ConfigDirPath, ConfigFileName)
		if fileExists(localPath) {
			resolvedPath = localPath
		}
		// No config file means defaults.
	}

	if resolvedPath != "" {
		var err error
		raw, err = loadTOMLIntoViper(v, resolvedPath)
		if err != nil {
			return nil, issue.NewErrorContext().
				WithOperation("load configuration").
				WithResource(resolvedPath).
				WithSuggestion("Check that the file contains valid TOML").
				WithSuggestion("Verify the configuration values match the expected schema").
				WithSuggestion("Run 'mx config show' to see the effective configuration").
				WithIssue(issue.ConfigLoadFailedId).
				Wrap(err).
				BuildError()
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	simple, detailed, err := decodeRuntimes(raw[runtimesKey])
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("decode runtimes").
			WithResource(resolvedPath).
			WithSuggestion("Use 'lang = \"command\"' or a [runtimes.<lang>] table with a command key").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(err).
			BuildError()
	}
	cfg.Runtimes = simple
	cfg.RuntimeDetails = detailed
	cfg.Source = resolvedPath

	// Environment overrides bypass the schema, so check the merged result.
	if valid, errs := cfg.IsValid(); !valid {
		return nil, issue.NewErrorContext().
			WithOperation("validate configuration").
			WithResource(resolvedPath).
			WithSuggestion("heading_level must be between 1 and 6").
			WithSuggestion("Check MX_* environment variables for stray values").
			WithIssue(issue.ConfigLoadFailedId).
			Wrap(errors.Join(errs...)).
			BuildError()
	}

	return &cfg, nil
}

// loadTOMLIntoViper reads a TOML file, validates it against the #Config
// schema and merges its scalar settings into Viper. It returns the decoded
// document so the case-sensitive runtime table can be read from it.
func loadTOMLIntoViper(v *viper.Viper, path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := checkFileSize(data, MaxFileSize, path); err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, formatTOMLError(err, path)
	}

	if err := validateAgainstSchema(raw, path); err != nil {
		return nil, err
	}

	// Viper would fold language keys to lower case.
	scalars := make(map[string]any, len(raw))
	for k, val := range raw {
		if k != runtimesKey {
			scalars[k] = val
		}
	}

	// Merge into Viper (preserves defaults, allows env overrides)
	if err := v.MergeConfigMap(scalars); err != nil {
		return nil, fmt.Errorf("failed to merge config: %w", err)
	}

	return raw, nil
}

// validateAgainstSchema unifies a decoded document with #Config.
func validateAgainstSchema(raw map[string]any, path string) error {
	ctx := cuecontext.New()

	schemaValue := ctx.CompileString(configSchema)
	if schemaValue.Err() != nil {
		return fmt.Errorf("internal error: failed to compile config schema: %w", schemaValue.Err())
	}

	userValue := ctx.Encode(raw)
	if userValue.Err() != nil {
		return formatCUEError(userValue.Err(), path)
	}

	schema := schemaValue.LookupPath(cue.ParsePath("#Config"))
	unified := schema.Unify(userValue)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return formatCUEError(err, path)
	}

	return nil
}

// decodeRuntimes splits the raw [runtimes] table into simple commands and
// detailed entries. A nil table yields empty maps.
func decodeRuntimes(table any) (map[string]RuntimeCommand, map[string]RuntimeEntry, error) {
	simple := make(map[string]RuntimeCommand)
	detailed := make(map[string]RuntimeEntry)

	if table == nil {
		return simple, detailed, nil
	}

	entries, ok := table.(map[string]any)
	if !ok {
		return nil, nil, fmt.Errorf("runtimes: expected a table, got %T", table)
	}

	for lang, value := range entries {
		switch value := value.(type) {
		case string:
			simple[lang] = RuntimeCommand(value)
		case map[string]any:
			var entry RuntimeEntry
			decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
				Result:      &entry,
				ErrorUnused: true,
			})
			if err != nil {
				return nil, nil, err
			}
			if err := decoder.Decode(value); err != nil {
				return nil, nil, fmt.Errorf("runtimes.%s: %w", lang, err)
			}
			if entry.ExecutionMode == "" {
				entry.ExecutionMode = ModeStdin
			}
			detailed[lang] = entry
		default:
			return nil, nil, fmt.Errorf("runtimes.%s: expected a command string or a table, got %T", lang, value)
		}
	}

	return simple, detailed, nil
}

// formatTOMLError adds the line and column of a TOML syntax error.
func formatTOMLError(err error, path string) error {
	var decodeErr *toml.DecodeError
	if errors.As(err, &decodeErr) {
		row, col := decodeErr.Position()
		return fmt.Errorf("%s:%d:%d: %s", path, row, col, decodeErr.Error())
	}
	return fmt.Errorf("%s: %w", path, err)
}

// checkFileSize verifies that data does not exceed maxSize.
func checkFileSize(data []byte, maxSize int64, filename string) error {
	if int64(len(data)) > maxSize {
		return fmt.Errorf("%s: file size %d bytes exceeds maximum %d bytes",
			filename, len(data), maxSize)
	}
	return nil
}

// fileExists checks if a file exists and is not a directory
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}
