// SPDX-License-Identifier: MPL-2.0

package config

import (
	"bytes"
	"fmt"
	"maps"

	"github.com/pelletier/go-toml/v2"
)

const generatedHeader = `# mx configuration file.
#
# heading_level selects which "#" depth names a task (1-6).
# Runtimes map a fence language to an interpreter, either as
#   lang = "command"                       (code is piped to stdin)
# or as a table
#   [runtimes.lang]
#   command = "interpreter --flag"
#   execution_mode = "stdin" | "file" | "arg"

`

// tomlDocument mirrors mx.toml for encoding.
type tomlDocument struct {
	HeadingLevel int            `toml:"heading_level"`
	FailFast     bool           `toml:"fail_fast"`
	Strict       bool           `toml:"strict"`
	File         string         `toml:"file"`
	Runtimes     map[string]any `toml:"runtimes,omitempty"`
}

// GenerateTOML renders cfg as an mx.toml document. Runtime entries in stdin
// mode are written in the short "lang = command" form.
func GenerateTOML(cfg *Config) (string, error) {
	doc := tomlDocument{
		HeadingLevel: cfg.HeadingLevel.Int(),
		FailFast:     cfg.FailFast,
		Strict:       cfg.Strict,
		File:         cfg.File.String(),
		Runtimes:     make(map[string]any, len(cfg.Runtimes)+len(cfg.RuntimeDetails)),
	}

	for lang, cmd := range cfg.Runtimes {
		doc.Runtimes[lang] = cmd.String()
	}
	for lang, entry := range cfg.RuntimeDetails {
		if entry.Mode() == ModeStdin {
			doc.Runtimes[lang] = entry.Command.String()
			continue
		}
		doc.Runtimes[lang] = map[string]string{
			"command":        entry.Command.String(),
			"execution_mode": entry.Mode().String(),
		}
	}

	var buf bytes.Buffer
	buf.WriteString(generatedHeader)
	enc := toml.NewEncoder(&buf)
	enc.SetIndentTables(true)
	if err := enc.Encode(doc); err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.String(), nil
}

// InitConfig returns the configuration written by 'mx init': the defaults
// plus every built-in runtime, so the file documents what mx ships with.
func InitConfig() *Config {
	cfg := DefaultConfig()
	maps.Copy(cfg.RuntimeDetails, BuiltinRuntimes())
	return cfg
}
