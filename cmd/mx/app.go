// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"
	"os/exec"

	"github.com/mxrun/mx/internal/config"
	"github.com/mxrun/mx/internal/issue"

	"github.com/charmbracelet/log"
)

type (
	// App wires CLI services and shared dependencies. It is the composition
	// root of the CLI layer: every cobra handler receives it and reaches
	// configuration, streams and logging only through it.
	App struct {
		Config   config.Provider
		stdout   io.Writer
		stderr   io.Writer
		stdin    io.Reader
		logger   *log.Logger
		lookPath func(string) (string, error)
		verbose  bool
	}

	// Dependencies defines the injection points for building an App. Nil fields
	// are replaced with production defaults by NewApp.
	Dependencies struct {
		Config   config.Provider
		Stdout   io.Writer
		Stderr   io.Writer
		Stdin    io.Reader
		LookPath func(string) (string, error)
	}

	// session is the configuration resolved for one invocation: the config
	// file merged with the persistent flags.
	session struct {
		cfg      *config.Config
		document string
		level    int
	}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.LookPath == nil {
		deps.LookPath = exec.LookPath
	}

	return &App{
		Config:   deps.Config,
		stdout:   deps.Stdout,
		stderr:   deps.Stderr,
		stdin:    deps.Stdin,
		lookPath: deps.LookPath,
		logger: log.NewWithOptions(deps.Stderr, log.Options{
			Prefix: config.AppName,
			Level:  log.WarnLevel,
		}),
	}
}

// setVerbose switches diagnostic logging to debug level.
func (a *App) setVerbose(verbose bool) {
	a.verbose = verbose
	if verbose {
		a.logger.SetLevel(log.DebugLevel)
	} else {
		a.logger.SetLevel(log.WarnLevel)
	}
}

// loadSession loads configuration and applies the persistent flags on top.
// Flags win over MX_* variables, mx.toml and the built-in defaults.
func (a *App) loadSession(ctx context.Context, flags *rootFlagValues) (*session, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.configPath})
	if err != nil {
		return nil, err
	}
	if cfg.Source != "" {
		a.logger.Debug("loaded configuration", "path", cfg.Source)
	}

	s := &session{
		cfg:      cfg,
		document: cfg.File.String(),
		level:    cfg.HeadingLevel.Int(),
	}

	if flags.file != "" {
		s.document = flags.file
	}
	if flags.level != 0 {
		level := config.HeadingLevel(flags.level)
		if valid, errs := level.IsValid(); !valid {
			return nil, issue.NewErrorContext().
				WithOperation("parse --level").
				WithSuggestion("Use a heading level between 1 (#) and 6 (######)").
				Wrap(errs[0]).
				BuildError()
		}
		s.level = level.Int()
	}

	a.logger.Debug("session", "document", s.document, "level", s.level)
	return s, nil
}
