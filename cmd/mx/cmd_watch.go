// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mxrun/mx/internal/watch"
)

var errWatchDryRun = errors.New("--watch and --dry-run cannot be combined")

// runWatchMode runs the task once and again after every change to the
// document, the config file or an env file. It returns when ctx is canceled.
func runWatchMode(ctx context.Context, app *App, sess *session, flags *runFlagValues, args []string) error {
	if flags.dryRun {
		return errWatchDryRun
	}

	docPath, err := filepath.Abs(sess.document)
	if err != nil {
		return fmt.Errorf("resolve document path: %w", err)
	}
	baseDir := filepath.Dir(docPath)

	inputs := []string{docPath}
	if sess.cfg.Source != "" {
		inputs = append(inputs, sess.cfg.Source)
	}
	for _, f := range flags.envFiles {
		inputs = append(inputs, strings.TrimSuffix(f, "?"))
	}
	patterns := watchPatterns(baseDir, inputs)

	w, err := watch.New(watch.Config{
		BaseDir:     baseDir,
		Patterns:    patterns,
		ClearScreen: true,
		RunOnStart:  true,
		Stdout:      app.stdout,
		Logger:      app.logger,
		OnChange: func(ctx context.Context, changed []string) error {
			if len(changed) > 0 {
				app.logger.Info("change detected, re-running", "task", args[0], "files", changed)
			}
			// Env files are re-read on every run.
			engine, err := app.newEngine(sess, flags, args[1:])
			if err != nil {
				return err
			}
			err = executeTask(ctx, app, sess, engine, false, args[0])
			var exitErr *ExitError
			if errors.As(err, &exitErr) {
				// The summary already reported the failure.
				return nil
			}
			return err
		},
	})
	if err != nil {
		return err
	}

	app.logger.Info("watching for changes", "dir", baseDir, "patterns", patterns)
	return w.Run(ctx)
}

// watchPatterns turns file paths into patterns relative to baseDir. Files
// outside baseDir cannot be watched and are skipped.
func watchPatterns(baseDir string, paths []string) []string {
	seen := make(map[string]bool, len(paths))
	patterns := make([]string, 0, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		rel, err := filepath.Rel(baseDir, abs)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			continue
		}
		pattern := escapeGlob(filepath.ToSlash(rel))
		if !seen[pattern] {
			seen[pattern] = true
			patterns = append(patterns, pattern)
		}
	}
	return patterns
}

// escapeGlob quotes the doublestar metacharacters in a literal path.
func escapeGlob(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`*?[]{}\`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
