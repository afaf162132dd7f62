// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period after the last event before a run.
// Editors that write a temp file and rename it produce several events per save.
const DefaultDebounce = 300 * time.Millisecond

var (
	// ErrInvalidConfig is returned by New for unusable patterns.
	ErrInvalidConfig = errors.New("invalid watch config")
	// ErrAlreadyRunning is returned when Run is called a second time.
	ErrAlreadyRunning = errors.New("watcher already running")
)

type (
	// Config holds the parameters for a Watcher.
	Config struct {
		// BaseDir is the watched tree, the working directory when empty.
		BaseDir string
		// Patterns are doublestar globs relative to BaseDir (e.g. "README.md",
		// "docs/**/*.md"). Empty selects every non-ignored file.
		Patterns []string
		// Ignore adds to the built-in ignore patterns.
		Ignore []string
		// Debounce falls back to DefaultDebounce when zero or negative.
		Debounce time.Duration
		// ClearScreen writes an ANSI clear sequence to Stdout before each run.
		ClearScreen bool
		// RunOnStart invokes OnChange once, with no paths, before watching.
		RunOnStart bool
		// OnChange receives the sorted, deduplicated paths that changed. Its
		// error is logged and watching continues.
		OnChange func(ctx context.Context, changed []string) error
		// Stdout defaults to os.Stdout.
		Stdout io.Writer
		// Logger defaults to the charmbracelet/log default logger.
		Logger *log.Logger
	}

	// Watcher fires a debounced callback when matching files change. Run must
	// be called exactly once.
	Watcher struct {
		cfg      Config
		fsw      *fsnotify.Watcher
		match    *matcher
		logger   *log.Logger
		stdout   io.Writer
		debounce time.Duration
		baseDir  string
		started  atomic.Bool

		mu      sync.Mutex
		pending map[string]struct{}
		timer   *time.Timer
		busy    atomic.Bool
	}
)

// New validates cfg and registers every non-ignored directory under BaseDir.
func New(cfg Config) (*Watcher, error) {
	match, err := newMatcher(cfg.Patterns, cfg.Ignore)
	if err != nil {
		return nil, err
	}

	baseDir := cfg.BaseDir
	if baseDir == "" {
		if baseDir, err = os.Getwd(); err != nil {
			return nil, fmt.Errorf("watch: determine working directory: %w", err)
		}
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, fmt.Errorf("watch: resolve base directory: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		cfg:      cfg,
		fsw:      fsw,
		match:    match,
		logger:   cfg.Logger,
		stdout:   cfg.Stdout,
		debounce: cfg.Debounce,
		baseDir:  absBase,
		pending:  make(map[string]struct{}),
	}
	if w.logger == nil {
		w.logger = log.Default()
	}
	if w.stdout == nil {
		w.stdout = os.Stdout
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}

	if err := w.addTree(); err != nil {
		if closeErr := fsw.Close(); closeErr != nil {
			w.logger.Warn("close watcher after init failure", "error", closeErr)
		}
		return nil, err
	}
	return w, nil
}

// Run processes events until ctx is done. It returns nil on cancellation and
// an error when fsnotify fails beyond recovery.
func (w *Watcher) Run(ctx context.Context) error {
	if !w.started.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer w.stop()

	if w.cfg.RunOnStart {
		w.invoke(ctx, nil)
	}

	for {
		select {
		case <-ctx.Done():
			return nil

		case evt, ok := <-w.fsw.Events:
			if !ok {
				return errors.New("watch: event channel closed")
			}
			w.handle(ctx, evt)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return errors.New("watch: error channel closed")
			}
			if isFatal(err) {
				return fmt.Errorf("watch: %w", err)
			}
			w.logger.Warn("watch error", "error", err)
		}
	}
}

// handle queues a relevant event and restarts the debounce timer.
func (w *Watcher) handle(ctx context.Context, evt fsnotify.Event) {
	rel, err := filepath.Rel(w.baseDir, evt.Name)
	if err != nil {
		rel = evt.Name
	}

	// New directories are watched even if no file in them matches yet.
	if evt.Has(fsnotify.Create) {
		w.addIfDir(evt.Name, rel)
	}

	if !w.match.selected(rel) {
		return
	}
	w.logger.Debug("change detected", "path", rel, "op", evt.Op.String())

	w.mu.Lock()
	defer w.mu.Unlock()
	w.pending[filepath.ToSlash(rel)] = struct{}{}
	if w.timer == nil {
		w.timer = time.AfterFunc(w.debounce, func() { w.fire(ctx) })
	} else {
		w.timer.Reset(w.debounce)
	}
}

// fire drains the pending set into one callback. A burst that lands while a
// run is still going is retried after another debounce period.
func (w *Watcher) fire(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if !w.busy.CompareAndSwap(false, true) {
		w.logger.Debug("previous run still in progress, deferring")
		w.mu.Lock()
		w.timer.Reset(w.debounce)
		w.mu.Unlock()
		return
	}
	defer w.busy.Store(false)

	w.mu.Lock()
	if len(w.pending) == 0 {
		w.mu.Unlock()
		return
	}
	changed := slices.Sorted(maps.Keys(w.pending))
	clear(w.pending)
	w.mu.Unlock()

	w.call(ctx, changed)
}

// invoke runs the callback synchronously, used for RunOnStart.
func (w *Watcher) invoke(ctx context.Context, changed []string) {
	w.busy.Store(true)
	defer w.busy.Store(false)
	w.call(ctx, changed)
}

func (w *Watcher) call(ctx context.Context, changed []string) {
	if w.cfg.ClearScreen {
		fmt.Fprint(w.stdout, "\033[2J\033[H")
	}
	if w.cfg.OnChange == nil {
		return
	}
	if err := w.cfg.OnChange(ctx, changed); err != nil {
		w.logger.Error("run failed", "error", err)
	}
}

func (w *Watcher) stop() {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()
	if err := w.fsw.Close(); err != nil {
		w.logger.Warn("close watcher", "error", err)
	}
}

// addTree registers BaseDir and every non-ignored directory beneath it.
// Unreadable directories are skipped with a warning.
func (w *Watcher) addTree() error {
	err := filepath.WalkDir(w.baseDir, func(path string, d os.DirEntry, walkErr error) error {
		if walkErr != nil {
			w.logger.Warn("skipping unreadable path", "path", path, "error", walkErr)
			return nil //nolint:nilerr // unreadable subtrees are not fatal
		}
		if !d.IsDir() {
			return nil
		}
		rel, relErr := filepath.Rel(w.baseDir, path)
		if relErr != nil {
			return nil //nolint:nilerr // cannot happen for paths under baseDir
		}
		if rel != "." && w.dirIgnored(rel) {
			return filepath.SkipDir
		}
		if addErr := w.fsw.Add(path); addErr != nil {
			return fmt.Errorf("watch: add directory %q: %w", path, addErr)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("watch: walk %s: %w", w.baseDir, err)
	}
	return nil
}

func (w *Watcher) addIfDir(path, rel string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || w.dirIgnored(rel) {
		return
	}
	if err := w.fsw.Add(path); err != nil {
		w.logger.Warn("watch new directory", "path", path, "error", err)
	}
}

// dirIgnored checks a directory both as itself and as a prefix, so
// "**/.git/**" excludes ".git".
func (w *Watcher) dirIgnored(rel string) bool {
	return w.match.ignored(rel) || w.match.ignored(rel+"/")
}
