// SPDX-License-Identifier: MPL-2.0

// Package watch re-runs a task when the files it depends on change.
//
// A Watcher registers every non-ignored directory under a base directory with
// fsnotify, filters events through doublestar patterns, and fires one
// debounced callback per burst of changes. Callbacks never overlap: a burst
// that arrives while a run is in progress is retried once the run finishes.
package watch
