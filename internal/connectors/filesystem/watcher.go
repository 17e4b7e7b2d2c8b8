package filesystem

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/normabundle/internal/core/domain"
	"github.com/custodia-labs/normabundle/internal/core/ports/driven"
	"github.com/custodia-labs/normabundle/internal/logger"
)

// ErrWatcherClosed is returned by Watch after Close.
var ErrWatcherClosed = errors.New("watcher is closed")

// Watcher reports bundle changes under a root directory.
// It only reads; bundles are never modified.
type Watcher struct {
	root      string
	inspector driven.BundleInspector

	mu      sync.Mutex
	closed  bool
	fsw     *fsnotify.Watcher
	watched map[string]bool // bundle dir -> currently valid
}

// NewWatcher creates a watcher for the bundles directly under root.
func NewWatcher(root string, inspector driven.BundleInspector) *Watcher {
	if abs, err := filepath.Abs(root); err == nil {
		root = abs
	}
	return &Watcher{
		root:      root,
		inspector: inspector,
		watched:   make(map[string]bool),
	}
}

// Root returns the watched root directory.
func (w *Watcher) Root() string {
	return w.root
}

// Watch starts watching and returns a channel of changes and a channel of
// watch errors. Bundles that already exist are primed silently; only later
// changes are reported. Both channels close when ctx is cancelled or the
// watcher is closed.
func (w *Watcher) Watch(ctx context.Context) (<-chan domain.BundleChange, <-chan error, error) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil, nil, ErrWatcherClosed
	}
	w.mu.Unlock()

	info, err := os.Stat(w.root)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: root path error: %w", domain.ErrNotFound, err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("%w: root path error: %s is not a directory", domain.ErrInvalidState, w.root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, fmt.Errorf("%w: creating watcher: %w", domain.ErrIO, err)
	}
	if err := fsw.Add(w.root); err != nil {
		fsw.Close()
		return nil, nil, fmt.Errorf("%w: watching %s: %w", domain.ErrIO, w.root, err)
	}

	w.mu.Lock()
	w.fsw = fsw
	w.mu.Unlock()

	if err := w.prime(ctx); err != nil {
		fsw.Close()
		return nil, nil, err
	}

	w.mu.Lock()
	logger.Info("watching %s (%d bundles)", w.root, len(w.watched))
	w.mu.Unlock()

	changes := make(chan domain.BundleChange)
	errs := make(chan error, 1)

	go func() {
		defer close(changes)
		defer close(errs)
		defer fsw.Close()

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-fsw.Events:
				if !ok {
					return
				}
				change := w.handleFsEvent(ctx, event)
				if change == nil {
					continue
				}
				select {
				case changes <- *change:
				case <-ctx.Done():
					return
				}
			case err, ok := <-fsw.Errors:
				if !ok {
					return
				}
				select {
				case errs <- err:
				default:
					logger.Warn("dropped watch error: %v", err)
				}
			}
		}
	}()

	return changes, errs, nil
}

// Close stops the active watch, if any. It is safe to call more than once.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	if w.fsw != nil {
		return w.fsw.Close()
	}
	return nil
}

// prime watches every existing bundle directory and records which are valid.
func (w *Watcher) prime(ctx context.Context) error {
	dirs, err := w.inspector.Candidates(ctx, w.root)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if isHidden(filepath.Base(dir)) {
			continue
		}
		w.addBundleDir(dir)
		_, err := w.inspector.Inspect(ctx, dir)
		w.setValid(dir, err == nil)
	}
	return nil
}

// handleFsEvent converts a filesystem event into a bundle change.
// Returns nil if the event does not change any bundle's reported state.
func (w *Watcher) handleFsEvent(ctx context.Context, event fsnotify.Event) *domain.BundleChange {
	if isHidden(filepath.Base(event.Name)) {
		return nil
	}
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return nil
	}

	parent := filepath.Dir(event.Name)
	switch {
	case parent == w.root:
		return w.handleRootEvent(ctx, event)
	case filepath.Dir(parent) == w.root:
		return w.handleBundleEvent(ctx, parent, event)
	default:
		return nil
	}
}

// handleRootEvent handles a bundle directory appearing or disappearing.
func (w *Watcher) handleRootEvent(ctx context.Context, event fsnotify.Event) *domain.BundleChange {
	dir := event.Name

	if event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
		wasValid, known := w.forget(dir)
		if !known || !wasValid {
			return nil
		}
		return &domain.BundleChange{Type: domain.ChangeDeleted, Path: dir}
	}

	if !event.Has(fsnotify.Create) {
		return nil
	}
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil
	}
	w.addBundleDir(dir)
	// A bundle moved in whole is already valid.
	return w.refresh(ctx, dir)
}

// handleBundleEvent handles a change to a child of a bundle directory.
func (w *Watcher) handleBundleEvent(ctx context.Context, dir string, event fsnotify.Event) *domain.BundleChange {
	if filepath.Base(event.Name) == domain.ManifestName &&
		(event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)) {
		if !w.isValid(dir) {
			return nil
		}
		w.setValid(dir, false)
		return &domain.BundleChange{Type: domain.ChangeDeleted, Path: dir}
	}
	return w.refresh(ctx, dir)
}

// refresh inspects dir and reports Created for a bundle that just became
// valid, Updated for one that already was, and Deleted for one that no
// longer validates.
func (w *Watcher) refresh(ctx context.Context, dir string) *domain.BundleChange {
	snap, err := w.inspector.Inspect(ctx, dir)
	if err != nil {
		if ctx.Err() != nil || !w.isValid(dir) {
			logger.Debug("not a bundle: %s: %v", dir, err)
			return nil
		}
		logger.Info("bundle no longer valid: %s: %v", dir, err)
		w.setValid(dir, false)
		return &domain.BundleChange{Type: domain.ChangeDeleted, Path: dir}
	}

	changeType := domain.ChangeUpdated
	if !w.isValid(dir) {
		changeType = domain.ChangeCreated
	}
	w.setValid(dir, true)
	return &domain.BundleChange{Type: changeType, Path: snap.Path, Snapshot: snap}
}

func (w *Watcher) addBundleDir(dir string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, ok := w.watched[dir]; ok {
		return
	}
	w.watched[dir] = false
	if w.fsw != nil {
		if err := w.fsw.Add(dir); err != nil {
			logger.Warn("cannot watch %s: %v", dir, err)
		}
	}
}

// forget drops dir and reports whether it was known and valid.
// fsnotify removes the watch of a deleted directory by itself.
func (w *Watcher) forget(dir string) (wasValid, known bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	wasValid, known = w.watched[dir]
	delete(w.watched, dir)
	return wasValid, known
}

func (w *Watcher) isValid(dir string) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.watched[dir]
}

func (w *Watcher) setValid(dir string, valid bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.watched[dir] = valid
}

// isHidden reports whether a base name is hidden. Temporary files written
// next to results documents are hidden.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
