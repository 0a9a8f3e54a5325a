// Package watch runs an extraction for every PDF or image that appears or
// changes under a directory tree.
package watch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/iptrace/internal/core/domain"
	"github.com/custodia-labs/iptrace/internal/core/ports/driving"
	"github.com/custodia-labs/iptrace/internal/logger"
)

// Defaults applied when Options fields are zero.
const (
	DefaultDebounce    = 500 * time.Millisecond
	DefaultConcurrency = 2
)

// ErrMissingTracker is returned when no track service is provided.
var ErrMissingTracker = errors.New("watch: track service is required")

// Event is the outcome of one run triggered by a file change.
type Event struct {
	// Path is the absolute path of the changed file.
	Path string

	// Result is nil when the run failed.
	Result *domain.ResultSet

	// Err is the run or delivery error, if any.
	Err error
}

// Handler receives run outcomes. It may be called concurrently.
type Handler func(Event)

// Options configures a Watcher.
type Options struct {
	// Debounce is how long a file must stay quiet before it is scanned.
	Debounce time.Duration

	// Concurrency bounds how many runs execute at once.
	Concurrency int

	// Track is passed to every run.
	Track domain.TrackOptions
}

// Watcher watches a directory tree and scans changed files.
type Watcher struct {
	root    string
	tracker driving.TrackService
	opts    Options
	handler Handler
	fsw     *fsnotify.Watcher

	// Debouncing: last event time per path
	pendingMu sync.Mutex
	pending   map[string]time.Time

	// Content hashes of files already scanned
	hashMu sync.Mutex
	hashes map[string]string
}

// New creates a watcher for root. handler may be nil.
func New(root string, tracker driving.TrackService, opts Options, handler Handler) (*Watcher, error) {
	if tracker == nil {
		return nil, ErrMissingTracker
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidInput, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrInvalidInput, root)
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", root, err)
	}

	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}
	if handler == nil {
		handler = func(Event) {}
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}

	return &Watcher{
		root:    abs,
		tracker: tracker,
		opts:    opts,
		handler: handler,
		fsw:     fsw,
		pending: make(map[string]time.Time),
		hashes:  make(map[string]string),
	}, nil
}

// Root returns the absolute watched directory.
func (w *Watcher) Root() string {
	return w.root
}

// Run watches until ctx is cancelled, then waits for in-flight runs.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	if err := w.addWatchesRecursive(w.root); err != nil {
		return fmt.Errorf("watching %s: %w", w.root, err)
	}
	logger.Info("watching %s (debounce %s)", w.root, w.opts.Debounce)

	var g errgroup.Group
	g.SetLimit(w.opts.Concurrency)

	// Batches block in g.Go while the pool is full, so they run off the loop.
	var batches sync.WaitGroup
	defer func() {
		batches.Wait()
		_ = g.Wait()
	}()

	ticker := time.NewTicker(w.opts.Debounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handleFSEvent(event, time.Now())

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch: %v", err)

		case now := <-ticker.C:
			paths := w.due(now)
			if len(paths) == 0 {
				continue
			}
			batches.Add(1)
			go func() {
				defer batches.Done()
				w.dispatch(ctx, &g, paths)
			}()
		}
	}
}

// addWatchesRecursive adds watches to root and every non-hidden
// directory below it.
func (w *Watcher) addWatchesRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && isHidden(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			logger.Warn("watch: cannot watch %s: %v", path, err)
			return nil
		}
		logger.Debug("watching directory %s", path)
		return nil
	})
}

// handleFSEvent records a change to a scannable file, or starts watching a
// newly created directory.
func (w *Watcher) handleFSEvent(event fsnotify.Event, now time.Time) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}

	path := event.Name
	if isHidden(path) {
		return
	}

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if err := w.addWatchesRecursive(path); err != nil {
				logger.Warn("watch: cannot watch %s: %v", path, err)
			}
			return
		}
	}

	if _, ok := scannableKind(path); !ok {
		return
	}

	w.pendingMu.Lock()
	w.pending[path] = now
	w.pendingMu.Unlock()

	logger.Debug("change detected: %s (%s)", path, event.Op)
}

// due removes and returns the pending paths that have been quiet for at
// least the debounce interval.
func (w *Watcher) due(now time.Time) []string {
	w.pendingMu.Lock()
	defer w.pendingMu.Unlock()

	var ready []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.opts.Debounce {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	return ready
}

// dispatch hands each path to the run pool, waiting for a free slot. The
// content hash is checked by the worker.
func (w *Watcher) dispatch(ctx context.Context, g *errgroup.Group, paths []string) {
	for _, path := range paths {
		if ctx.Err() != nil {
			return
		}
		g.Go(func() error {
			if w.changed(path) {
				w.scan(ctx, path)
			}
			return nil
		})
	}
}

// changed reports whether path holds content not scanned before.
func (w *Watcher) changed(path string) bool {
	hash, err := hashFile(path)
	if err != nil {
		logger.Debug("skipping %s: %v", path, err)
		return false
	}

	w.hashMu.Lock()
	defer w.hashMu.Unlock()
	if w.hashes[path] == hash {
		return false
	}
	w.hashes[path] = hash
	return true
}

// scan runs the tracker for one file and hands the outcome to the handler.
func (w *Watcher) scan(ctx context.Context, path string) {
	kind, _ := scannableKind(path)
	source := domain.NewSourceDescriptor(kind.String(), path)

	result, err := w.tracker.Track(ctx, source, w.opts.Track)
	if err != nil && ctx.Err() != nil {
		return
	}
	w.handler(Event{Path: path, Result: result, Err: err})
}

// scannableKind returns the file kind for paths watch mode can scan.
// Websites are never inferred from a file name.
func scannableKind(path string) (domain.SourceKind, bool) {
	kind, ok := domain.KindForLocation(path)
	if !ok || kind == domain.KindWebsite {
		return "", false
	}
	return kind, true
}

func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
