// Package watch re-runs a callback when experience documents change on disk.
package watch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/josephgoksu/Guestflow/internal/logger"
)

// DefaultDelay is how long the watcher waits for writes to settle.
const DefaultDelay = 300 * time.Millisecond

// ChangeHandler receives the documents that changed in one debounced batch,
// sorted and de-duplicated.
type ChangeHandler func(paths []string)

// Config configures New.
type Config struct {
	// Paths are the files to watch. Their parent directories are watched
	// so editors that save through rename are seen.
	Paths    []string
	Delay    time.Duration
	OnChange ChangeHandler
	Logger   *logger.Logger
}

// Watcher monitors a fixed set of files.
type Watcher struct {
	watcher   *fsnotify.Watcher
	debouncer *Debouncer
	hashes    *ContentHashTracker
	targets   map[string]struct{}
	log       *logger.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// New creates a watcher. Call Start to begin watching.
func New(cfg Config) (*Watcher, error) {
	if len(cfg.Paths) == 0 {
		return nil, fmt.Errorf("watch: no paths given")
	}
	if cfg.OnChange == nil {
		return nil, fmt.Errorf("watch: OnChange is required")
	}
	if cfg.Delay <= 0 {
		cfg.Delay = DefaultDelay
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.NewNop()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create fsnotify watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	w := &Watcher{
		watcher: fw,
		hashes:  NewContentHashTracker(),
		targets: make(map[string]struct{}, len(cfg.Paths)),
		log:     cfg.Logger,
		ctx:     ctx,
		cancel:  cancel,
	}
	for _, p := range cfg.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			_ = fw.Close()
			cancel()
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		w.targets[abs] = struct{}{}
		w.hashes.HasChanged(abs)
	}
	w.debouncer = NewDebouncer(cfg.Delay, cfg.OnChange)
	return w, nil
}

// Start begins watching.
func (w *Watcher) Start() error {
	dirs := map[string]struct{}{}
	for p := range w.targets {
		dirs[filepath.Dir(p)] = struct{}{}
	}
	for dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		w.log.Debug("watching directory", "dir", dir)
	}

	w.wg.Add(1)
	go w.eventLoop()
	return nil
}

// Stop stops watching and drops pending changes.
func (w *Watcher) Stop() {
	w.cancel()
	_ = w.watcher.Close()
	w.debouncer.Stop()
	w.wg.Wait()
}

func (w *Watcher) eventLoop() {
	defer w.wg.Done()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", "error", err)

		case <-w.ctx.Done():
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path, err := filepath.Abs(event.Name)
	if err != nil {
		return
	}
	if _, ok := w.targets[path]; !ok {
		return
	}

	switch {
	case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
		// The file may come back through a rename; the next write re-hashes it.
		w.hashes.Remove(path)
		return
	case event.Op&(fsnotify.Write|fsnotify.Create) == 0:
		return
	}

	if !w.hashes.HasChanged(path) {
		w.log.Debug("skip unchanged file", "path", path)
		return
	}
	w.log.Debug("file changed", "path", path, "op", event.Op.String())
	w.debouncer.Add(path)
}

// Debouncer batches rapid changes into one callback.
type Debouncer struct {
	pending map[string]struct{}
	timer   *time.Timer
	mu      sync.Mutex
	onFlush ChangeHandler
	delay   time.Duration
	stopped bool
}

// NewDebouncer creates a debouncer that calls onFlush delay after the last Add.
func NewDebouncer(delay time.Duration, onFlush ChangeHandler) *Debouncer {
	return &Debouncer{
		pending: map[string]struct{}{},
		onFlush: onFlush,
		delay:   delay,
	}
}

// Add queues a changed path and restarts the timer.
func (d *Debouncer) Add(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.pending[path] = struct{}{}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.delay, d.flush)
}

func (d *Debouncer) flush() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	paths := make([]string, 0, len(d.pending))
	for p := range d.pending {
		paths = append(paths, p)
	}
	d.pending = map[string]struct{}{}
	d.mu.Unlock()

	if len(paths) > 0 {
		sort.Strings(paths)
		d.onFlush(paths)
	}
}

// Stop cancels any pending flush.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}

// ContentHashTracker remembers file hashes so saves that leave the content
// unchanged do not trigger a re-run.
type ContentHashTracker struct {
	mu     sync.Mutex
	hashes map[string]string
}

// NewContentHashTracker creates an empty tracker.
func NewContentHashTracker() *ContentHashTracker {
	return &ContentHashTracker{hashes: map[string]string{}}
}

// HasChanged records the current hash of path and reports whether it
// differs from the previous one. Unreadable files count as unchanged.
func (t *ContentHashTracker) HasChanged(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	t.mu.Lock()
	defer t.mu.Unlock()
	prev, seen := t.hashes[path]
	t.hashes[path] = hash
	return !seen || prev != hash
}

// Remove forgets path.
func (t *ContentHashTracker) Remove(path string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.hashes, path)
}
