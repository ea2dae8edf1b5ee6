package lm

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/katalvlaran/gramwalk/gram"
)

// Reloadable is a gram.Model whose data can be swapped while it is queried.
type Reloadable struct {
	mu    sync.RWMutex
	model gram.Model
}

// NewReloadable wraps model. A nil model behaves as empty.
func NewReloadable(model gram.Model) *Reloadable {
	if model == nil {
		model = gram.NewMapModel(nil)
	}

	return &Reloadable{model: model}
}

// Swap installs model and returns the previous one.
func (r *Reloadable) Swap(model gram.Model) gram.Model {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.model
	r.model = model

	return prev
}

// Current returns the installed model.
func (r *Reloadable) Current() gram.Model {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.model
}

// UnigramsFor implements gram.Model.
func (r *Reloadable) UnigramsFor(key string) []gram.Gram {
	return r.Current().UnigramsFor(key)
}

// HasUnigramsFor implements gram.Model.
func (r *Reloadable) HasUnigramsFor(key string) bool {
	return r.Current().HasUnigramsFor(key)
}

// DefaultDebounce is how long the Watcher waits after the last event before
// reloading.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reloads a set of dictionary files into a Reloadable whenever one of
// them is written or (re)created. A failed reload keeps the previous model.
type Watcher struct {
	target   *Reloadable
	paths    []string
	names    map[string]bool
	fsw      *fsnotify.Watcher
	log      *slog.Logger
	debounce time.Duration

	mu      sync.Mutex
	reloads int
}

// NewWatcher watches the directories holding paths. logger may be nil.
func NewWatcher(target *Reloadable, logger *slog.Logger, paths ...string) (*Watcher, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("lm: create watcher: %w", err)
	}
	w := &Watcher{
		target:   target,
		paths:    paths,
		names:    make(map[string]bool, len(paths)),
		fsw:      fsw,
		log:      logger,
		debounce: DefaultDebounce,
	}
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("lm: resolve %s: %w", p, err)
		}
		w.names[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		dirs[dir] = true
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("lm: watch %s: %w", dir, err)
		}
	}

	return w, nil
}

// Reloads returns how many reloads have succeeded.
func (w *Watcher) Reloads() int {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.reloads
}

// Run processes file events until ctx is done, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	var timer *time.Timer
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			abs, err := filepath.Abs(ev.Name)
			if err != nil || !w.names[abs] {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() { w.reload(ctx) })

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("dictionary watcher error", "err", err)
		}
	}
}

// reload runs on the debounce timer, which may fire after Run has returned.
// A done ctx turns it into a no-op.
func (w *Watcher) reload(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	m, err := LoadFiles(ctx, w.paths...)
	if ctx.Err() != nil {
		return
	}
	if err != nil {
		w.log.Warn("dictionary reload failed; keeping previous model", "err", err)
		return
	}
	w.target.Swap(m)

	w.mu.Lock()
	w.reloads++
	w.mu.Unlock()
	w.log.Info("dictionary reloaded", "files", len(w.paths), "keys", m.Len())
}
