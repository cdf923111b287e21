// Package watch reports Python files saved under a directory tree.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"
)

const DefaultDebounce = 100 * time.Millisecond

// DefaultExclude is always skipped in addition to the configured patterns.
var DefaultExclude = []string{".git", "__pycache__", ".venv", ".tox", "*.swp"}

// Matcher matches paths against exclude globs. A pattern matches the full
// path, the cleaned path or the base name.
type Matcher struct {
	globs []glob.Glob
}

func NewMatcher(patterns []string) (*Matcher, error) {
	m := &Matcher{}
	for _, p := range patterns {
		g, err := glob.Compile(p, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", p, err)
		}
		m.globs = append(m.globs, g)
	}
	return m, nil
}

func (m *Matcher) Match(path string) bool {
	if m == nil {
		return false
	}
	slashed := filepath.ToSlash(path)
	clean := filepath.ToSlash(filepath.Clean(path))
	base := filepath.Base(path)
	for _, g := range m.globs {
		if g.Match(slashed) || g.Match(clean) || g.Match(base) {
			return true
		}
	}
	return false
}

// IsPython reports whether path names a Python source file.
func IsPython(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".py", ".pyw":
		return true
	}
	return false
}

// Handler receives the deduplicated, sorted paths saved during one
// debounce window.
type Handler func(paths []string)

type Options struct {
	Debounce time.Duration
	Exclude  []string
}

// Watcher watches a directory tree and batches saves of Python files.
type Watcher struct {
	root     string
	fsw      *fsnotify.Watcher
	handler  Handler
	debounce time.Duration
	exclude  *Matcher

	changes  chan string
	done     chan struct{}
	stopOnce sync.Once

	mu       sync.Mutex
	watching bool
}

func New(root string, handler Handler, opts Options) (*Watcher, error) {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	exclude, err := NewMatcher(append(slices.Clone(DefaultExclude), opts.Exclude...))
	if err != nil {
		return nil, err
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &Watcher{
		root:     abs,
		fsw:      fsw,
		handler:  handler,
		debounce: opts.Debounce,
		exclude:  exclude,
		changes:  make(chan string, 256),
		done:     make(chan struct{}),
	}, nil
}

// Start adds the tree to the watch list and processes events until ctx is
// cancelled or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.watching {
		w.mu.Unlock()
		return nil
	}
	w.watching = true
	w.mu.Unlock()

	if err := w.addRecursive(w.root); err != nil {
		w.Stop()
		return fmt.Errorf("failed to watch %s: %w", w.root, err)
	}

	go w.processEvents(ctx)
	go w.debounceLoop(ctx)
	return nil
}

func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.fsw.Close()

		w.mu.Lock()
		w.watching = false
		w.mu.Unlock()
	})
}

func (w *Watcher) IsWatching() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.watching
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if path == root {
				return err
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.exclude.Match(path) {
			return filepath.SkipDir
		}
		return w.fsw.Add(path)
	})
}

func (w *Watcher) processEvents(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if w.exclude.Match(event.Name) {
				continue
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addRecursive(event.Name); err != nil {
						slog.Warn("Failed to watch directory", slog.String("path", event.Name), slog.Any("error", err))
					}
					continue
				}
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !IsPython(event.Name) {
				continue
			}

			select {
			case w.changes <- event.Name:
			default:
				slog.Debug("Change dropped", slog.String("path", event.Name))
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			slog.Warn("Watcher error", slog.Any("error", err))
		}
	}
}

func (w *Watcher) debounceLoop(ctx context.Context) {
	pending := make(map[string]struct{})
	var timer *time.Timer
	var timerC <-chan time.Time

	flush := func() {
		if timer != nil {
			timer.Stop()
			timer, timerC = nil, nil
		}
		if len(pending) == 0 {
			return
		}
		paths := make([]string, 0, len(pending))
		for p := range pending {
			paths = append(paths, p)
		}
		clear(pending)
		slices.Sort(paths)
		if w.handler != nil {
			w.handler(paths)
		}
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.done:
			return
		case path := <-w.changes:
			pending[path] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}
		case <-timerC:
			timer, timerC = nil, nil
			flush()
		}
	}
}
