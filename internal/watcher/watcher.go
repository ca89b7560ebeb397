package watcher

import (
	"errors"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/calegray/lattice/internal/pathutil"
)

// Op classifies a filesystem event for the sync engine.
type Op int

const (
	OpCreate Op = iota
	OpWrite
	OpRemove
	// OpRename marks a path that was renamed away. The watcher cannot pair
	// it with its destination; the new location arrives as a separate
	// OpCreate. Paired renames only enter the engine through the command
	// surface, which knows both endpoints.
	OpRename
)

func (o Op) String() string {
	switch o {
	case OpCreate:
		return "create"
	case OpWrite:
		return "write"
	case OpRemove:
		return "remove"
	case OpRename:
		return "rename"
	}
	return "unknown"
}

// Event is one observed change to a watched path. Paths are canonical
// absolute paths.
type Event struct {
	Path string
	Op   Op
}

// Watcher observes a vault directory recursively and delivers coalesced
// events over a bounded channel. A burst of events for the same path within
// the debounce window collapses to the latest one; ordering between paths
// follows the flush, not the raw event stream.
type Watcher struct {
	fsw      *fsnotify.Watcher
	root     string
	events   chan Event
	done     chan struct{}
	once     sync.Once
	debounce time.Duration
}

// New constructs a watcher rooted at the vault directory. Call Start to
// begin delivery and Close to shut it down.
func New(root string) (*Watcher, error) {
	normalized := pathutil.Canonical(root)
	if normalized == "" {
		return nil, errors.New("vault directory cannot be empty")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		fsw:      fsw,
		root:     normalized,
		events:   make(chan Event, 256),
		done:     make(chan struct{}),
		debounce: 150 * time.Millisecond,
	}

	if err := w.addRecursive(normalized); err != nil {
		_ = w.Close()
		return nil, err
	}

	return w, nil
}

// Events returns the channel the sync engine consumes.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start launches the translation loop in its own goroutine.
func (w *Watcher) Start() {
	go w.loop()
}

// Close stops the watcher. The events channel is closed once the loop has
// flushed its pending state.
func (w *Watcher) Close() error {
	var closeErr error
	w.once.Do(func() {
		close(w.done)
		closeErr = w.fsw.Close()
	})
	return closeErr
}

func (w *Watcher) loop() {
	pending := make(map[string]Event)
	var flush <-chan time.Time

	defer close(w.events)

	for {
		select {
		case <-w.done:
			w.emit(pending)
			return
		case <-flush:
			w.emit(pending)
			pending = make(map[string]Event)
			flush = nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				w.emit(pending)
				return
			}

			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.addRecursive(event.Name); err != nil {
						log.Printf("watcher: failed to watch %s: %v", event.Name, err)
					}
					continue
				}
			}

			translated, ok := translate(event)
			if !ok {
				continue
			}

			// Last event wins within the debounce window.
			pending[translated.Path] = translated
			if flush == nil {
				flush = time.After(w.debounce)
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				w.emit(pending)
				return
			}
			if err != nil {
				log.Printf("watcher: %v", err)
			}
		}
	}
}

// emit flushes pending events in path order. The channel is bounded; if the
// consumer has fallen far behind, events are dropped rather than stalling
// the watcher, and a full reload recovers the difference.
func (w *Watcher) emit(pending map[string]Event) {
	paths := make([]string, 0, len(pending))
	for p := range pending {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		select {
		case w.events <- pending[p]:
		default:
			log.Printf("watcher: event queue full, dropping %s", p)
		}
	}
}

func translate(event fsnotify.Event) (Event, bool) {
	path := pathutil.Canonical(event.Name)
	if path == "" {
		return Event{}, false
	}

	switch {
	case event.Op&fsnotify.Create != 0:
		return Event{Path: path, Op: OpCreate}, true
	case event.Op&fsnotify.Write != 0:
		return Event{Path: path, Op: OpWrite}, true
	case event.Op&fsnotify.Remove != 0:
		return Event{Path: path, Op: OpRemove}, true
	case event.Op&fsnotify.Rename != 0:
		return Event{Path: path, Op: OpRename}, true
	}
	return Event{}, false
}

func (w *Watcher) addRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				return filepath.SkipDir
			}
			return err
		}

		if !d.IsDir() {
			return nil
		}

		return w.fsw.Add(path)
	})
}
