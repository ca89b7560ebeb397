package engine

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/calegray/lattice/internal/cache"
	"github.com/calegray/lattice/internal/index"
	"github.com/calegray/lattice/internal/parser"
	"github.com/calegray/lattice/internal/pathutil"
	"github.com/calegray/lattice/internal/watcher"
)

// ErrNoteNotFound signals that a name or path does not resolve to an
// indexed note.
var ErrNoteNotFound = errors.New("note not found")

// Engine owns the entity store and link graph and is the single mutation
// path for both: filesystem events and presentation-layer commands funnel
// through it so the graph invariants stay single-sourced. Readers take
// cloned snapshots; a coarse RW boundary separates them from mutations.
type Engine struct {
	mu      sync.RWMutex
	rules   Ruleset
	store   *index.Store
	graph   *index.Graph
	content *cache.ContentCache
}

// contentCacheSize bounds how many note bodies RawContent keeps around for
// full-text evaluation and previews.
const contentCacheSize = 256

// New constructs an empty engine for the given ruleset. Call Load or
// LoadWithSnapshot before serving reads.
func New(rules Ruleset) *Engine {
	return &Engine{
		rules:   rules,
		store:   index.NewStore(),
		graph:   index.NewGraph(),
		content: cache.NewContentCache(contentCacheSize),
	}
}

// Vault returns the canonical vault root.
func (e *Engine) Vault() string {
	return e.rules.VaultDir
}

// Load discards any current state and rebuilds the store from a full
// directory walk. Files that fail to read or parse are skipped and
// reported; they never abort the scan for their siblings.
func (e *Engine) Load() error {
	return e.load(index.NewStore())
}

// LoadWithSnapshot seeds the store from a serialized snapshot before
// reconciling against a live walk. Snapshot entries are trusted only when
// size and modification time still match the file on disk; the walk is
// authoritative whenever the two disagree.
func (e *Engine) LoadWithSnapshot(snapshotPath string) error {
	seed, err := index.LoadSnapshot(snapshotPath)
	if err != nil {
		log.Printf("engine: ignoring unreadable snapshot: %v", err)
		seed = index.NewStore()
	}
	return e.load(seed)
}

func (e *Engine) load(seed *index.Store) error {
	store := index.NewStore()

	err := filepath.WalkDir(e.rules.VaultDir, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			if errors.Is(walkErr, fs.ErrPermission) {
				log.Printf("engine: skipping unreadable %s", path)
				if d != nil && d.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			return walkErr
		}
		if d.IsDir() {
			name := d.Name()
			if path != e.rules.VaultDir && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			for _, ignored := range e.rules.IgnoredFolders {
				if ignored != "" && strings.EqualFold(name, ignored) {
					return filepath.SkipDir
				}
			}
			return nil
		}

		canonical := pathutil.Canonical(path)
		if !e.rules.Eligible(canonical) {
			return nil
		}

		if note := trustedSeed(seed, canonical); note != nil {
			store.Upsert(note)
			return nil
		}

		note, err := parseFile(canonical)
		if err != nil {
			log.Printf("engine: skipping %s: %v", canonical, err)
			return nil
		}
		store.Upsert(note)
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk vault: %w", err)
	}

	graph := index.NewGraph()
	graph.Rebuild(store)

	e.mu.Lock()
	e.store = store
	e.graph = graph
	e.mu.Unlock()
	return nil
}

// trustedSeed returns the snapshot entry for path when it still matches the
// file on disk, otherwise nil.
func trustedSeed(seed *index.Store, path string) *index.Note {
	note, ok := seed.Get(path)
	if !ok {
		return nil
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil
	}
	if info.Size() != note.Size || !info.ModTime().Equal(note.ModTime) {
		return nil
	}
	return note.Clone()
}

// Reload discards and rebuilds everything from a fresh walk.
func (e *Engine) Reload() error {
	return e.Load()
}

// SaveSnapshot serializes the current store to path.
func (e *Engine) SaveSnapshot(path string) error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return index.SaveSnapshot(e.store, path)
}

// Acquire returns read snapshots of the store and graph, safe to use while
// the engine keeps applying mutations.
func (e *Engine) Acquire() (*index.Store, *index.Graph) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.store.Clone(), e.graph.Clone()
}

// ResolveNote maps a user-supplied name, title or path to the canonical
// path of an indexed note.
func (e *Engine) ResolveNote(name string) (string, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if _, ok := e.store.Get(pathutil.Canonical(name)); ok {
		return pathutil.Canonical(name), nil
	}
	if path, ok := e.store.Resolve(name); ok {
		return path, nil
	}
	return "", fmt.Errorf("%w: %s", ErrNoteNotFound, name)
}

// RawContent returns the current on-disk content of an indexed note.
// Bodies live in a bounded cache validated against the file's size and
// modification time, so readers never see a stale body.
func (e *Engine) RawContent(path string) ([]byte, error) {
	e.mu.RLock()
	_, ok := e.store.Get(path)
	e.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoteNotFound, path)
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if body, hit := e.content.Get(path, info.ModTime(), info.Size()); hit {
		return body, nil
	}

	body, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	e.content.Put(path, body, info.ModTime(), info.Size())
	return body, nil
}

// Run drains the watcher channel and applies mutations sequentially until
// the context is cancelled or the channel closes. This is the single
// consumer the concurrency model relies on.
func (e *Engine) Run(ctx context.Context, events <-chan watcher.Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			e.ApplyEvent(ev)
		}
	}
}

// ApplyEvent translates one filesystem event into store mutations.
// Eligibility is re-checked on every event: a write to a path that stopped
// being eligible degrades to a delete, and a create of a newly eligible
// path behaves like a create regardless of its history.
func (e *Engine) ApplyEvent(ev watcher.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch ev.Op {
	case watcher.OpCreate, watcher.OpWrite:
		if !e.rules.Eligible(ev.Path) {
			e.removeLocked(ev.Path)
			return
		}
		if _, err := os.Stat(ev.Path); err != nil {
			// The burst was coalesced to a path that is already gone.
			e.removeLocked(ev.Path)
			return
		}
		if err := e.upsertLocked(ev.Path); err != nil {
			log.Printf("engine: skipping %s: %v", ev.Path, err)
		}
	case watcher.OpRemove, watcher.OpRename:
		if _, err := os.Stat(ev.Path); err == nil && e.rules.Eligible(ev.Path) {
			// Still present: a rename burst resolved back onto the path.
			if err := e.upsertLocked(ev.Path); err != nil {
				log.Printf("engine: skipping %s: %v", ev.Path, err)
			}
			return
		}
		e.removeLocked(ev.Path)
	}
}

// upsertLocked parses path and inserts or refreshes its note, patching the
// graph and re-resolving any sources that referenced the note's old or new
// names. Caller holds the write lock.
func (e *Engine) upsertLocked(path string) error {
	note, err := parseFile(path)
	if err != nil {
		return err
	}

	names := note.AliasNames()
	if old, ok := e.store.Get(path); ok {
		names = append(names, old.AliasNames()...)
	}

	e.store.Upsert(note)
	e.graph.UpdateNote(e.store, path)
	for _, name := range dedupe(names) {
		e.graph.ReresolveName(e.store, name)
	}
	return nil
}

// removeLocked drops a note and reclassifies every link that pointed at it.
// Removing an untracked path is a no-op. Caller holds the write lock.
func (e *Engine) removeLocked(path string) {
	note, ok := e.store.Get(path)
	if !ok {
		return
	}

	e.store.Remove(path)
	e.content.Remove(path)
	e.graph.UpdateNote(e.store, path)
	for _, name := range note.AliasNames() {
		e.graph.ReresolveName(e.store, name)
	}
}

// parseFile reads and parses one file into a Note. Frontmatter problems
// degrade to best-effort metadata and are only reported.
func parseFile(path string) (*index.Note, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	parsed, parseErr := parser.Parse(content, stem)
	if parseErr != nil {
		log.Printf("engine: malformed frontmatter in %s: %v", path, parseErr)
	}

	return &index.Note{
		Path:          path,
		Title:         parsed.Title,
		Stem:          stem,
		TitleOverride: parsed.Title != stem,
		Tags:          parsed.Tags,
		LinkTargets:   parsed.LinkTargets,
		Words:         parsed.Words,
		Chars:         parsed.Chars,
		ModTime:       info.ModTime(),
		Size:          info.Size(),
	}, nil
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, v := range values {
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
