package engine

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/calegray/lattice/internal/index"
	"github.com/calegray/lattice/internal/parser"
)

// Rename re-keys a note from oldPath to newPath after the file has been
// moved on disk, then rewrites link references in dependent notes. Both
// paths must be canonical. Renames that change eligibility degrade to a
// plain delete or create instead of a re-key.
func (e *Engine) Rename(oldPath, newPath string) error {
	e.mu.Lock()

	if !e.rules.Eligible(newPath) {
		e.removeLocked(oldPath)
		e.mu.Unlock()
		return nil
	}

	old, ok := e.store.Get(oldPath)
	if !ok {
		// A previously untracked file moved into scope.
		err := e.upsertLocked(newPath)
		e.mu.Unlock()
		return err
	}

	oldNames := old.AliasNames()
	oldModTimes := e.referenceModTimes(oldNames, oldPath)

	newStem := strings.TrimSuffix(filepath.Base(newPath), filepath.Ext(newPath))
	note, _ := e.store.Rename(oldPath, newPath, newStem)

	e.graph.UpdateNote(e.store, oldPath)
	e.graph.UpdateNote(e.store, newPath)
	for _, name := range dedupe(append(append([]string(nil), oldNames...), note.AliasNames()...)) {
		e.graph.ReresolveName(e.store, name)
	}

	e.mu.Unlock()

	e.propagate(oldNames, newStem, newPath, oldModTimes)
	return nil
}

// referenceModTimes records the indexed modification time of every note
// referencing one of the given names, so propagation can detect concurrent
// edits. Caller holds the write lock.
func (e *Engine) referenceModTimes(names []string, skip string) map[string]int64 {
	times := make(map[string]int64)
	for _, name := range names {
		for _, src := range e.graph.Referencers(name) {
			if src == skip {
				continue
			}
			if note, ok := e.store.Get(src); ok {
				times[src] = note.ModTime.UnixNano()
			}
		}
	}
	return times
}

// propagate rewrites references to a renamed note in every dependent note.
// The rewrite is whole-token against recognized link syntax only and
// therefore idempotent; plain text containing the old name is untouched.
// Propagation is best-effort: per-file conflicts and IO failures are
// reported and skipped, and a manual reload picks up whatever remains.
func (e *Engine) propagate(oldNames []string, newName, newPath string, modTimes map[string]int64) {
	matches := make(map[string]struct{}, len(oldNames))
	for _, name := range oldNames {
		matches[index.NormalizeName(name)] = struct{}{}
	}
	match := func(target string) bool {
		_, ok := matches[index.NormalizeName(target)]
		return ok
	}

	for src, indexedAt := range modTimes {
		if src == newPath {
			continue
		}
		if err := e.rewriteFile(src, indexedAt, match, newName); err != nil {
			log.Printf("engine: propagation skipped %s: %v", src, err)
		}
	}
}

func (e *Engine) rewriteFile(path string, indexedAt int64, match func(string) bool, newName string) error {
	info, err := os.Stat(path)
	if err != nil {
		return err
	}
	if info.ModTime().UnixNano() != indexedAt {
		return fmt.Errorf("changed since indexing, leaving for next reload")
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	rewritten, changed := parser.RewriteTargets(content, match, newName)
	if !changed {
		return nil
	}

	if err := os.WriteFile(path, rewritten, info.Mode().Perm()); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	return e.upsertLocked(path)
}
