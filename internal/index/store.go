package index

import (
	"sort"
)

// Store owns every Note record, keyed by canonical absolute path. Derived
// structures (Graph, TagIndex) are recomputed from it and hold no
// independent state. The store itself is not synchronized; the engine
// serializes mutations and guards readers with a single RW boundary.
type Store struct {
	notes map[string]*Note
	// aliases maps normalized names (file stems and display titles) to the
	// canonical paths carrying them. Duplicate titles are a configuration
	// hazard; resolution picks the lexicographically smallest path so the
	// outcome is at least deterministic.
	aliases map[string][]string
}

// NewStore constructs an empty store.
func NewStore() *Store {
	return &Store{
		notes:   make(map[string]*Note),
		aliases: make(map[string][]string),
	}
}

// Len returns the number of indexed notes.
func (s *Store) Len() int {
	return len(s.notes)
}

// Get returns the note stored under the given canonical path.
func (s *Store) Get(path string) (*Note, bool) {
	n, ok := s.notes[path]
	return n, ok
}

// Paths returns all note identifiers in lexicographic order.
func (s *Store) Paths() []string {
	paths := make([]string, 0, len(s.notes))
	for p := range s.notes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// Notes returns all notes ordered by path.
func (s *Store) Notes() []*Note {
	out := make([]*Note, 0, len(s.notes))
	for _, p := range s.Paths() {
		out = append(out, s.notes[p])
	}
	return out
}

// Upsert inserts or overwrites the note keyed by its path. It reports
// whether the operation created a new entry rather than updating one.
func (s *Store) Upsert(note *Note) bool {
	old, existed := s.notes[note.Path]
	if existed {
		s.dropAliases(old)
	}
	s.notes[note.Path] = note
	s.addAliases(note)
	return !existed
}

// Remove deletes the note under path. Removing an absent path is a no-op.
func (s *Store) Remove(path string) {
	note, ok := s.notes[path]
	if !ok {
		return
	}
	s.dropAliases(note)
	delete(s.notes, path)
}

// Rename re-keys a note from oldPath to newPath without reparsing its
// content. The new stem is applied and the title re-derived from it unless
// a frontmatter override is in place.
func (s *Store) Rename(oldPath, newPath, newStem string) (*Note, bool) {
	note, ok := s.notes[oldPath]
	if !ok {
		return nil, false
	}

	s.dropAliases(note)
	delete(s.notes, oldPath)

	note.Path = newPath
	note.Stem = newStem
	if !note.TitleOverride {
		note.Title = newStem
	}

	s.notes[newPath] = note
	s.addAliases(note)
	return note, true
}

// Resolve maps a raw link target to the path of the note it refers to.
// Matching is case-insensitive and treats spaces and dashes as equivalent.
// The second return is false for broken targets.
func (s *Store) Resolve(target string) (string, bool) {
	key := NormalizeName(target)
	if key == "" {
		return "", false
	}
	candidates := s.aliases[key]
	if len(candidates) == 0 {
		return "", false
	}
	return candidates[0], true
}

// Clone returns a deep copy of the store, safe to read while the original
// keeps mutating.
func (s *Store) Clone() *Store {
	out := NewStore()
	for path, note := range s.notes {
		out.notes[path] = note.Clone()
	}
	for key, paths := range s.aliases {
		out.aliases[key] = append([]string(nil), paths...)
	}
	return out
}

func (s *Store) addAliases(note *Note) {
	for _, key := range note.AliasNames() {
		paths := s.aliases[key]
		idx := sort.SearchStrings(paths, note.Path)
		if idx < len(paths) && paths[idx] == note.Path {
			continue
		}
		paths = append(paths, "")
		copy(paths[idx+1:], paths[idx:])
		paths[idx] = note.Path
		s.aliases[key] = paths
	}
}

func (s *Store) dropAliases(note *Note) {
	for _, key := range note.AliasNames() {
		paths := s.aliases[key]
		idx := sort.SearchStrings(paths, note.Path)
		if idx >= len(paths) || paths[idx] != note.Path {
			continue
		}
		paths = append(paths[:idx], paths[idx+1:]...)
		if len(paths) == 0 {
			delete(s.aliases, key)
			continue
		}
		s.aliases[key] = paths
	}
}

