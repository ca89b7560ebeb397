package index

import (
	"sort"
	"strings"
)

// TagIndex maps normalized tag paths to the notes carrying them. It is a
// derived view over the store, recomputed on demand.
type TagIndex struct {
	byTag map[string][]string
}

// BuildTagIndex collects every tag in the store.
func BuildTagIndex(s *Store) *TagIndex {
	byTag := make(map[string]map[string]struct{})
	for _, note := range s.Notes() {
		for _, tag := range note.Tags {
			key := strings.ToLower(tag)
			if byTag[key] == nil {
				byTag[key] = make(map[string]struct{})
			}
			byTag[key][note.Path] = struct{}{}
		}
	}

	idx := &TagIndex{byTag: make(map[string][]string, len(byTag))}
	for tag, paths := range byTag {
		idx.byTag[tag] = setToSortedSlice(paths)
	}
	return idx
}

// Tags returns every known tag path in lexicographic order.
func (t *TagIndex) Tags() []string {
	tags := make([]string, 0, len(t.byTag))
	for tag := range t.byTag {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Notes returns the paths of all notes tagged with the given tag or any of
// its nested children.
func (t *TagIndex) Notes(tag string) []string {
	matched := make(map[string]struct{})
	for known, paths := range t.byTag {
		if !TagMatches(known, tag) {
			continue
		}
		for _, p := range paths {
			matched[p] = struct{}{}
		}
	}
	return setToSortedSlice(matched)
}

// Count returns how many notes carry the given tag or a nested child of it.
func (t *TagIndex) Count(tag string) int {
	return len(t.Notes(tag))
}
