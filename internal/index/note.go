package index

import (
	"strings"
	"time"
)

// Note is the indexed representation of one text file. It carries extracted
// metadata but not the file's full text; raw content is always re-read from
// disk so the index never serves stale bodies.
type Note struct {
	// Path is the canonical absolute path of the underlying file and the
	// note's stable identity within the store.
	Path string `json:"path"`
	// Title is the display title: a frontmatter override when present,
	// otherwise derived from the file name.
	Title string `json:"title"`
	// Stem is the file name without directory or extension.
	Stem string `json:"stem"`
	// TitleOverride records whether Title came from frontmatter. Renames
	// only re-derive the title when this is false.
	TitleOverride bool `json:"title_override,omitempty"`
	// Tags are slash-delimited hierarchical tag paths, in order of first
	// appearance, without the leading hash.
	Tags []string `json:"tags,omitempty"`
	// LinkTargets are the outgoing link targets as written, pre-resolution
	// and including repeats.
	LinkTargets []string `json:"links,omitempty"`
	Words       int      `json:"words"`
	Chars       int      `json:"chars"`

	ModTime time.Time `json:"mod_time"`
	Size    int64     `json:"size"`
}

// Clone returns a deep copy of the note.
func (n *Note) Clone() *Note {
	if n == nil {
		return nil
	}
	out := *n
	out.Tags = append([]string(nil), n.Tags...)
	out.LinkTargets = append([]string(nil), n.LinkTargets...)
	return &out
}

// HasTag reports whether the note carries the given tag or any nested child
// of it, matching case-insensitively on /-delimited segments.
func (n *Note) HasTag(tag string) bool {
	for _, t := range n.Tags {
		if TagMatches(t, tag) {
			return true
		}
	}
	return false
}

// AliasNames returns the normalized names under which this note is
// resolvable: its file stem and, when different, its display title.
func (n *Note) AliasNames() []string {
	keys := make([]string, 0, 2)
	stem := NormalizeName(n.Stem)
	if stem != "" {
		keys = append(keys, stem)
	}
	if title := NormalizeName(n.Title); title != "" && title != stem {
		keys = append(keys, title)
	}
	return keys
}

// NormalizeName maps a note name, title or link target to its canonical
// lookup form: trimmed, case-folded, with whitespace runs collapsed to a
// single dash. Authors may write multi-word titles with spaces or dashes
// interchangeably; both normalize to the same key.
func NormalizeName(name string) string {
	fields := strings.FieldsFunc(strings.ToLower(name), func(r rune) bool {
		return r == '-' || r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	return strings.Join(fields, "-")
}

// TagMatches reports whether tag equals query or is nested below it, e.g.
// math/topology matches queries math and math/topology but not topology.
func TagMatches(tag, query string) bool {
	tag = strings.ToLower(strings.TrimPrefix(tag, "#"))
	query = strings.ToLower(strings.TrimPrefix(query, "#"))
	if tag == query {
		return true
	}
	return strings.HasPrefix(tag, query+"/")
}
