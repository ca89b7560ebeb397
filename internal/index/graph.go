package index

import (
	"sort"
)

// Graph is the derived link structure over a Store: resolved forward and
// reverse adjacency plus raw occurrence and broken-link bookkeeping. It is
// rebuilt wholesale after a bulk load and patched incrementally for single
// note mutations, re-resolving only the sources that could reference an
// affected name.
type Graph struct {
	forward  map[string]map[string]struct{}
	backward map[string]map[string]struct{}
	// occurrences counts raw outgoing targets per source, repeats included.
	occurrences map[string]int
	// broken counts outgoing occurrences per source with no valid target.
	broken map[string]int
	// sources remembers the normalized raw targets each source carried at
	// its last update, so edges can be retracted without the original note.
	sources map[string][]string
	// byTarget maps a normalized raw target to every source mentioning it,
	// resolvable or not. Identity changes consult it to find the sources
	// whose resolutions may have flipped.
	byTarget map[string]map[string]struct{}
}

// NewGraph constructs an empty graph.
func NewGraph() *Graph {
	return &Graph{
		forward:     make(map[string]map[string]struct{}),
		backward:    make(map[string]map[string]struct{}),
		occurrences: make(map[string]int),
		broken:      make(map[string]int),
		sources:     make(map[string][]string),
		byTarget:    make(map[string]map[string]struct{}),
	}
}

// Rebuild recomputes the whole graph from the store. Used after the initial
// scan and full reloads; everything else goes through UpdateNote.
func (g *Graph) Rebuild(s *Store) {
	*g = *NewGraph()
	for _, path := range s.Paths() {
		g.UpdateNote(s, path)
	}
}

// UpdateNote recomputes the outgoing edges of one source path. Call after
// the store entry changed (reparse) or disappeared (the source's edges are
// then retracted).
func (g *Graph) UpdateNote(s *Store, path string) {
	g.retract(path)

	note, ok := s.Get(path)
	if !ok {
		return
	}

	norms := make([]string, 0, len(note.LinkTargets))
	for _, raw := range note.LinkTargets {
		if norm := NormalizeName(raw); norm != "" {
			norms = append(norms, norm)
		}
	}
	g.sources[path] = norms
	g.occurrences[path] = len(norms)

	for _, norm := range norms {
		if g.byTarget[norm] == nil {
			g.byTarget[norm] = make(map[string]struct{})
		}
		g.byTarget[norm][path] = struct{}{}

		target, resolved := s.Resolve(norm)
		if !resolved {
			g.broken[path]++
			continue
		}
		if target == path {
			continue
		}
		if g.forward[path] == nil {
			g.forward[path] = make(map[string]struct{})
		}
		g.forward[path][target] = struct{}{}
		if g.backward[target] == nil {
			g.backward[target] = make(map[string]struct{})
		}
		g.backward[target][path] = struct{}{}
	}
}

// ReresolveName recomputes every source whose raw targets mention the given
// name. Invoked when a note carrying that name appears, disappears or moves.
func (g *Graph) ReresolveName(s *Store, name string) {
	norm := NormalizeName(name)
	affected := make([]string, 0, len(g.byTarget[norm]))
	for src := range g.byTarget[norm] {
		affected = append(affected, src)
	}
	sort.Strings(affected)
	for _, src := range affected {
		g.UpdateNote(s, src)
	}
}

// retract removes all bookkeeping contributed by the given source.
func (g *Graph) retract(path string) {
	for target := range g.forward[path] {
		delete(g.backward[target], path)
		if len(g.backward[target]) == 0 {
			delete(g.backward, target)
		}
	}
	delete(g.forward, path)

	for _, norm := range g.sources[path] {
		if set, ok := g.byTarget[norm]; ok {
			delete(set, path)
			if len(set) == 0 {
				delete(g.byTarget, norm)
			}
		}
	}
	delete(g.sources, path)
	delete(g.occurrences, path)
	delete(g.broken, path)
}

// ForwardLinks returns the deduplicated resolved targets of a note, sorted.
func (g *Graph) ForwardLinks(path string) []string {
	return setToSortedSlice(g.forward[path])
}

// BackwardLinks returns the deduplicated set of notes linking to a note.
func (g *Graph) BackwardLinks(path string) []string {
	return setToSortedSlice(g.backward[path])
}

// Occurrences returns the raw outgoing target count of a note, repeats and
// broken targets included.
func (g *Graph) Occurrences(path string) int {
	return g.occurrences[path]
}

// BrokenCount returns how many outgoing occurrences of a note lack a valid
// target.
func (g *Graph) BrokenCount(path string) int {
	return g.broken[path]
}

// Level2Links returns the forward links of the note's immediate forward
// neighbors, excluding the note itself and those neighbors.
func (g *Graph) Level2Links(path string) []string {
	return g.levelTwo(path, g.forward)
}

// Level2Backlinks returns the backlinks of the note's immediate backlink
// neighbors, excluding the note itself and those neighbors.
func (g *Graph) Level2Backlinks(path string) []string {
	return g.levelTwo(path, g.backward)
}

func (g *Graph) levelTwo(path string, adjacency map[string]map[string]struct{}) []string {
	immediate := adjacency[path]
	second := make(map[string]struct{})
	for neighbor := range immediate {
		for next := range adjacency[neighbor] {
			if next == path {
				continue
			}
			if _, direct := immediate[next]; direct {
				continue
			}
			second[next] = struct{}{}
		}
	}
	return setToSortedSlice(second)
}

// Clone returns a deep copy of the graph.
func (g *Graph) Clone() *Graph {
	out := NewGraph()
	for k, v := range g.forward {
		out.forward[k] = cloneSet(v)
	}
	for k, v := range g.backward {
		out.backward[k] = cloneSet(v)
	}
	for k, v := range g.occurrences {
		out.occurrences[k] = v
	}
	for k, v := range g.broken {
		out.broken[k] = v
	}
	for k, v := range g.sources {
		out.sources[k] = append([]string(nil), v...)
	}
	for k, v := range g.byTarget {
		out.byTarget[k] = cloneSet(v)
	}
	return out
}

func cloneSet(set map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(set))
	for k := range set {
		out[k] = struct{}{}
	}
	return out
}

func setToSortedSlice(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for v := range set {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Referencers returns every source whose raw targets mention the given
// name, whether or not the mention currently resolves.
func (g *Graph) Referencers(name string) []string {
	return setToSortedSlice(g.byTarget[NormalizeName(name)])
}

// OccurrenceTargets returns a copy of the normalized raw targets of a note,
// repeats and broken targets included, in written order.
func (g *Graph) OccurrenceTargets(path string) []string {
	return append([]string(nil), g.sources[path]...)
}
