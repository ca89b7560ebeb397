// Package stats aggregates index-wide figures over the whole vault and over
// a filtered local environment, accounting links at occurrence granularity.
package stats

import (
	"sort"
	"strings"

	"github.com/calegray/lattice/internal/index"
)

// Environment holds the aggregate figures for one set of notes. Link
// occurrence counts split three ways by where each end falls relative to
// the set: internal (both ends inside), incoming (outside linking in) and
// outgoing (inside linking out). For the global environment the latter two
// are zero by construction.
type Environment struct {
	Notes      int
	Words      int
	Chars      int
	UniqueTags int
	Internal   int
	Incoming   int
	Outgoing   int
	// Broken counts occurrences written in the set's notes that resolve
	// to no indexed note.
	Broken int
}

// NoteFigures carries the per-note link degree figures: distinct linked
// notes, against the whole index and against the local environment.
type NoteFigures struct {
	Path      string
	Title     string
	Words     int
	Chars     int
	GlobalOut int
	GlobalIn  int
	LocalOut  int
	LocalIn   int
}

// Report pairs the global environment with a local one plus per-note
// figures for the local notes.
type Report struct {
	Global Environment
	Local  Environment
	// Notes are the local environment's members, ordered by path.
	Notes []NoteFigures
}

// Collect computes a report over the given store and graph. local is the
// filtered environment; passing every note yields Local == Global.
func Collect(store *index.Store, graph *index.Graph, local []*index.Note) *Report {
	all := store.Notes()

	allSet := make(map[string]struct{}, len(all))
	for _, n := range all {
		allSet[n.Path] = struct{}{}
	}
	localSet := make(map[string]struct{}, len(local))
	for _, n := range local {
		localSet[n.Path] = struct{}{}
	}

	report := &Report{
		Global: environment(store, graph, all, allSet),
		Local:  environment(store, graph, local, localSet),
	}

	for _, n := range local {
		fig := NoteFigures{
			Path:  n.Path,
			Title: n.Title,
			Words: n.Words,
			Chars: n.Chars,
		}
		for _, target := range graph.ForwardLinks(n.Path) {
			fig.GlobalOut++
			if _, ok := localSet[target]; ok {
				fig.LocalOut++
			}
		}
		for _, src := range graph.BackwardLinks(n.Path) {
			fig.GlobalIn++
			if _, ok := localSet[src]; ok {
				fig.LocalIn++
			}
		}
		report.Notes = append(report.Notes, fig)
	}
	sort.Slice(report.Notes, func(i, j int) bool {
		return report.Notes[i].Path < report.Notes[j].Path
	})

	return report
}

// environment aggregates one note set. Occurrence classification walks
// every indexed note, not only members, because incoming links originate
// outside the set.
func environment(store *index.Store, graph *index.Graph, members []*index.Note, inSet map[string]struct{}) Environment {
	env := Environment{Notes: len(members)}

	tags := make(map[string]struct{})
	for _, n := range members {
		env.Words += n.Words
		env.Chars += n.Chars
		for _, tag := range n.Tags {
			tags[strings.ToLower(tag)] = struct{}{}
		}
	}
	env.UniqueTags = len(tags)

	for _, source := range store.Notes() {
		_, sourceIn := inSet[source.Path]
		for _, norm := range graph.OccurrenceTargets(source.Path) {
			target, resolved := store.Resolve(norm)
			if !resolved {
				if sourceIn {
					env.Broken++
				}
				continue
			}
			_, targetIn := inSet[target]
			switch {
			case sourceIn && targetIn:
				env.Internal++
			case sourceIn:
				env.Outgoing++
			case targetIn:
				env.Incoming++
			}
		}
	}

	return env
}
