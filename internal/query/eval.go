package query

import (
	"bytes"
	"os"
	"sort"

	"github.com/sahilm/fuzzy"

	"github.com/calegray/lattice/internal/index"
)

// Result pairs a matching note with its fuzzy title score. Notes matched
// without a title condition carry a zero score.
type Result struct {
	Note  *index.Note
	Score int
}

// Evaluate runs the filter over every indexed note and returns matches in
// descending score order, ties broken by path so output is stable. content
// loads a note's on-disk text for full-text conditions; nil falls back to
// reading the file directly.
func Evaluate(f Filter, store *index.Store, graph *index.Graph, content func(string) ([]byte, error)) []Result {
	if content == nil {
		content = os.ReadFile
	}

	notes := store.Notes()
	scores := titleScores(f, notes)

	// Link and backlink arguments resolve once, against the same alias
	// table note links use. Unresolvable names simply never match.
	targets := make(map[string]string)
	for _, c := range f.Conds {
		if c.Kind != KindLink && c.Kind != KindBacklink {
			continue
		}
		if path, ok := store.Resolve(c.Arg); ok {
			targets[c.Arg] = path
		}
	}

	var results []Result
	for i, note := range notes {
		score, hasScore := scores[i]
		if matches(f, note, graph, targets, hasScore, content) {
			results = append(results, Result{Note: note, Score: score})
		}
	}

	sort.SliceStable(results, func(a, b int) bool {
		if results[a].Score != results[b].Score {
			return results[a].Score > results[b].Score
		}
		return results[a].Note.Path < results[b].Note.Path
	})
	return results
}

func matches(
	f Filter,
	note *index.Note,
	graph *index.Graph,
	targets map[string]string,
	titleMatched bool,
	content func(string) ([]byte, error),
) bool {
	if len(f.Conds) == 0 {
		return true
	}

	for _, c := range f.Conds {
		ok := false
		switch c.Kind {
		case KindTag:
			ok = note.HasTag(c.Arg)
		case KindLink:
			if path, resolved := targets[c.Arg]; resolved {
				ok = containsPath(graph.ForwardLinks(note.Path), path)
			}
		case KindBacklink:
			if path, resolved := targets[c.Arg]; resolved {
				ok = containsPath(graph.BackwardLinks(note.Path), path)
			}
		case KindTitle:
			ok = titleMatched
		case KindFullText:
			body, err := content(note.Path)
			// An unreadable note simply fails the condition.
			ok = err == nil && bytes.Contains(bytes.ToLower(body), bytes.ToLower([]byte(c.Arg)))
		}

		if c.Negated {
			ok = !ok
		}

		if f.All && !ok {
			return false
		}
		if !f.All && ok {
			return true
		}
	}

	return f.All
}

// titleScores fuzzy-matches the filter's title query against every note
// title and returns note-index -> score for the matches.
func titleScores(f Filter, notes []*index.Note) map[int]int {
	pattern := f.TitleQuery()
	scores := make(map[int]int)
	if pattern == "" {
		return scores
	}

	titles := make([]string, len(notes))
	for i, note := range notes {
		titles[i] = note.Title
	}
	for _, m := range fuzzy.Find(pattern, titles) {
		scores[m.Index] = m.Score
	}
	return scores
}

func containsPath(paths []string, path string) bool {
	for _, p := range paths {
		if p == path {
			return true
		}
	}
	return false
}
