package query

import (
	"errors"
	"testing"

	"github.com/calegray/lattice/internal/index"
)

func note(path, stem string, tags []string, links ...string) *index.Note {
	return &index.Note{
		Path:        path,
		Title:       stem,
		Stem:        stem,
		Tags:        tags,
		LinkTargets: links,
	}
}

func buildIndex(notes ...*index.Note) (*index.Store, *index.Graph) {
	store := index.NewStore()
	for _, n := range notes {
		store.Upsert(n)
	}
	graph := index.NewGraph()
	graph.Rebuild(store)
	return store, graph
}

func paths(results []Result) []string {
	out := make([]string, len(results))
	for i, r := range results {
		out[i] = r.Note.Path
	}
	return out
}

func TestParseGrammar(t *testing.T) {
	f := Parse("#tag1 !#tag2 >NoteX !<NoteY some words | needle text", true)

	want := []Condition{
		{Kind: KindFullText, Arg: "needle text"},
		{Kind: KindTag, Arg: "tag1"},
		{Kind: KindTag, Negated: true, Arg: "tag2"},
		{Kind: KindLink, Arg: "NoteX"},
		{Kind: KindBacklink, Negated: true, Arg: "NoteY"},
		{Kind: KindTitle, Arg: "some words"},
	}
	if len(f.Conds) != len(want) {
		t.Fatalf("expected %d conditions, got %d: %+v", len(want), len(f.Conds), f.Conds)
	}
	for i, c := range want {
		if f.Conds[i] != c {
			t.Errorf("condition %d: expected %+v, got %+v", i, c, f.Conds[i])
		}
	}
	if !f.All {
		t.Fatalf("expected AllOf filter")
	}
}

func TestEvaluateAllOfTagAndLink(t *testing.T) {
	store, graph := buildIndex(
		note("/v/NoteX.md", "NoteX", nil),
		note("/v/a.md", "a", []string{"tag1"}, "NoteX"),
		note("/v/b.md", "b", []string{"tag1", "tag2"}, "NoteX"),
		note("/v/c.md", "c", []string{"tag1"}),
	)

	results := Evaluate(Parse("#tag1 !#tag2 >NoteX", true), store, graph, nil)
	got := paths(results)
	if len(got) != 1 || got[0] != "/v/a.md" {
		t.Fatalf("expected only /v/a.md, got %v", got)
	}
}

func TestEvaluateAnyOf(t *testing.T) {
	store, graph := buildIndex(
		note("/v/a.md", "a", []string{"work"}),
		note("/v/b.md", "b", []string{"home"}),
		note("/v/c.md", "c", nil),
	)

	results := Evaluate(Parse("#work #home", false), store, graph, nil)
	got := paths(results)
	if len(got) != 2 || got[0] != "/v/a.md" || got[1] != "/v/b.md" {
		t.Fatalf("expected a and b, got %v", got)
	}
}

func TestEvaluateBacklinkCondition(t *testing.T) {
	store, graph := buildIndex(
		note("/v/hub.md", "hub", nil, "leaf-one", "leaf-two"),
		note("/v/leaf-one.md", "leaf-one", nil),
		note("/v/leaf-two.md", "leaf-two", nil),
		note("/v/stray.md", "stray", nil),
	)

	results := Evaluate(Parse("<hub", true), store, graph, nil)
	got := paths(results)
	if len(got) != 2 || got[0] != "/v/leaf-one.md" || got[1] != "/v/leaf-two.md" {
		t.Fatalf("expected hub's targets, got %v", got)
	}
}

func TestEvaluateUnresolvableLinkNameMatchesNothing(t *testing.T) {
	store, graph := buildIndex(
		note("/v/a.md", "a", nil, "b"),
		note("/v/b.md", "b", nil),
	)

	if got := Evaluate(Parse(">ghost", true), store, graph, nil); len(got) != 0 {
		t.Fatalf("expected no matches for unresolvable name, got %v", paths(got))
	}
	// Negated, the same condition matches everything.
	if got := Evaluate(Parse("!>ghost", true), store, graph, nil); len(got) != 2 {
		t.Fatalf("expected all notes for negated unresolvable name, got %v", paths(got))
	}
}

func TestEvaluateFuzzyTitleOrdering(t *testing.T) {
	store, graph := buildIndex(
		note("/v/open-source.md", "open source", nil),
		note("/v/operating-systems.md", "operating systems", nil),
		note("/v/unrelated.md", "groceries", nil),
	)

	results := Evaluate(Parse("open", true), store, graph, nil)
	if len(results) != 2 {
		t.Fatalf("expected 2 fuzzy matches, got %v", paths(results))
	}
	if results[0].Note.Path != "/v/open-source.md" {
		t.Fatalf("expected exact-prefix title first, got %v", paths(results))
	}
	if results[0].Score <= results[1].Score {
		t.Fatalf("expected descending scores, got %d then %d", results[0].Score, results[1].Score)
	}
}

func TestEvaluateScoreTiesOrderByPath(t *testing.T) {
	store, graph := buildIndex(
		&index.Note{Path: "/v/b.md", Title: "same title", Stem: "b"},
		&index.Note{Path: "/v/a.md", Title: "same title", Stem: "a"},
	)

	results := Evaluate(Parse("same", true), store, graph, nil)
	got := paths(results)
	if len(got) != 2 || got[0] != "/v/a.md" || got[1] != "/v/b.md" {
		t.Fatalf("expected path-ordered ties, got %v", got)
	}
}

func TestEvaluateFullText(t *testing.T) {
	store, graph := buildIndex(
		note("/v/a.md", "a", nil),
		note("/v/b.md", "b", nil),
	)
	bodies := map[string]string{
		"/v/a.md": "The Quick Brown Fox",
		"/v/b.md": "nothing of note",
	}
	content := func(path string) ([]byte, error) {
		body, ok := bodies[path]
		if !ok {
			return nil, errors.New("missing")
		}
		return []byte(body), nil
	}

	results := Evaluate(Parse("| quick brown", true), store, graph, content)
	got := paths(results)
	if len(got) != 1 || got[0] != "/v/a.md" {
		t.Fatalf("expected case-insensitive full-text match on a, got %v", got)
	}
}

func TestEvaluateEmptyFilterMatchesAll(t *testing.T) {
	store, graph := buildIndex(
		note("/v/a.md", "a", nil),
		note("/v/b.md", "b", nil),
	)

	if got := Evaluate(Parse("", true), store, graph, nil); len(got) != 2 {
		t.Fatalf("expected every note, got %v", paths(got))
	}
}
