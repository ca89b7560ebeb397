package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/calegray/lattice/internal/pathutil"
	"github.com/calegray/lattice/internal/watcher"
)

func testVault(t *testing.T, files map[string]string) (*Engine, string) {
	t.Helper()
	root := pathutil.Canonical(t.TempDir())
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}

	eng := New(Ruleset{
		VaultDir:       root,
		FileTypes:      []string{"md"},
		IgnoredFolders: []string{"archive"},
	})
	if err := eng.Load(); err != nil {
		t.Fatalf("load: %v", err)
	}
	return eng, root
}

func writeNote(t *testing.T, root, name, content string) string {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(name))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadWalksEligibleFilesOnly(t *testing.T) {
	eng, _ := testVault(t, map[string]string{
		"A.md":           "Links to [[B]].",
		"sub/B.md":       "# B\n",
		"archive/old.md": "ignored",
		".hidden/x.md":   "ignored",
		"notes.txt":      "wrong extension",
	})

	store, _ := eng.Acquire()
	if store.Len() != 2 {
		t.Fatalf("expected 2 notes, got %d", store.Len())
	}
	if _, err := eng.ResolveNote("B"); err != nil {
		t.Fatalf("expected B indexed: %v", err)
	}
}

func TestApplyEventCreateModifyDelete(t *testing.T) {
	eng, root := testVault(t, map[string]string{
		"A.md": "Points at [[B]].",
	})

	_, graph := eng.Acquire()
	aPath := filepath.Join(root, "A.md")
	if got := graph.BrokenCount(aPath); got != 1 {
		t.Fatalf("expected 1 broken link before create, got %d", got)
	}

	bPath := writeNote(t, root, "B.md", "# B\n")
	eng.ApplyEvent(watcher.Event{Path: bPath, Op: watcher.OpCreate})

	_, graph = eng.Acquire()
	if got := graph.BrokenCount(aPath); got != 0 {
		t.Fatalf("expected broken link healed, got %d", got)
	}
	if back := graph.BackwardLinks(bPath); len(back) != 1 || back[0] != aPath {
		t.Fatalf("expected backlink from A, got %v", back)
	}

	writeNote(t, root, "A.md", "No more links.")
	eng.ApplyEvent(watcher.Event{Path: aPath, Op: watcher.OpWrite})

	_, graph = eng.Acquire()
	if back := graph.BackwardLinks(bPath); len(back) != 0 {
		t.Fatalf("expected backlink retracted after modify, got %v", back)
	}

	if err := os.Remove(bPath); err != nil {
		t.Fatalf("remove: %v", err)
	}
	eng.ApplyEvent(watcher.Event{Path: bPath, Op: watcher.OpRemove})

	store, _ := eng.Acquire()
	if store.Len() != 1 {
		t.Fatalf("expected 1 note after delete, got %d", store.Len())
	}
}

func TestDeleteReclassifiesDependentsAsBroken(t *testing.T) {
	eng, root := testVault(t, map[string]string{
		"A.md": "See [[B]].",
		"B.md": "# B\n",
	})

	aPath := filepath.Join(root, "A.md")
	bPath := filepath.Join(root, "B.md")

	if err := os.Remove(bPath); err != nil {
		t.Fatalf("remove: %v", err)
	}
	eng.ApplyEvent(watcher.Event{Path: bPath, Op: watcher.OpRemove})

	_, graph := eng.Acquire()
	if got := graph.BrokenCount(aPath); got != 1 {
		t.Fatalf("expected A's link reclassified broken, got %d", got)
	}
	if fwd := graph.ForwardLinks(aPath); len(fwd) != 0 {
		t.Fatalf("expected no resolved forward links, got %v", fwd)
	}
}

func TestIneligibleWriteDegradesToDelete(t *testing.T) {
	eng, root := testVault(t, map[string]string{
		"A.md": "# A\n",
	})

	aPath := filepath.Join(root, "A.md")
	eng.rules.FileTypes = []string{"org"}
	eng.ApplyEvent(watcher.Event{Path: aPath, Op: watcher.OpWrite})

	store, _ := eng.Acquire()
	if store.Len() != 0 {
		t.Fatalf("expected note dropped after rule change, got %d", store.Len())
	}
}

func TestSnapshotRoundTripMatchesWalk(t *testing.T) {
	eng, root := testVault(t, map[string]string{
		"A.md": "Links [[B]] and #topic.",
		"B.md": "# B\nBody here.",
	})

	snap := filepath.Join(root, ".lattice-index.json")
	if err := eng.SaveSnapshot(snap); err != nil {
		t.Fatalf("save snapshot: %v", err)
	}

	// A changes after the snapshot was taken; the walk must win.
	writeNote(t, root, "A.md", "Rewritten, no links.")

	fresh := New(eng.rules)
	if err := fresh.LoadWithSnapshot(snap); err != nil {
		t.Fatalf("load with snapshot: %v", err)
	}

	store, graph := fresh.Acquire()
	a, ok := store.Get(filepath.Join(root, "A.md"))
	if !ok {
		t.Fatalf("expected A present")
	}
	if len(a.LinkTargets) != 0 {
		t.Fatalf("expected stale snapshot entry replaced, got links %v", a.LinkTargets)
	}
	if got := graph.Occurrences(filepath.Join(root, "A.md")); got != 0 {
		t.Fatalf("expected 0 occurrences after rewrite, got %d", got)
	}
}

func TestResolveNoteByNameTitleAndPath(t *testing.T) {
	eng, root := testVault(t, map[string]string{
		"operating systems.md": "---\ntitle: OS Study\n---\nBody.",
	})

	path := filepath.Join(root, "operating systems.md")
	for _, query := range []string{"operating-systems", "Operating Systems", "os-study", path} {
		got, err := eng.ResolveNote(query)
		if err != nil {
			t.Fatalf("resolve %q: %v", query, err)
		}
		if got != path {
			t.Fatalf("resolve %q: expected %s, got %s", query, path, got)
		}
	}

	if _, err := eng.ResolveNote("missing"); err == nil {
		t.Fatalf("expected error for unknown name")
	}
}

func TestCreateDeleteNoteCommands(t *testing.T) {
	eng, root := testVault(t, nil)

	path, err := eng.CreateNote("ideas/first thought")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if filepath.Ext(path) != ".md" {
		t.Fatalf("expected default extension applied, got %s", path)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read created note: %v", err)
	}
	if string(content) != "# first thought\n" {
		t.Fatalf("unexpected seeded content %q", content)
	}

	store, _ := eng.Acquire()
	if store.Len() != 1 {
		t.Fatalf("expected created note indexed, got %d", store.Len())
	}

	if _, err := eng.CreateNote("ideas/first thought"); err == nil {
		t.Fatalf("expected error creating existing note")
	}

	if err := eng.DeleteNote("first-thought"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("expected file removed, stat err %v", err)
	}
	store, _ = eng.Acquire()
	if store.Len() != 0 {
		t.Fatalf("expected empty store after delete, got %d", store.Len())
	}
	_ = root
}

func TestMoveNoteIntoDirectory(t *testing.T) {
	eng, root := testVault(t, map[string]string{
		"A.md": "# A\n",
	})
	if err := os.MkdirAll(filepath.Join(root, "projects"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	newPath, err := eng.MoveNote("A", "projects/")
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	want := filepath.Join(root, "projects", "A.md")
	if newPath != want {
		t.Fatalf("expected %s, got %s", want, newPath)
	}
	if _, err := eng.ResolveNote("A"); err != nil {
		t.Fatalf("expected A still resolvable after move: %v", err)
	}
}

func TestRunDrainsEventChannel(t *testing.T) {
	eng, root := testVault(t, map[string]string{
		"a.md": "A is alone.\n",
	})

	path := writeNote(t, root, "b.md", "B links to [[A]].\n")

	events := make(chan watcher.Event, 2)
	events <- watcher.Event{Path: path, Op: watcher.OpCreate}
	close(events)

	eng.Run(context.Background(), events)

	store, graph := eng.Acquire()
	if _, ok := store.Get(path); !ok {
		t.Fatalf("expected %s to be indexed after Run drained the channel", path)
	}
	back := graph.BackwardLinks(pathutil.Canonical(filepath.Join(root, "a.md")))
	if len(back) != 1 || back[0] != path {
		t.Fatalf("expected a.md backlink from %s, got %v", path, back)
	}
}

func TestRunStopsOnContextCancel(t *testing.T) {
	eng, _ := testVault(t, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	done := make(chan struct{})
	go func() {
		eng.Run(ctx, make(chan watcher.Event))
		close(done)
	}()
	<-done
}
