package engine

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRenamePropagatesThroughDependents(t *testing.T) {
	eng, root := testVault(t, map[string]string{
		"A.md": "A links to [[B]].\n",
		"B.md": "# B\n",
		"C.md": "C links to [[B|the b note]] and [[A]].\n",
	})

	newPath, err := eng.RenameNote("B", "B2")
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if want := filepath.Join(root, "B2.md"); newPath != want {
		t.Fatalf("expected %s, got %s", want, newPath)
	}

	aContent, err := os.ReadFile(filepath.Join(root, "A.md"))
	if err != nil {
		t.Fatalf("read A: %v", err)
	}
	if string(aContent) != "A links to [[B2]].\n" {
		t.Fatalf("unexpected A content %q", aContent)
	}

	cContent, err := os.ReadFile(filepath.Join(root, "C.md"))
	if err != nil {
		t.Fatalf("read C: %v", err)
	}
	if string(cContent) != "C links to [[B2|the b note]] and [[A]].\n" {
		t.Fatalf("unexpected C content %q", cContent)
	}

	_, graph := eng.Acquire()
	cPath := filepath.Join(root, "C.md")
	fwd := graph.ForwardLinks(cPath)
	want := map[string]bool{
		filepath.Join(root, "A.md"):  true,
		filepath.Join(root, "B2.md"): true,
	}
	if len(fwd) != 2 || !want[fwd[0]] || !want[fwd[1]] {
		t.Fatalf("expected C forward links {A, B2}, got %v", fwd)
	}
	for _, path := range []string{filepath.Join(root, "A.md"), cPath} {
		if got := graph.BrokenCount(path); got != 0 {
			t.Fatalf("expected no broken links in %s, got %d", path, got)
		}
	}
}

func TestRenamePropagationIsIdempotent(t *testing.T) {
	eng, root := testVault(t, map[string]string{
		"A.md": "See [[B2]] already.\n",
		"B.md": "# B\n",
	})

	if _, err := eng.RenameNote("B", "B2"); err != nil {
		t.Fatalf("rename: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(root, "A.md"))
	if err != nil {
		t.Fatalf("read A: %v", err)
	}
	if string(content) != "See [[B2]] already.\n" {
		t.Fatalf("expected already-current reference untouched, got %q", content)
	}
}

func TestRenameLeavesPlainTextAlone(t *testing.T) {
	eng, root := testVault(t, map[string]string{
		"A.md": "The word B appears in prose, the link is [[B]].\n",
		"B.md": "# B\n",
	})

	if _, err := eng.RenameNote("B", "B2"); err != nil {
		t.Fatalf("rename: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(root, "A.md"))
	if err != nil {
		t.Fatalf("read A: %v", err)
	}
	if string(content) != "The word B appears in prose, the link is [[B2]].\n" {
		t.Fatalf("expected only link syntax rewritten, got %q", content)
	}
}

func TestRenameSkipsConcurrentlyEditedDependent(t *testing.T) {
	eng, root := testVault(t, map[string]string{
		"A.md": "See [[B]].\n",
		"B.md": "# B\n",
	})

	// Simulate an edit the index has not absorbed: bump A's mtime without
	// replaying the event through the engine.
	aPath := filepath.Join(root, "A.md")
	if err := os.WriteFile(aPath, []byte("Edited, still [[B]].\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	future := mustStatTime(t, aPath).Add(2_000_000_000)
	if err := os.Chtimes(aPath, future, future); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	if _, err := eng.RenameNote("B", "B2"); err != nil {
		t.Fatalf("rename: %v", err)
	}

	content, err := os.ReadFile(aPath)
	if err != nil {
		t.Fatalf("read A: %v", err)
	}
	if string(content) != "Edited, still [[B]].\n" {
		t.Fatalf("expected conflicting file left untouched, got %q", content)
	}
}

func TestRenameRederivesTitleUnlessOverridden(t *testing.T) {
	eng, root := testVault(t, map[string]string{
		"plain.md":      "No frontmatter here.\n",
		"overridden.md": "---\ntitle: Kept Title\n---\nBody.\n",
	})

	if _, err := eng.RenameNote("plain", "renamed-plain"); err != nil {
		t.Fatalf("rename plain: %v", err)
	}
	if _, err := eng.RenameNote("overridden", "renamed-overridden"); err != nil {
		t.Fatalf("rename overridden: %v", err)
	}

	store, _ := eng.Acquire()
	plain, ok := store.Get(filepath.Join(root, "renamed-plain.md"))
	if !ok || plain.Title != "renamed-plain" {
		t.Fatalf("expected derived title renamed-plain, got %+v", plain)
	}
	kept, ok := store.Get(filepath.Join(root, "renamed-overridden.md"))
	if !ok || kept.Title != "Kept Title" {
		t.Fatalf("expected frontmatter title kept, got %+v", kept)
	}
}
