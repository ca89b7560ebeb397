package pathutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNormalizePathHandlesWindowsSeparators(t *testing.T) {
	got := NormalizePath("vault\\sub\\note.md")
	want := filepath.Join("vault", "sub", "note.md")
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestCanonicalIsAbsolute(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "note.md")
	if err := os.WriteFile(file, []byte("# note"), 0o644); err != nil {
		t.Fatalf("failed to write note: %v", err)
	}

	got := Canonical(file)
	if !filepath.IsAbs(got) {
		t.Fatalf("expected absolute path, got %q", got)
	}

	// A missing file still canonicalizes to a comparable absolute path.
	missing := Canonical(filepath.Join(dir, "gone.md"))
	if !filepath.IsAbs(missing) {
		t.Fatalf("expected absolute path for missing file, got %q", missing)
	}
}

func TestVaultRelativeReturnsForwardSlashes(t *testing.T) {
	vault := filepath.Join("home", "user", "vault")
	file := filepath.Join("home", "user", "vault", "subdir", "file.md")

	rel, err := VaultRelative(vault, file)
	if err != nil {
		t.Fatalf("VaultRelative returned error: %v", err)
	}
	if rel != "subdir/file.md" {
		t.Fatalf("expected relative path 'subdir/file.md', got %q", rel)
	}

	windowsVault := strings.ReplaceAll(vault, string(filepath.Separator), "\\")
	windowsFile := strings.ReplaceAll(file, string(filepath.Separator), "\\")

	rel, err = VaultRelative(windowsVault, windowsFile)
	if err != nil {
		t.Fatalf("VaultRelative returned error for Windows paths: %v", err)
	}
	if rel != "subdir/file.md" {
		t.Fatalf("expected relative path 'subdir/file.md', got %q", rel)
	}
}
