package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, home, content string) {
	t.Helper()
	path := GetConfigPath(home)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestLoadEmptyConfigCreatesDefaultWorkspace(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, "")

	cfg, err := Load(home)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.CurrentWorkspace != "default" {
		t.Fatalf("expected default workspace, got %q", cfg.CurrentWorkspace)
	}

	ws, err := cfg.ActiveWorkspace()
	if err != nil {
		t.Fatalf("active workspace: %v", err)
	}
	if len(ws.FileTypes) != 1 || ws.FileTypes[0] != "md" {
		t.Fatalf("expected md default file type, got %v", ws.FileTypes)
	}
}

func TestLoadParsesWorkspaces(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, `
workspaces:
  notes:
    vaultdir: /srv/notes
    editor: vim
    file_types: [md, txt]
    ignored_folders: [archive]
    match_all: true
  scratch:
    vaultdir: /srv/scratch
current_workspace: notes
`)

	cfg, err := Load(home)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	ws, err := cfg.ActiveWorkspace()
	if err != nil {
		t.Fatalf("active workspace: %v", err)
	}
	if ws.VaultDir != "/srv/notes" || ws.Editor != "vim" || !ws.MatchAll {
		t.Fatalf("unexpected workspace %+v", ws)
	}
	if len(ws.FileTypes) != 2 {
		t.Fatalf("expected 2 file types, got %v", ws.FileTypes)
	}

	names := cfg.WorkspaceNames()
	if len(names) != 2 || names[0] != "notes" || names[1] != "scratch" {
		t.Fatalf("unexpected workspace names %v", names)
	}
}

func TestLoadRejectsUnknownEditor(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, `
workspaces:
  default:
    vaultdir: /srv/notes
    editor: butterfly
current_workspace: default
`)

	if _, err := Load(home); err == nil {
		t.Fatalf("expected editor validation error")
	}
}

func TestActivateWorkspace(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, `
workspaces:
  a:
    vaultdir: /srv/a
  b:
    vaultdir: /srv/b
current_workspace: a
`)

	cfg, err := Load(home)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := cfg.ActivateWorkspace("b"); err != nil {
		t.Fatalf("activate: %v", err)
	}
	if cfg.MustWorkspace().VaultDir != "/srv/b" {
		t.Fatalf("expected workspace b active, got %+v", cfg.MustWorkspace())
	}
	if err := cfg.ActivateWorkspace("missing"); err == nil {
		t.Fatalf("expected error for unknown workspace")
	}
}

func TestSnapshotPathDefault(t *testing.T) {
	ws := &Workspace{}
	got := ws.SnapshotPath("/home/u", "notes")
	want := filepath.Join("/home/u", ".lattice", "notes-index.json")
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}

	ws.Snapshot = "/tmp/custom.json"
	if got := ws.SnapshotPath("/home/u", "notes"); got != "/tmp/custom.json" {
		t.Fatalf("expected override honored, got %s", got)
	}
}
