package engine

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/calegray/lattice/internal/pathutil"
)

// Presentation-layer commands. These mutate the filesystem first and then
// apply the matching index mutation synchronously, so callers observe the
// result immediately instead of waiting for the watcher to echo it back.
// The later watcher event re-parses the same state and is harmless.

// CreateNote creates a note file relative to the vault and indexes it. The
// file is seeded with a heading derived from its name so it is never empty.
// The returned path is canonical.
func (e *Engine) CreateNote(name string) (string, error) {
	if strings.TrimSpace(name) == "" {
		return "", errors.New("note name cannot be empty")
	}

	path := filepath.Join(e.rules.VaultDir, filepath.FromSlash(name))
	path = e.ensureExtension(path)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create note directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("note already exists: %s", path)
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	content := fmt.Sprintf("# %s\n", stem)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("create note: %w", err)
	}

	canonical := pathutil.Canonical(path)
	if !e.rules.Eligible(canonical) {
		return canonical, nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.upsertLocked(canonical); err != nil {
		return canonical, err
	}
	return canonical, nil
}

// DeleteNote removes the note file for the given name or path from disk and
// drops it from the index.
func (e *Engine) DeleteNote(name string) error {
	path, err := e.ResolveNote(name)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("delete note: %w", err)
	}

	e.mu.Lock()
	e.removeLocked(path)
	e.mu.Unlock()
	return nil
}

// RenameNote gives the note a new file name within its current directory
// and propagates the rename through dependent notes. newName must be a
// plain file name, not a path.
func (e *Engine) RenameNote(name, newName string) (string, error) {
	if strings.ContainsAny(newName, "/\\") {
		return "", errors.New("new name cannot be a path")
	}
	if strings.TrimSpace(newName) == "" {
		return "", errors.New("new name cannot be empty")
	}

	oldPath, err := e.ResolveNote(name)
	if err != nil {
		return "", err
	}

	newPath := filepath.Join(filepath.Dir(oldPath), newName)
	if filepath.Ext(newPath) == "" {
		newPath += filepath.Ext(oldPath)
	}

	return e.moveNoteFile(oldPath, newPath)
}

// MoveNote relocates the note under a vault-relative destination. A
// destination ending in a separator (or naming an existing directory)
// keeps the current file name.
func (e *Engine) MoveNote(name, destination string) (string, error) {
	oldPath, err := e.ResolveNote(name)
	if err != nil {
		return "", err
	}

	newPath := filepath.Join(e.rules.VaultDir, filepath.FromSlash(destination))
	if strings.HasSuffix(destination, "/") || isDir(newPath) {
		newPath = filepath.Join(newPath, filepath.Base(oldPath))
	} else if filepath.Ext(newPath) == "" {
		newPath += filepath.Ext(oldPath)
	}

	return e.moveNoteFile(oldPath, newPath)
}

func (e *Engine) moveNoteFile(oldPath, newPath string) (string, error) {
	if err := os.MkdirAll(filepath.Dir(newPath), 0o755); err != nil {
		return "", fmt.Errorf("create destination directory: %w", err)
	}
	if err := os.Rename(oldPath, newPath); err != nil {
		return "", fmt.Errorf("move note: %w", err)
	}

	canonical := pathutil.Canonical(newPath)
	if err := e.Rename(oldPath, canonical); err != nil {
		return canonical, err
	}
	return canonical, nil
}

// ensureExtension appends the first configured file type when the name
// carries no extension and extensionless files are not tracked.
func (e *Engine) ensureExtension(path string) string {
	if filepath.Ext(path) != "" {
		return path
	}
	for _, ft := range e.rules.FileTypes {
		if ft == "all" || ft == "" {
			return path
		}
		return path + "." + ft
	}
	return path
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
