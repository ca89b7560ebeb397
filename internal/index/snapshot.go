package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// snapshotVersion guards against loading snapshots written by an
// incompatible layout; mismatches simply force a fresh scan.
const snapshotVersion = 1

type snapshotFile struct {
	Version int              `json:"version"`
	Notes   map[string]*Note `json:"notes"`
}

// SaveSnapshot serializes the store to path as JSON. Map keys are emitted
// in sorted order so the file stays diff-friendly under version control.
func SaveSnapshot(s *Store, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create snapshot directory: %w", err)
	}

	payload := snapshotFile{Version: snapshotVersion, Notes: s.notes}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads a previously saved store from path. A missing file is
// not an error and yields an empty store; the caller reconciles the result
// against a live directory walk either way, and the walk always wins over
// the snapshot when the two disagree.
func LoadSnapshot(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return NewStore(), nil
		}
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var payload snapshotFile
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if payload.Version != snapshotVersion {
		return NewStore(), nil
	}

	store := NewStore()
	for path, note := range payload.Notes {
		if note == nil || note.Path != path {
			continue
		}
		store.Upsert(note)
	}
	return store, nil
}
