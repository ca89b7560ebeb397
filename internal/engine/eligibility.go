package engine

import (
	"path/filepath"
	"strings"

	"github.com/calegray/lattice/internal/pathutil"
)

// Ruleset decides which files the index tracks. It is treated as a pure
// function of the path and re-evaluated on every event, so rule changes
// take effect without special casing.
type Ruleset struct {
	// VaultDir is the canonical root below which files are considered.
	VaultDir string
	// FileTypes is the extension allow-list, without dots. The single
	// entry "all" tracks every extension.
	FileTypes []string
	// IgnoredFolders are directory names excluded at any depth.
	IgnoredFolders []string
}

// Eligible reports whether the given path should be indexed.
func (r Ruleset) Eligible(path string) bool {
	normalized := pathutil.NormalizePath(path)

	rel, err := filepath.Rel(r.VaultDir, normalized)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || strings.HasPrefix(rel, "../") || rel == ".." {
		return false
	}

	segments := strings.Split(rel, "/")
	for _, segment := range segments[:len(segments)-1] {
		if strings.HasPrefix(segment, ".") {
			return false
		}
		for _, ignored := range r.IgnoredFolders {
			if ignored != "" && strings.EqualFold(segment, ignored) {
				return false
			}
		}
	}

	name := segments[len(segments)-1]
	if strings.HasPrefix(name, ".") {
		return false
	}

	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	for _, allowed := range r.FileTypes {
		if allowed == "all" || strings.EqualFold(ext, allowed) {
			return true
		}
	}
	return false
}
