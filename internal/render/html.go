// Package render exports notes as standalone HTML documents, rewriting
// wiki links into relative hyperlinks between the exported files.
package render

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"os"
	"path/filepath"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/calegray/lattice/internal/index"
	"github.com/calegray/lattice/internal/parser"
)

// Renderer converts note markdown to HTML. Wiki links to resolvable notes
// become links to the sibling exported file; broken targets degrade to
// their display text.
type Renderer struct {
	md      goldmark.Markdown
	resolve func(target string) bool
}

// New constructs a renderer. resolve reports whether a raw link target
// refers to an indexed note.
func New(resolve func(target string) bool) *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
		),
		resolve: resolve,
	}
}

// OutputName maps a note name to its exported file name.
func OutputName(name string) string {
	return index.NormalizeName(name) + ".html"
}

// Render writes one note as a full HTML document.
func (r *Renderer) Render(title string, content []byte, w io.Writer) error {
	_, body, _ := parser.ExtractFrontmatter(content)

	expanded := parser.ExpandWikiLinks(body, func(target, display string) []byte {
		if !r.resolve(target) {
			return []byte(display)
		}
		return []byte(fmt.Sprintf("[%s](%s)", display, OutputName(target)))
	})

	var rendered bytes.Buffer
	if err := r.md.Convert(expanded, &rendered); err != nil {
		return fmt.Errorf("render markdown: %w", err)
	}

	if _, err := fmt.Fprintf(w, preamble, html.EscapeString(title)); err != nil {
		return err
	}
	if _, err := w.Write(rendered.Bytes()); err != nil {
		return err
	}
	_, err := io.WriteString(w, postamble)
	return err
}

// Export renders one note into outDir, returning the written path.
func (r *Renderer) Export(note *index.Note, content []byte, outDir string) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	path := filepath.Join(outDir, OutputName(note.Stem))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create export file: %w", err)
	}
	defer f.Close()

	if err := r.Render(note.Title, content, f); err != nil {
		return "", err
	}
	return path, nil
}

const preamble = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>%s</title>
</head>
<body>
`

const postamble = `</body>
</html>
`
