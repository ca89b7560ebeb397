package fzf

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/muesli/termenv"

	"github.com/calegray/lattice/internal/engine"
	"github.com/calegray/lattice/internal/index"
)

// FuzzyFinder wraps the interactive picker over the indexed notes, with a
// rendered markdown preview of the highlighted note.
type FuzzyFinder struct {
	engine *engine.Engine
	Header string
	notes  []*index.Note
}

func NewFuzzyFinder(eng *engine.Engine, header string) *FuzzyFinder {
	return &FuzzyFinder{engine: eng, Header: header}
}

// Run opens the picker and returns the canonical path of the selected
// note.
func (f *FuzzyFinder) Run() (string, error) {
	return f.RunWithQuery("")
}

// RunWithQuery opens the picker with an initial query.
func (f *FuzzyFinder) RunWithQuery(query string) (string, error) {
	store, _ := f.engine.Acquire()
	f.notes = store.Notes()
	if len(f.notes) == 0 {
		return "", fmt.Errorf("no notes indexed")
	}

	idx, err := f.fuzzySelectNote(query)
	if err != nil {
		if err == fuzzyfinder.ErrAbort {
			return "", fmt.Errorf("no note selected")
		}
		return "", err
	}
	return f.notes[idx].Path, nil
}

func (f *FuzzyFinder) fuzzySelectNote(query string) (int, error) {
	options := []fuzzyfinder.Option{
		fuzzyfinder.WithPreviewWindow(f.renderMarkdownPreview),
	}
	if query != "" {
		options = append(options, fuzzyfinder.WithQuery(query))
	}
	if f.Header != "" {
		options = append(options, fuzzyfinder.WithHeader(f.Header))
	}

	labels := make([]string, len(f.notes))
	for i, note := range f.notes {
		if len(note.Tags) == 0 {
			labels[i] = fmt.Sprintf("%s [No tags] ", note.Title)
			continue
		}
		labels[i] = fmt.Sprintf("%s [Tags: %s] ", note.Title, strings.Join(note.Tags, ", "))
	}

	return fuzzyfinder.Find(f.notes, func(i int) string {
		return labels[i]
	}, options...)
}

func (f *FuzzyFinder) renderMarkdownPreview(i, w, h int) string {
	if i == -1 {
		return ""
	}

	content, err := f.engine.RawContent(f.notes[i].Path)
	if err != nil {
		return "Error reading file"
	}

	r, _ := glamour.NewTermRenderer(
		glamour.WithStandardStyle("dracula"),
		glamour.WithWordWrap(100),
		glamour.WithColorProfile(termenv.ANSI256),
	)

	markdown, err := r.Render(string(content))
	if err != nil {
		return "Error rendering markdown"
	}

	return markdown
}
