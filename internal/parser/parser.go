package parser

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// ParsedNote is the metadata extracted from a single note's raw content.
// The parser has no knowledge of the surrounding graph: link targets are
// recorded as written, before any resolution against known notes.
type ParsedNote struct {
	Title       string
	Tags        []string
	LinkTargets []string
	Words       int
	Chars       int
}

// wikiLinkPattern matches [[Target]] and [[Target|Display]]; the display
// text after the pipe is ignored for resolution.
var wikiLinkPattern = regexp.MustCompile(`\[\[([^\[\]|]+)(?:\|[^\[\]]*)?\]\]`)

// Parse extracts title, tags, outgoing link targets and word/character
// counts from the raw content of one file. fallbackTitle is the
// filename-derived title used when the frontmatter carries no override.
// Frontmatter errors are contained: the returned error is informational
// and the note is still parsed with best-effort metadata.
func Parse(content []byte, fallbackTitle string) (ParsedNote, error) {
	fm, body, fmErr := ExtractFrontmatter(content)

	note := ParsedNote{
		Title: fm.Title,
		Words: len(strings.Fields(string(body))),
		Chars: utf8.RuneCount(body),
	}
	if note.Title == "" {
		note.Title = fallbackTitle
	}

	// Pull wiki-style links out first and blank their spans so that tag
	// scanning never picks up tokens inside link syntax.
	scrubbed := wikiLinkPattern.ReplaceAllFunc(body, func(match []byte) []byte {
		sub := wikiLinkPattern.FindSubmatch(match)
		if len(sub) > 1 {
			target := strings.TrimSpace(string(sub[1]))
			if target != "" {
				note.LinkTargets = append(note.LinkTargets, target)
			}
		}
		return blank(match)
	})

	tags, inline := scanMarkdown(scrubbed)
	note.LinkTargets = append(note.LinkTargets, inline...)

	seen := make(map[string]struct{}, len(tags)+len(fm.Tags))
	for _, tag := range append(tags, fm.Tags...) {
		key := strings.ToLower(tag)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		note.Tags = append(note.Tags, tag)
	}

	return note, fmErr
}

// scanMarkdown walks the goldmark AST of the (wikilink-scrubbed) body and
// collects #-prefixed tags from text nodes plus inline link targets that
// plausibly point at other notes.
func scanMarkdown(body []byte) (tags []string, linkTargets []string) {
	document := goldmark.DefaultParser().Parse(text.NewReader(body))

	_ = ast.Walk(document, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch n := n.(type) {
		case *ast.Text:
			for _, token := range strings.Fields(string(n.Segment.Value(body))) {
				if tag := strings.TrimPrefix(token, "#"); tag != token && tag != "" {
					tags = append(tags, tag)
				}
			}
		case *ast.Link:
			if target := noteTarget(string(n.Destination)); target != "" {
				linkTargets = append(linkTargets, target)
			}
		}
		return ast.WalkContinue, nil
	})

	return tags, linkTargets
}

// noteTarget filters inline link destinations down to those that can refer
// to another note: no URI scheme, no path separators, no file extension.
// Everything else (web links, relative file links) is ignored.
func noteTarget(destination string) string {
	target := strings.TrimSpace(destination)
	if target == "" {
		return ""
	}
	if strings.ContainsAny(target, "/\\.") || strings.Contains(target, ":") {
		return ""
	}
	return target
}

// blank replaces every non-newline byte so offsets stay stable while the
// span no longer produces tokens.
func blank(span []byte) []byte {
	out := make([]byte, len(span))
	for i, b := range span {
		if b == '\n' {
			out[i] = '\n'
			continue
		}
		out[i] = ' '
	}
	return out
}
