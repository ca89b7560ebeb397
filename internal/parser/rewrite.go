package parser

import (
	"regexp"
)

var inlineLinkPattern = regexp.MustCompile(`\[([^\[\]]*)\]\(([^()]+)\)`)

// RewriteTargets replaces link targets for which match returns true with
// replacement, touching only recognized link syntax: wiki links (with or
// without display text) and inline links whose target looks like a note
// reference. Plain text occurrences of a name are never rewritten, which
// makes the operation safe to re-run: once a target has been replaced it
// no longer matches.
func RewriteTargets(content []byte, match func(target string) bool, replacement string) ([]byte, bool) {
	changed := false

	out := wikiLinkPattern.ReplaceAllFunc(content, func(span []byte) []byte {
		sub := wikiLinkPattern.FindSubmatchIndex(span)
		if sub == nil {
			return span
		}
		target := string(span[sub[2]:sub[3]])
		if !match(target) {
			return span
		}
		changed = true

		rewritten := make([]byte, 0, len(span)+len(replacement))
		rewritten = append(rewritten, span[:sub[2]]...)
		rewritten = append(rewritten, replacement...)
		rewritten = append(rewritten, span[sub[3]:]...)
		return rewritten
	})

	out = inlineLinkPattern.ReplaceAllFunc(out, func(span []byte) []byte {
		sub := inlineLinkPattern.FindSubmatchIndex(span)
		if sub == nil {
			return span
		}
		target := string(span[sub[4]:sub[5]])
		if noteTarget(target) == "" || !match(target) {
			return span
		}
		changed = true

		rewritten := make([]byte, 0, len(span)+len(replacement))
		rewritten = append(rewritten, span[:sub[4]]...)
		rewritten = append(rewritten, replacement...)
		rewritten = append(rewritten, span[sub[5]:]...)
		return rewritten
	})

	return out, changed
}

// ExpandWikiLinks replaces every wiki link with the output of expand, which
// receives the raw target and the display text (the target when no pipe is
// present). Used by exporters that need standard markdown link syntax.
func ExpandWikiLinks(content []byte, expand func(target, display string) []byte) []byte {
	return wikiLinkPattern.ReplaceAllFunc(content, func(span []byte) []byte {
		sub := wikiLinkPattern.FindSubmatchIndex(span)
		if sub == nil {
			return span
		}
		target := string(span[sub[2]:sub[3]])
		display := target
		if rest := span[sub[3] : len(span)-2]; len(rest) > 1 && rest[0] == '|' {
			display = string(rest[1:])
		}
		return expand(target, display)
	})
}
