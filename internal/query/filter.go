package query

import (
	"strings"
)

// Kind enumerates the condition variants of the filter grammar.
type Kind int

const (
	// KindTag matches notes carrying a tag (or a nested child of it).
	KindTag Kind = iota
	// KindLink matches notes that link to the named note.
	KindLink
	// KindBacklink matches notes the named note links to.
	KindBacklink
	// KindTitle fuzzy-matches note titles and contributes the ranking
	// score.
	KindTitle
	// KindFullText matches the note's on-disk content, case-insensitive
	// substring.
	KindFullText
)

// Condition is one clause of a filter expression.
type Condition struct {
	Kind    Kind
	Negated bool
	Arg     string
}

// Filter is a parsed query expression. Conditions combine under AnyOf or
// AllOf semantics; the title condition additionally orders results by its
// fuzzy score.
type Filter struct {
	// All requires every condition to hold; otherwise one suffices.
	All   bool
	Conds []Condition
}

// Parse tokenizes a filter expression on whitespace. Prefixes select the
// condition kind: #tag, >name (links to), <name (linked from), each
// negatable with a leading !. Bare words accumulate into a single fuzzy
// title query. Everything after a | is one full-text needle.
func Parse(expr string, all bool) Filter {
	f := Filter{All: all}

	expr = strings.TrimSpace(expr)
	if expr == "" {
		return f
	}

	if bar := strings.Index(expr, "|"); bar >= 0 {
		needle := strings.TrimSpace(expr[bar+1:])
		if needle != "" {
			f.Conds = append(f.Conds, Condition{Kind: KindFullText, Arg: needle})
		}
		expr = expr[:bar]
	}

	var titleWords []string
	for _, token := range strings.Fields(expr) {
		negated := false
		if strings.HasPrefix(token, "!") {
			negated = true
			token = token[1:]
		}

		switch {
		case strings.HasPrefix(token, "#"):
			if tag := token[1:]; tag != "" {
				f.Conds = append(f.Conds, Condition{Kind: KindTag, Negated: negated, Arg: tag})
			}
		case strings.HasPrefix(token, ">"):
			if name := token[1:]; name != "" {
				f.Conds = append(f.Conds, Condition{Kind: KindLink, Negated: negated, Arg: name})
			}
		case strings.HasPrefix(token, "<"):
			if name := token[1:]; name != "" {
				f.Conds = append(f.Conds, Condition{Kind: KindBacklink, Negated: negated, Arg: name})
			}
		default:
			if token != "" {
				// Negation on a bare word is meaningless; keep the word.
				titleWords = append(titleWords, token)
			}
		}
	}

	if len(titleWords) > 0 {
		f.Conds = append(f.Conds, Condition{Kind: KindTitle, Arg: strings.Join(titleWords, " ")})
	}

	return f
}

// TitleQuery returns the fuzzy title pattern of the filter, empty when the
// expression carried no bare words.
func (f Filter) TitleQuery() string {
	for _, c := range f.Conds {
		if c.Kind == KindTitle {
			return c.Arg
		}
	}
	return ""
}
