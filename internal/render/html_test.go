package render

import (
	"bytes"
	"strings"
	"testing"
)

func TestRenderRewritesWikiLinks(t *testing.T) {
	known := map[string]bool{"other-note": true}
	r := New(func(target string) bool {
		return known[strings.ToLower(strings.ReplaceAll(target, " ", "-"))]
	})

	content := []byte("---\ntitle: Sample\n---\n# Heading\n\nSee [[Other Note|the details]] and [[Missing]].\n")

	var out bytes.Buffer
	if err := r.Render("Sample", content, &out); err != nil {
		t.Fatalf("render: %v", err)
	}
	got := out.String()

	if !strings.Contains(got, `<title>Sample</title>`) {
		t.Fatalf("expected title in preamble, got:\n%s", got)
	}
	if !strings.Contains(got, `<a href="other-note.html">the details</a>`) {
		t.Fatalf("expected rewritten wiki link, got:\n%s", got)
	}
	if strings.Contains(got, "Missing]]") || strings.Contains(got, `missing.html`) {
		t.Fatalf("expected broken link degraded to text, got:\n%s", got)
	}
	if !strings.Contains(got, "Missing") {
		t.Fatalf("expected display text of broken link kept, got:\n%s", got)
	}
	if strings.Contains(got, "title: Sample") {
		t.Fatalf("expected frontmatter stripped, got:\n%s", got)
	}
	if !strings.Contains(got, "<h1") {
		t.Fatalf("expected heading rendered, got:\n%s", got)
	}
}

func TestOutputName(t *testing.T) {
	if got := OutputName("Operating Systems"); got != "operating-systems.html" {
		t.Fatalf("expected operating-systems.html, got %s", got)
	}
}
