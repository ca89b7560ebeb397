package cache

import (
	"testing"
	"time"
)

func TestGetReturnsPutValue(t *testing.T) {
	c := NewContentCache(2)
	now := time.Now()

	c.Put("/v/a.md", []byte("body"), now, 4)
	body, ok := c.Get("/v/a.md", now, 4)
	if !ok || string(body) != "body" {
		t.Fatalf("expected cached body, got %q ok=%v", body, ok)
	}
}

func TestStaleStampsMiss(t *testing.T) {
	c := NewContentCache(2)
	now := time.Now()

	c.Put("/v/a.md", []byte("body"), now, 4)
	if _, ok := c.Get("/v/a.md", now.Add(time.Second), 4); ok {
		t.Fatalf("expected miss for changed modtime")
	}
	// The stale entry must be gone even for the original stamps.
	if _, ok := c.Get("/v/a.md", now, 4); ok {
		t.Fatalf("expected stale entry dropped")
	}
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewContentCache(2)
	now := time.Now()

	c.Put("/v/a.md", []byte("a"), now, 1)
	c.Put("/v/b.md", []byte("b"), now, 1)
	c.Get("/v/a.md", now, 1)
	c.Put("/v/c.md", []byte("c"), now, 1)

	if _, ok := c.Get("/v/b.md", now, 1); ok {
		t.Fatalf("expected least recently used entry evicted")
	}
	if _, ok := c.Get("/v/a.md", now, 1); !ok {
		t.Fatalf("expected recently used entry kept")
	}
}

func TestRemove(t *testing.T) {
	c := NewContentCache(2)
	now := time.Now()

	c.Put("/v/a.md", []byte("a"), now, 1)
	c.Remove("/v/a.md")
	if _, ok := c.Get("/v/a.md", now, 1); ok {
		t.Fatalf("expected removed entry gone")
	}
	c.Remove("/v/missing.md")
}
