package cache

import (
	"testing"

	"github.com/use-agent/distill/models"
)

func TestKey_DistinguishesPartBoundaries(t *testing.T) {
	a := Key("ab", "c")
	b := Key("a", "bc")

	if a == b {
		t.Errorf("Key(ab,c) == Key(a,bc); parts must be separated")
	}
}

func TestKey_Deterministic(t *testing.T) {
	if Key("html", "markdown") != Key("html", "markdown") {
		t.Errorf("same parts produced different keys")
	}
}

func TestCache_GetMissAndHit(t *testing.T) {
	c := New(10)
	resp := &models.DistillResponse{Success: true, Content: "body"}

	key := Key("doc")
	if _, ok := c.Get(key, 60); ok {
		t.Fatalf("unexpected hit before Set")
	}

	c.Set(key, resp)
	got, ok := c.Get(key, 60)
	if !ok {
		t.Fatalf("expected hit after Set")
	}
	if got.Content != "body" {
		t.Errorf("Content = %q, want %q", got.Content, "body")
	}
}

func TestCache_ZeroMaxAgeSkipsLookup(t *testing.T) {
	c := New(10)
	key := Key("doc")
	c.Set(key, &models.DistillResponse{Success: true})

	if _, ok := c.Get(key, 0); ok {
		t.Errorf("maxAgeSec 0 must bypass the cache")
	}
}

func TestCache_EvictsAtCapacity(t *testing.T) {
	c := New(2)
	c.Set("a", &models.DistillResponse{})
	c.Set("b", &models.DistillResponse{})
	c.Set("c", &models.DistillResponse{})

	entries, max := c.Stats()
	if entries != 2 {
		t.Errorf("entries = %d, want capacity 2", entries)
	}
	if max != 2 {
		t.Errorf("maxEntries = %d, want 2", max)
	}
}
