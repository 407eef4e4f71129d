package core

import (
	"testing"
	"time"

	models "document-downloader/api/internal/model"
)

func TestResultCacheKey(t *testing.T) {
	c := NewResultCache(16, time.Minute)

	if c.Key("Annual", nil, false) != c.Key("  annual ", nil, false) {
		t.Fatal("key should normalize case and whitespace")
	}
	if c.Key("annual", []string{"reports"}, false) == c.Key("annual", nil, false) {
		t.Fatal("taxonomy must be part of the key")
	}
	if c.Key("annual", nil, true) == c.Key("annual", nil, false) {
		t.Fatal("exact mode must be part of the key")
	}
	if c.Key("a", []string{"b", "c"}, false) == c.Key("a", []string{"bc"}, false) {
		t.Fatal("slug boundaries must not collapse")
	}
}

func TestResultCacheRoundTrip(t *testing.T) {
	c := NewResultCache(16, time.Minute)
	key := c.Key("annual", nil, false)

	if _, ok := c.Get(key); ok {
		t.Fatal("empty cache should miss")
	}

	docs := []*models.Document{{ID: 1, Title: "Annual Report"}}
	c.Set(key, docs)

	got, ok := c.Get(key)
	if !ok || len(got) != 1 || got[0].Title != "Annual Report" {
		t.Fatalf("unexpected cached value: %v, ok=%v", got, ok)
	}

	c.Purge()
	if _, ok := c.Get(key); ok {
		t.Fatal("purged cache should miss")
	}
}
