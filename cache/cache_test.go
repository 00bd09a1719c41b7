package cache

import (
	"fmt"
	"testing"
	"time"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)}
}

func TestCacheGetSet(t *testing.T) {
	clock := newFakeClock()
	c := New[string](10*time.Minute, 16, clock.Now)

	if _, found := c.Get("a"); found {
		t.Errorf("expected miss on empty cache")
	}

	c.Set("a", "value")
	v, found := c.Get("a")
	if !found || v != "value" {
		t.Errorf("expected hit with %q, got %q (found=%v)", "value", v, found)
	}
}

func TestCacheTtlExpiry(t *testing.T) {
	clock := newFakeClock()
	c := New[int](10*time.Minute, 16, clock.Now)

	c.Set("a", 1)

	clock.Advance(10 * time.Minute)
	if _, found := c.Get("a"); !found {
		t.Errorf("entry at exactly TTL should still be live")
	}

	clock.Advance(time.Second)
	if _, found := c.Get("a"); found {
		t.Errorf("entry past TTL should be treated as absent")
	}
}

func TestCacheSetRefreshesTtl(t *testing.T) {
	clock := newFakeClock()
	c := New[int](10*time.Minute, 16, clock.Now)

	c.Set("a", 1)
	clock.Advance(8 * time.Minute)
	c.Set("a", 2)
	clock.Advance(8 * time.Minute)

	v, found := c.Get("a")
	if !found || v != 2 {
		t.Errorf("expected refreshed entry with value 2, got %d (found=%v)", v, found)
	}
}

func TestCacheCapacityEvictsOldest(t *testing.T) {
	clock := newFakeClock()
	c := New[int](time.Hour, 3, clock.Now)

	for i := 0; i < 3; i++ {
		c.Set(fmt.Sprintf("key-%d", i), i)
		clock.Advance(time.Second)
	}
	if c.Len() != 3 {
		t.Fatalf("expected 3 entries, got %d", c.Len())
	}

	c.Set("key-3", 3)

	if c.Len() != 3 {
		t.Errorf("expected capacity to hold at 3 entries, got %d", c.Len())
	}
	if _, found := c.Get("key-0"); found {
		t.Errorf("expected the oldest entry to be evicted")
	}
	if _, found := c.Get("key-3"); !found {
		t.Errorf("expected the new entry to be present")
	}
}

func TestCacheOverwriteDoesNotEvict(t *testing.T) {
	clock := newFakeClock()
	c := New[int](time.Hour, 2, clock.Now)

	c.Set("a", 1)
	clock.Advance(time.Second)
	c.Set("b", 2)
	clock.Advance(time.Second)
	c.Set("a", 3)

	if c.Len() != 2 {
		t.Errorf("expected 2 entries after overwrite, got %d", c.Len())
	}
	if _, found := c.Get("b"); !found {
		t.Errorf("overwriting an existing key must not evict another entry")
	}
}
