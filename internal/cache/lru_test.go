package cache

import (
	"testing"
	"time"
)

func TestGetSet(t *testing.T) {
	c := New[string](2, time.Minute)

	if _, ok := c.Get("a"); ok {
		t.Fatal("empty cache hit")
	}
	c.Set("a", "1")
	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Fatalf("got %q, %v", v, ok)
	}
	c.Set("a", "2")
	if v, _ := c.Get("a"); v != "2" {
		t.Fatalf("overwrite failed: %q", v)
	}
	if c.Size() != 1 {
		t.Fatalf("size = %d", c.Size())
	}
}

func TestEvictsLeastRecentlyUsed(t *testing.T) {
	c := New[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a") // a is now most recent
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Fatal("expected b evicted")
	}
	if _, ok := c.Get("a"); !ok {
		t.Fatal("a should survive")
	}
	if _, ok := c.Get("c"); !ok {
		t.Fatal("c should be present")
	}
}

func TestExpiry(t *testing.T) {
	c := New[int](10, 10*time.Millisecond)
	c.Set("a", 1)
	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get("a"); ok {
		t.Fatal("expired entry returned")
	}
	if c.Size() != 0 {
		t.Fatalf("size = %d after expired get", c.Size())
	}
}

func TestDelete(t *testing.T) {
	c := New[int](10, time.Minute)
	c.Set("a", 1)
	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Fatal("deleted entry returned")
	}
	c.Delete("missing") // no-op
}

func TestCleanExpired(t *testing.T) {
	c := New[int](10, 10*time.Millisecond)
	c.Set("a", 1)
	c.Set("b", 2)
	time.Sleep(20 * time.Millisecond)
	c.Set("c", 3)

	if n := c.CleanExpired(); n != 2 {
		t.Fatalf("cleaned %d entries, expected 2", n)
	}
	if c.Size() != 1 {
		t.Fatalf("size = %d", c.Size())
	}
	if _, ok := c.Get("c"); !ok {
		t.Fatal("fresh entry removed")
	}
}
