package cache

import (
	"context"
	"testing"
	"time"
)

func TestCache_SetGet(t *testing.T) {
	c := New[string, uint8](0)
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, "feed:bnb", 8, 0)

	got, ok := c.Get(ctx, "feed:bnb")
	if !ok || got != 8 {
		t.Fatalf("expected 8, got %d (ok=%v)", got, ok)
	}

	if _, ok := c.Get(ctx, "feed:polygon"); ok {
		t.Error("expected miss for unknown key")
	}
}

func TestCache_Expiry(t *testing.T) {
	c := New[string, int](0)
	defer c.Close()
	ctx := context.Background()

	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	c.Set(ctx, "k", 1, time.Second)
	if _, ok := c.Get(ctx, "k"); !ok {
		t.Fatal("expected hit before ttl")
	}

	now = now.Add(2 * time.Second)
	if _, ok := c.Get(ctx, "k"); ok {
		t.Error("expected miss after ttl")
	}

	c.purge()
	if c.Len() != 0 {
		t.Errorf("expected purge to drop expired entry, len=%d", c.Len())
	}
}

func TestCache_Delete(t *testing.T) {
	c := New[int, string](time.Minute)
	defer c.Close()
	ctx := context.Background()

	c.Set(ctx, 1, "one", 0)
	c.Delete(ctx, 1)

	if _, ok := c.Get(ctx, 1); ok {
		t.Error("expected miss after delete")
	}
}
