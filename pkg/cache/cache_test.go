package cache

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestFileCacheRoundTrip(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	// Miss before Set
	_, hit, err := c.Get(ctx, "parse:abc")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("Get before Set should miss")
	}

	// Set then Get
	if err := c.Set(ctx, "parse:abc", []byte("payload"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "parse:abc")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if !hit {
		t.Fatal("Get after Set should hit")
	}
	if !bytes.Equal(data, []byte("payload")) {
		t.Errorf("Get data = %q, want %q", data, "payload")
	}

	// Delete
	if err := c.Delete(ctx, "parse:abc"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "parse:abc"); hit {
		t.Error("Get after Delete should miss")
	}

	// Deleting an absent key is not an error
	if err := c.Delete(ctx, "parse:gone"); err != nil {
		t.Errorf("Delete absent key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer c.Close()

	// Expired entries read as misses
	if err := c.Set(ctx, "short", []byte("v"), time.Millisecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(5 * time.Millisecond)
	if _, hit, err := c.Get(ctx, "short"); err != nil || hit {
		t.Errorf("expired entry: hit=%v err=%v, want miss", hit, err)
	}

	// Zero TTL stores without expiry
	if err := c.Set(ctx, "forever", []byte("v"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if _, hit, err := c.Get(ctx, "forever"); err != nil || !hit {
		t.Errorf("zero-TTL entry: hit=%v err=%v, want hit", hit, err)
	}
}

func TestFileCacheCorruptEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	fc := c.(*FileCache)

	path := fc.path("bad")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	// Invalid entries read as misses and are removed
	if _, hit, err := c.Get(ctx, "bad"); err != nil || hit {
		t.Errorf("corrupt entry: hit=%v err=%v, want miss", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("corrupt entry file should be removed")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}

	for _, key := range []string{"a", "b", "c"} {
		if err := c.Set(ctx, key, []byte(key), 0); err != nil {
			t.Fatalf("Set %q: %v", key, err)
		}
	}

	if err := c.Clear(ctx); err != nil {
		t.Fatalf("Clear error: %v", err)
	}
	for _, key := range []string{"a", "b", "c"} {
		if _, hit, _ := c.Get(ctx, key); hit {
			t.Errorf("key %q should be gone after Clear", key)
		}
	}

	// Cache stays usable after Clear
	if err := c.Set(ctx, "a", []byte("again"), 0); err != nil {
		t.Fatalf("Set after Clear: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "a"); !hit {
		t.Error("Set after Clear should hit")
	}
}

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("NullCache should not store data")
	}

	// Delete and Clear do nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if err := c.Clear(ctx); err != nil {
		t.Errorf("Clear error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestHashKey(t *testing.T) {
	// Deterministic for equal parts
	k1 := HashKey("parse", "abc123")
	k2 := HashKey("parse", "abc123")
	if k1 != k2 {
		t.Error("HashKey should be deterministic")
	}

	// Prefix is visible in the key
	if !strings.HasPrefix(k1, "parse:") {
		t.Errorf("HashKey should start with prefix: %s", k1)
	}

	// Different parts produce different keys
	if k3 := HashKey("parse", "def456"); k1 == k3 {
		t.Error("Different parts should produce different keys")
	}

	// Options participate in the key
	s1 := HashKey("snapshot", "abc123", 80)
	s2 := HashKey("snapshot", "abc123", 100)
	if s1 == s2 {
		t.Error("Different options should produce different keys")
	}
}

func TestScopedCache(t *testing.T) {
	ctx := context.Background()
	inner, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	a := NewScopedCache(inner, "v1:")
	b := NewScopedCache(inner, "v2:")

	if err := a.Set(ctx, "k", []byte("one"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	if err := b.Set(ctx, "k", []byte("two"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}

	// Scopes are isolated
	data, hit, _ := a.Get(ctx, "k")
	if !hit || string(data) != "one" {
		t.Errorf("scope v1 Get = %q hit=%v, want \"one\"", data, hit)
	}
	data, hit, _ = b.Get(ctx, "k")
	if !hit || string(data) != "two" {
		t.Errorf("scope v2 Get = %q hit=%v, want \"two\"", data, hit)
	}

	// The inner backend sees the prefixed key
	if _, hit, _ := inner.Get(ctx, "v1:k"); !hit {
		t.Error("inner cache should store the prefixed key")
	}

	// Delete removes only its own scope
	if err := a.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if _, hit, _ := a.Get(ctx, "k"); hit {
		t.Error("scope v1 should miss after Delete")
	}
	if _, hit, _ := b.Get(ctx, "k"); !hit {
		t.Error("scope v2 should survive scope v1 Delete")
	}
}

func TestScopedCacheNilInner(t *testing.T) {
	ctx := context.Background()

	// Should fall back to NullCache when inner is nil
	c := NewScopedCache(nil, "prefix:")
	if err := c.Set(ctx, "k", []byte("v"), 0); err != nil {
		t.Errorf("Set error: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "k"); hit {
		t.Error("nil inner should behave like NullCache")
	}
}
