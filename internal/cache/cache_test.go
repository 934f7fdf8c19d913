package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

func newRedis(t *testing.T) (*miniredis.Miniredis, *ListCache) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return mr, New(rdb, time.Minute, time.Second, zerolog.Nop())
}

func TestDisabledCache(t *testing.T) {
	var nilCache *ListCache
	if _, _, ok := nilCache.Get(context.Background(), "books"); ok {
		t.Fatal("nil cache must miss")
	}
	nilCache.Set(context.Background(), "books", 1, []byte("[]"))
	if err := nilCache.Bump(context.Background(), "books"); err != nil {
		t.Fatalf("nil cache bump: %v", err)
	}

	c := New(nil, 0, 0, zerolog.Nop())
	if _, _, ok := c.Get(context.Background(), "books"); ok {
		t.Fatal("cache without client must miss")
	}
	if c.ttl != 5*time.Minute || c.timeout != 150*time.Millisecond {
		t.Fatalf("unexpected defaults: ttl=%s timeout=%s", c.ttl, c.timeout)
	}
}

func TestUnreachableRedisFailsOpen(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	c := New(rdb, time.Minute, 100*time.Millisecond, zerolog.Nop())
	_, ver, ok := c.Get(context.Background(), "members")
	if ok || ver != 0 {
		t.Fatalf("unreachable redis must miss without a version, got ver=%d ok=%v", ver, ok)
	}
	c.Set(context.Background(), "members", ver, []byte("[]"))
	if err := c.Bump(context.Background(), "members"); err == nil {
		t.Fatal("bump against unreachable redis should report an error")
	}
}

func TestKeys(t *testing.T) {
	c := New(nil, 0, 0, zerolog.Nop())
	if got := c.listKey("books", 3); got != "libapi:books:v3:all" {
		t.Fatalf("unexpected list key %q", got)
	}
	if got := c.versionKey("books"); got != "libapi:books:ver" {
		t.Fatalf("unexpected version key %q", got)
	}
}

func TestSetThenGet(t *testing.T) {
	mr, c := newRedis(t)
	ctx := context.Background()

	_, ver, ok := c.Get(ctx, "books")
	if ok {
		t.Fatal("empty redis must miss")
	}
	if ver != 1 {
		t.Fatalf("missing version key resolves to 1, got %d", ver)
	}

	c.Set(ctx, "books", ver, []byte(`[{"id":1}]`))
	if !mr.Exists("libapi:books:v1:all") {
		t.Fatal("payload not stored under v1")
	}
	if ttl := mr.TTL("libapi:books:v1:all"); ttl != time.Minute {
		t.Fatalf("ttl = %s, want 1m", ttl)
	}

	b, ver, ok := c.Get(ctx, "books")
	if !ok || string(b) != `[{"id":1}]` || ver != 1 {
		t.Fatalf("hit = %q ver=%d ok=%v", b, ver, ok)
	}

	if _, _, ok := c.Get(ctx, "members"); ok {
		t.Fatal("resources must not share entries")
	}
}

func TestBumpInvalidates(t *testing.T) {
	mr, c := newRedis(t)
	ctx := context.Background()

	_, ver, _ := c.Get(ctx, "books")
	c.Set(ctx, "books", ver, []byte(`[]`))

	if err := c.Bump(ctx, "books"); err != nil {
		t.Fatalf("bump: %v", err)
	}
	if got, _ := mr.Get("libapi:books:ver"); got != "2" {
		t.Fatalf("first bump must move past the implicit v1, got %q", got)
	}
	if _, ver, ok := c.Get(ctx, "books"); ok || ver != 2 {
		t.Fatalf("after bump: ver=%d ok=%v, want miss at v2", ver, ok)
	}

	if err := c.Bump(ctx, "books"); err != nil {
		t.Fatalf("second bump: %v", err)
	}
	if got, _ := mr.Get("libapi:books:ver"); got != "3" {
		t.Fatalf("second bump: version %q, want 3", got)
	}
}

func TestSetUnderStaleVersionIsNotServed(t *testing.T) {
	_, c := newRedis(t)
	ctx := context.Background()

	// A reader pins its version, a writer bumps, then the reader stores.
	_, pinned, _ := c.Get(ctx, "books")
	if err := c.Bump(ctx, "books"); err != nil {
		t.Fatalf("bump: %v", err)
	}
	c.Set(ctx, "books", pinned, []byte(`["stale"]`))

	if b, _, ok := c.Get(ctx, "books"); ok {
		t.Fatalf("stale list served after bump: %q", b)
	}
}

func TestSetWithoutVersionIsNoop(t *testing.T) {
	mr, c := newRedis(t)
	c.Set(context.Background(), "books", 0, []byte(`[]`))
	if keys := mr.Keys(); len(keys) != 0 {
		t.Fatalf("unexpected keys %v", keys)
	}
}
