package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// ListCache stores serialized find-all results per resource under versioned
// keys ("libapi:<resource>:v<N>:all"). Writes bump the version instead of
// deleting keys, so stale entries simply expire.
//
// A nil *ListCache, or one built with a nil client, is a disabled cache:
// every lookup misses and every write is a no-op. Redis errors fail open.
type ListCache struct {
	rdb     *redis.Client
	ttl     time.Duration
	timeout time.Duration
	prefix  string
	log     zerolog.Logger
}

func New(rdb *redis.Client, ttl, timeout time.Duration, log zerolog.Logger) *ListCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if timeout <= 0 {
		timeout = 150 * time.Millisecond
	}
	return &ListCache{
		rdb:     rdb,
		ttl:     ttl,
		timeout: timeout,
		prefix:  "libapi:",
		log:     log.With().Str("component", "cache").Logger(),
	}
}

func (c *ListCache) enabled() bool { return c != nil && c.rdb != nil }

func (c *ListCache) versionKey(resource string) string {
	return c.prefix + resource + ":ver"
}

func (c *ListCache) version(ctx context.Context, resource string) (int64, error) {
	ver, err := c.rdb.Get(ctx, c.versionKey(resource)).Int64()
	if errors.Is(err, redis.Nil) {
		return 1, nil
	}
	return ver, err
}

func (c *ListCache) listKey(resource string, ver int64) string {
	return fmt.Sprintf("%s%s:v%d:all", c.prefix, resource, ver)
}

// Get returns the cached payload for resource, if any, together with the
// version it resolved. Pass that version to Set so a list read before a
// concurrent Bump can never be stored under the bumped version. A version of
// 0 means the cache could not be consulted and Set will skip the write.
func (c *ListCache) Get(ctx context.Context, resource string) (payload []byte, ver int64, ok bool) {
	if !c.enabled() {
		return nil, 0, false
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ver, err := c.version(ctx, resource)
	if err != nil {
		c.log.Warn().Err(err).Str("resource", resource).Msg("cache version read failed; bypassing")
		return nil, 0, false
	}
	b, err := c.rdb.Get(ctx, c.listKey(resource, ver)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Str("resource", resource).Msg("cache get failed; bypassing")
		}
		return nil, ver, false
	}
	return b, ver, true
}

// Set stores payload under ver, the version Get returned before the data
// was read.
func (c *ListCache) Set(ctx context.Context, resource string, ver int64, payload []byte) {
	if !c.enabled() || ver <= 0 {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.rdb.SetEx(ctx, c.listKey(resource, ver), payload, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("resource", resource).Msg("cache set failed")
	}
}

// Bump invalidates every cached list of resource. Call it after a
// successful write.
func (c *ListCache) Bump(ctx context.Context, resource string) error {
	if !c.enabled() {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	// INCR on a missing key yields 1, the same as the implicit default, so
	// seed it at 1 first to make the first bump move to 2.
	pipe := c.rdb.TxPipeline()
	pipe.SetNX(ctx, c.versionKey(resource), 1, 0)
	pipe.Incr(ctx, c.versionKey(resource))
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("bump %s cache version: %w", resource, err)
	}
	return nil
}
