// Package cache caches anonymous job search pages in Redis.
//
// Keys embed a generation counter. Publishing, editing or deleting a listing bumps the
// generation, which orphans every cached page at once; orphaned keys expire by TTL.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KashafDawood/AI-Recruitment-Backend/internal/search"
)

// DefaultTTL is how long a cached page stays valid when no TTL is configured.
const DefaultTTL = 30 * time.Second

const generationKey = "jobs:generation"

// Backend is the subset of Redis the cache needs.
type Backend interface {
	// Get returns ok=false when the key does not exist.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Incr(ctx context.Context, key string) (int64, error)
}

// SearchCache stores serialized search pages. A nil *SearchCache is a disabled cache:
// lookups miss and writes are dropped.
type SearchCache struct {
	backend Backend
	ttl     time.Duration
}

// New creates a cache over a Redis client.
func New(rdb *redis.Client, ttl time.Duration) *SearchCache {
	return NewWithBackend(redisBackend{rdb: rdb}, ttl)
}

// NewWithBackend creates a cache over any Backend.
func NewWithBackend(b Backend, ttl time.Duration) *SearchCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SearchCache{backend: b, ttl: ttl}
}

// NewRedisClient creates and verifies a Redis client connection.
func NewRedisClient(ctx context.Context, redisURL string) (*redis.Client, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("redis.ParseURL: %w", err)
	}

	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}

	return rdb, nil
}

// Key returns the cache key for one page of a search. ok is false when the cache is
// disabled or the generation cannot be read.
func (c *SearchCache) Key(ctx context.Context, params search.Params, page, limit int) (key string, ok bool) {
	if c == nil {
		return "", false
	}

	raw, found, err := c.backend.Get(ctx, generationKey)
	if err != nil {
		log.Printf("[cache] failed to read generation: %v", err)
		return "", false
	}

	var gen int64
	if found {
		gen, err = strconv.ParseInt(string(raw), 10, 64)
		if err != nil {
			log.Printf("[cache] invalid generation %q: %v", raw, err)
			return "", false
		}
	}
	return pageKey(gen, params, page, limit), true
}

// pageKey is jobs:v{generation}:{sha256 of the canonical params and window}.
func pageKey(gen int64, params search.Params, page, limit int) string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s|page=%d|limit=%d", params.Canonical(), page, limit)))
	return fmt.Sprintf("jobs:v%d:%x", gen, sum)
}

// Get decodes a cached value into dest. Any failure is logged and reported as a miss.
func (c *SearchCache) Get(ctx context.Context, key string, dest any) bool {
	if c == nil || key == "" {
		return false
	}

	raw, found, err := c.backend.Get(ctx, key)
	if err != nil {
		log.Printf("[cache] get %s failed: %v", key, err)
		return false
	}
	if !found {
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		log.Printf("[cache] corrupt entry %s: %v", key, err)
		return false
	}
	return true
}

// Set stores value under key. Failures are logged and dropped.
func (c *SearchCache) Set(ctx context.Context, key string, value any) {
	if c == nil || key == "" {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		log.Printf("[cache] failed to encode %s: %v", key, err)
		return
	}
	if err := c.backend.Set(ctx, key, raw, c.ttl); err != nil {
		log.Printf("[cache] set %s failed: %v", key, err)
	}
}

// Invalidate orphans every cached page by bumping the generation.
func (c *SearchCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	if _, err := c.backend.Incr(ctx, generationKey); err != nil {
		log.Printf("[cache] failed to bump generation: %v", err)
	}
}

type redisBackend struct {
	rdb *redis.Client
}

func (b redisBackend) Get(ctx context.Context, key string) ([]byte, bool, error) {
	v, err := b.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (b redisBackend) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return b.rdb.Set(ctx, key, value, ttl).Err()
}

func (b redisBackend) Incr(ctx context.Context, key string) (int64, error) {
	return b.rdb.Incr(ctx, key).Result()
}
