package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"ldap-seeder/internal/adapter/ldaptool"
)

// keyPrefix namespaces cached search results.
const keyPrefix = "ldap:search:"

// SearchCache defines the interface for caching directory search results.
type SearchCache interface {
	// Get returns the cached result for filter and attrs.
	// Returns nil if nothing is cached.
	Get(ctx context.Context, filter string, attrs []string) (*ldaptool.Result, error)

	// Set stores a result with the configured TTL.
	Set(ctx context.Context, filter string, attrs []string, res *ldaptool.Result) error

	// Flush removes every cached search result.
	Flush(ctx context.Context) error
}

// RedisSearchCache implements SearchCache using Redis as the backing store.
type RedisSearchCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *zap.Logger
}

// NewRedisSearchCache creates a new Redis-backed search cache.
func NewRedisSearchCache(client *redis.Client, ttl time.Duration, log *zap.Logger) *RedisSearchCache {
	return &RedisSearchCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

// Key returns the Redis key for a search.
func Key(filter string, attrs []string) string {
	sum := sha256.Sum256([]byte(filter + "\x00" + strings.Join(attrs, ",")))
	return keyPrefix + hex.EncodeToString(sum[:])
}

// Get retrieves a search result from Redis.
func (c *RedisSearchCache) Get(ctx context.Context, filter string, attrs []string) (*ldaptool.Result, error) {
	data, err := c.client.Get(ctx, Key(filter, attrs)).Bytes()
	if errors.Is(err, redis.Nil) {
		c.log.Debug("cache miss", zap.String("filter", filter))
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get cached search: %w", err)
	}

	var res ldaptool.Result
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, fmt.Errorf("decode cached search: %w", err)
	}

	c.log.Debug("cache hit", zap.String("filter", filter))
	return &res, nil
}

// Set stores a successful search result in Redis.
func (c *RedisSearchCache) Set(ctx context.Context, filter string, attrs []string, res *ldaptool.Result) error {
	if !res.Success() {
		return fmt.Errorf("only successful searches can be cached")
	}

	data, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode search result: %w", err)
	}

	if err := c.client.Set(ctx, Key(filter, attrs), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set cached search: %w", err)
	}

	c.log.Debug("cached search", zap.String("filter", filter), zap.Duration("ttl", c.ttl))
	return nil
}

// Flush deletes every key under the search prefix.
func (c *RedisSearchCache) Flush(ctx context.Context) error {
	var keys []string
	iter := c.client.Scan(ctx, 0, keyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("scan cached searches: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete cached searches: %w", err)
	}

	c.log.Debug("flushed cached searches", zap.Int("count", len(keys)))
	return nil
}
