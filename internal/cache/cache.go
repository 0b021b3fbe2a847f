// Package cache wraps a Redis connection used as a best-effort
// read-through and write-through layer in front of internal/store for
// products and accounts, keyed as "product:<symbol>" and
// "account:<user_id>".
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/fireorder/gateway/internal/apierr"
	"github.com/fireorder/gateway/pkg/types"
)

// Cache is a thin JSON-snapshot cache backed by Redis.
type Cache struct {
	rdb    *redis.Client
	logger *slog.Logger
}

// New connects to Redis using a redis:// URL.
func New(redisURL string, logger *slog.Logger) (*Cache, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	return &Cache{
		rdb:    redis.NewClient(opt),
		logger: logger.With("component", "cache"),
	}, nil
}

// Close releases the underlying Redis connection pool.
func (c *Cache) Close() error {
	return c.rdb.Close()
}

// ProductKey is the cache key for a product snapshot.
func ProductKey(symbol string) string {
	return "product:" + symbol
}

// AccountKey is the cache key for an account snapshot.
func AccountKey(userID int32) string {
	return fmt.Sprintf("account:%d", userID)
}

// GetProduct returns the cached product, or (nil, nil) on a clean cache
// miss. A non-nil error means the cache itself is unreachable or the
// cached value is corrupt — both are hard failures the caller should
// surface rather than silently fall through to the store for.
func (c *Cache) GetProduct(ctx context.Context, symbol string) (*types.Product, error) {
	return getJSON[types.Product](ctx, c, ProductKey(symbol))
}

// SetProduct writes a product snapshot. Failures are logged and
// swallowed: populating the cache is never allowed to fail a request.
func (c *Cache) SetProduct(ctx context.Context, p types.Product) {
	setJSON(ctx, c, ProductKey(p.Symbol), p)
}

// GetAccount returns the cached account, or (nil, nil) on a clean cache miss.
func (c *Cache) GetAccount(ctx context.Context, userID int32) (*types.Account, error) {
	return getJSON[types.Account](ctx, c, AccountKey(userID))
}

// SetAccount writes an account snapshot, used both to populate the cache
// on a miss and, after a successful order commit, to write the
// post-commit balance straight through instead of merely invalidating
// the stale entry.
func (c *Cache) SetAccount(ctx context.Context, a types.Account) {
	setJSON(ctx, c, AccountKey(a.UserID), a)
}

func getJSON[T any](ctx context.Context, c *Cache, key string) (*T, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		c.logger.Debug("cache miss", "key", key)
		return nil, nil
	}
	if err != nil {
		return nil, apierr.Wrap(apierr.Cache, err)
	}

	var v T
	if err := json.Unmarshal([]byte(val), &v); err != nil {
		return nil, apierr.Wrap(apierr.Serde, err)
	}
	c.logger.Debug("cache hit", "key", key)
	return &v, nil
}

func setJSON[T any](ctx context.Context, c *Cache, key string, v T) {
	data, err := json.Marshal(v)
	if err != nil {
		c.logger.Warn("cache marshal failed", "key", key, "error", err)
		return
	}
	if err := c.rdb.Set(ctx, key, data, 0).Err(); err != nil {
		c.logger.Warn("cache set failed", "key", key, "error", err)
	}
}
