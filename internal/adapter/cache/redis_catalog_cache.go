package cache

import (
	"context"
	"encoding/json"
	"time"

	domain "github.com/ltp2209/stockpos-api/internal/entity"
	"github.com/ltp2209/stockpos-api/internal/usecase"
	"github.com/redis/go-redis/v9"
)

const itemsKey = "catalog:items"

// RedisCatalogCache holds the serialized item listing for a short TTL.
// It never caches quantities authoritatively: any write path (item CRUD,
// order commit, stock adjustment) invalidates the key, and the locked
// database row stays the source of truth.
type RedisCatalogCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisCatalogCache(rdb *redis.Client, ttl time.Duration) *RedisCatalogCache {
	return &RedisCatalogCache{rdb: rdb, ttl: ttl}
}

func (c *RedisCatalogCache) GetItems(ctx context.Context) ([]domain.Item, bool, error) {
	raw, err := c.rdb.Get(ctx, itemsKey).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var items []domain.Item
	if err := json.Unmarshal(raw, &items); err != nil {
		// stale/corrupt entry; drop it
		_ = c.rdb.Del(ctx, itemsKey).Err()
		return nil, false, nil
	}
	return items, true, nil
}

func (c *RedisCatalogCache) SetItems(ctx context.Context, items []domain.Item) error {
	raw, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, itemsKey, raw, c.ttl).Err()
}

func (c *RedisCatalogCache) Invalidate(ctx context.Context) error {
	return c.rdb.Del(ctx, itemsKey).Err()
}

var _ usecase.CatalogCache = (*RedisCatalogCache)(nil)
