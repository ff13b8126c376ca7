package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"storefront/models"
)

const (
	listCachePrefix = "catalog:list:v"
	versionKey      = "catalog:version"
)

// DefaultTTL bounds staleness even without an explicit invalidation.
const DefaultTTL = 5 * time.Minute

// CatalogCache caches catalog listings in Redis. Invalidation bumps a
// version key, orphaning all entries written under older versions;
// orphans expire via TTL.
type CatalogCache struct {
	redis  *redis.Client
	ttl    time.Duration
	logger *zap.Logger
}

func New(client *redis.Client, logger *zap.Logger) *CatalogCache {
	return &CatalogCache{
		redis:  client,
		ttl:    DefaultTTL,
		logger: logger,
	}
}

func (c *CatalogCache) GetList(ctx context.Context, key string) ([]models.Software, bool) {
	version, err := c.version(ctx)
	if err != nil || version == 0 {
		return nil, false
	}

	data, err := c.redis.Get(ctx, c.listKey(version, key)).Result()
	if err != nil {
		return nil, false
	}

	var items []models.Software
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		c.logger.Warn("failed to unmarshal cached catalog list", zap.Error(err))
		return nil, false
	}
	return items, true
}

func (c *CatalogCache) SetList(ctx context.Context, key string, items []models.Software) {
	version, err := c.version(ctx)
	if err != nil || version == 0 {
		return
	}

	data, err := json.Marshal(items)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, c.listKey(version, key), data, c.ttl).Err(); err != nil {
		c.logger.Warn("failed to cache catalog list", zap.Error(err))
	}
}

// Invalidate bumps the version so every cached list is bypassed.
func (c *CatalogCache) Invalidate(ctx context.Context) {
	if err := c.redis.Incr(ctx, versionKey).Err(); err != nil {
		c.logger.Warn("failed to bump catalog cache version", zap.Error(err))
	}
}

func (c *CatalogCache) version(ctx context.Context) (int64, error) {
	val, err := c.redis.Get(ctx, versionKey).Result()
	if err == redis.Nil {
		// first use: seed the version key
		if err := c.redis.Set(ctx, versionKey, 1, 0).Err(); err != nil {
			return 0, err
		}
		return 1, nil
	}
	if err != nil {
		return 0, err
	}
	return strconv.ParseInt(val, 10, 64)
}

func (c *CatalogCache) listKey(version int64, key string) string {
	return fmt.Sprintf("%s%d:%s", listCachePrefix, version, key)
}
