// Package cache holds the Redis-backed equipment catalog cache.
package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
	"tourify/internal/models"
)

const (
	catalogPrefix        = "tourify:catalog"
	catalogGenerationKey = catalogPrefix + ":gen"
)

// CatalogCache stores catalog list results under a generation-scoped key.
// Any write bumps the generation, which orphans every cached list; orphans
// expire with their TTL. Redis errors are logged and treated as misses.
type CatalogCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewCatalogCache(rdb *redis.Client, ttl time.Duration) *CatalogCache {
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &CatalogCache{rdb: rdb, ttl: ttl}
}

// listKey derives the key for a filter within a generation.
func listKey(generation int64, filter models.CatalogFilter) string {
	raw := fmt.Sprintf("%s|%s|%s|%d|%d", filter.Category, filter.VendorID, filter.Search, filter.Limit, filter.Offset)
	sum := sha1.Sum([]byte(raw))
	return fmt.Sprintf("%s:v%d:%s", catalogPrefix, generation, hex.EncodeToString(sum[:]))
}

func (c *CatalogCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.rdb.Get(ctx, catalogGenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *CatalogCache) GetList(ctx context.Context, filter models.CatalogFilter) ([]*models.EquipmentCatalogEntry, bool) {
	gen, err := c.generation(ctx)
	if err != nil {
		log.Printf("[cache] catalog generation read failed: %v", err)
		return nil, false
	}

	raw, err := c.rdb.Get(ctx, listKey(gen, filter)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("[cache] catalog read failed: %v", err)
		}
		return nil, false
	}

	var entries []*models.EquipmentCatalogEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		log.Printf("[cache] catalog decode failed: %v", err)
		return nil, false
	}
	return entries, true
}

func (c *CatalogCache) SetList(ctx context.Context, filter models.CatalogFilter, entries []*models.EquipmentCatalogEntry) {
	gen, err := c.generation(ctx)
	if err != nil {
		log.Printf("[cache] catalog generation read failed: %v", err)
		return
	}
	if entries == nil {
		entries = []*models.EquipmentCatalogEntry{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, listKey(gen, filter), raw, c.ttl).Err(); err != nil {
		log.Printf("[cache] catalog write failed: %v", err)
	}
}

func (c *CatalogCache) Invalidate(ctx context.Context) {
	if err := c.rdb.Incr(ctx, catalogGenerationKey).Err(); err != nil {
		log.Printf("[cache] catalog invalidate failed: %v", err)
	}
}
