package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"tourify/internal/models"
)

func TestListKeyVariesByFilterAndGeneration(t *testing.T) {
	a := listKey(0, models.CatalogFilter{Category: "sound"})
	b := listKey(0, models.CatalogFilter{Category: "lighting"})
	c := listKey(1, models.CatalogFilter{Category: "sound"})

	if a == b || a == c {
		t.Fatalf("expected distinct keys, got %s %s %s", a, b, c)
	}
	if a != listKey(0, models.CatalogFilter{Category: "sound"}) {
		t.Fatalf("key must be stable")
	}
	if !strings.HasPrefix(c, "tourify:catalog:v1:") {
		t.Fatalf("unexpected key %s", c)
	}
}

func TestUnreachableRedisIsAMiss(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer rdb.Close()

	c := NewCatalogCache(rdb, time.Minute)
	ctx := context.Background()
	filter := models.CatalogFilter{Search: "truss"}

	c.SetList(ctx, filter, []*models.EquipmentCatalogEntry{{ID: "c1"}})
	if _, ok := c.GetList(ctx, filter); ok {
		t.Fatalf("expected a miss without redis")
	}
	c.Invalidate(ctx)
}
