// Package cache keeps read-mostly reference data close to the handlers.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/anonto42/foodhelper/backend/internal/models"
)

const (
	ingredientKeyPrefix = "cache:ingredients:"
	DefaultTTL          = time.Hour
)

// IngredientCache stores ingredient search results keyed by name prefix.
type IngredientCache interface {
	Get(ctx context.Context, prefix string) ([]models.Ingredient, bool, error)
	Set(ctx context.Context, prefix string, items []models.Ingredient) error
	Invalidate(ctx context.Context) error
}

type RedisIngredientCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisIngredientCache(rdb *redis.Client, ttl time.Duration) *RedisIngredientCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisIngredientCache{rdb: rdb, ttl: ttl}
}

// Get reports a miss with ok=false; only transport or decoding faults return an error.
func (c *RedisIngredientCache) Get(ctx context.Context, prefix string) ([]models.Ingredient, bool, error) {
	raw, err := c.rdb.Get(ctx, IngredientKey(prefix)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	var items []models.Ingredient
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, false, err
	}
	return items, true, nil
}

func (c *RedisIngredientCache) Set(ctx context.Context, prefix string, items []models.Ingredient) error {
	data, err := json.Marshal(items)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, IngredientKey(prefix), data, c.ttl).Err()
}

// Invalidate drops every cached search, e.g. after reference data was reloaded.
func (c *RedisIngredientCache) Invalidate(ctx context.Context) error {
	iter := c.rdb.Scan(ctx, 0, ingredientKeyPrefix+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}
	if len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// IngredientKey normalises the search prefix the same way the query does.
func IngredientKey(prefix string) string {
	return ingredientKeyPrefix + strings.ToLower(strings.TrimSpace(prefix))
}

// Noop never hits. Used when Redis is not configured.
type Noop struct{}

func (Noop) Get(context.Context, string) ([]models.Ingredient, bool, error) { return nil, false, nil }
func (Noop) Set(context.Context, string, []models.Ingredient) error         { return nil }
func (Noop) Invalidate(context.Context) error                               { return nil }
