package geocode

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache stores resolved coordinates per normalised postal code.
type Cache interface {
	Get(ctx context.Context, cep string) (Coordinates, bool, error)
	Set(ctx context.Context, cep string, coords Coordinates) error
}

type nopCache struct{}

func (nopCache) Get(context.Context, string) (Coordinates, bool, error) {
	return Coordinates{}, false, nil
}

func (nopCache) Set(context.Context, string, Coordinates) error { return nil }

type redisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) Cache {
	return &redisCache{client: client, ttl: ttl}
}

func (c *redisCache) key(cep string) string {
	return "geocode:cep:" + cep
}

func (c *redisCache) Get(ctx context.Context, cep string) (Coordinates, bool, error) {
	raw, err := c.client.Get(ctx, c.key(cep)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Coordinates{}, false, nil
	}
	if err != nil {
		return Coordinates{}, false, fmt.Errorf("redis get: %w", err)
	}

	var coords Coordinates
	if err := json.Unmarshal(raw, &coords); err != nil {
		return Coordinates{}, false, fmt.Errorf("decode cached coordinates: %w", err)
	}
	return coords, true, nil
}

func (c *redisCache) Set(ctx context.Context, cep string, coords Coordinates) error {
	raw, err := json.Marshal(coords)
	if err != nil {
		return fmt.Errorf("encode coordinates: %w", err)
	}
	return c.client.Set(ctx, c.key(cep), raw, c.ttl).Err()
}
