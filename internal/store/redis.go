package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"fluxline/internal/models"
)

// RedisGateway implements Gateway on a single Redis string key.
type RedisGateway struct {
	client *redis.Client
	key    string
	now    func() time.Time
}

// NewRedisGateway uses client for the slot named key.
func NewRedisGateway(client *redis.Client, key string) *RedisGateway {
	if client == nil {
		panic("store.NewRedisGateway: client is nil")
	}
	if key == "" {
		key = DefaultKey
	}
	return &RedisGateway{client: client, key: key, now: time.Now}
}

// Close closes the Redis client.
func (g *RedisGateway) Close() error {
	return g.client.Close()
}

// Load returns the slot contents, or nil if the key does not exist.
func (g *RedisGateway) Load(ctx context.Context) ([]byte, error) {
	data, err := g.client.Get(ctx, g.key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to load slot %s: %w", g.key, err)
	}
	return data, nil
}

// Save writes the full board document without expiry.
func (g *RedisGateway) Save(ctx context.Context, state models.State) error {
	data, err := Encode(state, g.now())
	if err != nil {
		return err
	}
	return g.Put(ctx, data)
}

// Put overwrites the slot with raw bytes. Save goes through it after
// encoding; tests call it directly to seed legacy documents.
func (g *RedisGateway) Put(ctx context.Context, data []byte) error {
	if err := g.client.Set(ctx, g.key, data, 0).Err(); err != nil {
		return fmt.Errorf("failed to save slot %s: %w", g.key, err)
	}
	return nil
}

// Clear empties the slot, so the next Open takes the first-run path.
func (g *RedisGateway) Clear(ctx context.Context) error {
	if err := g.client.Del(ctx, g.key).Err(); err != nil {
		return fmt.Errorf("failed to clear slot %s: %w", g.key, err)
	}
	return nil
}
