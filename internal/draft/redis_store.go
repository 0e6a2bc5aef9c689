// Package draft stores per-visitor section snapshots in Redis. Drafts are the
// local-only fallback layer: they apply while a section has no authoritative
// remote rows and are discarded once it does.
package draft

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"portfolio/api/internal/content"
)

// Visitor drafts expire on their own; nothing references them once the
// visitor cookie rotates.
const defaultTTL = 30 * 24 * time.Hour

// RedisStore implements draft snapshot storage using Redis.
type RedisStore struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection.
func NewRedisStore(redisURL string) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return NewRedisStoreWithClient(client), nil
}

// NewRedisStoreWithClient creates a store from an existing Redis client.
func NewRedisStoreWithClient(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: "draft:",
		ttl:    defaultTTL,
	}
}

func (s *RedisStore) key(visitorID, sectionKey string) string {
	return s.prefix + visitorID + ":" + sectionKey
}

// Save replaces the visitor's snapshot for one section and refreshes the TTL.
func (s *RedisStore) Save(ctx context.Context, visitorID, sectionKey string, items []content.Item) error {
	jsonData, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("marshal draft: %w", err)
	}
	if err := s.client.Set(ctx, s.key(visitorID, sectionKey), jsonData, s.ttl).Err(); err != nil {
		return fmt.Errorf("save draft: %w", err)
	}
	return nil
}

// Load returns the stored snapshot; ok is false when none exists.
func (s *RedisStore) Load(ctx context.Context, visitorID, sectionKey string) ([]content.Item, bool, error) {
	jsonData, err := s.client.Get(ctx, s.key(visitorID, sectionKey)).Result()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("load draft: %w", err)
	}

	var items []content.Item
	if err := json.Unmarshal([]byte(jsonData), &items); err != nil {
		return nil, false, fmt.Errorf("unmarshal draft: %w", err)
	}
	return items, true, nil
}

// Discard deletes the snapshot. Discarding a missing draft is not an error.
func (s *RedisStore) Discard(ctx context.Context, visitorID, sectionKey string) error {
	if err := s.client.Del(ctx, s.key(visitorID, sectionKey)).Err(); err != nil {
		return fmt.Errorf("discard draft: %w", err)
	}
	return nil
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// Ping checks if Redis is reachable.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
