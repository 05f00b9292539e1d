package persistence

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/spec-kit/lostfound-service/internal/domain"
)

const (
	leaderboardKey = "leaderboard:top"
	leaderboardTTL = 30 * time.Second
)

// RedisLeaderboardCache stores the default leaderboard page in Redis with a
// short TTL, invalidated whenever an acceptance changes points.
type RedisLeaderboardCache struct {
	client *redis.Client
}

// NewRedisLeaderboardCache constructs the cache.
func NewRedisLeaderboardCache(client *redis.Client) *RedisLeaderboardCache {
	return &RedisLeaderboardCache{client: client}
}

// Get returns the cached board, or a nil slice on a miss.
func (c *RedisLeaderboardCache) Get(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	payload, err := c.client.Get(ctx, leaderboardKey).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var entries []domain.LeaderboardEntry
	if err := json.Unmarshal(payload, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Set stores the board.
func (c *RedisLeaderboardCache) Set(ctx context.Context, entries []domain.LeaderboardEntry) error {
	payload, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, leaderboardKey, payload, leaderboardTTL).Err()
}

// Invalidate drops the cached board.
func (c *RedisLeaderboardCache) Invalidate(ctx context.Context) error {
	return c.client.Del(ctx, leaderboardKey).Err()
}
