package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/base-genesis/internal/types"
)

// CacheService provides high-level caching for derived leaderboard data.
// The cached snapshot is an enrichment: reads fall back to it only when the
// profile store is unavailable, and a cold cache is never an error.
type CacheService struct {
	redis *RedisCache
	ttl   time.Duration
}

// NewCacheService creates a new cache service
func NewCacheService(redis *RedisCache, ttl time.Duration) *CacheService {
	return &CacheService{
		redis: redis,
		ttl:   ttl,
	}
}

// cacheKey builds a key of the form <type>:<param>:..., params lowercased.
func cacheKey(keyType string, params ...string) string {
	parts := make([]string, 0, len(params)+1)
	parts = append(parts, keyType)
	for _, p := range params {
		parts = append(parts, strings.ToLower(p))
	}
	return strings.Join(parts, ":")
}

// LeaderboardKey generates the cache key for a top-n leaderboard snapshot.
// Format: leaderboard:top:<n>
func LeaderboardKey(n int) string {
	return cacheKey("leaderboard", "top", strconv.Itoa(n))
}

// SetLeaderboard stores a leaderboard snapshot with the configured TTL.
func (c *CacheService) SetLeaderboard(ctx context.Context, n int, board *types.Leaderboard) error {
	data, err := json.Marshal(board)
	if err != nil {
		return fmt.Errorf("failed to marshal leaderboard: %w", err)
	}

	if err := c.redis.Set(ctx, LeaderboardKey(n), data, c.ttl); err != nil {
		return fmt.Errorf("failed to cache leaderboard: %w", err)
	}

	return nil
}

// GetLeaderboard retrieves a cached leaderboard snapshot. Returns (nil, nil)
// on a cache miss.
func (c *CacheService) GetLeaderboard(ctx context.Context, n int) (*types.Leaderboard, error) {
	data, err := c.redis.Get(ctx, LeaderboardKey(n))
	if err != nil {
		if IsMiss(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read cached leaderboard: %w", err)
	}

	var board types.Leaderboard
	if err := json.Unmarshal([]byte(data), &board); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached leaderboard: %w", err)
	}

	board.FromCache = true
	return &board, nil
}

// InvalidateLeaderboard drops the cached snapshot for a given size.
func (c *CacheService) InvalidateLeaderboard(ctx context.Context, n int) error {
	return c.redis.Del(ctx, LeaderboardKey(n))
}
