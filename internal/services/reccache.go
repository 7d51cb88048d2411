package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/samber/lo"

	"github.com/gabriel-alecu/nextanime/internal/pkg/logger"
)

// RecommendationCache stores a user's ranked recommendation ids so a
// repeat request skips the aggregation queries. Entries expire on TTL
// and are invalidated whenever the user's ratings or edges change.
type RecommendationCache interface {
	Get(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, bool, error)
	Set(ctx context.Context, userID uuid.UUID, animeIDs []uuid.UUID) error
	Invalidate(ctx context.Context, userIDs ...uuid.UUID) error
}

type redisRecommendationCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

func NewRedisRecommendationCache(addr, password string, redisDB int, ttl time.Duration, log *logger.Logger) RecommendationCache {
	cacheLog := log.With("service", "RecommendationCache")
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       redisDB,
	})
	return &redisRecommendationCache{client: client, ttl: ttl, log: cacheLog}
}

func cacheKey(userID uuid.UUID) string {
	return "nextanime:recommendations:" + userID.String()
}

func (rc *redisRecommendationCache) Get(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, bool, error) {
	raw, err := rc.client.Get(ctx, cacheKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}
	if raw == "" {
		return []uuid.UUID{}, true, nil
	}

	parts := strings.Split(raw, ",")
	animeIDs := make([]uuid.UUID, 0, len(parts))
	for _, part := range parts {
		animeID, parseErr := uuid.Parse(part)
		if parseErr != nil {
			// Treat a corrupt entry as a miss and drop it.
			rc.log.Warn("Dropping corrupt recommendation cache entry", "user_id", userID, "error", parseErr)
			_ = rc.client.Del(ctx, cacheKey(userID)).Err()
			return nil, false, nil
		}
		animeIDs = append(animeIDs, animeID)
	}
	return animeIDs, true, nil
}

func (rc *redisRecommendationCache) Set(ctx context.Context, userID uuid.UUID, animeIDs []uuid.UUID) error {
	raw := strings.Join(lo.Map(animeIDs, func(id uuid.UUID, _ int) string { return id.String() }), ",")
	if err := rc.client.Set(ctx, cacheKey(userID), raw, rc.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (rc *redisRecommendationCache) Invalidate(ctx context.Context, userIDs ...uuid.UUID) error {
	if len(userIDs) == 0 {
		return nil
	}
	keys := lo.Map(userIDs, func(id uuid.UUID, _ int) string { return cacheKey(id) })
	if err := rc.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
