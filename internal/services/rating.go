package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/gabriel-alecu/nextanime/internal/pkg/logger"
	"github.com/gabriel-alecu/nextanime/internal/repos"
	"github.com/gabriel-alecu/nextanime/internal/types"
)

// RatingService owns the rating-entry flow: it is the only writer of
// users_anime rows. The similarity and recommendation services only
// read them.
type RatingService interface {
	UpsertRating(ctx context.Context, user *types.User, animeID uuid.UUID, status string, score *float64) (*types.UserAnime, error)
	ListForUser(ctx context.Context, user *types.User) ([]*types.UserAnime, error)
}

type ratingService struct {
	db         *gorm.DB
	log        *logger.Logger
	animeRepo  repos.AnimeRepo
	ratingRepo repos.RatingRepo
	cache      RecommendationCache
}

// NewRatingService wires the rating-entry glue. cache may be nil.
func NewRatingService(
	db *gorm.DB,
	log *logger.Logger,
	animeRepo repos.AnimeRepo,
	ratingRepo repos.RatingRepo,
	cache RecommendationCache,
) RatingService {
	serviceLog := log.With("service", "RatingService")
	return &ratingService{
		db:         db,
		log:        serviceLog,
		animeRepo:  animeRepo,
		ratingRepo: ratingRepo,
		cache:      cache,
	}
}

func (rs *ratingService) UpsertRating(ctx context.Context, user *types.User, animeID uuid.UUID, status string, score *float64) (*types.UserAnime, error) {
	if !lo.Contains(types.KnownStatuses(), status) {
		return nil, fmt.Errorf("unknown status %q", status)
	}
	if score != nil && (*score < 0 || *score > types.RatingScaleMax) {
		return nil, fmt.Errorf("score must be between 0 and %d", types.RatingScaleMax)
	}

	animes, err := rs.animeRepo.GetByIDs(ctx, nil, []uuid.UUID{animeID})
	if err != nil {
		return nil, fmt.Errorf("retrieve anime: %w", err)
	}
	if len(animes) == 0 {
		return nil, fmt.Errorf("anime not found")
	}

	rating := &types.UserAnime{
		UserID:  user.ID,
		AnimeID: animeID,
		Status:  status,
		Score:   score,
	}
	if _, err := rs.ratingRepo.Upsert(ctx, nil, rating); err != nil {
		return nil, fmt.Errorf("upsert rating: %w", err)
	}

	// The user's cached recommendations no longer reflect their list.
	// Peer caches go stale too but are left to expire on TTL.
	if rs.cache != nil {
		if err := rs.cache.Invalidate(ctx, user.ID); err != nil {
			rs.log.Warn("Recommendation cache invalidation failed", "user_id", user.ID, "error", err)
		}
	}

	return rating, nil
}

func (rs *ratingService) ListForUser(ctx context.Context, user *types.User) ([]*types.UserAnime, error) {
	ratings, err := rs.ratingRepo.GetByUser(ctx, nil, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list ratings: %w", err)
	}
	return ratings, nil
}
