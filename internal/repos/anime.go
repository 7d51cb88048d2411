package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gabriel-alecu/nextanime/internal/pkg/logger"
	"github.com/gabriel-alecu/nextanime/internal/types"
)

type AnimeRepo interface {
	Create(ctx context.Context, tx *gorm.DB, animes []*types.Anime) ([]*types.Anime, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, animeIDs []uuid.UUID) ([]*types.Anime, error)
	List(ctx context.Context, tx *gorm.DB) ([]*types.Anime, error)
}

type animeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAnimeRepo(db *gorm.DB, baseLog *logger.Logger) AnimeRepo {
	repoLog := baseLog.With("repo", "AnimeRepo")
	return &animeRepo{db: db, log: repoLog}
}

func (ar *animeRepo) Create(ctx context.Context, tx *gorm.DB, animes []*types.Anime) ([]*types.Anime, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	if len(animes) == 0 {
		return []*types.Anime{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&animes).Error; err != nil {
		return nil, err
	}
	return animes, nil
}

// GetByIDs does not preserve the order of animeIDs; callers that care
// about ranking must re-order the result themselves.
func (ar *animeRepo) GetByIDs(ctx context.Context, tx *gorm.DB, animeIDs []uuid.UUID) ([]*types.Anime, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var results []*types.Anime
	if len(animeIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", animeIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ar *animeRepo) List(ctx context.Context, tx *gorm.DB) ([]*types.Anime, error) {
	transaction := tx
	if transaction == nil {
		transaction = ar.db
	}

	var results []*types.Anime
	if err := transaction.WithContext(ctx).
		Order("title ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
