package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gabriel-alecu/nextanime/internal/pkg/logger"
	"github.com/gabriel-alecu/nextanime/internal/types"
)

// SimilarityRepo owns the users_similar table. Edges live as symmetric
// row pairs; CreatePair and DeletePair always touch both directions so
// the symmetry invariant cannot be broken halfway when they run inside
// a transaction.
type SimilarityRepo interface {
	PeerIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error)
	TopPeers(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.UserSimilar, error)
	GetEdges(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserSimilar, error)
	CreatePair(ctx context.Context, tx *gorm.DB, userID, otherUserID uuid.UUID, commonAnimeCount int, correlationScore float64) error
	DeletePair(ctx context.Context, tx *gorm.DB, userID, otherUserID uuid.UUID) error
}

type similarityRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewSimilarityRepo(db *gorm.DB, baseLog *logger.Logger) SimilarityRepo {
	repoLog := baseLog.With("repo", "SimilarityRepo")
	return &similarityRepo{db: db, log: repoLog}
}

func (sr *similarityRepo) PeerIDs(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]uuid.UUID, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var results []uuid.UUID
	if err := transaction.WithContext(ctx).
		Model(&types.UserSimilar{}).
		Where("this_user_id = ?", userID).
		Pluck("other_user_id", &results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// TopPeers orders by overlap first and correlation second: a peer with
// more shared animes outranks one with a marginally better correlation.
func (sr *similarityRepo) TopPeers(ctx context.Context, tx *gorm.DB, userID uuid.UUID, limit int) ([]*types.UserSimilar, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var results []*types.UserSimilar
	if err := transaction.WithContext(ctx).
		Where("this_user_id = ?", userID).
		Order("common_anime_count DESC").
		Order("correlation_score DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *similarityRepo) GetEdges(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserSimilar, error) {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	var results []*types.UserSimilar
	if err := transaction.WithContext(ctx).
		Where("this_user_id = ? OR other_user_id = ?", userID, userID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (sr *similarityRepo) CreatePair(ctx context.Context, tx *gorm.DB, userID, otherUserID uuid.UUID, commonAnimeCount int, correlationScore float64) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	edges := []*types.UserSimilar{
		{
			ThisUserID:       userID,
			OtherUserID:      otherUserID,
			CommonAnimeCount: commonAnimeCount,
			CorrelationScore: correlationScore,
		},
		{
			ThisUserID:       otherUserID,
			OtherUserID:      userID,
			CommonAnimeCount: commonAnimeCount,
			CorrelationScore: correlationScore,
		},
	}
	return transaction.WithContext(ctx).Create(&edges).Error
}

func (sr *similarityRepo) DeletePair(ctx context.Context, tx *gorm.DB, userID, otherUserID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = sr.db
	}

	return transaction.WithContext(ctx).
		Where("(this_user_id = ? AND other_user_id = ?) OR (this_user_id = ? AND other_user_id = ?)",
			userID, otherUserID, otherUserID, userID).
		Delete(&types.UserSimilar{}).Error
}
