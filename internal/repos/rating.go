package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/gabriel-alecu/nextanime/internal/pkg/logger"
	"github.com/gabriel-alecu/nextanime/internal/types"
)

// CommonAnimeCount is one candidate peer from the ratings self-join:
// how many engaged animes they share with the queried user.
type CommonAnimeCount struct {
	OtherUserID      uuid.UUID `gorm:"column:other_user_id"`
	CommonAnimeCount int       `gorm:"column:common_anime_count"`
}

// PairRating is one co-rated anime for a user pair. Either score may be
// nil; such rows count toward overlap but not toward correlation.
type PairRating struct {
	AnimeID    uuid.UUID `gorm:"column:anime_id"`
	UserScore  *float64  `gorm:"column:user_score"`
	OtherScore *float64  `gorm:"column:other_score"`
}

// UserRatingBounds is a user's personal rating scale: the min and max
// over their non-null scores.
type UserRatingBounds struct {
	UserID   uuid.UUID `gorm:"column:user_id"`
	MinScore float64   `gorm:"column:min_score"`
	MaxScore float64   `gorm:"column:max_score"`
}

// PeerRating is one engaged rating row from a peer, restricted to
// animes the target user has no entry for.
type PeerRating struct {
	UserID  uuid.UUID `gorm:"column:user_id"`
	AnimeID uuid.UUID `gorm:"column:anime_id"`
	Score   *float64  `gorm:"column:score"`
}

type RatingRepo interface {
	Upsert(ctx context.Context, tx *gorm.DB, rating *types.UserAnime) (*types.UserAnime, error)
	GetByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserAnime, error)
	CommonAnimeCounts(ctx context.Context, tx *gorm.DB, userID uuid.UUID, engagedStatuses []string, minCommon int) ([]CommonAnimeCount, error)
	PairRatings(ctx context.Context, tx *gorm.DB, userID, otherUserID uuid.UUID, engagedStatuses []string) ([]PairRating, error)
	RatingBounds(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]UserRatingBounds, error)
	PeerRatingsExcludingUser(ctx context.Context, tx *gorm.DB, targetUserID uuid.UUID, peerIDs []uuid.UUID, engagedStatuses []string) ([]PeerRating, error)
}

type ratingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRatingRepo(db *gorm.DB, baseLog *logger.Logger) RatingRepo {
	repoLog := baseLog.With("repo", "RatingRepo")
	return &ratingRepo{db: db, log: repoLog}
}

func (rr *ratingRepo) Upsert(ctx context.Context, tx *gorm.DB, rating *types.UserAnime) (*types.UserAnime, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	if err := transaction.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}, {Name: "anime_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"status", "score", "updated_at"}),
		}).
		Create(rating).Error; err != nil {
		return nil, err
	}
	return rating, nil
}

func (rr *ratingRepo) GetByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.UserAnime, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []*types.UserAnime
	if err := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// CommonAnimeCounts self-joins the ratings table on anime_id, both
// sides restricted to engaged statuses, and keeps every other user
// sharing at least minCommon distinct animes with userID.
func (rr *ratingRepo) CommonAnimeCounts(ctx context.Context, tx *gorm.DB, userID uuid.UUID, engagedStatuses []string, minCommon int) ([]CommonAnimeCount, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []CommonAnimeCount
	if err := transaction.WithContext(ctx).
		Table("users_anime AS ua1").
		Select("ua2.user_id AS other_user_id, COUNT(DISTINCT ua2.anime_id) AS common_anime_count").
		Joins("INNER JOIN users_anime AS ua2 ON ua2.anime_id = ua1.anime_id AND ua2.user_id <> ua1.user_id").
		Where("ua1.user_id = ?", userID).
		Where("ua1.status IN ?", engagedStatuses).
		Where("ua2.status IN ?", engagedStatuses).
		Group("ua2.user_id").
		Having("COUNT(DISTINCT ua2.anime_id) >= ?", minCommon).
		Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// PairRatings returns the co-rated (anime, score, score) rows for a
// user pair, both sides engaged. Null scores are returned as nil.
func (rr *ratingRepo) PairRatings(ctx context.Context, tx *gorm.DB, userID, otherUserID uuid.UUID, engagedStatuses []string) ([]PairRating, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []PairRating
	if err := transaction.WithContext(ctx).
		Table("users_anime AS ua1").
		Select("ua1.anime_id AS anime_id, ua1.score AS user_score, ua2.score AS other_score").
		Joins("INNER JOIN users_anime AS ua2 ON ua2.anime_id = ua1.anime_id").
		Where("ua1.user_id = ?", userID).
		Where("ua2.user_id = ?", otherUserID).
		Where("ua1.status IN ?", engagedStatuses).
		Where("ua2.status IN ?", engagedStatuses).
		Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// RatingBounds computes each listed user's personal min/max over their
// non-null scores, across all of their ratings.
func (rr *ratingRepo) RatingBounds(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]UserRatingBounds, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []UserRatingBounds
	if len(userIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Model(&types.UserAnime{}).
		Select("user_id, MIN(score) AS min_score, MAX(score) AS max_score").
		Where("user_id IN ?", userIDs).
		Where("score IS NOT NULL").
		Group("user_id").
		Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// PeerRatingsExcludingUser returns the engaged rating rows of the given
// peers for animes the target user has no entry for at all. The target
// exclusion is deliberately status-blind: an anime the target dropped or
// merely plans to watch is still excluded, while peer rows only count
// when engaged.
func (rr *ratingRepo) PeerRatingsExcludingUser(ctx context.Context, tx *gorm.DB, targetUserID uuid.UUID, peerIDs []uuid.UUID, engagedStatuses []string) ([]PeerRating, error) {
	transaction := tx
	if transaction == nil {
		transaction = rr.db
	}

	var results []PeerRating
	if len(peerIDs) == 0 {
		return results, nil
	}

	targetAnime := transaction.
		Model(&types.UserAnime{}).
		Select("anime_id").
		Where("user_id = ?", targetUserID)

	if err := transaction.WithContext(ctx).
		Model(&types.UserAnime{}).
		Select("user_id, anime_id, score").
		Where("user_id IN ?", peerIDs).
		Where("status IN ?", engagedStatuses).
		Where("anime_id NOT IN (?)", targetAnime).
		Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
