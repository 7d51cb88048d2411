package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/gabriel-alecu/nextanime/internal/pkg/logger"
	"github.com/gabriel-alecu/nextanime/internal/repos"
	"github.com/gabriel-alecu/nextanime/internal/stats"
	"github.com/gabriel-alecu/nextanime/internal/types"
)

// SimilarityService recomputes the similarity edges between one user
// and everyone sharing enough engaged animes with them. Each edge pair
// is replaced inside its own transaction, so two concurrent recomputes
// touching the same pair serialize on the pair instead of overwriting
// each other's half-written rows.
type SimilarityService interface {
	UpdateCompatibility(ctx context.Context, user *types.User) error
}

type similarityService struct {
	db             *gorm.DB
	log            *logger.Logger
	ratingRepo     repos.RatingRepo
	similarityRepo repos.SimilarityRepo
	cfg            RecommenderConfig
}

func NewSimilarityService(
	db *gorm.DB,
	log *logger.Logger,
	ratingRepo repos.RatingRepo,
	similarityRepo repos.SimilarityRepo,
	cfg RecommenderConfig,
) SimilarityService {
	serviceLog := log.With("service", "SimilarityService")
	return &similarityService{
		db:             db,
		log:            serviceLog,
		ratingRepo:     ratingRepo,
		similarityRepo: similarityRepo,
		cfg:            cfg,
	}
}

// UpdateCompatibility is a full recompute, not an incremental patch:
// every existing edge of the user is dropped first, then candidates are
// re-evaluated from scratch. A candidate whose correlation is undefined
// is skipped and logged; only store errors abort the run.
func (ss *similarityService) UpdateCompatibility(ctx context.Context, user *types.User) error {
	peerIDs, err := ss.similarityRepo.PeerIDs(ctx, nil, user.ID)
	if err != nil {
		return fmt.Errorf("load current similarity peers: %w", err)
	}
	for _, peerID := range peerIDs {
		if err := ss.replacePair(ctx, user.ID, peerID, nil); err != nil {
			return fmt.Errorf("detach similarity pair: %w", err)
		}
	}

	candidates, err := ss.ratingRepo.CommonAnimeCounts(ctx, nil, user.ID, ss.cfg.EngagedStatuses, ss.cfg.MinCommonSeries)
	if err != nil {
		return fmt.Errorf("query common anime counts: %w", err)
	}
	ss.log.Debug("Similarity candidates found", "user_id", user.ID, "candidates", len(candidates))

	for _, candidate := range candidates {
		pairRatings, err := ss.ratingRepo.PairRatings(ctx, nil, user.ID, candidate.OtherUserID, ss.cfg.EngagedStatuses)
		if err != nil {
			return fmt.Errorf("query pair ratings: %w", err)
		}

		userScores := make([]float64, 0, len(pairRatings))
		otherScores := make([]float64, 0, len(pairRatings))
		for _, pr := range pairRatings {
			if pr.UserScore == nil || pr.OtherScore == nil {
				continue
			}
			userScores = append(userScores, *pr.UserScore)
			otherScores = append(otherScores, *pr.OtherScore)
		}

		correlation, err := stats.Pearson(userScores, otherScores)
		if err != nil {
			if errors.Is(err, stats.ErrUndefinedCorrelation) {
				ss.log.Debug("Correlation undefined, skipping peer",
					"user_id", user.ID, "other_user_id", candidate.OtherUserID, "rated_pairs", len(userScores))
				continue
			}
			return fmt.Errorf("compute correlation: %w", err)
		}

		ss.log.Debug("Candidate peer correlation",
			"user_id", user.ID, "other_user_id", candidate.OtherUserID,
			"common_anime_count", candidate.CommonAnimeCount, "correlation", correlation)

		if correlation < ss.cfg.MinPearsonSimilarity {
			continue
		}

		edge := &edgeValues{commonAnimeCount: candidate.CommonAnimeCount, correlationScore: correlation}
		if err := ss.replacePair(ctx, user.ID, candidate.OtherUserID, edge); err != nil {
			return fmt.Errorf("attach similarity pair: %w", err)
		}
	}

	return nil
}

type edgeValues struct {
	commonAnimeCount int
	correlationScore float64
}

// replacePair deletes both directed rows for a pair and, when edge is
// non-nil, writes the fresh symmetric pair — all within one transaction
// scoped to that pair.
func (ss *similarityService) replacePair(ctx context.Context, userID, otherUserID uuid.UUID, edge *edgeValues) error {
	return ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ss.similarityRepo.DeletePair(ctx, tx, userID, otherUserID); err != nil {
			return err
		}
		if edge == nil {
			return nil
		}
		return ss.similarityRepo.CreatePair(ctx, tx, userID, otherUserID, edge.commonAnimeCount, edge.correlationScore)
	})
}
