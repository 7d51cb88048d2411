package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/gorm"

	"github.com/gabriel-alecu/nextanime/internal/pkg/logger"
	"github.com/gabriel-alecu/nextanime/internal/repos"
	"github.com/gabriel-alecu/nextanime/internal/types"
)

// RecommendationService suggests animes a user hasn't seen by
// aggregating what their most similar peers rated. Read-only over the
// store; an empty result is a normal outcome, not an error.
type RecommendationService interface {
	GetRecommendations(ctx context.Context, user *types.User) ([]*types.Anime, error)
}

type recommendationService struct {
	db             *gorm.DB
	log            *logger.Logger
	animeRepo      repos.AnimeRepo
	ratingRepo     repos.RatingRepo
	similarityRepo repos.SimilarityRepo
	cache          RecommendationCache
	cfg            RecommenderConfig
}

// NewRecommendationService wires the generator. cache may be nil, in
// which case every call recomputes from the store.
func NewRecommendationService(
	db *gorm.DB,
	log *logger.Logger,
	animeRepo repos.AnimeRepo,
	ratingRepo repos.RatingRepo,
	similarityRepo repos.SimilarityRepo,
	cache RecommendationCache,
	cfg RecommenderConfig,
) RecommendationService {
	serviceLog := log.With("service", "RecommendationService")
	return &recommendationService{
		db:             db,
		log:            serviceLog,
		animeRepo:      animeRepo,
		ratingRepo:     ratingRepo,
		similarityRepo: similarityRepo,
		cache:          cache,
		cfg:            cfg,
	}
}

type animeAggregate struct {
	animeID       uuid.UUID
	nrAppearances int
	ratingSum     float64
	ratingCount   int
}

func (agg *animeAggregate) avgRating() float64 {
	if agg.ratingCount == 0 {
		return 0
	}
	return agg.ratingSum / float64(agg.ratingCount)
}

func (rs *recommendationService) GetRecommendations(ctx context.Context, user *types.User) ([]*types.Anime, error) {
	if rs.cache != nil {
		cachedIDs, hit, err := rs.cache.Get(ctx, user.ID)
		if err != nil {
			rs.log.Warn("Recommendation cache lookup failed, recomputing", "user_id", user.ID, "error", err)
		} else if hit {
			return rs.resolveInRankOrder(ctx, cachedIDs)
		}
	}

	rankedIDs, err := rs.rankCandidates(ctx, user)
	if err != nil {
		return nil, err
	}

	if rs.cache != nil {
		if err := rs.cache.Set(ctx, user.ID, rankedIDs); err != nil {
			rs.log.Warn("Recommendation cache write failed", "user_id", user.ID, "error", err)
		}
	}

	return rs.resolveInRankOrder(ctx, rankedIDs)
}

// rankCandidates produces the ranked anime ids: top-N peers by
// (overlap, correlation), their engaged ratings minus everything on the
// target's list, aggregated per anime and ordered by peer count then
// average normalized rating.
func (rs *recommendationService) rankCandidates(ctx context.Context, user *types.User) ([]uuid.UUID, error) {
	peers, err := rs.similarityRepo.TopPeers(ctx, nil, user.ID, rs.cfg.MaxNumSimilarUsers)
	if err != nil {
		return nil, fmt.Errorf("query similar users: %w", err)
	}
	if len(peers) == 0 {
		return []uuid.UUID{}, nil
	}
	peerIDs := lo.Map(peers, func(p *types.UserSimilar, _ int) uuid.UUID { return p.OtherUserID })

	bounds, err := rs.ratingRepo.RatingBounds(ctx, nil, peerIDs)
	if err != nil {
		return nil, fmt.Errorf("query rating bounds: %w", err)
	}
	boundsByUser := lo.KeyBy(bounds, func(b repos.UserRatingBounds) uuid.UUID { return b.UserID })

	peerRatings, err := rs.ratingRepo.PeerRatingsExcludingUser(ctx, nil, user.ID, peerIDs, rs.cfg.EngagedStatuses)
	if err != nil {
		return nil, fmt.Errorf("query peer ratings: %w", err)
	}

	aggregates := make(map[uuid.UUID]*animeAggregate)
	for _, pr := range peerRatings {
		agg, seen := aggregates[pr.AnimeID]
		if !seen {
			agg = &animeAggregate{animeID: pr.AnimeID}
			aggregates[pr.AnimeID] = agg
		}
		// Presence counts toward appearances even without a score.
		agg.nrAppearances++

		if pr.Score == nil {
			continue
		}
		b, ok := boundsByUser[pr.UserID]
		if !ok || b.MaxScore == b.MinScore {
			// Degenerate personal scale, the contribution is undefined.
			continue
		}
		agg.ratingSum += (*pr.Score - b.MinScore) / (b.MaxScore - b.MinScore)
		agg.ratingCount++
	}

	ranked := lo.Values(aggregates)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].nrAppearances != ranked[j].nrAppearances {
			return ranked[i].nrAppearances > ranked[j].nrAppearances
		}
		return ranked[i].avgRating() > ranked[j].avgRating()
	})
	if len(ranked) > rs.cfg.MaxNumReccomendations {
		ranked = ranked[:rs.cfg.MaxNumReccomendations]
	}

	return lo.Map(ranked, func(agg *animeAggregate, _ int) uuid.UUID { return agg.animeID }), nil
}

// resolveInRankOrder fetches full anime records and re-imposes the
// given ranking; the bulk fetch does not honor the id order it is given.
func (rs *recommendationService) resolveInRankOrder(ctx context.Context, rankedIDs []uuid.UUID) ([]*types.Anime, error) {
	if len(rankedIDs) == 0 {
		return []*types.Anime{}, nil
	}

	animes, err := rs.animeRepo.GetByIDs(ctx, nil, rankedIDs)
	if err != nil {
		return nil, fmt.Errorf("resolve recommended animes: %w", err)
	}

	rank := make(map[uuid.UUID]int, len(rankedIDs))
	for i, id := range rankedIDs {
		rank[id] = i
	}
	sort.Slice(animes, func(i, j int) bool {
		return rank[animes[i].ID] < rank[animes[j].ID]
	})
	return animes, nil
}
