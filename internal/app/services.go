package app

import (
	"gorm.io/gorm"

	"github.com/gabriel-alecu/nextanime/internal/pkg/logger"
	"github.com/gabriel-alecu/nextanime/internal/services"
)

type Services struct {
	Account        services.AccountService
	Rating         services.RatingService
	Similarity     services.SimilarityService
	Recommendation services.RecommendationService
	RecCache       services.RecommendationCache
}

func wireServices(db *gorm.DB, log *logger.Logger, cfg Config, reposet Repos) Services {
	log.Info("Wiring services...")

	// No redis address means the cache stays off and every request
	// recomputes against the store.
	var recCache services.RecommendationCache
	if cfg.RedisAddr != "" {
		recCache = services.NewRedisRecommendationCache(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.RecCacheTTL, log)
	}

	return Services{
		Account:        services.NewAccountService(db, log, reposet.User, cfg.JWTSecretKey, cfg.AccessTokenTTL),
		Rating:         services.NewRatingService(db, log, reposet.Anime, reposet.Rating, recCache),
		Similarity:     services.NewSimilarityService(db, log, reposet.Rating, reposet.Similarity, cfg.Recommender),
		Recommendation: services.NewRecommendationService(db, log, reposet.Anime, reposet.Rating, reposet.Similarity, recCache, cfg.Recommender),
		RecCache:       recCache,
	}
}
