package app

import (
	"time"

	"github.com/gabriel-alecu/nextanime/internal/pkg/logger"
	"github.com/gabriel-alecu/nextanime/internal/services"
	"github.com/gabriel-alecu/nextanime/internal/utils"
)

type Config struct {
	Port           string
	JWTSecretKey   string
	AccessTokenTTL time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RecCacheTTL   time.Duration

	Recommender services.RecommenderConfig
}

func LoadConfig(log *logger.Logger) Config {
	recommender := services.DefaultRecommenderConfig()
	recommender.MinCommonSeries = utils.GetEnvAsInt("REC_MIN_COMMON_SERIES", recommender.MinCommonSeries, log)
	recommender.MinPearsonSimilarity = utils.GetEnvAsFloat("REC_MIN_PEARSON_SIMILARITY", recommender.MinPearsonSimilarity, log)
	recommender.MaxNumSimilarUsers = utils.GetEnvAsInt("REC_MAX_NUM_SIMILAR_USERS", recommender.MaxNumSimilarUsers, log)
	recommender.MaxNumReccomendations = utils.GetEnvAsInt("REC_MAX_NUM_RECOMMENDATIONS", recommender.MaxNumReccomendations, log)

	return Config{
		Port:           utils.GetEnv("PORT", "8080", log),
		JWTSecretKey:   utils.GetEnv("JWT_SECRET_KEY", "defaultsecret", log),
		AccessTokenTTL: time.Duration(utils.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)) * time.Second,
		RedisAddr:      utils.GetEnv("REDIS_ADDR", "", log),
		RedisPassword:  utils.GetEnv("REDIS_PASSWORD", "", log),
		RedisDB:        utils.GetEnvAsInt("REDIS_DB", 0, log),
		RecCacheTTL:    time.Duration(utils.GetEnvAsInt("REC_CACHE_TTL", 900, log)) * time.Second,
		Recommender:    recommender,
	}
}
