package app

import (
	"github.com/gabriel-alecu/nextanime/internal/handlers"
	"github.com/gabriel-alecu/nextanime/internal/middleware"
	"github.com/gabriel-alecu/nextanime/internal/pkg/logger"
)

type Handlers struct {
	Account        *handlers.AccountHandler
	Anime          *handlers.AnimeHandler
	Recommendation *handlers.RecommendationHandler
}

type Middleware struct {
	Auth *middleware.AuthMiddleware
}

func wireHandlers(log *logger.Logger, reposet Repos, serviceset Services) Handlers {
	log.Info("Wiring handlers...")
	return Handlers{
		Account:        handlers.NewAccountHandler(serviceset.Account),
		Anime:          handlers.NewAnimeHandler(log, reposet.Anime, serviceset.Rating),
		Recommendation: handlers.NewRecommendationHandler(log, serviceset.Recommendation, serviceset.Similarity, serviceset.RecCache),
	}
}

func wireMiddleware(log *logger.Logger, serviceset Services) Middleware {
	log.Info("Wiring middleware...")
	return Middleware{
		Auth: middleware.NewAuthMiddleware(log, serviceset.Account),
	}
}
