package app

import (
	"github.com/gin-gonic/gin"

	"github.com/gabriel-alecu/nextanime/internal/server"
)

func wireRouter(handlerset Handlers, middlewareset Middleware) *gin.Engine {
	return server.NewRouter(server.RouterConfig{
		AccountHandler:        handlerset.Account,
		AuthMiddleware:        middlewareset.Auth,
		AnimeHandler:          handlerset.Anime,
		RecommendationHandler: handlerset.Recommendation,
	})
}
