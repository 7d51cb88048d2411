package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/gabriel-alecu/nextanime/internal/handlers"
	"github.com/gabriel-alecu/nextanime/internal/middleware"
)

type RouterConfig struct {
	AccountHandler        *handlers.AccountHandler
	AuthMiddleware        *middleware.AuthMiddleware
	AnimeHandler          *handlers.AnimeHandler
	RecommendationHandler *handlers.RecommendationHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(otelgin.Middleware("nextanime"))
	router.Use(middleware.AttachTraceContext())

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:80",
			"http://localhost:3000",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Public
	router.GET("/healthcheck", handlers.HealthCheck)
	router.POST("/register", cfg.AccountHandler.Register)
	router.POST("/login", cfg.AccountHandler.Login)

	// Protected
	api := router.Group("/api")
	api.Use(cfg.AuthMiddleware.RequireAuth())
	{
		api.GET("/anime", cfg.AnimeHandler.List)
		api.GET("/anime/mine", cfg.AnimeHandler.MyList)
		api.PUT("/anime/:id/rating", cfg.AnimeHandler.UpsertRating)
		api.GET("/recommendations", cfg.RecommendationHandler.GetRecommendations)
		api.POST("/compatibility", cfg.RecommendationHandler.RefreshCompatibility)
	}

	return router
}
