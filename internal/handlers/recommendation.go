package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gabriel-alecu/nextanime/internal/pkg/logger"
	"github.com/gabriel-alecu/nextanime/internal/services"
)

type RecommendationHandler struct {
	log               *logger.Logger
	recommendationSvc services.RecommendationService
	similaritySvc     services.SimilarityService
	cache             services.RecommendationCache
}

// NewRecommendationHandler exposes the two core operations over HTTP.
// cache may be nil when no redis is configured.
func NewRecommendationHandler(
	log *logger.Logger,
	recommendationSvc services.RecommendationService,
	similaritySvc services.SimilarityService,
	cache services.RecommendationCache,
) *RecommendationHandler {
	return &RecommendationHandler{
		log:               log.With("handler", "RecommendationHandler"),
		recommendationSvc: recommendationSvc,
		similaritySvc:     similaritySvc,
		cache:             cache,
	}
}

// GET /api/recommendations
func (rh *RecommendationHandler) GetRecommendations(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	animes, err := rh.recommendationSvc.GetRecommendations(c.Request.Context(), user)
	if err != nil {
		rh.log.Error("Recommendation generation failed", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not generate recommendations"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"anime": animes})
}

// POST /api/compatibility recomputes the caller's similarity edges
// synchronously. Batch-style on demand; there is no background refresh.
func (rh *RecommendationHandler) RefreshCompatibility(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	if err := rh.similaritySvc.UpdateCompatibility(c.Request.Context(), user); err != nil {
		rh.log.Error("Compatibility update failed", "user_id", user.ID, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update compatibility"})
		return
	}

	if rh.cache != nil {
		if err := rh.cache.Invalidate(c.Request.Context(), user.ID); err != nil {
			rh.log.Warn("Recommendation cache invalidation failed", "user_id", user.ID, "error", err)
		}
	}

	c.Status(http.StatusNoContent)
}
