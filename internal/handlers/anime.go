package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/gabriel-alecu/nextanime/internal/pkg/logger"
	"github.com/gabriel-alecu/nextanime/internal/repos"
	"github.com/gabriel-alecu/nextanime/internal/services"
)

type AnimeHandler struct {
	log           *logger.Logger
	animeRepo     repos.AnimeRepo
	ratingService services.RatingService
}

func NewAnimeHandler(log *logger.Logger, animeRepo repos.AnimeRepo, ratingService services.RatingService) *AnimeHandler {
	return &AnimeHandler{
		log:           log.With("handler", "AnimeHandler"),
		animeRepo:     animeRepo,
		ratingService: ratingService,
	}
}

func (ah *AnimeHandler) List(c *gin.Context) {
	animes, err := ah.animeRepo.List(c.Request.Context(), nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"anime": animes})
}

func (ah *AnimeHandler) MyList(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	ratings, err := ah.ratingService.ListForUser(c.Request.Context(), user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ratings": ratings})
}

type upsertRatingRequest struct {
	Status string   `json:"status" binding:"required"`
	Score  *float64 `json:"score"`
}

func (ah *AnimeHandler) UpsertRating(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "not authenticated"})
		return
	}

	animeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid anime id"})
		return
	}

	var req upsertRatingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rating, err := ah.ratingService.UpsertRating(c.Request.Context(), user, animeID, req.Status, req.Score)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"rating": rating})
}
