package app

import (
	"gorm.io/gorm"

	"github.com/gabriel-alecu/nextanime/internal/pkg/logger"
	"github.com/gabriel-alecu/nextanime/internal/repos"
)

type Repos struct {
	User       repos.UserRepo
	Anime      repos.AnimeRepo
	Rating     repos.RatingRepo
	Similarity repos.SimilarityRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		User:       repos.NewUserRepo(db, log),
		Anime:      repos.NewAnimeRepo(db, log),
		Rating:     repos.NewRatingRepo(db, log),
		Similarity: repos.NewSimilarityRepo(db, log),
	}
}
