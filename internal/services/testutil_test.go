package services

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/gabriel-alecu/nextanime/internal/pkg/logger"
	"github.com/gabriel-alecu/nextanime/internal/repos"
	"github.com/gabriel-alecu/nextanime/internal/types"
)

// newTestDB opens an isolated in-memory sqlite database and migrates
// the full schema. The shared-cache DSN keeps the database alive across
// the pooled connections GORM opens.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := gdb.AutoMigrate(
		&types.User{},
		&types.Anime{},
		&types.UserAnime{},
		&types.UserSimilar{},
	); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return gdb
}

type testEnv struct {
	db             *gorm.DB
	userRepo       repos.UserRepo
	animeRepo      repos.AnimeRepo
	ratingRepo     repos.RatingRepo
	similarityRepo repos.SimilarityRepo
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gdb := newTestDB(t)
	log := logger.Nop()
	return &testEnv{
		db:             gdb,
		userRepo:       repos.NewUserRepo(gdb, log),
		animeRepo:      repos.NewAnimeRepo(gdb, log),
		ratingRepo:     repos.NewRatingRepo(gdb, log),
		similarityRepo: repos.NewSimilarityRepo(gdb, log),
	}
}

func (env *testEnv) similarityService(cfg RecommenderConfig) SimilarityService {
	return NewSimilarityService(env.db, logger.Nop(), env.ratingRepo, env.similarityRepo, cfg)
}

func (env *testEnv) recommendationService(cfg RecommenderConfig) RecommendationService {
	return NewRecommendationService(env.db, logger.Nop(), env.animeRepo, env.ratingRepo, env.similarityRepo, nil, cfg)
}

func (env *testEnv) seedUser(t *testing.T, username string) *types.User {
	t.Helper()
	user := &types.User{Username: username, Password: "irrelevant"}
	if _, err := env.userRepo.Create(context.Background(), nil, []*types.User{user}); err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

func (env *testEnv) seedAnime(t *testing.T, title string) *types.Anime {
	t.Helper()
	anime := &types.Anime{Title: title, EpisodeCount: 12}
	if _, err := env.animeRepo.Create(context.Background(), nil, []*types.Anime{anime}); err != nil {
		t.Fatalf("seed anime %s: %v", title, err)
	}
	return anime
}

func (env *testEnv) rate(t *testing.T, user *types.User, anime *types.Anime, status string, s *float64) {
	t.Helper()
	rating := &types.UserAnime{UserID: user.ID, AnimeID: anime.ID, Status: status, Score: s}
	if _, err := env.ratingRepo.Upsert(context.Background(), nil, rating); err != nil {
		t.Fatalf("seed rating: %v", err)
	}
}

func (env *testEnv) edges(t *testing.T, userID uuid.UUID) []*types.UserSimilar {
	t.Helper()
	result, err := env.similarityRepo.GetEdges(context.Background(), nil, userID)
	if err != nil {
		t.Fatalf("load edges: %v", err)
	}
	return result
}

func nopLogger() *logger.Logger { return logger.Nop() }

func score(v float64) *float64 { return &v }
