package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/samber/lo"

	"github.com/gabriel-alecu/nextanime/internal/types"
)

// seedNeighborhood builds a small rating graph: target user U with peers
// B (common=5, corr=0.9) and C (common=4, corr=0.95). Y and Z are on
// U's list and give both peers a personal 0..10 scale; X and V are
// candidates rated by both peers, W only by B.
type neighborhood struct {
	u, b, c       *types.User
	x, v, w, y, z *types.Anime
}

func seedNeighborhood(t *testing.T, env *testEnv) neighborhood {
	t.Helper()
	ctx := context.Background()

	n := neighborhood{
		u: env.seedUser(t, "u"),
		b: env.seedUser(t, "b"),
		c: env.seedUser(t, "c"),
		x: env.seedAnime(t, "X"),
		v: env.seedAnime(t, "V"),
		w: env.seedAnime(t, "W"),
		y: env.seedAnime(t, "Y"),
		z: env.seedAnime(t, "Z"),
	}

	if err := env.similarityRepo.CreatePair(ctx, nil, n.u.ID, n.b.ID, 5, 0.9); err != nil {
		t.Fatalf("seed edge U-B: %v", err)
	}
	if err := env.similarityRepo.CreatePair(ctx, nil, n.u.ID, n.c.ID, 4, 0.95); err != nil {
		t.Fatalf("seed edge U-C: %v", err)
	}

	// U's list: dropped still excludes an anime from candidates.
	env.rate(t, n.u, n.y, types.StatusDropped, nil)
	env.rate(t, n.u, n.z, types.StatusCompleted, score(9))

	// B's scale spans 0..10; normalized X=0.8, V=0.7, W=0.9.
	env.rate(t, n.b, n.y, types.StatusCompleted, score(0))
	env.rate(t, n.b, n.z, types.StatusCompleted, score(10))
	env.rate(t, n.b, n.x, types.StatusCompleted, score(8))
	env.rate(t, n.b, n.v, types.StatusCompleted, score(7))
	env.rate(t, n.b, n.w, types.StatusCompleted, score(9))

	// C's scale spans 0..10; normalized X=0.6, V=0.6.
	env.rate(t, n.c, n.y, types.StatusCompleted, score(0))
	env.rate(t, n.c, n.z, types.StatusCompleted, score(10))
	env.rate(t, n.c, n.x, types.StatusCompleted, score(6))
	env.rate(t, n.c, n.v, types.StatusCompleted, score(6))

	return n
}

func titles(animes []*types.Anime) []string {
	return lo.Map(animes, func(a *types.Anime, _ int) string { return a.Title })
}

func TestGetRecommendations_RanksByPeerCountThenAvgRating(t *testing.T) {
	env := newTestEnv(t)
	n := seedNeighborhood(t, env)
	svc := env.recommendationService(DefaultRecommenderConfig())

	animes, err := svc.GetRecommendations(context.Background(), n.u)
	if err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}

	// X: 2 peers, avg (0.8+0.6)/2 = 0.7
	// V: 2 peers, avg (0.7+0.6)/2 = 0.65
	// W: 1 peer, avg 0.9
	got := titles(animes)
	want := []string{"X", "V", "W"}
	if len(got) != len(want) {
		t.Fatalf("expected %v got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v got %v", want, got)
		}
	}
}

func TestGetRecommendations_NeverIncludesTargetsOwnAnime(t *testing.T) {
	env := newTestEnv(t)
	n := seedNeighborhood(t, env)
	svc := env.recommendationService(DefaultRecommenderConfig())

	animes, err := svc.GetRecommendations(context.Background(), n.u)
	if err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}
	for _, a := range animes {
		if a.ID == n.y.ID {
			t.Fatalf("dropped anime Y must still be excluded from candidates")
		}
		if a.ID == n.z.ID {
			t.Fatalf("completed anime Z must be excluded from candidates")
		}
	}
}

func TestGetRecommendations_IgnoresPeersNonEngagedEntries(t *testing.T) {
	env := newTestEnv(t)
	n := seedNeighborhood(t, env)

	// A peer's plan-to-watch entry is not an endorsement.
	planned := env.seedAnime(t, "planned")
	env.rate(t, n.c, planned, types.StatusPlanToWatch, score(10))

	svc := env.recommendationService(DefaultRecommenderConfig())
	animes, err := svc.GetRecommendations(context.Background(), n.u)
	if err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}
	if lo.Contains(titles(animes), "planned") {
		t.Fatalf("plan_to_watch peer entry leaked into recommendations")
	}
}

func TestGetRecommendations_NeighborhoodOrderedByOverlapFirst(t *testing.T) {
	env := newTestEnv(t)
	n := seedNeighborhood(t, env)

	// With a neighborhood of one, B must win over C despite C's higher
	// correlation, because overlap is the primary sort key.
	cfg := DefaultRecommenderConfig()
	cfg.MaxNumSimilarUsers = 1
	svc := env.recommendationService(cfg)

	animes, err := svc.GetRecommendations(context.Background(), n.u)
	if err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}

	got := titles(animes)
	// Only B's items, each with one appearance, ordered by B's
	// normalized scores: W=0.9, X=0.8, V=0.7.
	want := []string{"W", "X", "V"}
	if len(got) != len(want) {
		t.Fatalf("expected %v got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected order %v got %v", want, got)
		}
	}
}

func TestGetRecommendations_NoPeersMeansEmptyResult(t *testing.T) {
	env := newTestEnv(t)
	loner := env.seedUser(t, "loner")
	svc := env.recommendationService(DefaultRecommenderConfig())

	animes, err := svc.GetRecommendations(context.Background(), loner)
	if err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}
	if len(animes) != 0 {
		t.Fatalf("expected empty result for user with no peers, got %d", len(animes))
	}
}

func TestGetRecommendations_DegenerateScaleContributionDropped(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	target := env.seedUser(t, "target")
	peer := env.seedUser(t, "onescore")
	if err := env.similarityRepo.CreatePair(ctx, nil, target.ID, peer.ID, 3, 0.8); err != nil {
		t.Fatalf("seed edge: %v", err)
	}

	// The peer's only score makes min==max; presence still counts.
	q := env.seedAnime(t, "Q")
	env.rate(t, peer, q, types.StatusCompleted, score(7))

	svc := env.recommendationService(DefaultRecommenderConfig())
	animes, err := svc.GetRecommendations(ctx, target)
	if err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}
	if len(animes) != 1 || animes[0].ID != q.ID {
		t.Fatalf("expected Q recommended on presence alone, got %v", titles(animes))
	}
}

func TestGetRecommendations_CappedAtMaxReccomendations(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	target := env.seedUser(t, "target")
	peer := env.seedUser(t, "prolific")
	if err := env.similarityRepo.CreatePair(ctx, nil, target.ID, peer.ID, 5, 0.9); err != nil {
		t.Fatalf("seed edge: %v", err)
	}

	for i := 0; i < 15; i++ {
		anime := env.seedAnime(t, "bulk")
		env.rate(t, peer, anime, types.StatusCompleted, score(float64(i%11)))
	}

	cfg := DefaultRecommenderConfig()
	svc := env.recommendationService(cfg)
	animes, err := svc.GetRecommendations(ctx, target)
	if err != nil {
		t.Fatalf("GetRecommendations: %v", err)
	}
	if len(animes) != cfg.MaxNumReccomendations {
		t.Fatalf("expected %d recommendations, got %d", cfg.MaxNumReccomendations, len(animes))
	}
}

// fakeCache is an in-memory RecommendationCache used to exercise the
// cache path without a redis instance.
type fakeCache struct {
	entries map[uuid.UUID][]uuid.UUID
	hits    int
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[uuid.UUID][]uuid.UUID{}}
}

func (fc *fakeCache) Get(_ context.Context, userID uuid.UUID) ([]uuid.UUID, bool, error) {
	ids, ok := fc.entries[userID]
	if ok {
		fc.hits++
	}
	return ids, ok, nil
}

func (fc *fakeCache) Set(_ context.Context, userID uuid.UUID, animeIDs []uuid.UUID) error {
	fc.entries[userID] = animeIDs
	return nil
}

func (fc *fakeCache) Invalidate(_ context.Context, userIDs ...uuid.UUID) error {
	for _, id := range userIDs {
		delete(fc.entries, id)
	}
	return nil
}

func TestGetRecommendations_UsesCacheOnRepeatCalls(t *testing.T) {
	env := newTestEnv(t)
	n := seedNeighborhood(t, env)

	cache := newFakeCache()
	svc := NewRecommendationService(env.db, nopLogger(), env.animeRepo, env.ratingRepo, env.similarityRepo, cache, DefaultRecommenderConfig())

	first, err := svc.GetRecommendations(context.Background(), n.u)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	second, err := svc.GetRecommendations(context.Background(), n.u)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if cache.hits != 1 {
		t.Fatalf("expected exactly one cache hit, got %d", cache.hits)
	}
	if len(first) != len(second) {
		t.Fatalf("cached result differs: %v vs %v", titles(first), titles(second))
	}
	for i := range first {
		if first[i].ID != second[i].ID {
			t.Fatalf("cached order differs: %v vs %v", titles(first), titles(second))
		}
	}
}

func TestUpsertRating_InvalidatesCachedRecommendations(t *testing.T) {
	env := newTestEnv(t)
	n := seedNeighborhood(t, env)
	ctx := context.Background()

	cache := newFakeCache()
	recSvc := NewRecommendationService(env.db, nopLogger(), env.animeRepo, env.ratingRepo, env.similarityRepo, cache, DefaultRecommenderConfig())
	ratingSvc := NewRatingService(env.db, nopLogger(), env.animeRepo, env.ratingRepo, cache)

	if _, err := recSvc.GetRecommendations(ctx, n.u); err != nil {
		t.Fatalf("prime cache: %v", err)
	}
	if _, ok := cache.entries[n.u.ID]; !ok {
		t.Fatalf("expected cache entry after first call")
	}

	if _, err := ratingSvc.UpsertRating(ctx, n.u, n.x.ID, types.StatusWatching, score(8)); err != nil {
		t.Fatalf("UpsertRating: %v", err)
	}
	if _, ok := cache.entries[n.u.ID]; ok {
		t.Fatalf("expected cache invalidated after rating write")
	}

	// X just joined U's list, so a fresh run must not suggest it.
	animes, err := recSvc.GetRecommendations(ctx, n.u)
	if err != nil {
		t.Fatalf("refreshed call: %v", err)
	}
	if lo.Contains(titles(animes), "X") {
		t.Fatalf("newly rated anime X still recommended")
	}
}
