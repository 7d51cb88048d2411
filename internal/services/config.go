package services

import "github.com/gabriel-alecu/nextanime/internal/types"

// RecommenderConfig carries the tuning knobs shared by the similarity
// and recommendation services. Built once at wiring time and treated as
// immutable afterwards.
type RecommenderConfig struct {
	// EngagedStatuses are the watch statuses that count as a real
	// consumption signal. Plan-to-watch and dropped entries never
	// contribute to similarity or to peer suggestions.
	EngagedStatuses []string
	// MinCommonSeries is the overlap floor: pairs sharing fewer engaged
	// animes get no similarity edge.
	MinCommonSeries int
	// MinPearsonSimilarity is the correlation floor for creating an edge.
	MinPearsonSimilarity float64
	// MaxNumSimilarUsers bounds the peer neighborhood consulted when
	// generating recommendations.
	MaxNumSimilarUsers int
	// MaxNumReccomendations bounds the returned recommendation list.
	MaxNumReccomendations int
}

func DefaultRecommenderConfig() RecommenderConfig {
	return RecommenderConfig{
		EngagedStatuses:       []string{types.StatusWatching, types.StatusCompleted, types.StatusOnHold},
		MinCommonSeries:       3,
		MinPearsonSimilarity:  0.5,
		MaxNumSimilarUsers:    10,
		MaxNumReccomendations: 10,
	}
}
