package school

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/MSaini-Dev/bookfair/internal/geo"
	"github.com/MSaini-Dev/bookfair/internal/match"
)

// Resolver thresholds.
const (
	// DefaultMaxDistanceKm is applied when the caller passes no cutoff.
	DefaultMaxDistanceKm = 20.0

	// MaxMatches caps the result list.
	MaxMatches = 10

	// MinConfidence rejects weak fuzzy matches outright.
	MinConfidence = 0.3

	// PostalCodeBoost is the flat confidence boost for an exact postal code
	// match. Boosted confidence is clamped to 1.0.
	PostalCodeBoost = 0.3

	// confidenceTolerance is the band within which two confidences are
	// treated as equal and distance decides the order.
	confidenceTolerance = 0.1
)

// Resolver matches free-text school names against the canonical registry,
// producing confidence-ranked candidates for listing creation and search
// filtering.
type Resolver struct {
	registry Registry
	logger   *slog.Logger
}

// NewResolver creates a new Resolver.
func NewResolver(registry Registry, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{registry: registry, logger: logger}
}

// FindMatches resolves a free-text school name against the registry.
//
// Candidates come from the registry's substring filter; each is scored with
// confidence = max(similarity(query, name), similarity(query, normalized
// name)) and the user's distance to it. Candidates beyond maxDistanceKm or
// below the confidence floor are rejected. An exact postal code match adds a
// flat boost, clamped to 1.0. Results are ordered by confidence descending
// (within a tolerance band) then distance ascending, and truncated to
// MaxMatches. An empty result is not an error.
//
// A maxDistanceKm of zero or less selects DefaultMaxDistanceKm.
func (r *Resolver) FindMatches(ctx context.Context, query string, userLat, userLng float64, postalCode string, maxDistanceKm float64) ([]Match, error) {
	if maxDistanceKm <= 0 {
		maxDistanceKm = DefaultMaxDistanceKm
	}

	clusters, err := r.registry.FindByName(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch school candidates: %w", err)
	}

	matches := make([]Match, 0, len(clusters))
	for _, c := range clusters {
		distance := geo.DistanceKm(userLat, userLng, c.Lat, c.Lng)
		if distance > maxDistanceKm {
			continue
		}

		confidence := match.Similarity(query, c.Name)
		if norm := match.Similarity(query, c.NormalizedName); norm > confidence {
			confidence = norm
		}
		if confidence < MinConfidence {
			continue
		}

		if postalCode != "" && postalCode == c.PostalCode {
			confidence += PostalCodeBoost
			if confidence > 1.0 {
				confidence = 1.0
			}
		}

		matches = append(matches, Match{
			Cluster:    c,
			DistanceKm: distance,
			Confidence: confidence,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		di := matches[i].Confidence - matches[j].Confidence
		if di > confidenceTolerance {
			return true
		}
		if di < -confidenceTolerance {
			return false
		}
		return matches[i].DistanceKm < matches[j].DistanceKm
	})

	if len(matches) > MaxMatches {
		matches = matches[:MaxMatches]
	}

	r.logger.Debug("resolved school query",
		"query", query,
		"candidates", len(clusters),
		"matches", len(matches))

	return matches, nil
}
