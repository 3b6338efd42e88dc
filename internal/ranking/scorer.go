package ranking

import (
	"math"
	"strings"
	"time"

	"github.com/MSaini-Dev/bookfair/internal/geo"
	"github.com/MSaini-Dev/bookfair/internal/listing"
	"github.com/MSaini-Dev/bookfair/internal/match"
)

// Fixed scoring thresholds. These are part of the ranking contract and are
// not calibratable.
const (
	// schoolFuzzyThreshold is the similarity above which a near-miss school
	// name still earns the fuzzy affinity bonus.
	schoolFuzzyThreshold = 0.8

	// freshnessWindow is the listing age within which the freshness bonus
	// applies.
	freshnessWindow = 7 * 24 * time.Hour

	// Distance band edges in kilometers.
	distBand1  = 1.0
	distBand3  = 3.0
	distBand5  = 5.0
	distBand10 = 10.0
	distFar    = 25.0
)

// Scorer computes composite relevance scores for listings.
// It holds only immutable weights and is safe for concurrent use.
type Scorer struct {
	weights *Weights
}

// NewScorer creates a Scorer with the given weights, falling back to
// defaults when nil.
func NewScorer(weights *Weights) *Scorer {
	if weights == nil {
		weights = DefaultWeights()
	}
	return &Scorer{weights: weights}
}

// ResolveLocation returns the coordinates used for distance scoring: the
// listing's own location, then its school's, then the seller's. Returns nil
// when no source has coordinates.
func ResolveLocation(l *listing.Listing, seller *listing.SellerProfile) *listing.Point {
	if l.Location != nil {
		return l.Location
	}
	if l.SchoolLocation != nil {
		return l.SchoolLocation
	}
	return seller.Location
}

// Score computes the composite relevance score for one listing against a
// search request, together with the resolved distance in kilometers
// (nil when either side has no usable coordinates).
//
// All terms are additive and independent. The caller supplies now so the
// freshness and boost terms are reproducible; the scorer never reads the
// wall clock. The returned score is clamped to a minimum of 0.
func (s *Scorer) Score(l *listing.Listing, seller *listing.SellerProfile, req *listing.SearchRequest, now time.Time) (float64, *float64) {
	w := s.weights
	score := 0.0

	// 1. Text relevance.
	if req.Query != "" {
		score += match.Relevance(req.Query, l.Title, l.Author, l.Description)
	}

	// 2. School affinity for academic listings.
	if l.Kind == listing.KindAcademic && req.SchoolName != "" && l.SchoolName != "" {
		if strings.EqualFold(l.SchoolName, req.SchoolName) {
			score += w.School.Exact
		} else if match.Similarity(l.SchoolName, req.SchoolName) > schoolFuzzyThreshold {
			score += w.School.Fuzzy
		}
	}

	// 3. Structural exact-match bonuses, each only when the filter is set.
	if req.Grade != "" && strings.EqualFold(l.Grade, req.Grade) {
		score += w.Attribute.Grade
	}
	if req.Subject != "" && strings.Contains(strings.ToLower(l.Subject), strings.ToLower(req.Subject)) {
		score += w.Attribute.Subject
	}
	if req.Board != "" && strings.EqualFold(l.Board, req.Board) {
		score += w.Attribute.Board
	}
	if req.Category != "" && strings.EqualFold(l.Category, req.Category) {
		score += w.Attribute.Category
	}

	// 4. Condition.
	score += s.conditionPoints(l.Condition)

	// 5. Price attractiveness with diminishing returns, plus negotiability.
	if l.Price > 0 {
		score += math.Min(w.Price.Cap, w.Price.Norm/l.Price)
	}
	if l.Negotiable {
		score += w.Price.NegotiableBonus
	}

	// 6. Seller reputation.
	score += seller.Rating * w.Seller.RatingWeight
	if seller.Verified {
		score += w.Seller.VerifiedBonus
	}

	// 7. Popularity.
	score += math.Log(float64(l.ViewCount)+1)*w.Popularity.ViewWeight +
		float64(l.FavoriteCount)*w.Popularity.FavoriteWeight

	// 8. Distance band. The distance is returned even when no band applies
	// so the pipeline can filter and display it.
	var distanceKm *float64
	if req.Location != nil {
		if loc := ResolveLocation(l, seller); loc != nil {
			d := geo.DistanceKm(req.Location.Lat, req.Location.Lng, loc.Lat, loc.Lng)
			distanceKm = &d

			switch {
			case d <= distBand1:
				score += w.Distance.Within1Km
			case d <= distBand3:
				score += w.Distance.Within3Km
			case d <= distBand5:
				score += w.Distance.Within5Km
			case d <= distBand10:
				score += w.Distance.Within10Km
			case d > distFar:
				score += w.Distance.FarPenalty
			}
		}
	}

	// 9. Freshness.
	if age := now.Sub(l.CreatedAt); age >= 0 && age <= freshnessWindow {
		score += w.Promotion.FreshnessBonus
	}

	// 10. Promotion.
	if l.Featured {
		score += w.Promotion.FeaturedBonus
	}
	if l.BoostedUntil != nil && l.BoostedUntil.After(now) {
		score += w.Promotion.BoostBonus
	}

	if score < 0 {
		score = 0
	}
	return score, distanceKm
}

// conditionPoints looks up the fixed point value for a condition level.
func (s *Scorer) conditionPoints(c listing.Condition) float64 {
	w := s.weights.Condition
	switch c {
	case listing.ConditionNew:
		return w.New
	case listing.ConditionLikeNew:
		return w.LikeNew
	case listing.ConditionGood:
		return w.Good
	case listing.ConditionFair:
		return w.Fair
	case listing.ConditionPoor:
		return w.Poor
	default:
		// Unrecognized conditions are rejected at the boundary; scoring
		// never sees them.
		return 0
	}
}
