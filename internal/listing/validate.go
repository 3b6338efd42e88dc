package listing

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
)

// Boundary validation errors.
var (
	ErrNegativePrice      = errors.New("price must be non-negative")
	ErrInvalidCondition   = errors.New("unrecognized condition")
	ErrInvalidKind        = errors.New("unrecognized kind")
	ErrInvalidCoordinates = errors.New("coordinates out of range or not finite")
	ErrInvalidRating      = errors.New("seller rating must be in [0, 5]")
)

// validPoint reports whether p has finite, in-range coordinates.
// A nil point is valid: missing location is "distance unknown", not an error.
func validPoint(p *Point) bool {
	if p == nil {
		return true
	}
	if math.IsNaN(p.Lat) || math.IsInf(p.Lat, 0) || math.IsNaN(p.Lng) || math.IsInf(p.Lng, 0) {
		return false
	}
	return p.Lat >= -90 && p.Lat <= 90 && p.Lng >= -180 && p.Lng <= 180
}

// Validate checks the structural invariants of a listing record as it crosses
// from raw storage output into the typed model. Malformed records must be
// rejected here, before scoring, never coerced into a default score.
func (l *Listing) Validate() error {
	if l.Price < 0 || math.IsNaN(l.Price) || math.IsInf(l.Price, 0) {
		return fmt.Errorf("listing %s: %w", l.ID, ErrNegativePrice)
	}
	if !l.Condition.Valid() {
		return fmt.Errorf("listing %s: %w: %d", l.ID, ErrInvalidCondition, int(l.Condition))
	}
	if !l.Kind.Valid() {
		return fmt.Errorf("listing %s: %w: %q", l.ID, ErrInvalidKind, l.Kind)
	}
	if !validPoint(l.Location) {
		return fmt.Errorf("listing %s location: %w", l.ID, ErrInvalidCoordinates)
	}
	if !validPoint(l.SchoolLocation) {
		return fmt.Errorf("listing %s school location: %w", l.ID, ErrInvalidCoordinates)
	}
	return nil
}

// Validate checks the structural invariants of a seller profile.
func (s *SellerProfile) Validate() error {
	if s.Rating < 0 || s.Rating > 5 || math.IsNaN(s.Rating) {
		return fmt.Errorf("seller %s: %w: %f", s.Username, ErrInvalidRating, s.Rating)
	}
	if !validPoint(s.Location) {
		return fmt.Errorf("seller %s location: %w", s.Username, ErrInvalidCoordinates)
	}
	return nil
}

// ValidCandidates filters a raw candidate set down to structurally valid
// records. Each rejection is logged at WARN with the reason; rejected rows
// are excluded from scoring rather than failing the whole request.
func ValidCandidates(candidates []Candidate, logger *slog.Logger) []Candidate {
	if logger == nil {
		logger = slog.Default()
	}

	valid := make([]Candidate, 0, len(candidates))
	for _, c := range candidates {
		if err := c.Listing.Validate(); err != nil {
			logger.Warn("rejected malformed listing", "listing_id", c.Listing.ID, "error", err)
			continue
		}
		if err := c.Seller.Validate(); err != nil {
			logger.Warn("rejected malformed seller profile", "listing_id", c.Listing.ID, "error", err)
			continue
		}
		valid = append(valid, c)
	}
	return valid
}
