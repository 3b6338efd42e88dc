// Package school provides the canonical school registry and the fuzzy
// resolver that reconciles free-text school names against it.
package school

import (
	"fmt"
	"math"
	"strings"
	"unicode"
)

// Cluster is a canonical, deduplicated school identity record used to
// disambiguate same-named schools at different locations.
type Cluster struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	NormalizedName string   `json:"normalized_name"`
	Lat            float64  `json:"lat"`
	Lng            float64  `json:"lng"`
	Area           string   `json:"area,omitempty"`
	PostalCode     string   `json:"postal_code,omitempty"`
	Landmarks      []string `json:"landmarks,omitempty"`
	Verified       bool     `json:"verified"`
}

// Validate checks the structural invariants of a cluster record at the
// storage boundary.
func (c *Cluster) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("school cluster %s: name is required", c.ID)
	}
	if math.IsNaN(c.Lat) || math.IsInf(c.Lat, 0) || math.IsNaN(c.Lng) || math.IsInf(c.Lng, 0) {
		return fmt.Errorf("school cluster %s: coordinates not finite", c.ID)
	}
	if c.Lat < -90 || c.Lat > 90 || c.Lng < -180 || c.Lng > 180 {
		return fmt.Errorf("school cluster %s: coordinates out of range", c.ID)
	}
	return nil
}

// Match is a cluster annotated with the searching user's distance to it and
// a match confidence in [0, 1].
type Match struct {
	Cluster
	DistanceKm float64 `json:"distance_km"`
	Confidence float64 `json:"confidence"`
}

// NormalizeName lowercases a school name and folds punctuation and repeated
// whitespace, producing the registry's normalized form.
func NormalizeName(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	lastSpace := true
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case !lastSpace:
			b.WriteByte(' ')
			lastSpace = true
		}
	}

	return strings.TrimSpace(b.String())
}
