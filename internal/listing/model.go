// Package listing provides models, boundary validation, and candidate
// retrieval for book listings offered on the marketplace.
package listing

import (
	"encoding/json"
	"fmt"
	"time"
)

// Point represents a geographic coordinate with latitude and longitude.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Kind distinguishes general second-hand books from academic ones that carry
// grade/subject/board attributes and may be tied to a school.
type Kind string

// Listing kinds.
const (
	KindGeneral  Kind = "general"
	KindAcademic Kind = "academic"
)

// Valid reports whether k is a recognized kind. The empty kind is valid in a
// SearchRequest (no kind filter) but not on a Listing.
func (k Kind) Valid() bool {
	return k == KindGeneral || k == KindAcademic
}

// Condition is the ordinal physical condition of a book.
// Higher values are better: New > LikeNew > Good > Fair > Poor.
type Condition int

// Condition levels in ascending order of quality.
const (
	ConditionPoor Condition = iota + 1
	ConditionFair
	ConditionGood
	ConditionLikeNew
	ConditionNew
)

// conditionNames maps conditions to their wire representation.
var conditionNames = map[Condition]string{
	ConditionPoor:    "poor",
	ConditionFair:    "fair",
	ConditionGood:    "good",
	ConditionLikeNew: "like_new",
	ConditionNew:     "new",
}

// conditionValues is the reverse of conditionNames.
var conditionValues = map[string]Condition{
	"poor":     ConditionPoor,
	"fair":     ConditionFair,
	"good":     ConditionGood,
	"like_new": ConditionLikeNew,
	"new":      ConditionNew,
}

// ParseCondition converts a wire string into a Condition.
// Returns an error for unrecognized values; malformed conditions are a
// boundary validation failure, never silently coerced.
func ParseCondition(s string) (Condition, error) {
	c, ok := conditionValues[s]
	if !ok {
		return 0, fmt.Errorf("unrecognized condition %q", s)
	}
	return c, nil
}

// String returns the wire representation of the condition.
func (c Condition) String() string {
	if name, ok := conditionNames[c]; ok {
		return name
	}
	return fmt.Sprintf("condition(%d)", int(c))
}

// Valid reports whether c is a recognized condition level.
func (c Condition) Valid() bool {
	_, ok := conditionNames[c]
	return ok
}

// MarshalJSON encodes the condition as its wire string.
func (c Condition) MarshalJSON() ([]byte, error) {
	name, ok := conditionNames[c]
	if !ok {
		return nil, fmt.Errorf("cannot marshal unrecognized condition %d", int(c))
	}
	return json.Marshal(name)
}

// UnmarshalJSON decodes the condition from its wire string.
func (c *Condition) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseCondition(s)
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// Listing represents a book offered for sale.
//
// Location data is layered: a listing may carry its own coordinates, a school
// association with its own coordinates, or neither. Scoring resolves the
// first non-nil of listing, school, then seller coordinates.
type Listing struct {
	ID          string    `json:"id"`
	SellerID    string    `json:"seller_id"`
	Title       string    `json:"title"`
	Author      string    `json:"author,omitempty"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Kind        Kind      `json:"kind"`
	Condition   Condition `json:"condition"`

	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"original_price,omitempty"`
	Negotiable    bool     `json:"negotiable"`

	// Academic attributes; expected (not required) when Kind is academic.
	Grade   string `json:"grade,omitempty"`
	Subject string `json:"subject,omitempty"`
	Board   string `json:"board,omitempty"`

	Location       *Point `json:"location,omitempty"`
	SchoolID       string `json:"school_id,omitempty"`
	SchoolName     string `json:"school_name,omitempty"`
	SchoolLocation *Point `json:"school_location,omitempty"`

	ViewCount     int        `json:"view_count"`
	FavoriteCount int        `json:"favorite_count"`
	Featured      bool       `json:"featured"`
	BoostedUntil  *time.Time `json:"boosted_until,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// SellerProfile carries the denormalized seller attributes attached to a
// listing for scoring. Owned by the upstream identity store; read-only here.
type SellerProfile struct {
	Username string  `json:"username"`
	Location *Point  `json:"location,omitempty"`
	Rating   float64 `json:"rating"` // [0, 5]
	Verified bool    `json:"verified"`
}

// Candidate is one row of the candidate set: a listing joined with its
// seller's profile, as returned by upstream storage after structural
// filtering.
type Candidate struct {
	Listing Listing       `json:"listing"`
	Seller  SellerProfile `json:"seller"`
}

// SearchRequest holds the scoring and filtering parameters for one search.
// The structural filters are applied by the candidate source; the ranking
// pipeline only re-scores, applies the distance cutoff, and orders.
type SearchRequest struct {
	Query string `json:"query,omitempty"`

	Category       string     `json:"category,omitempty"`
	Condition      *Condition `json:"condition,omitempty"`
	Kind           Kind       `json:"kind,omitempty"`
	Grade          string     `json:"grade,omitempty"`
	Subject        string     `json:"subject,omitempty"`
	Board          string     `json:"board,omitempty"`
	MinPrice       *float64   `json:"min_price,omitempty"`
	MaxPrice       *float64   `json:"max_price,omitempty"`
	NegotiableOnly bool       `json:"negotiable_only,omitempty"`
	SchoolName     string     `json:"school_name,omitempty"`

	Location   *Point `json:"location,omitempty"`
	Address    string `json:"address,omitempty"`
	Area       string `json:"area,omitempty"`
	PostalCode string `json:"postal_code,omitempty"`
	Landmark   string `json:"landmark,omitempty"`

	// MaxDistanceKm drops candidates whose resolved distance exceeds it.
	// Zero disables the cutoff. Candidates with no resolvable coordinates
	// are never distance-filtered.
	MaxDistanceKm float64 `json:"max_distance_km,omitempty"`

	Limit  int `json:"limit,omitempty"`
	Offset int `json:"offset,omitempty"`

	// UserID of the requesting user, for favorite annotation only.
	UserID string `json:"user_id,omitempty"`
}
