package ranking

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// CalibrationConfig represents the JSON structure of the calibration file.
type CalibrationConfig struct {
	Version string  `json:"version"` // Config version for future compatibility
	Weights Weights `json:"weights"` // Weight overrides, zero values fall back to defaults
}

// Calibration validation errors.
var (
	ErrAttributeOrdering = errors.New("attribute weights must satisfy grade > subject > board >= category")
	ErrConditionOrdering = errors.New("condition weights must descend from new to poor")
	ErrSchoolOrdering    = errors.New("school exact bonus must be at least the fuzzy bonus")
)

// Validate checks the qualitative ordering contracts that calibration must
// not break, regardless of the numeric values chosen.
func (w *Weights) Validate() error {
	a := w.Attribute
	if !(a.Grade > a.Subject && a.Subject > a.Board && a.Board >= a.Category) {
		return fmt.Errorf("%w: grade=%.2f subject=%.2f board=%.2f category=%.2f",
			ErrAttributeOrdering, a.Grade, a.Subject, a.Board, a.Category)
	}

	c := w.Condition
	if !(c.New > c.LikeNew && c.LikeNew > c.Good && c.Good > c.Fair && c.Fair > c.Poor) {
		return fmt.Errorf("%w: new=%.2f like_new=%.2f good=%.2f fair=%.2f poor=%.2f",
			ErrConditionOrdering, c.New, c.LikeNew, c.Good, c.Fair, c.Poor)
	}

	if w.School.Exact < w.School.Fuzzy {
		return fmt.Errorf("%w: exact=%.2f fuzzy=%.2f", ErrSchoolOrdering, w.School.Exact, w.School.Fuzzy)
	}

	return nil
}

// LoadCalibration loads scoring weights from a JSON calibration file.
// Partial configurations are merged with defaults; only non-zero override
// values apply. On any failure (unreadable file, bad JSON, ordering
// violation) it returns default weights along with the error so callers can
// degrade gracefully.
func LoadCalibration(filePath string) (*Weights, error) {
	if filePath == "" {
		return DefaultWeights(), nil
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		slog.Warn("failed to read calibration file, using defaults",
			"path", filePath,
			"error", err)
		return DefaultWeights(), fmt.Errorf("failed to read calibration file: %w", err)
	}

	var config CalibrationConfig
	if err := json.Unmarshal(data, &config); err != nil {
		slog.Warn("failed to parse calibration file, using defaults",
			"path", filePath,
			"error", err)
		return DefaultWeights(), fmt.Errorf("failed to parse calibration file: %w", err)
	}

	merged, overrides := MergeCalibration(DefaultWeights(), &config.Weights)

	if err := merged.Validate(); err != nil {
		slog.Warn("calibration violates weight ordering contract, using defaults",
			"path", filePath,
			"error", err)
		return DefaultWeights(), fmt.Errorf("invalid calibration: %w", err)
	}

	if len(overrides) > 0 {
		slog.Info("loaded ranking calibration with overrides", "overrides", overrides)
	} else {
		slog.Info("loaded ranking calibration (using all defaults)")
	}

	return merged, nil
}

// MergeCalibration merges override weights into base weights. Only non-zero
// override values are applied, allowing partial calibration files. Returns
// the merged weights and a description of each applied override.
func MergeCalibration(base *Weights, override *Weights) (*Weights, []string) {
	if base == nil {
		base = DefaultWeights()
	}

	result := *base
	if override == nil {
		return &result, nil
	}

	var overrides []string
	apply := func(dst *float64, ov float64, name string) {
		if ov == 0 || ov == *dst {
			return
		}
		overrides = append(overrides, fmt.Sprintf("%s: %.2f -> %.2f", name, *dst, ov))
		*dst = ov
	}

	apply(&result.School.Exact, override.School.Exact, "school.exact")
	apply(&result.School.Fuzzy, override.School.Fuzzy, "school.fuzzy")

	apply(&result.Attribute.Grade, override.Attribute.Grade, "attribute.grade")
	apply(&result.Attribute.Subject, override.Attribute.Subject, "attribute.subject")
	apply(&result.Attribute.Board, override.Attribute.Board, "attribute.board")
	apply(&result.Attribute.Category, override.Attribute.Category, "attribute.category")

	apply(&result.Condition.New, override.Condition.New, "condition.new")
	apply(&result.Condition.LikeNew, override.Condition.LikeNew, "condition.like_new")
	apply(&result.Condition.Good, override.Condition.Good, "condition.good")
	apply(&result.Condition.Fair, override.Condition.Fair, "condition.fair")
	apply(&result.Condition.Poor, override.Condition.Poor, "condition.poor")

	apply(&result.Price.Cap, override.Price.Cap, "price.cap")
	apply(&result.Price.Norm, override.Price.Norm, "price.norm")
	apply(&result.Price.NegotiableBonus, override.Price.NegotiableBonus, "price.negotiable_bonus")

	apply(&result.Seller.RatingWeight, override.Seller.RatingWeight, "seller.rating_weight")
	apply(&result.Seller.VerifiedBonus, override.Seller.VerifiedBonus, "seller.verified_bonus")

	apply(&result.Popularity.ViewWeight, override.Popularity.ViewWeight, "popularity.view_weight")
	apply(&result.Popularity.FavoriteWeight, override.Popularity.FavoriteWeight, "popularity.favorite_weight")

	apply(&result.Distance.Within1Km, override.Distance.Within1Km, "distance.within_1km")
	apply(&result.Distance.Within3Km, override.Distance.Within3Km, "distance.within_3km")
	apply(&result.Distance.Within5Km, override.Distance.Within5Km, "distance.within_5km")
	apply(&result.Distance.Within10Km, override.Distance.Within10Km, "distance.within_10km")
	apply(&result.Distance.FarPenalty, override.Distance.FarPenalty, "distance.far_penalty")

	apply(&result.Promotion.FreshnessBonus, override.Promotion.FreshnessBonus, "promotion.freshness_bonus")
	apply(&result.Promotion.FeaturedBonus, override.Promotion.FeaturedBonus, "promotion.featured_bonus")
	apply(&result.Promotion.BoostBonus, override.Promotion.BoostBonus, "promotion.boost_bonus")

	return &result, overrides
}
