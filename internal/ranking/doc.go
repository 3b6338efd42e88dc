// Package ranking scores and orders book listings for search and discovery,
// with calibration support for the scoring weights.
//
// Basic Usage:
//
//	// Load calibration (typically at startup)
//	weights, err := ranking.LoadCalibration("configs/ranking.calibration.json")
//	if err != nil {
//		log.Warn("using default weights", "error", err)
//	}
//
//	scorer := ranking.NewScorer(weights)
//	pipeline := ranking.NewPipeline(scorer, metrics, logger)
//
//	// candidates come from the listing repository with structural filters
//	// already applied; favoriteIDs from the favorites store.
//	results := pipeline.Rank(candidates, request, favoriteIDs, time.Now())
//
// Scoring:
//
// A listing's score is an unbounded, non-negative sum of independent terms:
// text relevance, school affinity, structural filter bonuses, condition,
// price attractiveness, seller reputation, popularity, distance band,
// freshness, and promotion. The scorer takes "now" as an explicit parameter
// so that scoring is a pure function and exactly reproducible in tests.
//
// Ordering:
//
// The pipeline sorts with a layered comparator: school match, featured,
// score, distance, condition, price — where score and distance only break
// ties beyond a one-unit tolerance. The tolerance bands keep sub-kilometer
// distance noise and small score jitter from flipping the visible order.
//
// Calibration:
//
// Numeric weights can be tuned at deploy time via a JSON calibration file
// loaded at startup. Thresholds that are part of the ranking contract (the
// fuzzy school-match cutoff, distance band edges, comparator tolerances)
// are fixed constants and not calibratable.
package ranking
