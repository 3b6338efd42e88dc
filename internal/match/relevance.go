package match

import "strings"

// Relevance weighting constants. An exact substring hit on a field always
// outscores a fuzzy match on the same field, and the field ordering
// title >= author >= description is a contract relied on by ranking tests.
const (
	titleExactScore  = 50.0
	titleFuzzyWeight = 25.0

	authorExactScore  = 20.0
	authorFuzzyWeight = 10.0

	descriptionBonus = 10.0
)

// Relevance computes a non-negative text relevance score for a search query
// against a listing's title, author, and description.
//
// Title containment scores a fixed high constant, otherwise title similarity
// is scaled by a lower weight. The same pattern applies to the author at a
// smaller weight, and the description contributes a flat bonus on substring
// containment only. All comparisons are case-insensitive.
func Relevance(query, title, author, description string) float64 {
	if query == "" {
		return 0
	}

	q := strings.ToLower(query)
	score := 0.0

	if strings.Contains(strings.ToLower(title), q) {
		score += titleExactScore
	} else {
		score += Similarity(query, title) * titleFuzzyWeight
	}

	if author != "" {
		if strings.Contains(strings.ToLower(author), q) {
			score += authorExactScore
		} else {
			score += Similarity(query, author) * authorFuzzyWeight
		}
	}

	if description != "" && strings.Contains(strings.ToLower(description), q) {
		score += descriptionBonus
	}

	return score
}
