package ranking

// SchoolWeights defines the school affinity bonuses for academic listings
// when the request carries a school filter.
type SchoolWeights struct {
	Exact float64 `json:"exact"` // Exact school-name equality (default: 30)
	Fuzzy float64 `json:"fuzzy"` // Similarity above the fuzzy threshold (default: 15)
}

// AttributeWeights defines the structural exact-match bonuses. The ordering
// Grade > Subject > Board >= Category is a contract; calibration files that
// break it are rejected.
type AttributeWeights struct {
	Grade    float64 `json:"grade"`    // default: 25
	Subject  float64 `json:"subject"`  // default: 20
	Board    float64 `json:"board"`    // default: 15
	Category float64 `json:"category"` // default: 15
}

// ConditionWeights maps the five condition levels to descending point
// values. New must stay highest and Poor lowest.
type ConditionWeights struct {
	New     float64 `json:"new"`      // default: 10
	LikeNew float64 `json:"like_new"` // default: 8
	Good    float64 `json:"good"`     // default: 6
	Fair    float64 `json:"fair"`     // default: 4
	Poor    float64 `json:"poor"`     // default: 2
}

// PriceWeights defines the price attractiveness term: min(Cap, Norm/price)
// for price > 0, plus a flat bonus for negotiable listings.
type PriceWeights struct {
	Cap             float64 `json:"cap"`              // default: 15
	Norm            float64 `json:"norm"`             // default: 1000
	NegotiableBonus float64 `json:"negotiable_bonus"` // default: 3
}

// SellerWeights defines the seller reputation term.
type SellerWeights struct {
	RatingWeight  float64 `json:"rating_weight"`  // default: 4 (rating in [0,5])
	VerifiedBonus float64 `json:"verified_bonus"` // default: 5
}

// PopularityWeights defines the popularity term:
// log(views+1)*ViewWeight + favorites*FavoriteWeight.
type PopularityWeights struct {
	ViewWeight     float64 `json:"view_weight"`     // default: 2
	FavoriteWeight float64 `json:"favorite_weight"` // default: 0.5
}

// DistanceWeights defines the banded distance bonuses and the far penalty.
// Band edges (1/3/5/10/25 km) are fixed in the scorer; only the point
// values are calibratable.
type DistanceWeights struct {
	Within1Km  float64 `json:"within_1km"`  // default: 25
	Within3Km  float64 `json:"within_3km"`  // default: 18
	Within5Km  float64 `json:"within_5km"`  // default: 12
	Within10Km float64 `json:"within_10km"` // default: 6
	FarPenalty float64 `json:"far_penalty"` // applied beyond 25 km (default: -10)
}

// PromotionWeights defines freshness and promotion bonuses.
type PromotionWeights struct {
	FreshnessBonus float64 `json:"freshness_bonus"` // listing age <= 7 days (default: 8)
	FeaturedBonus  float64 `json:"featured_bonus"`  // default: 20
	BoostBonus     float64 `json:"boost_bonus"`     // unexpired boost (default: 15)
}

// Weights holds all calibratable listing-scoring weights.
type Weights struct {
	School     SchoolWeights     `json:"school"`
	Attribute  AttributeWeights  `json:"attribute"`
	Condition  ConditionWeights  `json:"condition"`
	Price      PriceWeights      `json:"price"`
	Seller     SellerWeights     `json:"seller"`
	Popularity PopularityWeights `json:"popularity"`
	Distance   DistanceWeights   `json:"distance"`
	Promotion  PromotionWeights  `json:"promotion"`
}

// DefaultWeights returns the default scoring weight configuration.
//
// The defaults are tuned so that a strong qualitative signal (school match,
// proximity, text hit) dominates incremental ones (popularity, freshness):
// an exact title hit (50) plus a same-school bonus (30) cannot be overtaken
// by popularity and condition points alone.
func DefaultWeights() *Weights {
	return &Weights{
		School: SchoolWeights{
			Exact: 30,
			Fuzzy: 15,
		},
		Attribute: AttributeWeights{
			Grade:    25,
			Subject:  20,
			Board:    15,
			Category: 15,
		},
		Condition: ConditionWeights{
			New:     10,
			LikeNew: 8,
			Good:    6,
			Fair:    4,
			Poor:    2,
		},
		Price: PriceWeights{
			Cap:             15,
			Norm:            1000,
			NegotiableBonus: 3,
		},
		Seller: SellerWeights{
			RatingWeight:  4,
			VerifiedBonus: 5,
		},
		Popularity: PopularityWeights{
			ViewWeight:     2,
			FavoriteWeight: 0.5,
		},
		Distance: DistanceWeights{
			Within1Km:  25,
			Within3Km:  18,
			Within5Km:  12,
			Within10Km: 6,
			FarPenalty: -10,
		},
		Promotion: PromotionWeights{
			FreshnessBonus: 8,
			FeaturedBonus:  20,
			BoostBonus:     15,
		},
	}
}
