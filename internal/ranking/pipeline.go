package ranking

import (
	"log/slog"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/MSaini-Dev/bookfair/internal/listing"
)

// Comparator tolerances. Score and distance only distinguish two listings
// when they differ by more than one unit; smaller gaps fall through to the
// next key so score noise and sub-kilometer differences cannot flip the
// visible order.
const (
	scoreTolerance    = 1.0
	distanceTolerance = 1.0
)

// concurrencyThreshold is the candidate count below which scoring runs
// sequentially; goroutine fan-out is not worth it for small result sets.
const concurrencyThreshold = 32

// ScoredListing is a listing annotated with its computed score, resolved
// distance, and favorite state. Request-scoped; created and discarded within
// one Rank call.
type ScoredListing struct {
	listing.Listing
	Seller      listing.SellerProfile `json:"seller"`
	Score       float64               `json:"score"`
	DistanceKm  *float64              `json:"distance_km,omitempty"`
	IsFavorited bool                  `json:"is_favorited"`
}

// Pipeline orchestrates scoring, distance filtering, ordering, and
// pagination over a candidate set.
type Pipeline struct {
	scorer  *Scorer
	metrics *Metrics
	logger  *slog.Logger
}

// NewPipeline creates a Pipeline. metrics may be nil to disable
// instrumentation.
func NewPipeline(scorer *Scorer, metrics *Metrics, logger *slog.Logger) *Pipeline {
	if scorer == nil {
		scorer = NewScorer(nil)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{scorer: scorer, metrics: metrics, logger: logger}
}

// Rank scores, filters, orders, and paginates a candidate set.
//
// Every candidate is scored independently (concurrently above a small
// threshold, each worker writing only its own output slot). Candidates whose
// resolved distance exceeds req.MaxDistanceKm are dropped; candidates with
// no resolvable coordinates are never distance-filtered. The sort runs once
// over the complete scored set, so callers always observe a full, final
// order. Deterministic for fixed inputs including now.
func (p *Pipeline) Rank(candidates []listing.Candidate, req listing.SearchRequest, favoriteIDs map[string]bool, now time.Time) []ScoredListing {
	start := time.Now()

	scored := p.scoreAll(candidates, &req, favoriteIDs, now)

	// Distance cutoff. Unknown distance is not "too far".
	if req.MaxDistanceKm > 0 {
		kept := scored[:0]
		for _, s := range scored {
			if s.DistanceKm != nil && *s.DistanceKm > req.MaxDistanceKm {
				if p.metrics != nil {
					p.metrics.IncDistanceFiltered()
				}
				continue
			}
			kept = append(kept, s)
		}
		scored = kept
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return less(&scored[i], &scored[j], &req)
	})

	page := paginate(scored, req.Offset, req.Limit)

	if p.metrics != nil {
		p.metrics.ObserveRank(len(candidates), len(page), time.Since(start).Seconds())
	}
	p.logger.Debug("ranked listings",
		"candidates", len(candidates),
		"after_distance_filter", len(scored),
		"returned", len(page))

	return page
}

// scoreAll maps candidates to scored listings, one output slot per
// candidate. No coordination is needed beyond the final join: each worker
// reads its own candidate and writes its own slot.
func (p *Pipeline) scoreAll(candidates []listing.Candidate, req *listing.SearchRequest, favoriteIDs map[string]bool, now time.Time) []ScoredListing {
	scored := make([]ScoredListing, len(candidates))

	scoreOne := func(i int) {
		c := &candidates[i]
		score, distance := p.scorer.Score(&c.Listing, &c.Seller, req, now)
		scored[i] = ScoredListing{
			Listing:     c.Listing,
			Seller:      c.Seller,
			Score:       score,
			DistanceKm:  distance,
			IsFavorited: favoriteIDs[c.Listing.ID],
		}
	}

	if len(candidates) < concurrencyThreshold {
		for i := range candidates {
			scoreOne(i)
		}
		return scored
	}

	workers := runtime.GOMAXPROCS(0)
	if workers > len(candidates) {
		workers = len(candidates)
	}

	var wg sync.WaitGroup
	indexes := make(chan int)

	wg.Add(workers)
	for w := 0; w < workers; w++ {
		go func() {
			defer wg.Done()
			for i := range indexes {
				scoreOne(i)
			}
		}()
	}
	for i := range candidates {
		indexes <- i
	}
	close(indexes)
	wg.Wait()

	return scored
}

// less is the layered ranking comparator. Keys apply in strict priority
// order; each key only breaks ties left by the previous one.
func less(a, b *ScoredListing, req *listing.SearchRequest) bool {
	// a. Same-school listings first, only when both sides are academic and
	// the request carries a school filter.
	if req.SchoolName != "" && a.Kind == listing.KindAcademic && b.Kind == listing.KindAcademic {
		aMatch := strings.EqualFold(a.SchoolName, req.SchoolName)
		bMatch := strings.EqualFold(b.SchoolName, req.SchoolName)
		if aMatch != bMatch {
			return aMatch
		}
	}

	// b. Featured listings first.
	if a.Featured != b.Featured {
		return a.Featured
	}

	// c. Higher score first, beyond the tolerance band.
	if diff := a.Score - b.Score; diff > scoreTolerance {
		return true
	} else if diff < -scoreTolerance {
		return false
	}

	// d. Closer first, when both distances are known, beyond the band.
	if a.DistanceKm != nil && b.DistanceKm != nil {
		if diff := *a.DistanceKm - *b.DistanceKm; diff < -distanceTolerance {
			return true
		} else if diff > distanceTolerance {
			return false
		}
	}

	// e. Better condition first.
	if a.Condition != b.Condition {
		return a.Condition > b.Condition
	}

	// f. Lower price first.
	return a.Price < b.Price
}

// paginate slices the sorted results by offset and limit. A non-positive
// limit returns everything after the offset.
func paginate(scored []ScoredListing, offset, limit int) []ScoredListing {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(scored) {
		return []ScoredListing{}
	}
	scored = scored[offset:]
	if limit > 0 && limit < len(scored) {
		scored = scored[:limit]
	}
	return scored
}
