package listing

import (
	"context"
	"strings"
	"sync"
)

// CandidateSource returns the candidate set for a search request with the
// simple structural predicates already applied (equality, range, substring).
// The ranking pipeline never re-applies these predicates; it only re-scores,
// applies the distance cutoff, and orders.
type CandidateSource interface {
	// SearchCandidates returns listings joined with seller profiles that
	// match the request's structural filters.
	SearchCandidates(ctx context.Context, req SearchRequest) ([]Candidate, error)
}

// InMemoryCandidateSource is an in-memory implementation of CandidateSource.
// Used for testing and development; mirrors the predicates the Postgres
// implementation applies in SQL.
type InMemoryCandidateSource struct {
	mu         sync.RWMutex
	candidates []Candidate
}

// NewInMemoryCandidateSource creates a new in-memory candidate source.
func NewInMemoryCandidateSource() *InMemoryCandidateSource {
	return &InMemoryCandidateSource{}
}

// Add stores a candidate.
func (s *InMemoryCandidateSource) Add(c Candidate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.candidates = append(s.candidates, c)
}

// SearchCandidates returns candidates matching the request's structural
// filters. Copies are returned to avoid external modification.
func (s *InMemoryCandidateSource) SearchCandidates(_ context.Context, req SearchRequest) ([]Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]Candidate, 0, len(s.candidates))
	for _, c := range s.candidates {
		if matchesFilters(c.Listing, req) {
			result = append(result, c)
		}
	}
	return result, nil
}

// matchesFilters applies the simple structural predicates to one listing.
func matchesFilters(l Listing, req SearchRequest) bool {
	if req.Category != "" && !strings.EqualFold(l.Category, req.Category) {
		return false
	}
	if req.Condition != nil && l.Condition != *req.Condition {
		return false
	}
	if req.Kind != "" && l.Kind != req.Kind {
		return false
	}
	if req.Grade != "" && !strings.EqualFold(l.Grade, req.Grade) {
		return false
	}
	if req.Subject != "" && !containsFold(l.Subject, req.Subject) {
		return false
	}
	if req.Board != "" && !strings.EqualFold(l.Board, req.Board) {
		return false
	}
	if req.MinPrice != nil && l.Price < *req.MinPrice {
		return false
	}
	if req.MaxPrice != nil && l.Price > *req.MaxPrice {
		return false
	}
	if req.NegotiableOnly && !l.Negotiable {
		return false
	}
	if req.SchoolName != "" && !containsFold(l.SchoolName, req.SchoolName) {
		return false
	}
	if req.Query != "" {
		if !containsFold(l.Title, req.Query) &&
			!containsFold(l.Author, req.Query) &&
			!containsFold(l.Description, req.Query) &&
			!containsFold(l.SchoolName, req.Query) {
			return false
		}
	}
	return true
}

// containsFold reports whether s contains substr, case-insensitively.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
