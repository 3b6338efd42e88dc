// Package favorite tracks which listings a user has saved, so search
// results can be annotated with favorite state.
package favorite

import (
	"context"
	"sync"
)

// Store exposes favorite lookups for result annotation.
type Store interface {
	// IDsForUser returns the set of listing IDs the user has favorited.
	// An unknown user yields an empty set, not an error.
	IDsForUser(ctx context.Context, userID string) (map[string]bool, error)
}

// InMemoryStore is an in-memory Store implementation for tests and local
// development. Thread-safe via RWMutex.
type InMemoryStore struct {
	mu        sync.RWMutex
	favorites map[string]map[string]bool // userID -> listingID set
}

// NewInMemoryStore creates an empty InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{favorites: make(map[string]map[string]bool)}
}

// Add records a favorite for a user.
func (s *InMemoryStore) Add(userID, listingID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.favorites[userID] == nil {
		s.favorites[userID] = make(map[string]bool)
	}
	s.favorites[userID][listingID] = true
}

// Remove deletes a favorite for a user. Removing an absent favorite is a
// no-op.
func (s *InMemoryStore) Remove(userID, listingID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.favorites[userID], listingID)
}

// IDsForUser returns a copy of the user's favorite set.
func (s *InMemoryStore) IDsForUser(_ context.Context, userID string) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make(map[string]bool, len(s.favorites[userID]))
	for id := range s.favorites[userID] {
		out[id] = true
	}
	return out, nil
}
