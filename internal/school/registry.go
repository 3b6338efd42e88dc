package school

import (
	"context"
	"strings"
	"sync"
)

// Registry is the school-registry collaborator: it returns clusters whose
// name or normalized name contains the query as a case-insensitive
// substring. The resolver never reimplements this filter.
type Registry interface {
	// FindByName returns clusters matching the substring query.
	FindByName(ctx context.Context, query string) ([]Cluster, error)
}

// InMemoryRegistry is an in-memory implementation of Registry.
// Used for testing and development.
type InMemoryRegistry struct {
	mu       sync.RWMutex
	clusters []Cluster
}

// NewInMemoryRegistry creates a new in-memory registry.
func NewInMemoryRegistry() *InMemoryRegistry {
	return &InMemoryRegistry{}
}

// Add stores a cluster, deriving the normalized name when absent.
func (r *InMemoryRegistry) Add(c Cluster) {
	if c.NormalizedName == "" {
		c.NormalizedName = NormalizeName(c.Name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clusters = append(r.clusters, c)
}

// FindByName returns clusters whose name or normalized name contains the
// query as a case-insensitive substring.
func (r *InMemoryRegistry) FindByName(_ context.Context, query string) ([]Cluster, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	q := strings.ToLower(query)
	result := make([]Cluster, 0, len(r.clusters))
	for _, c := range r.clusters {
		if strings.Contains(strings.ToLower(c.Name), q) ||
			strings.Contains(c.NormalizedName, q) {
			result = append(result, c)
		}
	}
	return result, nil
}
