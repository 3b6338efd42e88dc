package favorite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/MSaini-Dev/bookfair/internal/tracing"
)

// PostgresStore is a Store backed by the favorites table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a PostgresStore on an existing connection pool.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// IDsForUser returns the set of listing IDs the user has favorited.
func (s *PostgresStore) IDsForUser(ctx context.Context, userID string) (map[string]bool, error) {
	ctx, endSpan := tracing.StartQuerySpan(ctx, "favorites")
	rows, err := s.db.QueryContext(ctx,
		`SELECT listing_id FROM favorites WHERE user_id = $1`, userID)
	if err != nil {
		endSpan(err)
		return nil, fmt.Errorf("query favorites: %w", err)
	}
	defer endSpan(nil)
	defer rows.Close()

	ids := make(map[string]bool)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan favorite: %w", err)
		}
		ids[id] = true
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate favorites: %w", err)
	}
	return ids, nil
}
