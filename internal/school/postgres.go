package school

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/lib/pq"

	"github.com/MSaini-Dev/bookfair/internal/tracing"
)

// PostgresRegistry implements Registry against PostgreSQL.
type PostgresRegistry struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresRegistry creates a new PostgresRegistry.
func NewPostgresRegistry(db *sql.DB, logger *slog.Logger) *PostgresRegistry {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresRegistry{db: db, logger: logger}
}

// FindByName returns clusters whose name or normalized name contains the
// query as a case-insensitive substring. Malformed rows are logged and
// skipped.
func (r *PostgresRegistry) FindByName(ctx context.Context, query string) ([]Cluster, error) {
	const q = `
		SELECT id, name, normalized_name, lat, lng, area, postal_code, landmarks, verified
		FROM school_clusters
		WHERE name ILIKE $1 OR normalized_name ILIKE $1`

	ctx, endSpan := tracing.StartQuerySpan(ctx, "school_clusters")
	rows, err := r.db.QueryContext(ctx, q, "%"+query+"%")
	if err != nil {
		endSpan(err)
		return nil, fmt.Errorf("failed to query school clusters: %w", err)
	}
	defer endSpan(nil)
	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.Warn("failed to close school cluster rows", "error", err)
		}
	}()

	var clusters []Cluster
	for rows.Next() {
		var (
			c          Cluster
			area       sql.NullString
			postalCode sql.NullString
		)
		if err := rows.Scan(&c.ID, &c.Name, &c.NormalizedName, &c.Lat, &c.Lng,
			&area, &postalCode, pq.Array(&c.Landmarks), &c.Verified); err != nil {
			return nil, fmt.Errorf("failed to scan school cluster: %w", err)
		}
		c.Area = area.String
		c.PostalCode = postalCode.String

		if err := c.Validate(); err != nil {
			r.logger.Warn("rejected malformed school cluster", "cluster_id", c.ID, "error", err)
			continue
		}
		clusters = append(clusters, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate school clusters: %w", err)
	}

	return clusters, nil
}
