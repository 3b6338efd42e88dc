package listing

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MSaini-Dev/bookfair/internal/tracing"
)

// PostgresCandidateSource implements CandidateSource against PostgreSQL.
// The structural predicates are pushed down into SQL; distance filtering and
// ranking happen in-process after the rows are loaded.
type PostgresCandidateSource struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresCandidateSource creates a new PostgresCandidateSource.
func NewPostgresCandidateSource(db *sql.DB, logger *slog.Logger) *PostgresCandidateSource {
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresCandidateSource{db: db, logger: logger}
}

// candidateColumns is the select list shared by candidate queries.
const candidateColumns = `
	l.id, l.seller_id, l.title, l.author, l.description, l.category,
	l.kind, l.condition, l.price, l.original_price, l.negotiable,
	l.grade, l.subject, l.board,
	l.lat, l.lng, l.school_id, l.school_name, l.school_lat, l.school_lng,
	l.view_count, l.favorite_count, l.featured, l.boosted_until, l.created_at,
	p.username, p.lat, p.lng, p.rating, p.verified`

// SearchCandidates returns listings joined with seller profiles that match
// the request's structural filters. Rows that fail boundary validation are
// logged and skipped rather than failing the query.
func (s *PostgresCandidateSource) SearchCandidates(ctx context.Context, req SearchRequest) ([]Candidate, error) {
	var (
		where []string
		args  []any
	)

	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	where = append(where, "l.deleted_at IS NULL", "l.status = 'active'")

	if req.Category != "" {
		where = append(where, "LOWER(l.category) = LOWER("+arg(req.Category)+")")
	}
	if req.Condition != nil {
		where = append(where, "l.condition = "+arg(req.Condition.String()))
	}
	if req.Kind != "" {
		where = append(where, "l.kind = "+arg(string(req.Kind)))
	}
	if req.Grade != "" {
		where = append(where, "LOWER(l.grade) = LOWER("+arg(req.Grade)+")")
	}
	if req.Subject != "" {
		where = append(where, "l.subject ILIKE "+arg("%"+req.Subject+"%"))
	}
	if req.Board != "" {
		where = append(where, "LOWER(l.board) = LOWER("+arg(req.Board)+")")
	}
	if req.MinPrice != nil {
		where = append(where, "l.price >= "+arg(*req.MinPrice))
	}
	if req.MaxPrice != nil {
		where = append(where, "l.price <= "+arg(*req.MaxPrice))
	}
	if req.NegotiableOnly {
		where = append(where, "l.negotiable = TRUE")
	}
	if req.SchoolName != "" {
		where = append(where, "l.school_name ILIKE "+arg("%"+req.SchoolName+"%"))
	}
	if req.Query != "" {
		pattern := arg("%" + req.Query + "%")
		where = append(where, fmt.Sprintf(
			"(l.title ILIKE %s OR l.author ILIKE %s OR l.description ILIKE %s OR l.school_name ILIKE %s)",
			pattern, pattern, pattern, pattern))
	}

	query := `SELECT` + candidateColumns + `
		FROM listings l
		JOIN seller_profiles p ON p.user_id = l.seller_id
		WHERE ` + strings.Join(where, " AND ")

	ctx, endSpan := tracing.StartQuerySpan(ctx, "listings")
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		endSpan(err)
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer endSpan(nil)
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.Warn("failed to close candidate rows", "error", err)
		}
	}()

	var candidates []Candidate
	for rows.Next() {
		c, err := scanCandidate(rows)
		if err != nil {
			s.logger.Warn("rejected malformed candidate row", "error", err)
			continue
		}
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate candidates: %w", err)
	}

	return candidates, nil
}

// scanCandidate maps one joined row into the typed model, applying boundary
// validation so malformed rows never reach scoring.
func scanCandidate(rows *sql.Rows) (Candidate, error) {
	var (
		c            Candidate
		condition    string
		kind         string
		lat, lng     sql.NullFloat64
		schoolID     sql.NullString
		schoolName   sql.NullString
		sLat, sLng   sql.NullFloat64
		author       sql.NullString
		description  sql.NullString
		category     sql.NullString
		grade        sql.NullString
		subject      sql.NullString
		board        sql.NullString
		origPrice    sql.NullFloat64
		boostedUntil sql.NullTime
		pLat, pLng   sql.NullFloat64
	)

	err := rows.Scan(
		&c.Listing.ID, &c.Listing.SellerID, &c.Listing.Title, &author, &description, &category,
		&kind, &condition, &c.Listing.Price, &origPrice, &c.Listing.Negotiable,
		&grade, &subject, &board,
		&lat, &lng, &schoolID, &schoolName, &sLat, &sLng,
		&c.Listing.ViewCount, &c.Listing.FavoriteCount, &c.Listing.Featured, &boostedUntil, &c.Listing.CreatedAt,
		&c.Seller.Username, &pLat, &pLng, &c.Seller.Rating, &c.Seller.Verified,
	)
	if err != nil {
		return Candidate{}, fmt.Errorf("failed to scan candidate: %w", err)
	}

	cond, err := ParseCondition(condition)
	if err != nil {
		return Candidate{}, err
	}
	c.Listing.Condition = cond
	c.Listing.Kind = Kind(kind)

	c.Listing.Author = author.String
	c.Listing.Description = description.String
	c.Listing.Category = category.String
	c.Listing.Grade = grade.String
	c.Listing.Subject = subject.String
	c.Listing.Board = board.String
	c.Listing.SchoolID = schoolID.String
	c.Listing.SchoolName = schoolName.String

	if origPrice.Valid {
		v := origPrice.Float64
		c.Listing.OriginalPrice = &v
	}
	if boostedUntil.Valid {
		t := boostedUntil.Time
		c.Listing.BoostedUntil = &t
	}
	if lat.Valid && lng.Valid {
		c.Listing.Location = &Point{Lat: lat.Float64, Lng: lng.Float64}
	}
	if sLat.Valid && sLng.Valid {
		c.Listing.SchoolLocation = &Point{Lat: sLat.Float64, Lng: sLng.Float64}
	}
	if pLat.Valid && pLng.Valid {
		c.Seller.Location = &Point{Lat: pLat.Float64, Lng: pLng.Float64}
	}

	if err := c.Listing.Validate(); err != nil {
		return Candidate{}, err
	}
	if err := c.Seller.Validate(); err != nil {
		return Candidate{}, err
	}

	return c, nil
}
