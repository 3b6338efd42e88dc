package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/MSaini-Dev/bookfair/internal/auth"
	"github.com/MSaini-Dev/bookfair/internal/favorite"
	"github.com/MSaini-Dev/bookfair/internal/geo"
	"github.com/MSaini-Dev/bookfair/internal/listing"
	"github.com/MSaini-Dev/bookfair/internal/middleware"
	"github.com/MSaini-Dev/bookfair/internal/ranking"
)

// Search pagination bounds.
const (
	MaxSearchLimit     = 100 // Max results per page
	DefaultSearchLimit = 20  // Default results if not specified
)

// SearchHandlers holds dependencies for the listing search endpoint.
type SearchHandlers struct {
	source    listing.CandidateSource
	favorites favorite.Store
	pipeline  *ranking.Pipeline
	jwt       *auth.JWTService
	logger    *slog.Logger
}

// NewSearchHandlers creates a new SearchHandlers instance. favorites and jwt
// may be nil; search then runs fully anonymous.
func NewSearchHandlers(source listing.CandidateSource, favorites favorite.Store, pipeline *ranking.Pipeline, jwt *auth.JWTService, logger *slog.Logger) *SearchHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchHandlers{
		source:    source,
		favorites: favorites,
		pipeline:  pipeline,
		jwt:       jwt,
		logger:    logger,
	}
}

// SearchResponse is the response body for GET /search/listings.
type SearchResponse struct {
	Results []ranking.ScoredListing `json:"results"`
	Count   int                     `json:"count"`
	Limit   int                     `json:"limit"`
	Offset  int                     `json:"offset"`

	// CoarseGeohash is a truncated geohash of the search location, echoed
	// so clients can cache by area without exposing precise coordinates.
	CoarseGeohash string `json:"coarse_geohash,omitempty"`
}

// SearchListings handles GET /search/listings. It parses and validates the
// query parameters, fetches the structurally filtered candidate set, and runs
// it through the ranking pipeline. Authentication is optional; a valid bearer
// token only adds favorite annotation.
func (h *SearchHandlers) SearchListings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeBadRequest)
		WriteError(w, ctx, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	req, ok := h.parseSearchRequest(w, r)
	if !ok {
		return
	}

	userID, ok := h.resolveUser(w, r)
	if !ok {
		return
	}
	req.UserID = userID

	candidates, err := h.source.SearchCandidates(r.Context(), req)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to fetch search candidates", "error", err, "query", req.Query)
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to search listings")
		return
	}
	candidates = listing.ValidCandidates(candidates, h.logger)

	var favoriteIDs map[string]bool
	if userID != "" && h.favorites != nil {
		favoriteIDs, err = h.favorites.IDsForUser(r.Context(), userID)
		if err != nil {
			// Favorites are an annotation, not a search dependency.
			h.logger.WarnContext(r.Context(), "failed to load favorites", "error", err, "user_id", userID)
			favoriteIDs = nil
		}
	}

	results := h.pipeline.Rank(candidates, req, favoriteIDs, time.Now())

	response := SearchResponse{
		Results: results,
		Count:   len(results),
		Limit:   req.Limit,
		Offset:  req.Offset,
	}
	if req.Location != nil {
		response.CoarseGeohash = geo.Encode(req.Location.Lat, req.Location.Lng, geo.DefaultPrecision)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to encode search response", "error", err)
	}
}

// parseSearchRequest parses and validates all query parameters. On failure it
// writes a validation error response and returns ok=false.
func (h *SearchHandlers) parseSearchRequest(w http.ResponseWriter, r *http.Request) (listing.SearchRequest, bool) {
	query := r.URL.Query()

	fail := func(message string) (listing.SearchRequest, bool) {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, message)
		return listing.SearchRequest{}, false
	}

	req := listing.SearchRequest{
		Query:      strings.TrimSpace(query.Get("q")),
		Category:   strings.TrimSpace(query.Get("category")),
		Grade:      strings.TrimSpace(query.Get("grade")),
		Subject:    strings.TrimSpace(query.Get("subject")),
		Board:      strings.TrimSpace(query.Get("board")),
		SchoolName: strings.TrimSpace(query.Get("school")),
		Address:    strings.TrimSpace(query.Get("address")),
		Area:       strings.TrimSpace(query.Get("area")),
		PostalCode: strings.TrimSpace(query.Get("postal_code")),
		Landmark:   strings.TrimSpace(query.Get("landmark")),
		Limit:      DefaultSearchLimit,
	}

	if s := query.Get("condition"); s != "" {
		cond, err := listing.ParseCondition(s)
		if err != nil {
			return fail("condition must be one of: new, like_new, good, fair, poor")
		}
		req.Condition = &cond
	}

	if s := query.Get("kind"); s != "" {
		kind := listing.Kind(s)
		if !kind.Valid() {
			return fail("kind must be one of: general, academic")
		}
		req.Kind = kind
	}

	if s := query.Get("min_price"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v < 0 {
			return fail("min_price must be a non-negative number")
		}
		req.MinPrice = &v
	}

	if s := query.Get("max_price"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v < 0 {
			return fail("max_price must be a non-negative number")
		}
		req.MaxPrice = &v
	}

	if req.MinPrice != nil && req.MaxPrice != nil && *req.MinPrice > *req.MaxPrice {
		return fail("min_price must not exceed max_price")
	}

	if s := query.Get("negotiable_only"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			return fail("negotiable_only must be a boolean")
		}
		req.NegotiableOnly = v
	}

	latStr, lngStr := query.Get("lat"), query.Get("lng")
	if (latStr == "") != (lngStr == "") {
		return fail("lat and lng must be provided together")
	}
	if latStr != "" {
		lat, err := strconv.ParseFloat(latStr, 64)
		if err != nil || lat < -90 || lat > 90 {
			return fail("lat must be between -90 and 90")
		}
		lng, err := strconv.ParseFloat(lngStr, 64)
		if err != nil || lng < -180 || lng > 180 {
			return fail("lng must be between -180 and 180")
		}
		req.Location = &listing.Point{Lat: lat, Lng: lng}
	}

	if s := query.Get("max_distance_km"); s != "" {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || v < 0 {
			return fail("max_distance_km must be a non-negative number")
		}
		if req.Location == nil {
			return fail("max_distance_km requires lat and lng")
		}
		req.MaxDistanceKm = v
	}

	if s := query.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return fail("limit must be a positive integer")
		}
		if v > MaxSearchLimit {
			v = MaxSearchLimit
		}
		req.Limit = v
	}

	if s := query.Get("offset"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			return fail("offset must be a non-negative integer")
		}
		req.Offset = v
	}

	return req, true
}

// resolveUser extracts the user ID from an optional bearer token. A missing
// header means anonymous search; a present but invalid token is rejected so
// clients learn their session expired instead of silently losing favorites.
func (h *SearchHandlers) resolveUser(w http.ResponseWriter, r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", true
	}

	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeAuthFailed)
		WriteError(w, ctx, http.StatusUnauthorized, ErrCodeAuthFailed, "Authorization header must be a bearer token")
		return "", false
	}

	if h.jwt == nil {
		return "", true
	}

	claims, err := h.jwt.ValidateToken(token)
	if err != nil {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeAuthFailed)
		WriteError(w, ctx, http.StatusUnauthorized, ErrCodeAuthFailed, "Invalid or expired token")
		return "", false
	}
	return claims.Subject, true
}
