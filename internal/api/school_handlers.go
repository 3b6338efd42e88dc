package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/MSaini-Dev/bookfair/internal/middleware"
	"github.com/MSaini-Dev/bookfair/internal/school"
)

// SchoolHandlers holds dependencies for the school resolution endpoint.
type SchoolHandlers struct {
	resolver *school.Resolver
	logger   *slog.Logger
}

// NewSchoolHandlers creates a new SchoolHandlers instance.
func NewSchoolHandlers(resolver *school.Resolver, logger *slog.Logger) *SchoolHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &SchoolHandlers{resolver: resolver, logger: logger}
}

// SchoolResolveResponse is the response body for GET /schools/resolve.
type SchoolResolveResponse struct {
	Matches []school.Match `json:"matches"`
	Count   int            `json:"count"`
}

// ResolveSchool handles GET /schools/resolve. It matches a free-text school
// name against the canonical registry near the caller's location, returning
// confidence-ranked candidates. An empty match list is a successful response.
func (h *SchoolHandlers) ResolveSchool(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeBadRequest)
		WriteError(w, ctx, http.StatusMethodNotAllowed, ErrCodeBadRequest, "Method not allowed")
		return
	}

	query := r.URL.Query()

	fail := func(message string) {
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeValidation)
		WriteError(w, ctx, http.StatusBadRequest, ErrCodeValidation, message)
	}

	q := strings.TrimSpace(query.Get("q"))
	if q == "" {
		fail("q is required")
		return
	}

	latStr, lngStr := query.Get("lat"), query.Get("lng")
	if latStr == "" || lngStr == "" {
		fail("lat and lng are required")
		return
	}
	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil || lat < -90 || lat > 90 {
		fail("lat must be between -90 and 90")
		return
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil || lng < -180 || lng > 180 {
		fail("lng must be between -180 and 180")
		return
	}

	var maxDistanceKm float64
	if s := query.Get("max_distance_km"); s != "" {
		maxDistanceKm, err = strconv.ParseFloat(s, 64)
		if err != nil || maxDistanceKm < 0 {
			fail("max_distance_km must be a non-negative number")
			return
		}
	}

	postalCode := strings.TrimSpace(query.Get("postal_code"))

	matches, err := h.resolver.FindMatches(r.Context(), q, lat, lng, postalCode, maxDistanceKm)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "failed to resolve school", "error", err, "query", q)
		ctx := middleware.SetErrorCode(r.Context(), ErrCodeInternal)
		WriteError(w, ctx, http.StatusInternalServerError, ErrCodeInternal, "Failed to resolve school")
		return
	}

	response := SchoolResolveResponse{
		Matches: matches,
		Count:   len(matches),
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.ErrorContext(r.Context(), "failed to encode resolve response", "error", err)
	}
}
