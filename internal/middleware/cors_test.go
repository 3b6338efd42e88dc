package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// searchCORSConfig mirrors the production CORS setup for the search API:
// a small origin allowlist, read-only methods, credentials for the bearer
// token, and a short preflight cache.
func searchCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins:   []string{"https://bookfair.example.com", "http://localhost:5173"},
		AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"results":[]}`))
	})
}

func TestCORS_DisabledWhenNoOrigins(t *testing.T) {
	handler := CORS(CORSConfig{})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/search/listings", nil)
	req.Header.Set("Origin", "https://bookfair.example.com")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	// Development default: no allowlist means the middleware stays out of
	// the way entirely.
	if rr.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if origin := rr.Header().Get("Access-Control-Allow-Origin"); origin != "" {
		t.Errorf("expected no CORS headers when disabled, got Access-Control-Allow-Origin: %s", origin)
	}
}

func TestCORS_AllowedOrigin(t *testing.T) {
	handler := CORS(searchCORSConfig())(okHandler())

	tests := []struct {
		name   string
		origin string
	}{
		{"production frontend", "https://bookfair.example.com"},
		{"local dev frontend", "http://localhost:5173"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/search/listings?q=ncert", nil)
			req.Header.Set("Origin", tt.origin)
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			if rr.Code != http.StatusOK {
				t.Errorf("expected status %d, got %d", http.StatusOK, rr.Code)
			}
			if origin := rr.Header().Get("Access-Control-Allow-Origin"); origin != tt.origin {
				t.Errorf("expected Access-Control-Allow-Origin: %s, got: %s", tt.origin, origin)
			}
			if creds := rr.Header().Get("Access-Control-Allow-Credentials"); creds != "true" {
				t.Errorf("expected Access-Control-Allow-Credentials: true, got: %s", creds)
			}
			if vary := rr.Header().Get("Vary"); vary != "Origin" {
				t.Errorf("expected Vary: Origin, got: %s", vary)
			}

			// Method and header lists belong on preflight responses only.
			if methods := rr.Header().Get("Access-Control-Allow-Methods"); methods != "" {
				t.Errorf("expected no Access-Control-Allow-Methods on actual request, got: %s", methods)
			}
			if headers := rr.Header().Get("Access-Control-Allow-Headers"); headers != "" {
				t.Errorf("expected no Access-Control-Allow-Headers on actual request, got: %s", headers)
			}
		})
	}
}

func TestCORS_UnauthorizedOrigin(t *testing.T) {
	handler := CORS(searchCORSConfig())(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/search/listings", nil)
	req.Header.Set("Origin", "https://scraper.example.net")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("expected status %d for unauthorized origin, got %d", http.StatusForbidden, rr.Code)
	}
	if origin := rr.Header().Get("Access-Control-Allow-Origin"); origin != "" {
		t.Errorf("expected no Access-Control-Allow-Origin for unauthorized origin, got: %s", origin)
	}
}

func TestCORS_NoOriginHeader(t *testing.T) {
	handler := CORS(searchCORSConfig())(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/schools/resolve?q=dps", nil)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	// Same-origin and curl-style requests carry no Origin header and pass
	// straight through.
	if rr.Code != http.StatusOK {
		t.Errorf("expected status %d for same-origin request, got %d", http.StatusOK, rr.Code)
	}
	if origin := rr.Header().Get("Access-Control-Allow-Origin"); origin != "" {
		t.Errorf("expected no CORS headers for same-origin request, got Access-Control-Allow-Origin: %s", origin)
	}
}

func TestCORS_PreflightRequest(t *testing.T) {
	handler := CORS(searchCORSConfig())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called for preflight OPTIONS request")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/search/listings", nil)
	req.Header.Set("Origin", "https://bookfair.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("expected status %d for preflight request, got %d", http.StatusNoContent, rr.Code)
	}
	if origin := rr.Header().Get("Access-Control-Allow-Origin"); origin != "https://bookfair.example.com" {
		t.Errorf("expected Access-Control-Allow-Origin: https://bookfair.example.com, got: %s", origin)
	}
	if methods := rr.Header().Get("Access-Control-Allow-Methods"); methods != "GET, OPTIONS" {
		t.Errorf("expected Access-Control-Allow-Methods: GET, OPTIONS, got: %s", methods)
	}
	if headers := rr.Header().Get("Access-Control-Allow-Headers"); headers != "Content-Type, Authorization, X-Request-ID" {
		t.Errorf("expected Access-Control-Allow-Headers: Content-Type, Authorization, X-Request-ID, got: %s", headers)
	}
	if creds := rr.Header().Get("Access-Control-Allow-Credentials"); creds != "true" {
		t.Errorf("expected Access-Control-Allow-Credentials: true, got: %s", creds)
	}
	if maxAge := rr.Header().Get("Access-Control-Max-Age"); maxAge != "300" {
		t.Errorf("expected Access-Control-Max-Age: 300, got: %s", maxAge)
	}
}

func TestCORS_PreflightUnauthorizedOrigin(t *testing.T) {
	handler := CORS(searchCORSConfig())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be called for rejected preflight request")
	}))

	req := httptest.NewRequest(http.MethodOptions, "/search/listings", nil)
	req.Header.Set("Origin", "https://scraper.example.net")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusForbidden {
		t.Errorf("expected status %d for unauthorized preflight, got %d", http.StatusForbidden, rr.Code)
	}
}

func TestCORS_DefaultMethodsAndHeaders(t *testing.T) {
	// Only the origin allowlist configured; the read-only defaults fill in
	// the method and header lists.
	handler := CORS(CORSConfig{
		AllowedOrigins: []string{"https://bookfair.example.com"},
	})(okHandler())

	req := httptest.NewRequest(http.MethodOptions, "/search/listings", nil)
	req.Header.Set("Origin", "https://bookfair.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Fatalf("expected status %d, got %d", http.StatusNoContent, rr.Code)
	}
	if methods := rr.Header().Get("Access-Control-Allow-Methods"); methods != "GET, OPTIONS" {
		t.Errorf("expected default methods GET, OPTIONS, got: %s", methods)
	}
	if headers := rr.Header().Get("Access-Control-Allow-Headers"); headers != "Content-Type, Authorization, X-Request-ID" {
		t.Errorf("expected default headers, got: %s", headers)
	}
}

func TestCORS_CredentialsDisabled(t *testing.T) {
	cfg := searchCORSConfig()
	cfg.AllowCredentials = false
	handler := CORS(cfg)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/search/listings", nil)
	req.Header.Set("Origin", "https://bookfair.example.com")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if creds := rr.Header().Get("Access-Control-Allow-Credentials"); creds != "" {
		t.Errorf("expected no Access-Control-Allow-Credentials header when disabled, got: %s", creds)
	}
}

func TestCORS_OriginListNormalization(t *testing.T) {
	// Origins arrive from a comma-split env var; stray whitespace and empty
	// entries must not break or widen the allowlist.
	handler := CORS(CORSConfig{
		AllowedOrigins: []string{"  https://bookfair.example.com  ", "", "http://localhost:5173"},
	})(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/search/listings", nil)
	req.Header.Set("Origin", "https://bookfair.example.com")
	rr := httptest.NewRecorder()

	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Errorf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	if origin := rr.Header().Get("Access-Control-Allow-Origin"); origin != "https://bookfair.example.com" {
		t.Errorf("expected Access-Control-Allow-Origin: https://bookfair.example.com, got: %s", origin)
	}
}
