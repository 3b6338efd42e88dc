package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

// BenchmarkHTTPMetrics_SearchOverhead measures the middleware cost on the
// hot search path against a bare handler.
func BenchmarkHTTPMetrics_SearchOverhead(b *testing.B) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"results":[],"count":0}`))
	})

	b.Run("without_middleware", func(b *testing.B) {
		req := httptest.NewRequest(http.MethodGet, "/search/listings?q=ncert", nil)
		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
		}
	})

	b.Run("with_middleware", func(b *testing.B) {
		m := NewMetrics()
		reg := prometheus.NewRegistry()
		if err := m.Register(reg); err != nil {
			b.Fatalf("Register() failed: %v", err)
		}

		wrapped := HTTPMetrics(m)(handler)
		req := httptest.NewRequest(http.MethodGet, "/search/listings?q=ncert", nil)

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			rec := httptest.NewRecorder()
			wrapped.ServeHTTP(rec, req)
		}
	})
}

// BenchmarkHTTPMetrics_HealthCheckExclusion checks the early return for
// health checks stays cheap, since orchestrators hit them constantly.
func BenchmarkHTTPMetrics_HealthCheckExclusion(b *testing.B) {
	m := NewMetrics()
	reg := prometheus.NewRegistry()
	if err := m.Register(reg); err != nil {
		b.Fatalf("Register() failed: %v", err)
	}

	wrapped := HTTPMetrics(m)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	}))
	req := httptest.NewRequest(http.MethodGet, "/health", nil)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		rec := httptest.NewRecorder()
		wrapped.ServeHTTP(rec, req)
	}
}

// BenchmarkNormalizePath exercises the label normalization across the
// route shapes the server serves.
func BenchmarkNormalizePath(b *testing.B) {
	paths := []string{
		"/search/listings",
		"/schools/resolve",
		"/listings/550e8400-e29b-41d4-a716-446655440000",
		"/schools/sch-042",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		normalizePath(paths[i%len(paths)])
	}
}
