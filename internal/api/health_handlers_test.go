package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// stubChecker is a HealthChecker returning a fixed error.
type stubChecker struct {
	err error
}

func (c *stubChecker) HealthCheck(_ context.Context) error {
	return c.err
}

func decodeHealthResponse(t *testing.T, rr *httptest.ResponseRecorder) HealthResponse {
	t.Helper()
	var resp HealthResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp
}

func TestHealth(t *testing.T) {
	h := NewHealthHandlers(HealthHandlersConfig{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	h.Health(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	resp := decodeHealthResponse(t, rr)
	if resp.Status != "healthy" {
		t.Errorf("expected status healthy, got %q", resp.Status)
	}
	if resp.Checks["runtime"] != "ok" {
		t.Errorf("expected runtime check ok, got %q", resp.Checks["runtime"])
	}
	if resp.Timestamp == "" {
		t.Error("expected timestamp in response")
	}
}

func TestHealth_MethodNotAllowed(t *testing.T) {
	h := NewHealthHandlers(HealthHandlersConfig{})

	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	rr := httptest.NewRecorder()
	h.Health(rr, req)

	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status 405, got %d", rr.Code)
	}
}

func TestReady_NoCheckers(t *testing.T) {
	h := NewHealthHandlers(HealthHandlersConfig{})

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rr := httptest.NewRecorder()
	h.Ready(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
	resp := decodeHealthResponse(t, rr)
	if resp.Status != "healthy" {
		t.Errorf("expected status healthy, got %q", resp.Status)
	}
	if resp.Checks["database"] != "ok" || resp.Checks["redis"] != "ok" {
		t.Errorf("expected all checks ok, got %v", resp.Checks)
	}
}

func TestReady_HealthyCheckers(t *testing.T) {
	h := NewHealthHandlers(HealthHandlersConfig{
		DBChecker:    &stubChecker{},
		RedisChecker: &stubChecker{},
	})

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rr := httptest.NewRecorder()
	h.Ready(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
}

func TestReady_UnhealthyDatabase(t *testing.T) {
	h := NewHealthHandlers(HealthHandlersConfig{
		DBChecker:    &stubChecker{err: errors.New("connection refused")},
		RedisChecker: &stubChecker{},
	})

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rr := httptest.NewRecorder()
	h.Ready(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rr.Code)
	}
	resp := decodeHealthResponse(t, rr)
	if resp.Status != "unhealthy" {
		t.Errorf("expected status unhealthy, got %q", resp.Status)
	}
	if resp.Checks["database"] != "error" {
		t.Errorf("expected database check error, got %q", resp.Checks["database"])
	}
	if resp.Checks["redis"] != "ok" {
		t.Errorf("expected redis check ok, got %q", resp.Checks["redis"])
	}
}

func TestReady_UnhealthyRedis(t *testing.T) {
	h := NewHealthHandlers(HealthHandlersConfig{
		DBChecker:    &stubChecker{},
		RedisChecker: &stubChecker{err: errors.New("timeout")},
	})

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rr := httptest.NewRecorder()
	h.Ready(rr, req)

	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", rr.Code)
	}
	resp := decodeHealthResponse(t, rr)
	if resp.Checks["redis"] != "error" {
		t.Errorf("expected redis check error, got %q", resp.Checks["redis"])
	}
}
