package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MSaini-Dev/bookfair/internal/middleware"
)

func TestWriteError(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)

	ctx := middleware.SetErrorCode(req.Context(), ErrCodeValidation)
	WriteError(rr, ctx, http.StatusBadRequest, ErrCodeValidation, "limit must be a positive integer")

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status 400, got %d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json; charset=utf-8" {
		t.Errorf("unexpected content type %q", ct)
	}

	var resp ErrorResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if resp.Error.Code != ErrCodeValidation {
		t.Errorf("expected code %q, got %q", ErrCodeValidation, resp.Error.Code)
	}
	if resp.Error.Message != "limit must be a positive integer" {
		t.Errorf("unexpected message %q", resp.Error.Message)
	}
}

func TestStatusCodeMapping(t *testing.T) {
	tests := []struct {
		code   string
		status int
	}{
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeBadRequest, http.StatusBadRequest},
		{ErrCodeAuthFailed, http.StatusUnauthorized},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeInternal, http.StatusInternalServerError},
		{"unknown_code", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		if got := StatusCodeMapping(tt.code); got != tt.status {
			t.Errorf("StatusCodeMapping(%q) = %d, want %d", tt.code, got, tt.status)
		}
	}
}
