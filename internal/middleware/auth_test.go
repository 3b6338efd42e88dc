package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestOptionalAuth_ValidToken(t *testing.T) {
	validate := func(token string) (string, error) {
		if token == "good-token" {
			return "user-42", nil
		}
		return "", errors.New("invalid token")
	}

	var gotUserID string
	handler := OptionalAuth(validate)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID = GetUserID(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/search/listings", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if gotUserID != "user-42" {
		t.Errorf("expected user-42 in context, got %q", gotUserID)
	}
}

func TestOptionalAuth_PassThrough(t *testing.T) {
	validate := func(token string) (string, error) {
		return "", errors.New("invalid token")
	}

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"invalid token", "Bearer bad-token"},
		{"not a bearer", "Basic dXNlcjpwYXNz"},
		{"empty bearer", "Bearer "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotUserID string
			handler := OptionalAuth(validate)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotUserID = GetUserID(r.Context())
				w.WriteHeader(http.StatusOK)
			}))

			req := httptest.NewRequest(http.MethodGet, "/search/listings", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if gotUserID != "" {
				t.Errorf("expected anonymous request, got user %q", gotUserID)
			}
			if rr.Code != http.StatusOK {
				t.Errorf("expected pass-through 200, got %d", rr.Code)
			}
		})
	}
}
