package middleware

import (
	"net/http"
	"strings"
)

// OptionalAuth populates the request context with the authenticated user ID
// when a valid bearer token is present. It never rejects: anonymous and
// invalid-token requests pass through unchanged, and downstream handlers
// decide whether a bad token is an error. Placed before the rate limiter so
// UserKeyFunc can key authenticated traffic by user instead of IP.
//
// validate maps a raw token to a user ID, typically auth.JWTService wrapped
// in a closure.
func OptionalAuth(validate func(token string) (string, error)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if token, found := strings.CutPrefix(header, "Bearer "); found && token != "" {
				if userID, err := validate(token); err == nil && userID != "" {
					r = r.WithContext(SetUserID(r.Context(), userID))
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
