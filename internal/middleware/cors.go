package middleware

import (
	"net/http"
	"strconv"
	"strings"
)

// Defaults for a browser client of the search API: it only ever issues
// simple GETs with a bearer token, so the method list stays read-only.
var (
	defaultCORSMethods = []string{http.MethodGet, http.MethodOptions}
	defaultCORSHeaders = []string{"Content-Type", "Authorization", "X-Request-ID"}
)

// CORSConfig holds the configuration for CORS middleware.
type CORSConfig struct {
	AllowedOrigins   []string // Explicit origin allowlist (no wildcards)
	AllowedMethods   []string // HTTP methods to allow; empty means GET, OPTIONS
	AllowedHeaders   []string // Headers to allow; empty means Content-Type, Authorization, X-Request-ID
	AllowCredentials bool     // Whether to allow credentials
	MaxAge           int      // Preflight cache duration in seconds
}

// cors carries the precomputed allowlist and header values.
type cors struct {
	origins     map[string]bool
	methods     string
	headers     string
	credentials bool
	maxAge      int
}

// CORS returns a middleware that handles Cross-Origin Resource Sharing.
// Origins are validated against an explicit allowlist; a wildcard is never
// emitted, so the Authorization header stays scoped to configured frontends.
// With no origins configured the middleware is a no-op, which is the
// development default.
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	c := cors{
		origins:     make(map[string]bool),
		credentials: cfg.AllowCredentials,
		maxAge:      cfg.MaxAge,
	}
	for _, origin := range cfg.AllowedOrigins {
		if origin = strings.TrimSpace(origin); origin != "" {
			c.origins[origin] = true
		}
	}

	methods := cfg.AllowedMethods
	if len(methods) == 0 {
		methods = defaultCORSMethods
	}
	headers := cfg.AllowedHeaders
	if len(headers) == 0 {
		headers = defaultCORSHeaders
	}
	c.methods = strings.Join(methods, ", ")
	c.headers = strings.Join(headers, ", ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(c.origins) == 0 {
				next.ServeHTTP(w, r)
				return
			}

			origin := r.Header.Get("Origin")

			// No Origin header means a same-origin or non-browser request.
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			// Responses differ per origin, so caches must key on it.
			w.Header().Add("Vary", "Origin")

			if !c.origins[origin] {
				http.Error(w, "Origin not allowed", http.StatusForbidden)
				return
			}

			w.Header().Set("Access-Control-Allow-Origin", origin)
			if c.credentials {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}

			// Preflight requests terminate here; the method and header
			// lists only mean anything on the preflight response.
			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", c.methods)
				w.Header().Set("Access-Control-Allow-Headers", c.headers)
				if c.maxAge > 0 {
					w.Header().Set("Access-Control-Max-Age", strconv.Itoa(c.maxAge))
				}
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
