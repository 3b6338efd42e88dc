// Package config provides configuration loading and validation for the API server.
// It uses koanf to merge environment variables with optional file overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config holds all configuration values for the API server.
type Config struct {
	// Server settings
	Port int    `koanf:"port"`
	Env  string `koanf:"env"`

	// Database. Empty selects the in-memory stores (development only).
	DatabaseURL string `koanf:"database_url"`

	// Redis. Empty selects the in-memory rate limit store.
	RedisURL string `koanf:"redis_url"`

	// JWT Authentication
	JWTSecret string `koanf:"jwt_secret"`

	// Ranking weight calibration file (optional JSON overrides).
	RankingCalibrationPath string `koanf:"ranking_calibration_path"`

	// CORS allowed origins.
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins"`

	// Rate limits, requests per minute.
	GlobalRateLimit int `koanf:"global_rate_limit"`
	SearchRateLimit int `koanf:"search_rate_limit"`

	// Distributed tracing.
	TracingEnabled    bool    `koanf:"tracing_enabled"`
	TracingExporter   string  `koanf:"tracing_exporter"`
	TracingEndpoint   string  `koanf:"tracing_endpoint"`
	TracingSampleRate float64 `koanf:"tracing_sample_rate"`
	TracingInsecure   bool    `koanf:"tracing_insecure"`
}

// Configuration validation errors.
var (
	ErrMissingJWTSecret   = errors.New("JWT_SECRET is required")
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is required in production")
	ErrInvalidPort        = errors.New("PORT must be a valid integer")
	ErrInvalidRateLimit   = errors.New("rate limits must be positive integers")
	ErrInvalidSampleRate  = errors.New("TRACING_SAMPLE_RATE must be between 0 and 1")
)

// Default values for non-secret configuration.
const (
	DefaultPort            = 8080
	DefaultEnv             = "development"
	DefaultGlobalRateLimit = 100
	DefaultSearchRateLimit = 30
)

// DefaultTracingSampleRate keeps a 10% sample when tracing is enabled.
const DefaultTracingSampleRate = 0.1

// Load reads configuration from environment variables and an optional config file.
// Environment variables take precedence over file values.
// Returns the loaded config and a slice of validation errors (empty if valid).
// If a config file path is provided and the file cannot be loaded, an error is returned.
func Load(configFilePath string) (*Config, []error) {
	k := koanf.New(".")
	var loadErrs []error

	// Load from YAML file first if provided (lower precedence)
	if configFilePath != "" {
		if err := k.Load(file.Provider(configFilePath), yaml.Parser()); err != nil {
			return nil, []error{fmt.Errorf("failed to load config file %s: %w", configFilePath, err)}
		}
	}

	// Try BOOKFAIR_PORT first, then PORT
	port, portErr := getEnvIntOrDefaultMulti([]string{"BOOKFAIR_PORT", "PORT"}, k.Int("port"), DefaultPort)
	if portErr != nil {
		loadErrs = append(loadErrs, portErr)
	}

	globalLimit, globalErr := getEnvIntOrDefault("GLOBAL_RATE_LIMIT", k.Int("global_rate_limit"), DefaultGlobalRateLimit)
	if globalErr != nil {
		loadErrs = append(loadErrs, globalErr)
	}
	searchLimit, searchErr := getEnvIntOrDefault("SEARCH_RATE_LIMIT", k.Int("search_rate_limit"), DefaultSearchRateLimit)
	if searchErr != nil {
		loadErrs = append(loadErrs, searchErr)
	}

	tracingEnabled, tracingEnabledErr := getEnvBoolOrDefault("TRACING_ENABLED", k.Bool("tracing_enabled"))
	if tracingEnabledErr != nil {
		loadErrs = append(loadErrs, tracingEnabledErr)
	}
	tracingInsecure, tracingInsecureErr := getEnvBoolOrDefault("TRACING_INSECURE", k.Bool("tracing_insecure"))
	if tracingInsecureErr != nil {
		loadErrs = append(loadErrs, tracingInsecureErr)
	}
	sampleRate, sampleErr := getEnvFloatOrDefault("TRACING_SAMPLE_RATE", k, "tracing_sample_rate", DefaultTracingSampleRate)
	if sampleErr != nil {
		loadErrs = append(loadErrs, sampleErr)
	}

	corsOrigins := k.Strings("cors_allowed_origins")
	if val := os.Getenv("CORS_ALLOWED_ORIGINS"); val != "" {
		corsOrigins = splitAndTrim(val)
	}

	// Build config struct, with env vars taking precedence over file values
	cfg := &Config{
		Port:                   port,
		Env:                    getEnvOrDefaultMulti([]string{"BOOKFAIR_ENV", "ENV", "GO_ENV"}, k.String("env"), DefaultEnv),
		DatabaseURL:            getEnvOrKoanf("DATABASE_URL", k, "database_url"),
		RedisURL:               getEnvOrKoanf("REDIS_URL", k, "redis_url"),
		JWTSecret:              getEnvOrKoanf("JWT_SECRET", k, "jwt_secret"),
		RankingCalibrationPath: getEnvOrKoanf("RANKING_CALIBRATION_PATH", k, "ranking_calibration_path"),
		CORSAllowedOrigins:     corsOrigins,
		GlobalRateLimit:        globalLimit,
		SearchRateLimit:        searchLimit,
		TracingEnabled:         tracingEnabled,
		TracingExporter:        getEnvOrKoanf("TRACING_EXPORTER", k, "tracing_exporter"),
		TracingEndpoint:        getEnvOrKoanf("TRACING_ENDPOINT", k, "tracing_endpoint"),
		TracingSampleRate:      sampleRate,
		TracingInsecure:        tracingInsecure,
	}

	errs := cfg.Validate()
	errs = append(loadErrs, errs...)

	return cfg, errs
}

// getEnvOrKoanf returns the environment variable value if set, otherwise the koanf value.
func getEnvOrKoanf(envKey string, k *koanf.Koanf, koanfKey string) string {
	if val := os.Getenv(envKey); val != "" {
		return val
	}
	return k.String(koanfKey)
}

// getEnvOrDefaultMulti tries multiple environment variable keys in order.
// Returns the first non-empty value found, otherwise the koanf value, or default.
func getEnvOrDefaultMulti(envKeys []string, koanfVal string, defaultVal string) string {
	for _, key := range envKeys {
		if val := os.Getenv(key); val != "" {
			return val
		}
	}
	if koanfVal != "" {
		return koanfVal
	}
	return defaultVal
}

// getEnvIntOrDefault returns the environment variable as int if set, otherwise the koanf value, or default.
// Returns an error if the environment variable is set but cannot be parsed as an integer.
func getEnvIntOrDefault(envKey string, koanfVal int, defaultVal int) (int, error) {
	if val := os.Getenv(envKey); val != "" {
		i, err := strconv.Atoi(val)
		if err != nil {
			return 0, fmt.Errorf("%s must be a valid integer: %w", envKey, err)
		}
		return i, nil
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

// getEnvIntOrDefaultMulti tries multiple environment variable keys in order.
// Returns the first valid integer value found, otherwise the koanf value, or default.
// Returns an error if any environment variable is set but cannot be parsed as an integer.
func getEnvIntOrDefaultMulti(envKeys []string, koanfVal int, defaultVal int) (int, error) {
	for _, key := range envKeys {
		if val := os.Getenv(key); val != "" {
			i, err := strconv.Atoi(val)
			if err != nil {
				return 0, fmt.Errorf("%s must be a valid integer: %w", key, ErrInvalidPort)
			}
			return i, nil
		}
	}
	if koanfVal != 0 {
		return koanfVal, nil
	}
	return defaultVal, nil
}

// getEnvBoolOrDefault returns the environment variable as bool if set, otherwise the koanf value.
// Returns an error if the environment variable is set but cannot be parsed as a boolean.
func getEnvBoolOrDefault(envKey string, koanfVal bool) (bool, error) {
	if val := os.Getenv(envKey); val != "" {
		b, err := strconv.ParseBool(val)
		if err != nil {
			return false, fmt.Errorf("%s must be a boolean: %w", envKey, err)
		}
		return b, nil
	}
	return koanfVal, nil
}

// getEnvFloatOrDefault returns the environment variable as float64 if set,
// otherwise the koanf value when the key exists in the file, or the default.
// An explicit 0 in the file is respected (0 is a meaningful sample rate).
func getEnvFloatOrDefault(envKey string, k *koanf.Koanf, koanfKey string, defaultVal float64) (float64, error) {
	if val := os.Getenv(envKey); val != "" {
		f, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return 0, fmt.Errorf("%s must be a number: %w", envKey, err)
		}
		return f, nil
	}
	if k.Exists(koanfKey) {
		return k.Float64(koanfKey), nil
	}
	return defaultVal, nil
}

// splitAndTrim splits a comma-separated list and trims whitespace.
func splitAndTrim(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

// Validate checks that all required configuration values are present.
// Returns a slice of validation errors (empty if valid).
//
// DATABASE_URL and REDIS_URL are optional in development, where the service
// falls back to in-memory stores; a production deployment must have a real
// database.
func (c *Config) Validate() []error {
	var errs []error

	if c.JWTSecret == "" {
		errs = append(errs, ErrMissingJWTSecret)
	}
	if c.Env == "production" && c.DatabaseURL == "" {
		errs = append(errs, ErrMissingDatabaseURL)
	}
	if c.GlobalRateLimit <= 0 || c.SearchRateLimit <= 0 {
		errs = append(errs, ErrInvalidRateLimit)
	}
	if c.TracingSampleRate < 0 || c.TracingSampleRate > 1 {
		errs = append(errs, ErrInvalidSampleRate)
	}

	return errs
}

// LogSummary returns a summary of the configuration suitable for logging.
// All secrets are masked to prevent accidental exposure.
func (c *Config) LogSummary() map[string]string {
	return map[string]string{
		"port":                     fmt.Sprintf("%d", c.Port),
		"env":                      c.Env,
		"database_url":             maskDatabaseURL(c.DatabaseURL),
		"redis_url":                maskDatabaseURL(c.RedisURL),
		"jwt_secret":               maskSecret(c.JWTSecret),
		"ranking_calibration_path": c.RankingCalibrationPath,
		"cors_allowed_origins":     strings.Join(c.CORSAllowedOrigins, ","),
		"global_rate_limit":        fmt.Sprintf("%d", c.GlobalRateLimit),
		"search_rate_limit":        fmt.Sprintf("%d", c.SearchRateLimit),
		"tracing_enabled":          strconv.FormatBool(c.TracingEnabled),
		"tracing_sample_rate":      strconv.FormatFloat(c.TracingSampleRate, 'f', -1, 64),
	}
}

// maskSecret masks a secret value, showing only the first 4 characters followed by ****
// If the secret is shorter than 8 characters, it's fully masked.
func maskSecret(s string) string {
	if s == "" {
		return "<not set>"
	}
	if len(s) < 8 {
		return "****"
	}
	return s[:4] + "****"
}

// maskDatabaseURL masks the password in a connection URL.
// Supports postgres://, postgresql://, and redis:// schemes.
func maskDatabaseURL(s string) string {
	if s == "" {
		return "<not set>"
	}

	schemeEnd := strings.Index(s, "://")
	if schemeEnd == -1 {
		return maskSecret(s)
	}

	rest := s[schemeEnd+3:]
	atIndex := strings.Index(rest, "@")
	if atIndex == -1 {
		return s // No credentials in URL
	}

	colonIndex := strings.Index(rest[:atIndex], ":")
	if colonIndex == -1 {
		return s // No password (only username)
	}

	scheme := s[:schemeEnd+3]
	user := rest[:colonIndex]
	hostAndPath := rest[atIndex:]

	return scheme + user + ":****" + hostAndPath
}
