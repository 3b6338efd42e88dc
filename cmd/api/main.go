// Package main is the entry point for the API server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MSaini-Dev/bookfair/internal/api"
	"github.com/MSaini-Dev/bookfair/internal/auth"
	"github.com/MSaini-Dev/bookfair/internal/config"
	"github.com/MSaini-Dev/bookfair/internal/db"
	"github.com/MSaini-Dev/bookfair/internal/favorite"
	"github.com/MSaini-Dev/bookfair/internal/health"
	"github.com/MSaini-Dev/bookfair/internal/listing"
	"github.com/MSaini-Dev/bookfair/internal/middleware"
	"github.com/MSaini-Dev/bookfair/internal/ranking"
	"github.com/MSaini-Dev/bookfair/internal/school"
	"github.com/MSaini-Dev/bookfair/internal/tracing"
)

const serviceName = "bookfair-api"

func main() {
	configPath := flag.String("config", "", "path to optional YAML config file")
	help := flag.Bool("help", false, "display help message")
	flag.Parse()

	if *help {
		fmt.Println("Bookfair API Server")
		fmt.Println()
		fmt.Println("Usage: api [options]")
		fmt.Println()
		fmt.Println("Options:")
		flag.PrintDefaults()
		os.Exit(0)
	}

	cfg, errs := config.Load(*configPath)
	if len(errs) > 0 {
		for _, err := range errs {
			fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		}
		os.Exit(1)
	}

	logger := middleware.NewLogger(cfg.Env)
	slog.SetDefault(logger)

	summary := cfg.LogSummary()
	attrs := make([]any, 0, len(summary)*2)
	for k, v := range summary {
		attrs = append(attrs, k, v)
	}
	logger.Info("configuration loaded", attrs...)

	ctx := context.Background()

	// Distributed tracing. Disabled by default; the middleware stays in the
	// chain either way and records nothing without a provider.
	tracerProvider, err := tracing.NewProvider(tracing.Config{
		ServiceName: serviceName,
		Enabled:     cfg.TracingEnabled,
		Environment: cfg.Env,
		Exporter:    cfg.TracingExporter,
		Endpoint:    cfg.TracingEndpoint,
		SampleRate:  cfg.TracingSampleRate,
		Insecure:    cfg.TracingInsecure,
	})
	if err != nil {
		logger.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}

	// Ranking weights: calibration failures fall back to defaults, the
	// service must keep serving.
	weights, err := ranking.LoadCalibration(cfg.RankingCalibrationPath)
	if err != nil {
		logger.Warn("failed to load ranking calibration, using defaults",
			"path", cfg.RankingCalibrationPath, "error", err)
	}

	// Metrics registry.
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	httpMetrics := middleware.NewMetrics()
	if err := httpMetrics.Register(registry); err != nil {
		logger.Error("failed to register http metrics", "error", err)
		os.Exit(1)
	}
	rankMetrics := ranking.NewMetrics()
	if err := rankMetrics.Register(registry); err != nil {
		logger.Error("failed to register ranking metrics", "error", err)
		os.Exit(1)
	}

	// Storage: Postgres when configured, in-memory otherwise.
	var (
		candidateSource listing.CandidateSource
		schoolRegistry  school.Registry
		favoriteStore   favorite.Store
		healthCfg       api.HealthHandlersConfig
	)
	if cfg.DatabaseURL != "" {
		pool, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		candidateSource = listing.NewPostgresCandidateSource(pool, logger)
		schoolRegistry = school.NewPostgresRegistry(pool, logger)
		favoriteStore = favorite.NewPostgresStore(pool)
		healthCfg.DBChecker = health.NewDBChecker(pool)
		logger.Info("using postgres storage")
	} else {
		candidateSource = listing.NewInMemoryCandidateSource()
		schoolRegistry = school.NewInMemoryRegistry()
		favoriteStore = favorite.NewInMemoryStore()
		logger.Warn("DATABASE_URL not set, using in-memory storage")
	}

	// Rate limit state: Redis when configured, in-memory otherwise.
	var rateLimitStore middleware.RateLimitStore
	if cfg.RedisURL != "" {
		client, err := db.ConnectRedis(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		defer client.Close()

		rateLimitStore = middleware.NewRedisRateLimitStore(client).
			WithLogger(logger).
			WithMetrics(httpMetrics)
		healthCfg.RedisChecker = health.NewRedisChecker(client)
		logger.Info("using redis rate limiting")
	} else {
		store := middleware.NewInMemoryRateLimitStore()
		go func() {
			ticker := time.NewTicker(time.Minute)
			defer ticker.Stop()
			for range ticker.C {
				store.Cleanup()
			}
		}()
		rateLimitStore = store
		logger.Warn("REDIS_URL not set, using in-memory rate limiting")
	}

	globalLimit := middleware.RateLimitConfig{
		RequestsPerWindow: cfg.GlobalRateLimit,
		WindowDuration:    time.Minute,
	}
	searchLimit := middleware.RateLimitConfig{
		RequestsPerWindow: cfg.SearchRateLimit,
		WindowDuration:    time.Minute,
	}

	// Domain services.
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	scorer := ranking.NewScorer(weights)
	pipeline := ranking.NewPipeline(scorer, rankMetrics, logger)
	resolver := school.NewResolver(schoolRegistry, logger)

	searchHandlers := api.NewSearchHandlers(candidateSource, favoriteStore, pipeline, jwtService, logger)
	schoolHandlers := api.NewSchoolHandlers(resolver, logger)
	healthHandlers := api.NewHealthHandlers(healthCfg)

	// Optional auth runs before the search limiter so authenticated traffic
	// is keyed by user rather than IP.
	optionalAuth := middleware.OptionalAuth(func(token string) (string, error) {
		claims, err := jwtService.ValidateToken(token)
		if err != nil {
			return "", err
		}
		return claims.Subject, nil
	})
	searchLimiter := middleware.RateLimiter(rateLimitStore, searchLimit, middleware.UserKeyFunc(), httpMetrics)

	mux := http.NewServeMux()
	mux.Handle("/search/listings", optionalAuth(searchLimiter(http.HandlerFunc(searchHandlers.SearchListings))))
	mux.HandleFunc("/schools/resolve", schoolHandlers.ResolveSchool)
	mux.HandleFunc("/health", healthHandlers.Health)
	mux.HandleFunc("/ready", healthHandlers.Ready)
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			ctx := middleware.SetErrorCode(r.Context(), api.ErrCodeNotFound)
			api.WriteError(w, ctx, http.StatusNotFound, api.ErrCodeNotFound, "The requested resource was not found")
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"service":"bookfair-api","version":"0.1.0"}`)); err != nil {
			slog.Error("failed to write response", "error", err)
		}
	})

	// Middleware chain, outermost first:
	// RequestID -> Tracing -> Logging -> HTTPMetrics -> CORS -> global rate limit.
	handler := middleware.RequestID(
		middleware.Tracing(serviceName)(
			middleware.Logging(logger)(
				middleware.HTTPMetrics(httpMetrics)(
					middleware.CORS(middleware.CORSConfig{
						AllowedOrigins:   cfg.CORSAllowedOrigins,
						AllowedMethods:   []string{http.MethodGet, http.MethodOptions},
						AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Request-ID"},
						AllowCredentials: true,
						MaxAge:           300,
					})(
						middleware.RateLimiter(rateLimitStore, globalLimit, middleware.IPKeyFunc(), httpMetrics)(mux),
					),
				),
			),
		),
	)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", "port", cfg.Port, "env", cfg.Env)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	if err := tracerProvider.Shutdown(shutdownCtx); err != nil {
		logger.Error("failed to shut down tracer provider", "error", err)
	}

	logger.Info("server stopped")
}
