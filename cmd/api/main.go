// Package main provides the entrypoint for the note-route API server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/noteroute/noteroute/internal/api"
	"github.com/noteroute/noteroute/internal/api/handler"
	"github.com/noteroute/noteroute/internal/api/middleware"
	"github.com/noteroute/noteroute/internal/database"
	"github.com/noteroute/noteroute/internal/fetcher"
	"github.com/noteroute/noteroute/internal/parser"
	"github.com/noteroute/noteroute/internal/parser/llm"
	"github.com/noteroute/noteroute/internal/planner"
	"github.com/noteroute/noteroute/internal/route"
	"github.com/noteroute/noteroute/internal/telemetry"
)

// Version and BuildTime are set at compile time via ldflags.
var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	const serviceName = "noteroute-api"

	// Setup structured logging
	log := zerolog.New(os.Stdout).
		With().
		Timestamp().
		Str("service", serviceName).
		Str("version", Version).
		Logger()

	log.Info().
		Str("build_time", BuildTime).
		Msg("starting note-route API")

	// Get configuration from environment
	port := getEnvOrDefault("APP_PORT", "8080")
	env := getEnvOrDefault("APP_ENV", "development")
	otlpEndpoint := getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317")

	// Initialize OpenTelemetry
	ctx := context.Background()
	telemetryEnabled := os.Getenv("OTEL_ENABLED") == "true"

	tp, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName:    serviceName,
		ServiceVersion: Version,
		Environment:    env,
		OTLPEndpoint:   otlpEndpoint,
		Enabled:        telemetryEnabled,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tp.Shutdown(shutdownCtx); shutdownErr != nil {
			log.Error().Err(shutdownErr).Msg("failed to shutdown telemetry")
		}
	}()

	if telemetryEnabled {
		log.Info().
			Str("otlp_endpoint", otlpEndpoint).
			Msg("OpenTelemetry initialized")
	}

	// Initialize metrics
	metrics, err := middleware.NewMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize metrics")
		os.Exit(1) //nolint:gocritic // intentional exit, telemetry cleanup is best-effort
	}
	parseMetrics, err := middleware.NewParseMetrics()
	if err != nil {
		log.Error().Err(err).Msg("failed to initialize parse metrics")
		os.Exit(1)
	}

	// Initialize route storage. STORAGE_DRIVER=memory runs without a
	// database, for local development.
	var (
		repo   route.Repository
		pinger handler.Pinger
	)
	if getEnvOrDefault("STORAGE_DRIVER", "postgres") == "memory" {
		repo = route.NewInMemoryRepository()
		log.Info().Msg("using in-memory route storage")
	} else {
		dbConfig := database.ConfigFromEnv()
		pool, err := database.Connect(ctx, dbConfig)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to database")
		}
		defer pool.Close()
		if err := database.EnsureSchema(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("failed to ensure database schema")
		}
		repo = route.NewPostgresRepository(pool)
		pinger = pool
		log.Info().
			Str("host", dbConfig.Host).
			Int("port", dbConfig.Port).
			Str("database", dbConfig.Database).
			Msg("database connected")
	}

	routeService := route.NewService(route.ServiceConfig{
		Repository: repo,
		Logger:     log,
	})

	// Initialize the note fetcher and its text store. The store doubles
	// as the chain's text cache for URL-only parse requests.
	store := fetcher.NewTextStore(fetcher.TextStoreConfig{})
	source := fetcher.NewHTTPSource(fetcher.HTTPSourceConfig{
		Store:  store,
		Logger: log,
	})

	// Initialize the extraction strategies
	limiter := llm.NewLimiter(llm.LimiterConfig{})
	aiClient := llm.NewClient(llm.ClientConfig{
		APIKey:  os.Getenv("LLM_API_KEY"),
		BaseURL: os.Getenv("LLM_BASE_URL"),
		Model:   os.Getenv("LLM_MODEL"),
		Limiter: limiter,
		Logger:  log,
	})
	if !aiClient.Available() {
		log.Warn().Msg("LLM_API_KEY not set - model extraction disabled, rules only")
	}

	chain := parser.NewChain(parser.ChainConfig{
		AI:              aiClient,
		Rules:           parser.NewRuleExtractor(log),
		UseAIFirst:      getEnvOrDefault("PARSER_USE_AI_FIRST", "true") == "true",
		FallbackToRules: getEnvOrDefault("PARSER_FALLBACK_TO_RULES", "true") == "true",
		Cache:           store,
		Logger:          log,
	})
	log.Info().Strs("strategies", chain.Strategies()).Msg("parser chain initialized")

	// Create router with configuration
	router := api.NewRouter(api.RouterConfig{
		Version:      Version,
		BuildTime:    BuildTime,
		ServiceName:  serviceName,
		Logger:       log,
		Metrics:      metrics,
		ParseMetrics: parseMetrics,
		Parser:       chain,
		Source:       source,
		Routes:       routeService,
		Planner: planner.Config{
			Loop:   loopPolicyFromEnv(),
			Logger: log,
		},
		DB:         pinger,
		ModelUsage: aiClient.Usage,
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("addr", server.Addr).
			Msg("server listening")

		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server stopped")
}

// loopPolicyFromEnv maps PLANNER_LOOP onto the planner policy.
func loopPolicyFromEnv() planner.LoopPolicy {
	switch os.Getenv("PLANNER_LOOP") {
	case "always":
		return planner.LoopAlways
	case "never":
		return planner.LoopNever
	default:
		return planner.LoopAuto
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
