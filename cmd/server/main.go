package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/catalogiq/catalog-service/config"
	"github.com/catalogiq/catalog-service/internal/database"
	"github.com/catalogiq/catalog-service/internal/handlers"
	"github.com/catalogiq/catalog-service/internal/mapping"
	"github.com/catalogiq/catalog-service/internal/middleware"
	"github.com/catalogiq/catalog-service/internal/pipeline"
	"github.com/catalogiq/catalog-service/internal/storage"
	"github.com/catalogiq/catalog-service/internal/telemetry"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger := initLogger(cfg.Logging)

	logger.Info().Msg("Starting catalog service")

	ctx := context.Background()

	cleanup := telemetry.MustInit(ctx, telemetry.GetConfigFromEnv())
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := cleanup(shutdownCtx); err != nil {
			logger.Warn().Err(err).Msg("Telemetry shutdown failed")
		}
	}()

	persist := false
	if dbURL := config.GetDatabaseURL(); dbURL != "" {
		if err := database.Connect(
			ctx,
			dbURL,
			cfg.Database.MaxConnections,
			cfg.Database.MinConnections,
			cfg.Database.MaxConnLifetime,
			cfg.Database.MaxConnIdleTime,
		); err != nil {
			logger.Fatal().Err(err).Msg("Failed to connect to database")
		}
		defer database.Close()

		if err := database.Migrate(ctx); err != nil {
			logger.Fatal().Err(err).Msg("Failed to run migrations")
		}
		persist = true
		logger.Info().Msg("Database connected")
	} else {
		logger.Warn().Msg("DATABASE_URL not set, run persistence disabled")
	}

	var archive storage.Storage
	if cfg.Storage.BasePath != "" {
		local, err := storage.NewLocalStorage(cfg.Storage.BasePath)
		if err != nil {
			logger.Fatal().Err(err).Msg("Failed to initialize upload storage")
		}
		archive = local
	}

	runner := pipeline.NewRunner(pipeline.RunnerOptions{
		Pipeline: pipeline.New(pipeline.Options{
			Mapper: mapping.New(mapping.Options{
				ConfidenceThreshold: cfg.Parser.ConfidenceThreshold,
			}),
		}),
		Archive: archive,
		Persist: persist,
	})
	batchOptions := pipeline.BatchOptions{
		Concurrency: cfg.Parser.Concurrency,
		FileTimeout: cfg.Parser.FileTimeout,
	}

	if cfg.Logging.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	setupRequestLogging(router, logger)

	router.GET("/health", handlers.HealthCheck)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	parseHandler := handlers.NewParseHandler(runner, batchOptions, cfg.Server.MaxUploadSize)

	v1 := router.Group("/v1")
	v1.Use(middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerSecond: float64(cfg.RateLimit.RequestsPerSecond),
		Burst:             cfg.RateLimit.Burst,
	}))
	{
		v1.POST("/parse", parseHandler.Parse)

		runs := v1.Group("/runs")
		runs.Use(middleware.InternalAuth(os.Getenv("INTERNAL_API_KEY")))
		{
			runs.GET("", handlers.ListRuns)
			runs.GET("/:id", handlers.GetRun)
		}
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logger.Info().Str("addr", addr).Msg("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("Server forced to shutdown")
	}

	logger.Info().Msg("Server exited")
}

func initLogger(cfg config.LoggingConfig) *zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	var output io.Writer
	if cfg.Format == "json" {
		output = os.Stdout
	} else {
		output = zerolog.ConsoleWriter{Out: os.Stdout, NoColor: cfg.NoColor}
	}

	logger := zerolog.New(output).Level(level).With().Timestamp().Str("service", "catalog-service").Logger()
	zlog.Logger = logger
	return &logger
}

func setupRequestLogging(router *gin.Engine, logger *zerolog.Logger) {
	router.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		logger.Info().
			Str("method", c.Request.Method).
			Str("path", path).
			Str("query", query).
			Int("status", c.Writer.Status()).
			Dur("latency", time.Since(start)).
			Str("ip", c.ClientIP()).
			Msg("HTTP request")
	})
}
