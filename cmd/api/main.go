package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "github.com/lib/pq"

	"github.com/caretap/staffing-platform/internal/api/router"
	appconfig "github.com/caretap/staffing-platform/internal/config"
	"github.com/caretap/staffing-platform/internal/connection"
	"github.com/caretap/staffing-platform/internal/dashboard"
	"github.com/caretap/staffing-platform/internal/directory"
	"github.com/caretap/staffing-platform/internal/http/handlers"
	"github.com/caretap/staffing-platform/internal/observability/metrics"
	"github.com/caretap/staffing-platform/internal/pitch"
	"github.com/caretap/staffing-platform/internal/search"
	"github.com/caretap/staffing-platform/pkg/logging"
)

func main() {
	// Local development convenience; production injects real env vars.
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting staffing-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	metricsHandler, pitchMetrics, searchMetrics := setupMetrics()

	pool := connectPostgresPool(ctx, cfg.DatabaseURL, logger)
	redisClient := connectRedis(cfg, logger)

	// Storage: Postgres when configured, in-memory twins otherwise.
	var (
		dirRepo  directory.Repository
		registry connection.Registry
		store    pitch.Store
	)
	if pool != nil {
		dirRepo = directory.NewPostgresRepository(pool)
		registry = connection.NewPostgresRegistry(pool)
		store = pitch.NewPostgresStore(pool)
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory storage")
		memDir := directory.NewInMemoryRepository()
		memRegistry := connection.NewMemoryRegistry()
		dirRepo = memDir
		registry = memRegistry
		store = pitch.NewMemoryStore(memRegistry, memDir)
	}

	var cache search.SnapshotCache = search.NoopCache{}
	if redisClient != nil {
		cache = search.NewRedisSnapshotCache(redisClient, cfg.SearchCacheTTL)
	}

	pitchSvc := pitch.NewService(store, dirRepo, logger, pitchMetrics)
	searchSvc := search.NewService(dirRepo, cache, logger, searchMetrics, search.Options{
		DefaultRadiusKm: cfg.SearchDefaultRadiusKm,
		MaxRadiusKm:     cfg.SearchMaxRadiusKm,
		MaxResults:      cfg.SearchMaxResults,
	})

	routerCfg := &router.Config{
		Logger:             logger,
		DirectoryHandler:   handlers.NewDirectoryHandler(dirRepo, logger),
		SearchHandler:      handlers.NewSearchHandler(searchSvc, logger),
		PitchHandler:       handlers.NewPitchHandler(pitchSvc, logger),
		ConnectionHandler:  handlers.NewConnectionHandler(registry, logger),
		MetricsHandler:     metricsHandler,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}

	// The dashboard reads over database/sql so it can point at a replica.
	if cfg.DatabaseURL != "" {
		if statsDB, err := sql.Open("postgres", cfg.DatabaseURL); err != nil {
			logger.Error("failed to open dashboard db", "error", err)
		} else {
			defer statsDB.Close()
			routerCfg.DashboardHandler = dashboard.NewHandler(dashboard.NewStatsRepository(statsDB), logger)
		}
	}

	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	if pool != nil {
		pool.Close()
	}
	if redisClient != nil {
		_ = redisClient.Close()
	}

	logger.Info("server stopped")
	fmt.Println("Server exited gracefully")
}

// setupMetrics builds the registry with process/go collectors plus the
// domain metrics, and the /metrics handler serving it.
func setupMetrics() (http.Handler, *metrics.PitchMetrics, *metrics.SearchMetrics) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	pitchMetrics := metrics.NewPitchMetrics(reg)
	searchMetrics := metrics.NewSearchMetrics(reg)
	handler := promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	return handler, pitchMetrics, searchMetrics
}

// connectPostgresPool returns nil when no DATABASE_URL is configured so
// the caller can fall back to in-memory storage.
func connectPostgresPool(ctx context.Context, databaseURL string, logger *logging.Logger) *pgxpool.Pool {
	if databaseURL == "" {
		return nil
	}
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		logger.Error("failed to create pgx pool", "error", err)
		return nil
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		logger.Error("failed to ping postgres", "error", err)
		pool.Close()
		return nil
	}
	return pool
}

// connectRedis returns nil when no address is configured; the search
// service then runs without snapshot caching.
func connectRedis(cfg *appconfig.Config, logger *logging.Logger) *redis.Client {
	if cfg.RedisAddr == "" {
		return nil
	}
	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unreachable, snapshot cache disabled", "addr", cfg.RedisAddr, "error", err)
		_ = client.Close()
		return nil
	}
	return client
}
