package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/amezhanov/storefront-backend/api/routes"
	"github.com/amezhanov/storefront-backend/internal/catalog"
	"github.com/amezhanov/storefront-backend/internal/session"
	"github.com/amezhanov/storefront-backend/pkg/config"
	"github.com/amezhanov/storefront-backend/pkg/logger"
	"github.com/amezhanov/storefront-backend/pkg/metrics"
	"github.com/amezhanov/storefront-backend/pkg/ozon"
	"github.com/amezhanov/storefront-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	var redisClient *redis.Client
	if cfg.Redis.Enabled() {
		redisClient, err = redis.New(context.Background(), cfg.Redis)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap redis", err)
			os.Exit(1)
		}
		defer func() {
			if err := redisClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing redis", err)
			}
		}()
	} else {
		logg.Warn(context.Background(), "redis not configured, refresh rate limiting disabled")
	}

	ozonClient, err := ozon.NewClient(cfg.Ozon, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create ozon client", err)
		os.Exit(1)
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	refreshMetrics := metrics.NewRefreshMetrics(promRegistry)

	cat := catalog.New()
	refresher, err := catalog.NewRefresher(ozonClient, cat, cfg.Catalog.ListLimit, logg, refreshMetrics)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog refresher", err)
		os.Exit(1)
	}

	if cfg.Catalog.RefreshOnStart {
		result := refresher.Refresh(context.Background())
		if result.SourceFailed {
			logg.Warn(context.Background(), "initial catalog refresh failed, serving empty catalog until next refresh")
		}
	}

	sessions := session.NewStore(cat)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":          cfg.App.Env,
		"addr":         addr,
		"catalog_size": cat.Size(),
	})
	logg.Info(ctx, "starting storefront api server")

	server := &http.Server{
		Addr:    addr,
		Handler: routes.NewRouter(cfg, logg, redisClient, sessions, cat, refresher, promRegistry),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
}
