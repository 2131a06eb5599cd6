package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"

	httpadapter "github.com/couchcryptid/bike-collision-map-service/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/bike-collision-map-service/internal/adapter/kafka"
	"github.com/couchcryptid/bike-collision-map-service/internal/adapter/mapbox"
	"github.com/couchcryptid/bike-collision-map-service/internal/adapter/source"
	"github.com/couchcryptid/bike-collision-map-service/internal/config"
	"github.com/couchcryptid/bike-collision-map-service/internal/domain"
	"github.com/couchcryptid/bike-collision-map-service/internal/observability"
	"github.com/couchcryptid/bike-collision-map-service/internal/pipeline"
)

func main() {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	// Address lookup for accident details (feature-flagged via MAPBOX_ENABLED / MAPBOX_TOKEN).
	var geocoder domain.Geocoder
	if cfg.MapboxEnabled {
		client := mapbox.NewClient(cfg.MapboxToken, cfg.MapboxTimeout, metrics, logger)
		geocoder = mapbox.NewCachedGeocoder(client, cfg.MapboxCacheSize, metrics)
		metrics.GeocodeEnabled.Set(1)
		logger.Info("mapbox geocoding enabled", "cache_size", cfg.MapboxCacheSize, "timeout", cfg.MapboxTimeout)
	} else {
		logger.Info("mapbox geocoding disabled")
	}

	var (
		publisher pipeline.Publisher
		writer    *kafkaadapter.Writer
	)
	if cfg.KafkaEnabled {
		writer = kafkaadapter.NewWriter(cfg, logger)
		publisher = writer
		logger.Info("distribution publishing enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	fetcher := source.NewFetcher(cfg.FetchTimeout, logger)
	p := pipeline.New(fetcher,
		pipeline.Sources{Accidents: cfg.AccidentsSource, Lanes: cfg.LanesSource},
		publisher,
		clockwork.NewRealClock(),
		logger,
		metrics,
	)

	api := httpadapter.NewAPI(p, geocoder, cfg.HeatmapLevel, metrics, logger)
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, api, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Start HTTP server; /readyz reports 503 until the load completes.
	srvErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			srvErr <- err
		}
	}()

	exitCode := 0
	if err := p.Run(ctx); err != nil {
		logger.Error("dataset load failed, shutting down", "error", err)
		exitCode = 1
	} else {
		select {
		case <-ctx.Done():
		case err := <-srvErr:
			logger.Error("http server error", "error", err)
			exitCode = 1
		}
	}
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}
	if writer != nil {
		if err := writer.Close(); err != nil {
			logger.Error("kafka writer close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
	if exitCode != 0 {
		cancel()
		stop()
		os.Exit(exitCode)
	}
}
