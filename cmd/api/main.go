package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/unaigarai/tilerender/internal/adapters/http"
	natsadapter "github.com/unaigarai/tilerender/internal/adapters/nats"
	"github.com/unaigarai/tilerender/internal/adapters/postgres"
	"github.com/unaigarai/tilerender/internal/adapters/valkey"
	"github.com/unaigarai/tilerender/internal/core/ports"
	"github.com/unaigarai/tilerender/internal/core/usecases"
	"github.com/unaigarai/tilerender/internal/pkg/config"
	"github.com/unaigarai/tilerender/internal/pkg/logging"
	"github.com/unaigarai/tilerender/internal/pkg/metrics"
	"github.com/unaigarai/tilerender/internal/pkg/telemetry"
)

func main() {
	cfg, err := config.Load("tilerender-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "info"
	}
	logging.Setup("tilerender-api", logLevel, "json")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer shutdown()
		}
	}

	// Database
	db, err := postgres.New(ctx, cfg.Database.DSN(), int32(cfg.Database.MaxConns))
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Periodically publish pool stats
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				metrics.UpdateDBPoolMetrics(db.Pool.Stat())
			}
		}
	}()

	// Cache
	cache, err := valkey.New(cfg.Valkey.Addr)
	if err != nil {
		slog.Warn("valkey unavailable, tiles render uncached", "error", err)
		cache = nil
	} else {
		defer cache.Close()
	}

	// NATS: publisher for the invalidation endpoint, subscriber to track
	// collection data versions.
	versions := usecases.NewVersionTracker()
	pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
	if err != nil {
		slog.Warn("nats unavailable", "error", err)
		pub = nil
	} else {
		defer pub.Close()

		sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats subscriber unavailable", "error", err)
		} else {
			defer sub.Close()
			if err := sub.SubscribeCollectionUpdates(ctx, versions.HandleCollectionUpdated); err != nil {
				slog.Warn("collection-updates subscription failed", "error", err)
			}
		}
	}

	// Repos
	catalogRepo := postgres.NewCatalogRepo(db)
	chunkRepo := postgres.NewChunkRepo(db)
	layerRepo := postgres.NewLayerRepo(db)
	styleRepo := postgres.NewStyleRepo(db)

	tileSvc := usecases.NewTileService(catalogRepo, chunkRepo, cacheIface(cache), versions, usecases.TileServiceConfig{
		MaxChunks:       cfg.Pipeline.MaxChunks,
		EdgeMargin:      cfg.Pipeline.EdgeMargin,
		CacheTTLSeconds: cfg.Pipeline.CacheTTLSeconds,
	})
	layerSvc := usecases.NewLayerService(layerRepo, styleRepo, cacheIface(cache))

	deps := &http.Dependencies{
		Tiles:  tileSvc,
		Layers: layerSvc,
		DB:     db,
		Cache:  cache,
	}
	if pub != nil {
		deps.Publisher = pub
		deps.NATSOK = pub.Connected
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    1024 * 1024, // 1 MB max request body
		AppName:      "tilerender API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}

// cacheIface converts a possibly-nil *valkey.Cache into the port interface.
// A plain conversion of a nil pointer would yield a non-nil interface that
// panics on use.
func cacheIface(c *valkey.Cache) ports.CacheService {
	if c == nil {
		return nil
	}
	return c
}
