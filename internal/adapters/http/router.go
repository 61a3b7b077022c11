package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"

	"github.com/unaigarai/tilerender/internal/pkg/metrics"
)

// SetupRoutes registers the WMS, tile, and layer routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip). PNG/JPEG bodies stay as-is; this mainly
	// helps the JSON and XML endpoints.
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Request ID
	app.Use(requestid.New())

	// Propagate request ID into slog context
	app.Use(RequestIDLogMiddleware())

	// Access logs (structured HTTP request logging)
	app.Use(AccessLogMiddleware())

	// Rate limiting: 300 requests per minute per IP. Map viewers fan out
	// tile requests, so this sits well above a single-screen pan.
	app.Use(limiter.New(limiter.Config{
		Max:        300,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error":   "rate limit exceeded",
				"message": "too many requests, please try again later",
			})
		},
		SkipFailedRequests: false,
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// ETag for conditional caching
	app.Use(ETagMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// WMS endpoint: 30s timeout, renders can be heavy
	app.Get("/wms", timeout.NewWithContext(WMSHandler(deps), 30*time.Second))

	// REST API v1
	v1 := app.Group("/v1")
	v1.Get("/tiles/:layer/:z/:x/:y", timeout.NewWithContext(XYZTileHandler(deps), 30*time.Second))
	v1.Get("/layers", timeout.NewWithContext(ListLayersHandler(deps), 15*time.Second))
	v1.Get("/layers/:name", timeout.NewWithContext(GetLayerHandler(deps), 15*time.Second))

	// Ingest-facing cache invalidation
	v1.Post("/collections/:schema/:table/invalidate", InvalidateCollectionHandler(deps))
}
