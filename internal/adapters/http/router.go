package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/geokit/internal/pkg/metrics"
)

const requestTimeout = 15 * time.Second

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	app.Use(requestid.New())
	app.Use(RequestIDLogMiddleware())
	app.Use(AccessLogMiddleware())

	// Rate limiting: 600 requests per minute per IP
	app.Use(limiter.New(limiter.Config{
		Max:        600,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return newError(c, fiber.StatusTooManyRequests, "rate_limited", "too many requests, please try again later")
		},
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	app.Use(ETagMiddleware())
	app.Use(CachingMiddleware())

	// Health & readiness (no timeout, fast internal checks)
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	v1 := app.Group("/v1")
	with := func(h fiber.Handler) fiber.Handler { return timeout.NewWithContext(h, requestTimeout) }

	// Coordinates
	v1.Get("/coordinates/parse", with(ParseCoordinateHandler(deps)))
	v1.Get("/coordinates/format", with(FormatCoordinateHandler(deps)))
	v1.Get("/coordinates/normalize", with(NormalizeCoordinateHandler(deps)))

	// Box algebra
	v1.Post("/boxes/intersection", with(IntersectionHandler(deps)))
	v1.Post("/boxes/merge", with(MergeHandler(deps)))
	v1.Post("/boxes/union", with(UnionHandler(deps)))
	v1.Post("/boxes/contains", with(ContainsHandler(deps)))
	v1.Post("/boxes/overlaps", with(OverlapsHandler(deps)))
	v1.Post("/boxes/minimum", with(MinimumBoxHandler(deps)))
	v1.Post("/boxes/quadsplit", with(QuadSplitHandler(deps)))
	v1.Post("/boxes/grid", with(GridStringHandler(deps)))
	v1.Post("/centroid", with(CentroidHandler(deps)))
	v1.Post("/interpolate", with(InterpolateHandler(deps)))

	// Regions (static paths before :id)
	v1.Get("/regions", with(ListRegionsHandler(deps)))
	v1.Post("/regions", with(CreateRegionHandler(deps)))
	v1.Get("/regions/containing", with(ContainingRegionsHandler(deps)))
	v1.Post("/regions/overlapping", with(OverlappingRegionsHandler(deps)))
	v1.Get("/regions/cell", with(RegionsInCellHandler(deps)))
	v1.Get("/regions/:id", with(GetRegionHandler(deps)))
	v1.Delete("/regions/:id", with(DeleteRegionHandler(deps)))

	app.Post("/graphql", GraphQLHandler(deps))

	SetupDocs(app, deps.DocsPath)

	// WebSocket relay of region events
	if deps.NATS != nil {
		app.Use("/ws", func(c *fiber.Ctx) error {
			if websocket.IsWebSocketUpgrade(c) {
				return c.Next()
			}
			return fiber.ErrUpgradeRequired
		})
		app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
	}
}
