package web

import (
	"postproof/internal/metrics"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

// NewApp creates the Fiber app with the middleware chain and routes.
func NewApp(handlers *Handlers, rateLimiter *RateLimiter, m *metrics.Metrics) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "postproof",
		DisableStartupMessage: true,
	})

	app.Use(recover.New())
	app.Use(requestid.New(RequestIDConfig()))
	app.Use(RequestIDToContextMiddleware())
	app.Use(RequestLoggerMiddleware())
	app.Use(MetricsMiddleware(m))

	SetupRoutes(app, handlers, rateLimiter, m)
	return app
}

// SetupRoutes configures the application routes.
func SetupRoutes(app *fiber.App, handlers *Handlers, rateLimiter *RateLimiter, m *metrics.Metrics) {
	app.Get("/healthz", handlers.Health)
	app.Get("/metrics", adaptor.HTTPHandler(m.Handler()))

	api := app.Group("/api")

	// Verification endpoints run a remote job per call
	api.Post("/verify", rateLimiter.Middleware(), handlers.Verify)
	api.Post("/submissions", rateLimiter.Middleware(), handlers.Submit)

	api.Get("/submissions/:id", handlers.GetSubmission)
	api.Get("/users/:userId/submissions", handlers.ListUserSubmissions)
}
