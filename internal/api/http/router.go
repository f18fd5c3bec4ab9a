package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/spec-kit/giftcard-service/internal/api/http/handlers"
	"github.com/spec-kit/giftcard-service/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Users          *handlers.UsersHandler
	GiftCards      *handlers.GiftCardsHandler
	AuthMiddleware *auth.AuthMiddleware
	// Gatherer exposes metrics when MetricsPath is set.
	Gatherer    prometheus.Gatherer
	MetricsPath string
}

// NewApp builds the fiber app with the JSON error envelope as its fallback handler.
func NewApp(appName string) *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      appName,
		ErrorHandler: ErrorHandler,
	})
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	if cfg.Health != nil {
		app.Get("/health/live", cfg.Health.Live)
		app.Get("/health/ready", cfg.Health.Ready)
	}
	if cfg.Gatherer != nil && cfg.MetricsPath != "" {
		app.Get(cfg.MetricsPath, adaptor.HTTPHandler(promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})))
	}

	api := app.Group("/api")
	api.Post("/register", cfg.Users.Register)
	api.Post("/login", cfg.Users.Login)
	api.Post("/logout", cfg.AuthMiddleware.Optional, cfg.Users.Logout)

	// Auth is attached per route so unmatched /api paths still fall through to 404.
	protected := func(h fiber.Handler) []fiber.Handler {
		return []fiber.Handler{cfg.AuthMiddleware.Handle, auth.RequireUser(), h}
	}
	api.Get("/user", protected(cfg.Users.WhoAmI)...)

	api.Post("/giftcards", protected(cfg.GiftCards.Create)...)
	api.Get("/giftcards", protected(cfg.GiftCards.Search)...)
	api.Patch("/giftcards/:id/status", protected(cfg.GiftCards.UpdateStatus)...)
	api.Patch("/giftcards/:id", protected(cfg.GiftCards.Update)...)
}
