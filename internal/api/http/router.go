package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/payment-ops/internal/api/http/handlers"
	"github.com/spec-kit/payment-ops/internal/auth"
	"github.com/spec-kit/payment-ops/internal/domain"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Operators      *handlers.OperatorsHandler
	Payments       *handlers.PaymentsHandler
	Runs           *handlers.RunsHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)

	app.Post("/auth/operators/login", cfg.Operators.Login)

	protected := app.Group("", cfg.AuthMiddleware.Handle)

	payments := protected.Group("/payments", auth.RequireRole())
	payments.Get("/", cfg.Payments.List)
	payments.Get("/:id", cfg.Payments.Get)
	payments.Get("/:id/cases", cfg.Payments.ListCases)
	payments.Get("/:id/handoffs", cfg.Payments.ListHandoffs)

	runs := protected.Group("/runs")
	runs.Post("/", auth.RequireRole(domain.OperatorRoleAdmin), cfg.Runs.Trigger)
	runs.Get("/metrics", auth.RequireRole(), cfg.Runs.Metrics)
	runs.Get("/", auth.RequireRole(), cfg.Runs.List)
	runs.Get("/:id", auth.RequireRole(), cfg.Runs.Get)
	runs.Get("/:id/handoffs", auth.RequireRole(), cfg.Runs.ListHandoffs)
}
