package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-reminder/internal/api/http/handlers"
	"github.com/spec-kit/ticket-reminder/internal/auth"
)

// RouteConfig bundles dependencies for route registration.
type RouteConfig struct {
	Health         *handlers.HealthHandler
	Auth           *handlers.AuthHandler
	Tickets        *handlers.TicketsHandler
	Reminders      *handlers.RemindersHandler
	AuthMiddleware *auth.AuthMiddleware
}

// RegisterRoutes wires HTTP routes.
func RegisterRoutes(app *fiber.App, cfg RouteConfig) {
	app.Get("/health/live", cfg.Health.Live)
	app.Get("/health/ready", cfg.Health.Ready)
	app.Get("/metrics", cfg.Health.Metrics)

	app.Post("/auth/login", cfg.Auth.Login)

	app.Get("/people", cfg.Tickets.ListPeople)
	app.Get("/tickets", cfg.Tickets.ListTickets)
	app.Post("/tickets", cfg.Tickets.CreateTicket)

	app.Patch("/tickets/:page_id", cfg.AuthMiddleware.Handle, auth.RequireAdmin(), cfg.Tickets.UpdateTicket)

	reminders := app.Group("/reminders", cfg.AuthMiddleware.Handle, auth.RequireAdmin())
	reminders.Post("/run", cfg.Reminders.Run)
	reminders.Get("/runs", cfg.Reminders.ListRuns)
	reminders.Get("/runs/:id/deliveries", cfg.Reminders.ListDeliveries)

	// fall-through so unknown paths get the JSON error body
	app.Use(func(c *fiber.Ctx) error {
		return fiber.ErrNotFound
	})
}
