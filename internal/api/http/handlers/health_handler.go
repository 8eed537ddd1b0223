package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/ticket-reminder/internal/observability"
)

// Pinger is a dependency the readiness probe can check.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler responds to liveness and readiness probes.
type HealthHandler struct {
	serviceName string
	version     string
	// required dependencies fail readiness; optional ones are reported only
	required map[string]Pinger
	optional map[string]Pinger
	metrics  *observability.Metrics
}

// NewHealthHandler returns a new handler instance.
func NewHealthHandler(serviceName, version string, metrics *observability.Metrics) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		required:    map[string]Pinger{},
		optional:    map[string]Pinger{},
		metrics:     metrics,
	}
}

// Require registers a dependency that must answer for the service to be ready.
func (h *HealthHandler) Require(name string, p Pinger) *HealthHandler {
	h.required[name] = p
	return h
}

// Observe registers a dependency whose state is reported without failing readiness.
func (h *HealthHandler) Observe(name string, p Pinger) *HealthHandler {
	h.optional[name] = p
	return h
}

// Live reports service liveness.
func (h *HealthHandler) Live(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": h.serviceName,
		"version": h.version,
	})
}

// Ready reports service readiness by checking dependencies.
func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	depStatus := fiber.Map{}
	ready := true

	for name, p := range h.required {
		if err := p.Ping(ctx); err != nil {
			depStatus[name] = err.Error()
			ready = false
		} else {
			depStatus[name] = "ok"
		}
	}
	for name, p := range h.optional {
		if err := p.Ping(ctx); err != nil {
			depStatus[name] = err.Error()
		} else {
			depStatus[name] = "ok"
		}
	}

	if ready {
		return c.JSON(fiber.Map{
			"status":       "ready",
			"dependencies": depStatus,
		})
	}

	return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    "DEPENDENCY_UNAVAILABLE",
			"message": "one or more dependencies unavailable",
			"details": depStatus,
		},
	})
}

// Metrics reports the in-memory counters.
func (h *HealthHandler) Metrics(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"data": h.metrics.Snapshot()})
}
