package observability

import (
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-reminder/internal/config"
	"github.com/spec-kit/ticket-reminder/internal/domain"
)

func TestMetricsCounters(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/tickets", "GET", 200, time.Millisecond)
	m.RecordRequest("/tickets", "GET", 200, time.Millisecond)
	m.RecordError("/tickets", "POST", "VALIDATION_FAILED")
	m.RecordDelivery(domain.MessageDelegatedReminder, domain.DeliverySent)
	m.RecordDelivery(domain.MessageDelegatedReminder, domain.DeliveryFailed)

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Requests["/tickets|GET|200"])
	assert.Equal(t, int64(1), snap.Errors["/tickets|POST|VALIDATION_FAILED"])
	assert.Equal(t, int64(1), snap.Deliveries["delegated_reminder|sent"])
	assert.Equal(t, int64(1), snap.Deliveries["delegated_reminder|failed"])
	assert.Equal(t, "2ms", snap.TotalRequestTime)
}

func TestNilMetricsIsSafe(t *testing.T) {
	var m *Metrics
	m.RecordRequest("/", "GET", 200, 0)
	m.RecordError("/", "GET", "X")
	m.RecordDelivery(domain.MessageClosingReminder, domain.DeliverySent)
	assert.Empty(t, m.Snapshot().Requests)
}

func TestRequestLoggerRecordsRoutePath(t *testing.T) {
	metrics := NewMetrics()
	app := fiber.New()
	app.Use(RequestLogger(zap.NewNop(), metrics))
	app.Get("/tickets/:id", func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest("GET", "/tickets/abc", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, resp.StatusCode)
	assert.Equal(t, int64(1), metrics.Snapshot().Requests["/tickets/:id|GET|204"])
}

func TestNewLoggerFallsBackToInfo(t *testing.T) {
	logger, err := NewLogger(config.LoggerConfig{Level: "chatty"})
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.InfoLevel))
	assert.False(t, logger.Core().Enabled(zap.DebugLevel))
}
