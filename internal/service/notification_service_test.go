package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-reminder/internal/domain"
	"github.com/spec-kit/ticket-reminder/internal/events"
	"github.com/spec-kit/ticket-reminder/internal/observability"
)

func newNotificationHarness(routeThroughAdmin bool) (events.Dispatcher, *chatFake, *observability.Metrics) {
	chat := newChatFake()
	messenger := chat.messenger()
	dispatcher := events.NewInMemoryDispatcher()
	metrics := observability.NewMetrics()
	svc := NewNotificationService(
		dispatcher,
		NewIdentityResolver(testRoster, messenger, nil, time.Hour, zap.NewNop()),
		messenger,
		NotificationOptions{AdminName: "Hira", AdminEmail: "hira@example.com", RouteDelegatedThroughAdmin: routeThroughAdmin},
		metrics,
		zap.NewNop(),
	)
	svc.RegisterHandlers()
	return dispatcher, chat, metrics
}

func publish(t *testing.T, d events.Dispatcher, eventType events.EventType, ticket domain.Ticket) {
	t.Helper()
	require.NoError(t, d.Publish(context.Background(), events.NewTicketEvent(eventType, ticket, nil, time.Now())))
}

func TestNotificationService(t *testing.T) {
	delegated := domain.Ticket{
		ID: "TICKET-8", Issue: "Fix invoice", Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityHigh,
		CreatedBy: "Ayesha", AssignedTo: "Bilal", Kind: domain.TicketKindNormal, Notify: domain.NotifyYes,
	}

	t.Run("delegated ticket routed through admin", func(t *testing.T) {
		d, chat, _ := newNotificationHarness(true)
		publish(t, d, events.EventTicketCreated, delegated)

		require.Len(t, chat.sent, 2)
		assert.Equal(t, "UADMIN", chat.sent[0].Channel)
		assert.Equal(t, "UADMIN", chat.sent[1].Channel)
		assert.Equal(t, "🎫 *Ticket TICKET-8* created for *<@UA>*\nTICKET-8: Fix invoice\nStatus: Open | Priority: High", chat.sent[0].Text)
		assert.Contains(t, chat.sent[1].Text, "<@UB>")
	})

	t.Run("delegated ticket sent directly", func(t *testing.T) {
		d, chat, _ := newNotificationHarness(false)
		publish(t, d, events.EventTicketUpdated, delegated)

		require.Len(t, chat.sent, 2)
		assert.Equal(t, "UA", chat.sent[0].Channel)
		assert.Equal(t, "UB", chat.sent[1].Channel)
		assert.Contains(t, chat.sent[0].Text, "updated")
	})

	t.Run("personal ticket goes to owner", func(t *testing.T) {
		d, chat, _ := newNotificationHarness(true)
		personal := delegated
		personal.AssignedTo = "Ayesha"
		personal.Kind = domain.TicketKindPersonal
		publish(t, d, events.EventTicketCreated, personal)

		require.Len(t, chat.sent, 1)
		assert.Equal(t, "UA", chat.sent[0].Channel)
	})

	t.Run("notify no is silent", func(t *testing.T) {
		d, chat, _ := newNotificationHarness(true)
		quiet := delegated
		quiet.Notify = domain.NotifyNo
		publish(t, d, events.EventTicketCreated, quiet)

		assert.Empty(t, chat.sent)
	})

	t.Run("unresolvable party is skipped", func(t *testing.T) {
		d, chat, metrics := newNotificationHarness(false)
		unknown := delegated
		unknown.AssignedTo = "Dara"
		publish(t, d, events.EventTicketCreated, unknown)

		require.Len(t, chat.sent, 1)
		assert.Equal(t, "UA", chat.sent[0].Channel)
		assert.Equal(t, int64(1), metrics.Snapshot().Deliveries["ticket_event|skipped"])
	})

	t.Run("bad payload", func(t *testing.T) {
		d, _, _ := newNotificationHarness(true)
		err := d.Publish(context.Background(), events.Event{Type: events.EventTicketCreated, Payload: "nope"})
		assert.Error(t, err)
	})
}
