package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-reminder/internal/domain"
	"github.com/spec-kit/ticket-reminder/internal/events"
	"github.com/spec-kit/ticket-reminder/internal/observability"
)

// NotificationOptions controls where per-ticket notifications go.
type NotificationOptions struct {
	AdminName                  string
	AdminEmail                 string
	RouteDelegatedThroughAdmin bool
}

// NotificationService messages the parties of a ticket when it is created or updated.
type NotificationService struct {
	dispatcher events.Dispatcher
	identities *IdentityResolver
	messenger  Messenger
	opts       NotificationOptions
	metrics    *observability.Metrics
	logger     *zap.Logger
}

// NewNotificationService creates the service.
func NewNotificationService(dispatcher events.Dispatcher, identities *IdentityResolver, messenger Messenger, opts NotificationOptions, metrics *observability.Metrics, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		identities: identities,
		messenger:  messenger,
		opts:       opts,
		metrics:    metrics,
		logger:     logger.Named("notifications"),
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketUpdated, n.handleTicketUpdated)
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketCreated", zap.String("ticket_id", event.TicketID))
	return n.notify(ctx, "created", event)
}

func (n *NotificationService) handleTicketUpdated(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketUpdated", zap.String("ticket_id", event.TicketID))
	return n.notify(ctx, "updated", event)
}

func (n *NotificationService) notify(ctx context.Context, verb string, event events.Event) error {
	payload, ok := event.Payload.(events.TicketPayload)
	if !ok {
		return fmt.Errorf("unexpected payload %T for %s", event.Payload, event.Type)
	}
	ticket := payload.Ticket
	if ticket.Notify == domain.NotifyNo {
		n.logger.Debug("notifications disabled for ticket", zap.String("ticket_id", ticket.ID))
		return nil
	}

	if ticket.Kind == domain.TicketKindPersonal {
		n.sendTo(ctx, &ticket, verb, ticket.CreatedBy, false)
		return nil
	}

	seen := map[string]bool{}
	for _, party := range []string{ticket.CreatedBy, ticket.AssignedTo} {
		party = strings.TrimSpace(party)
		if party == "" || seen[party] {
			continue
		}
		seen[party] = true
		n.sendTo(ctx, &ticket, verb, party, n.opts.RouteDelegatedThroughAdmin)
	}
	return nil
}

func (n *NotificationService) sendTo(ctx context.Context, ticket *domain.Ticket, verb, person string, viaAdmin bool) {
	personID, err := n.identities.Resolve(ctx, person)
	if err != nil {
		n.logger.Warn("cannot resolve ticket party; skipping",
			zap.String("ticket_id", ticket.ID), zap.String("person", person), zap.Error(err))
		n.metrics.RecordDelivery(domain.MessageTicketEvent, domain.DeliverySkipped)
		return
	}

	channel := personID
	if viaAdmin {
		adminID, err := n.identities.ResolveEmail(ctx, n.opts.AdminEmail)
		if err != nil {
			n.logger.Warn("cannot resolve administrator; skipping",
				zap.String("ticket_id", ticket.ID), zap.String("email", n.opts.AdminEmail), zap.Error(err))
			n.metrics.RecordDelivery(domain.MessageTicketEvent, domain.DeliverySkipped)
			return
		}
		channel = adminID
	}

	text := ticketEventText(verb, mention(personID, person), ticket)
	if err := n.messenger.PostMessage(ctx, channel, text); err != nil {
		n.logger.Error("failed to send ticket notification",
			zap.String("ticket_id", ticket.ID), zap.String("person", person), zap.Error(err))
		n.metrics.RecordDelivery(domain.MessageTicketEvent, domain.DeliveryFailed)
		return
	}
	n.metrics.RecordDelivery(domain.MessageTicketEvent, domain.DeliverySent)
}
