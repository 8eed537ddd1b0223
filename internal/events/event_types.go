package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/ticket-reminder/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated EventType = "ticket_created"
	EventTicketUpdated EventType = "ticket_updated"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// TicketPayload carries the ticket as stored after the change.
type TicketPayload struct {
	Ticket domain.Ticket `json:"ticket"`
	// Changed lists the columns an update touched. Empty for creations.
	Changed []string `json:"changed,omitempty"`
}

// NewTicketEvent builds an event stamped with a fresh ID.
func NewTicketEvent(eventType EventType, ticket domain.Ticket, changed []string, at time.Time) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		TicketID:  ticket.ID,
		Timestamp: at,
		Payload:   TicketPayload{Ticket: ticket, Changed: changed},
	}
}
