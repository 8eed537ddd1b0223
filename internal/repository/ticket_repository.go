package repository

import (
	"context"

	"github.com/spec-kit/ticket-reminder/internal/domain"
	"github.com/spec-kit/ticket-reminder/internal/notion"
)

// TicketRepository encapsulates ticket persistence in the external database.
type TicketRepository interface {
	// List returns every ticket, newest first.
	List(ctx context.Context) ([]domain.Ticket, error)
	// LatestID returns the raw identifier of the newest ticket, or "" when
	// there are none or it has no identifier.
	LatestID(ctx context.Context) (string, error)
	Get(ctx context.Context, pageID string) (*domain.Ticket, error)
	Create(ctx context.Context, ticket *domain.Ticket) error
	Update(ctx context.Context, pageID string, ticket *domain.Ticket) error
	Ping(ctx context.Context) error
}

type ticketRepository struct {
	client *notion.Client
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(client *notion.Client) TicketRepository {
	return &ticketRepository{client: client}
}

func (r *ticketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	return r.client.ListTickets(ctx, notion.Descending)
}

func (r *ticketRepository) LatestID(ctx context.Context) (string, error) {
	return r.client.LatestTicketID(ctx)
}

func (r *ticketRepository) Get(ctx context.Context, pageID string) (*domain.Ticket, error) {
	return r.client.GetTicket(ctx, pageID)
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	return r.client.CreateTicket(ctx, ticket)
}

func (r *ticketRepository) Update(ctx context.Context, pageID string, ticket *domain.Ticket) error {
	return r.client.UpdateTicket(ctx, pageID, ticket)
}

func (r *ticketRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx)
}
