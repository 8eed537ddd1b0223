package mocks

import (
	"context"
	"errors"

	"github.com/spec-kit/ticket-reminder/internal/domain"
)

// MockTicketRepository is a function-based mock of the ticket store.
type MockTicketRepository struct {
	ListFunc     func(ctx context.Context) ([]domain.Ticket, error)
	LatestIDFunc func(ctx context.Context) (string, error)
	GetFunc      func(ctx context.Context, pageID string) (*domain.Ticket, error)
	CreateFunc   func(ctx context.Context, ticket *domain.Ticket) error
	UpdateFunc   func(ctx context.Context, pageID string, ticket *domain.Ticket) error
	PingFunc     func(ctx context.Context) error
}

// List implements repository.TicketRepository
func (m *MockTicketRepository) List(ctx context.Context) ([]domain.Ticket, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx)
	}
	return nil, errors.New("ListFunc not implemented")
}

// LatestID implements repository.TicketRepository
func (m *MockTicketRepository) LatestID(ctx context.Context) (string, error) {
	if m.LatestIDFunc != nil {
		return m.LatestIDFunc(ctx)
	}
	return "", errors.New("LatestIDFunc not implemented")
}

// Get implements repository.TicketRepository
func (m *MockTicketRepository) Get(ctx context.Context, pageID string) (*domain.Ticket, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, pageID)
	}
	return nil, errors.New("GetFunc not implemented")
}

// Create implements repository.TicketRepository
func (m *MockTicketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, ticket)
	}
	return errors.New("CreateFunc not implemented")
}

// Update implements repository.TicketRepository
func (m *MockTicketRepository) Update(ctx context.Context, pageID string, ticket *domain.Ticket) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, pageID, ticket)
	}
	return errors.New("UpdateFunc not implemented")
}

// Ping implements repository.TicketRepository
func (m *MockTicketRepository) Ping(ctx context.Context) error {
	if m.PingFunc != nil {
		return m.PingFunc(ctx)
	}
	return nil
}

// MockReminderRunRepository is a function-based mock of the run log.
type MockReminderRunRepository struct {
	CreateFunc         func(ctx context.Context, run *domain.ReminderRun) error
	ListRecentFunc     func(ctx context.Context, limit int) ([]domain.ReminderRun, error)
	ListDeliveriesFunc func(ctx context.Context, runID string) ([]domain.Delivery, error)
}

// Create implements repository.ReminderRunRepository
func (m *MockReminderRunRepository) Create(ctx context.Context, run *domain.ReminderRun) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, run)
	}
	return nil
}

// ListRecent implements repository.ReminderRunRepository
func (m *MockReminderRunRepository) ListRecent(ctx context.Context, limit int) ([]domain.ReminderRun, error) {
	if m.ListRecentFunc != nil {
		return m.ListRecentFunc(ctx, limit)
	}
	return nil, errors.New("ListRecentFunc not implemented")
}

// ListDeliveries implements repository.ReminderRunRepository
func (m *MockReminderRunRepository) ListDeliveries(ctx context.Context, runID string) ([]domain.Delivery, error) {
	if m.ListDeliveriesFunc != nil {
		return m.ListDeliveriesFunc(ctx, runID)
	}
	return nil, errors.New("ListDeliveriesFunc not implemented")
}
