package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-reminder/internal/domain"
	"github.com/spec-kit/ticket-reminder/internal/events"
	"github.com/spec-kit/ticket-reminder/internal/notion"
	"github.com/spec-kit/ticket-reminder/internal/service/mocks"
	apperrors "github.com/spec-kit/ticket-reminder/pkg/util/errorutil"
)

var fixedNow = time.Date(2025, 3, 14, 16, 20, 5, 0, time.UTC)

func newTicketService(repo *mocks.MockTicketRepository, dispatcher events.Dispatcher) *TicketService {
	karachi := time.FixedZone("PKT", 5*60*60)
	return NewTicketService(TicketDependencies{
		TicketRepo: repo,
		Roster:     testRoster,
		AdminName:  "Hira",
		Dispatcher: dispatcher,
		Location:   karachi,
		Now:        func() time.Time { return fixedNow },
		Logger:     zap.NewNop(),
	})
}

func strPtr(s string) *string { return &s }

func TestListBoard(t *testing.T) {
	t.Run("splits active and closed", func(t *testing.T) {
		repo := &mocks.MockTicketRepository{
			ListFunc: func(ctx context.Context) ([]domain.Ticket, error) { return sampleTickets(), nil },
		}
		board, err := newTicketService(repo, nil).ListBoard(context.Background())
		require.NoError(t, err)
		assert.Len(t, board.Active, 4)
		require.Len(t, board.Closed, 1)
		assert.Equal(t, "TICKET-5", board.Closed[0].ID)
	})

	t.Run("unknown store status is not active", func(t *testing.T) {
		repo := &mocks.MockTicketRepository{
			ListFunc: func(ctx context.Context) ([]domain.Ticket, error) {
				return []domain.Ticket{
					{ID: "TICKET-1", Status: domain.TicketStatusOpen},
					{ID: "TICKET-2", Status: domain.TicketStatus("Done")},
				}, nil
			},
		}
		board, err := newTicketService(repo, nil).ListBoard(context.Background())
		require.NoError(t, err)
		require.Len(t, board.Active, 1)
		require.Len(t, board.Closed, 1)
		assert.Equal(t, "TICKET-2", board.Closed[0].ID)
	})

	t.Run("store failure", func(t *testing.T) {
		repo := &mocks.MockTicketRepository{
			ListFunc: func(ctx context.Context) ([]domain.Ticket, error) { return nil, errors.New("down") },
		}
		_, err := newTicketService(repo, nil).ListBoard(context.Background())
		assert.Equal(t, "DEPENDENCY_UNAVAILABLE", apperrors.ToDomainError(err).Code)
	})
}

func TestCreateTicket(t *testing.T) {
	t.Run("numbers after latest and applies defaults", func(t *testing.T) {
		var stored *domain.Ticket
		repo := &mocks.MockTicketRepository{
			LatestIDFunc: func(ctx context.Context) (string, error) { return "TICKET-41", nil },
			CreateFunc: func(ctx context.Context, ticket *domain.Ticket) error {
				stored = ticket
				ticket.PageID = "page-42"
				return nil
			},
		}
		dispatcher := events.NewInMemoryDispatcher()
		var published []events.Event
		dispatcher.Subscribe(events.EventTicketCreated, func(ctx context.Context, e events.Event) error {
			published = append(published, e)
			return nil
		})

		ticket, err := newTicketService(repo, dispatcher).CreateTicket(context.Background(), TicketCreateInput{
			Issue:     "  Restock paper  ",
			CreatedBy: "Ayesha",
		})
		require.NoError(t, err)
		assert.Same(t, stored, ticket)
		assert.Equal(t, "TICKET-42", ticket.ID)
		assert.Equal(t, "Restock paper", ticket.Issue)
		assert.Equal(t, domain.TicketStatusOpen, ticket.Status)
		assert.Equal(t, domain.TicketPriorityMedium, ticket.Priority)
		assert.Equal(t, "Hira", ticket.AssignedTo)
		assert.Equal(t, domain.TicketKindNormal, ticket.Kind)
		assert.Equal(t, domain.NotifyYes, ticket.Notify)
		// 16:20 UTC is already the 14th, 21:20 in PKT
		assert.Equal(t, "2025-03-14", ticket.DateSubmitted.Format(domain.DateLayout))
		assert.Equal(t, "21:20:05", ticket.SubmittedTime)
		assert.Nil(t, ticket.ResolvedDate)

		require.Len(t, published, 1)
		assert.Equal(t, "TICKET-42", published[0].TicketID)
	})

	t.Run("first ticket and personal kind", func(t *testing.T) {
		repo := &mocks.MockTicketRepository{
			LatestIDFunc: func(ctx context.Context) (string, error) { return "", nil },
			CreateFunc:   func(ctx context.Context, ticket *domain.Ticket) error { return nil },
		}
		ticket, err := newTicketService(repo, nil).CreateTicket(context.Background(), TicketCreateInput{
			Issue:      "Plan week",
			CreatedBy:  "Bilal",
			AssignedTo: "Bilal",
			Priority:   "High",
			Notify:     "No",
		})
		require.NoError(t, err)
		assert.Equal(t, "TICKET-1", ticket.ID)
		assert.Equal(t, domain.TicketKindPersonal, ticket.Kind)
		assert.Equal(t, domain.TicketPriorityHigh, ticket.Priority)
		assert.Equal(t, domain.NotifyNo, ticket.Notify)
	})

	t.Run("validation", func(t *testing.T) {
		repo := &mocks.MockTicketRepository{}
		_, err := newTicketService(repo, nil).CreateTicket(context.Background(), TicketCreateInput{
			Issue:      " ",
			Priority:   "Urgent",
			CreatedBy:  "Stranger",
			AssignedTo: "Nobody",
			Notify:     "Maybe",
		})
		domainErr := apperrors.ToDomainError(err)
		require.NotNil(t, domainErr)
		assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
		assert.Len(t, domainErr.Details, 5)
	})

	t.Run("latest lookup failure fails the create", func(t *testing.T) {
		repo := &mocks.MockTicketRepository{
			LatestIDFunc: func(ctx context.Context) (string, error) { return "", errors.New("down") },
			CreateFunc: func(ctx context.Context, ticket *domain.Ticket) error {
				t.Fatal("create must not be called")
				return nil
			},
		}
		_, err := newTicketService(repo, nil).CreateTicket(context.Background(), TicketCreateInput{Issue: "x", CreatedBy: "Ayesha"})
		assert.Equal(t, "DEPENDENCY_UNAVAILABLE", apperrors.ToDomainError(err).Code)
	})
}

func TestUpdateTicket(t *testing.T) {
	stored := func() *domain.Ticket {
		return &domain.Ticket{
			PageID: "p1", ID: "TICKET-7", Issue: "Fix invoice",
			Status: domain.TicketStatusOpen, Priority: domain.TicketPriorityLow,
			CreatedBy: "Ayesha", AssignedTo: "Bilal", Kind: domain.TicketKindNormal,
		}
	}

	t.Run("closing stamps resolution", func(t *testing.T) {
		var written *domain.Ticket
		repo := &mocks.MockTicketRepository{
			GetFunc: func(ctx context.Context, pageID string) (*domain.Ticket, error) { return stored(), nil },
			UpdateFunc: func(ctx context.Context, pageID string, ticket *domain.Ticket) error {
				assert.Equal(t, "p1", pageID)
				written = ticket
				return nil
			},
		}
		var changed []string
		dispatcher := events.NewInMemoryDispatcher()
		dispatcher.Subscribe(events.EventTicketUpdated, func(ctx context.Context, e events.Event) error {
			changed = e.Payload.(events.TicketPayload).Changed
			return nil
		})

		ticket, err := newTicketService(repo, dispatcher).UpdateTicket(context.Background(), "p1", TicketUpdateInput{
			Status:   strPtr("Closed"),
			Comments: strPtr("done"),
		})
		require.NoError(t, err)
		assert.Same(t, written, ticket)
		assert.Equal(t, domain.TicketStatusClosed, ticket.Status)
		require.NotNil(t, ticket.ResolvedDate)
		assert.Equal(t, "2025-03-14", ticket.ResolvedDate.Format(domain.DateLayout))
		assert.Equal(t, "21:20:05", ticket.ResolvedTime)
		assert.Equal(t, []string{"comments", "status", "resolved_date"}, changed)
	})

	t.Run("explicit resolved date is kept", func(t *testing.T) {
		repo := &mocks.MockTicketRepository{
			GetFunc:    func(ctx context.Context, pageID string) (*domain.Ticket, error) { return stored(), nil },
			UpdateFunc: func(ctx context.Context, pageID string, ticket *domain.Ticket) error { return nil },
		}
		resolved := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
		ticket, err := newTicketService(repo, nil).UpdateTicket(context.Background(), "p1", TicketUpdateInput{
			Status:       strPtr("Closed"),
			ResolvedDate: &resolved,
		})
		require.NoError(t, err)
		assert.Equal(t, "2025-03-10", ticket.ResolvedDate.Format(domain.DateLayout))
	})

	t.Run("reopening clears resolution", func(t *testing.T) {
		closed := stored()
		closed.SetStatus(domain.TicketStatusClosed, fixedNow)
		repo := &mocks.MockTicketRepository{
			GetFunc:    func(ctx context.Context, pageID string) (*domain.Ticket, error) { return closed, nil },
			UpdateFunc: func(ctx context.Context, pageID string, ticket *domain.Ticket) error { return nil },
		}
		ticket, err := newTicketService(repo, nil).UpdateTicket(context.Background(), "p1", TicketUpdateInput{
			Status: strPtr("In Progress"),
		})
		require.NoError(t, err)
		assert.Nil(t, ticket.ResolvedDate)
		assert.Empty(t, ticket.ResolvedTime)
	})

	t.Run("unknown store status survives a comment edit", func(t *testing.T) {
		done := stored()
		done.Status = domain.TicketStatus("Done")
		resolved := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
		done.ResolvedDate = &resolved
		var written *domain.Ticket
		repo := &mocks.MockTicketRepository{
			GetFunc: func(ctx context.Context, pageID string) (*domain.Ticket, error) { return done, nil },
			UpdateFunc: func(ctx context.Context, pageID string, ticket *domain.Ticket) error {
				written = ticket
				return nil
			},
		}
		_, err := newTicketService(repo, nil).UpdateTicket(context.Background(), "p1", TicketUpdateInput{
			Comments: strPtr("checked"),
		})
		require.NoError(t, err)
		require.NotNil(t, written)
		assert.Equal(t, domain.TicketStatus("Done"), written.Status)
		require.NotNil(t, written.ResolvedDate)
		assert.Equal(t, "2025-03-01", written.ResolvedDate.Format(domain.DateLayout))
	})

	t.Run("no changes skips the write", func(t *testing.T) {
		repo := &mocks.MockTicketRepository{
			GetFunc: func(ctx context.Context, pageID string) (*domain.Ticket, error) { return stored(), nil },
		}
		ticket, err := newTicketService(repo, nil).UpdateTicket(context.Background(), "p1", TicketUpdateInput{
			Issue: strPtr("Fix invoice"),
		})
		require.NoError(t, err)
		assert.Equal(t, "TICKET-7", ticket.ID)
	})

	t.Run("invalid values", func(t *testing.T) {
		repo := &mocks.MockTicketRepository{
			GetFunc: func(ctx context.Context, pageID string) (*domain.Ticket, error) { return stored(), nil },
		}
		_, err := newTicketService(repo, nil).UpdateTicket(context.Background(), "p1", TicketUpdateInput{
			Issue:    strPtr(""),
			Status:   strPtr("Blocked"),
			Priority: strPtr("Urgent"),
		})
		domainErr := apperrors.ToDomainError(err)
		assert.Equal(t, "VALIDATION_FAILED", domainErr.Code)
		assert.Len(t, domainErr.Details, 3)
	})

	t.Run("missing page", func(t *testing.T) {
		repo := &mocks.MockTicketRepository{
			GetFunc: func(ctx context.Context, pageID string) (*domain.Ticket, error) {
				return nil, &notion.APIError{Code: notion.ErrCodeObjectNotFound, StatusCode: 404}
			},
		}
		_, err := newTicketService(repo, nil).UpdateTicket(context.Background(), "gone", TicketUpdateInput{})
		assert.Equal(t, "NOT_FOUND", apperrors.ToDomainError(err).Code)
	})
}

func TestPeople(t *testing.T) {
	svc := newTicketService(&mocks.MockTicketRepository{}, nil)
	assert.Equal(t, []string{"Ayesha", "Bilal", "Chen", "Hira"}, svc.People())
}
