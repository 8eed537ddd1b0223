package service

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-reminder/internal/domain"
	"github.com/spec-kit/ticket-reminder/internal/events"
	"github.com/spec-kit/ticket-reminder/internal/notion"
	"github.com/spec-kit/ticket-reminder/internal/repository"
	apperrors "github.com/spec-kit/ticket-reminder/pkg/util/errorutil"
)

const ticketStore = "ticket store"

// TicketService coordinates ticket workflows for the dashboard.
type TicketService struct {
	tickets    repository.TicketRepository
	roster     domain.Roster
	adminName  string
	dispatcher events.Dispatcher
	location   *time.Location
	now        func() time.Time
	logger     *zap.Logger

	// serialises latest-ID lookup and insert
	createMu sync.Mutex
}

// TicketDependencies bundles collaborators for ticket service.
type TicketDependencies struct {
	TicketRepo repository.TicketRepository
	Roster     domain.Roster
	AdminName  string
	Dispatcher events.Dispatcher
	Location   *time.Location
	Now        func() time.Time
	Logger     *zap.Logger
}

// TicketCreateInput describes ticket creation payload.
type TicketCreateInput struct {
	Issue         string
	Priority      string
	CreatedBy     string
	AssignedTo    string
	DateSubmitted *time.Time
	Comments      string
	Notify        string
}

// TicketUpdateInput holds the editable columns; nil leaves a column as is.
type TicketUpdateInput struct {
	Issue        *string
	Status       *string
	Priority     *string
	Comments     *string
	ResolvedDate *time.Time
}

// TicketBoard splits a snapshot into tickets needing attention and finished ones.
type TicketBoard struct {
	Active []domain.Ticket
	Closed []domain.Ticket
}

// NewTicketService constructs the service.
func NewTicketService(deps TicketDependencies) *TicketService {
	loc := deps.Location
	if loc == nil {
		loc = time.UTC
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		tickets:    deps.TicketRepo,
		roster:     deps.Roster,
		adminName:  deps.AdminName,
		dispatcher: deps.Dispatcher,
		location:   loc,
		now:        now,
		logger:     logger.Named("tickets"),
	}
}

// People lists the roster names tickets can be raised by or assigned to.
func (s *TicketService) People() []string {
	return s.roster.Names()
}

// ListBoard fetches all tickets, newest first, split into Open or In Progress
// and everything else.
func (s *TicketService) ListBoard(ctx context.Context) (*TicketBoard, error) {
	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, apperrors.NewUnavailable(ticketStore, err)
	}
	board := &TicketBoard{Active: []domain.Ticket{}, Closed: []domain.Ticket{}}
	for _, t := range tickets {
		if t.IsActive() {
			board.Active = append(board.Active, t)
		} else {
			board.Closed = append(board.Closed, t)
		}
	}
	return board, nil
}

// CreateTicket validates input, numbers the ticket after the newest one and stores it.
func (s *TicketService) CreateTicket(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	ticket, err := s.newTicket(input)
	if err != nil {
		return nil, err
	}

	s.createMu.Lock()
	defer s.createMu.Unlock()

	latestID, err := s.tickets.LatestID(ctx)
	if err != nil {
		return nil, apperrors.NewUnavailable(ticketStore, err)
	}
	ticket.ID = domain.NextTicketID(latestID)

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return nil, apperrors.NewUnavailable(ticketStore, err)
	}
	s.logger.Info("ticket created", zap.String("ticket_id", ticket.ID), zap.String("created_by", ticket.CreatedBy))

	s.publishEvent(ctx, events.NewTicketEvent(events.EventTicketCreated, *ticket, nil, s.now()))
	return ticket, nil
}

func (s *TicketService) newTicket(input TicketCreateInput) (*domain.Ticket, error) {
	details := map[string]any{}

	issue := strings.TrimSpace(input.Issue)
	if issue == "" {
		details["issue"] = "required"
	}

	priority := domain.TicketPriorityMedium
	if strings.TrimSpace(input.Priority) != "" {
		p, ok := domain.ParsePriority(input.Priority)
		if !ok {
			details["priority"] = "must be one of High, Medium, Low"
		}
		priority = p
	}

	createdBy := strings.TrimSpace(input.CreatedBy)
	if createdBy == "" {
		details["created_by"] = "required"
	} else if !s.knownPerson(createdBy) {
		details["created_by"] = "not in roster"
	}

	assignedTo := strings.TrimSpace(input.AssignedTo)
	if assignedTo == "" {
		assignedTo = s.adminName
	}
	if assignedTo == "" {
		details["assigned_to"] = "required"
	} else if !s.knownPerson(assignedTo) {
		details["assigned_to"] = "not in roster"
	}

	notify := domain.NotifyYes
	switch domain.NotifyFlag(strings.TrimSpace(input.Notify)) {
	case "", domain.NotifyYes:
	case domain.NotifyNo:
		notify = domain.NotifyNo
	default:
		details["notify"] = "must be Yes or No"
	}

	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid ticket", details)
	}

	now := s.now().In(s.location)
	submitted := dayOf(now)
	if input.DateSubmitted != nil {
		submitted = dayOf(*input.DateSubmitted)
	}

	return &domain.Ticket{
		Issue:         issue,
		Status:        domain.TicketStatusOpen,
		Priority:      priority,
		DateSubmitted: &submitted,
		SubmittedTime: now.Format(domain.TimeLayout),
		CreatedBy:     createdBy,
		AssignedTo:    assignedTo,
		Comments:      strings.TrimSpace(input.Comments),
		Kind:          domain.KindFor(createdBy, assignedTo),
		Notify:        notify,
	}, nil
}

// UpdateTicket applies input to the ticket stored at pageID. Identifier,
// parties, kind and submission stamp are never changed.
func (s *TicketService) UpdateTicket(ctx context.Context, pageID string, input TicketUpdateInput) (*domain.Ticket, error) {
	if strings.TrimSpace(pageID) == "" {
		return nil, apperrors.NewValidationError("page id required", nil)
	}

	ticket, err := s.tickets.Get(ctx, pageID)
	if err != nil {
		if notion.IsNotFound(err) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"page_id": pageID})
		}
		return nil, apperrors.NewUnavailable(ticketStore, err)
	}

	changed, err := s.applyUpdate(ticket, input)
	if err != nil {
		return nil, err
	}
	if len(changed) == 0 {
		return ticket, nil
	}

	if err := s.tickets.Update(ctx, pageID, ticket); err != nil {
		if notion.IsNotFound(err) {
			return nil, apperrors.NewNotFound("ticket", map[string]any{"page_id": pageID})
		}
		return nil, apperrors.NewUnavailable(ticketStore, err)
	}
	s.logger.Info("ticket updated", zap.String("ticket_id", ticket.ID), zap.Strings("changed", changed))

	s.publishEvent(ctx, events.NewTicketEvent(events.EventTicketUpdated, *ticket, changed, s.now()))
	return ticket, nil
}

func (s *TicketService) applyUpdate(ticket *domain.Ticket, input TicketUpdateInput) ([]string, error) {
	details := map[string]any{}
	var changed []string

	if input.Issue != nil {
		issue := strings.TrimSpace(*input.Issue)
		if issue == "" {
			details["issue"] = "must not be blank"
		} else if issue != ticket.Issue {
			ticket.Issue = issue
			changed = append(changed, "issue")
		}
	}

	status := ticket.Status
	if input.Status != nil {
		parsed, ok := domain.ParseStatus(*input.Status)
		if !ok {
			details["status"] = "must be one of Open, In Progress, Closed"
		}
		status = parsed
	}

	if input.Priority != nil {
		parsed, ok := domain.ParsePriority(*input.Priority)
		if !ok {
			details["priority"] = "must be one of High, Medium, Low"
		} else if parsed != ticket.Priority {
			ticket.Priority = parsed
			changed = append(changed, "priority")
		}
	}

	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid update", details)
	}

	if input.Comments != nil {
		comments := strings.TrimSpace(*input.Comments)
		if comments != ticket.Comments {
			ticket.Comments = comments
			changed = append(changed, "comments")
		}
	}

	prevStatus := ticket.Status
	prevResolved := formatDay(ticket.ResolvedDate)
	if input.ResolvedDate != nil && status == domain.TicketStatusClosed {
		day := dayOf(*input.ResolvedDate)
		ticket.ResolvedDate = &day
	}
	// a status this service does not know is left as the store has it
	if _, known := domain.ParseStatus(string(status)); known {
		ticket.SetStatus(status, s.now().In(s.location))
	}
	if ticket.Status != prevStatus {
		changed = append(changed, "status")
	}
	if formatDay(ticket.ResolvedDate) != prevResolved {
		changed = append(changed, "resolved_date")
	}
	return changed, nil
}

func (s *TicketService) knownPerson(name string) bool {
	if len(s.roster) == 0 {
		return true
	}
	return s.roster.Has(name)
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handlers failed", zap.String("event", string(event.Type)), zap.Error(err))
	}
}

func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func formatDay(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(domain.DateLayout)
}
