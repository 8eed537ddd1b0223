package dto

import (
	"time"

	"github.com/spec-kit/ticket-reminder/internal/domain"
)

// CreateTicketRequest payload.
type CreateTicketRequest struct {
	Issue         string `json:"issue"`
	Priority      string `json:"priority"`
	CreatedBy     string `json:"created_by"`
	AssignedTo    string `json:"assigned_to"`
	DateSubmitted string `json:"date_submitted"`
	Comments      string `json:"comments"`
	Notify        string `json:"notify"`
}

// UpdateTicketRequest payload. Omitted fields are left unchanged.
type UpdateTicketRequest struct {
	Issue        *string `json:"issue"`
	Status       *string `json:"status"`
	Priority     *string `json:"priority"`
	Comments     *string `json:"comments"`
	ResolvedDate *string `json:"resolved_date"`
}

// TicketResponse mirrors one row of the ticket database.
type TicketResponse struct {
	PageID        string                `json:"page_id"`
	ID            string                `json:"id"`
	Issue         string                `json:"issue"`
	Status        domain.TicketStatus   `json:"status"`
	Priority      domain.TicketPriority `json:"priority"`
	DateSubmitted *string               `json:"date_submitted"`
	SubmittedTime string                `json:"submitted_time"`
	ResolvedDate  *string               `json:"resolved_date"`
	ResolvedTime  string                `json:"resolved_time"`
	CreatedBy     string                `json:"created_by"`
	AssignedTo    string                `json:"assigned_to"`
	Comments      string                `json:"comments"`
	TicketType    domain.TicketKind     `json:"ticket_type"`
	Notify        domain.NotifyFlag     `json:"notify"`
	CreatedAt     *time.Time            `json:"created_at,omitempty"`
}

// TicketBoardResponse separates active from closed tickets.
type TicketBoardResponse struct {
	Active      []TicketResponse `json:"active"`
	Closed      []TicketResponse `json:"closed"`
	ActiveCount int              `json:"active_count"`
	ClosedCount int              `json:"closed_count"`
}

// NewTicketResponse converts a domain ticket.
func NewTicketResponse(t *domain.Ticket) TicketResponse {
	resp := TicketResponse{
		PageID:        t.PageID,
		ID:            t.ID,
		Issue:         t.Issue,
		Status:        t.Status,
		Priority:      t.Priority,
		DateSubmitted: formatDate(t.DateSubmitted),
		SubmittedTime: t.SubmittedTime,
		ResolvedDate:  formatDate(t.ResolvedDate),
		ResolvedTime:  t.ResolvedTime,
		CreatedBy:     t.CreatedBy,
		AssignedTo:    t.AssignedTo,
		Comments:      t.Comments,
		TicketType:    t.Kind,
		Notify:        t.Notify,
	}
	if !t.CreatedAt.IsZero() {
		created := t.CreatedAt
		resp.CreatedAt = &created
	}
	return resp
}

// NewTicketResponses converts a list of domain tickets.
func NewTicketResponses(tickets []domain.Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for i := range tickets {
		out = append(out, NewTicketResponse(&tickets[i]))
	}
	return out
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(domain.DateLayout)
	return &s
}
