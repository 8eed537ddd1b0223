package dto

import (
	"time"

	"github.com/spec-kit/ticket-reminder/internal/domain"
)

// DeliveryResponse describes one message attempt.
type DeliveryResponse struct {
	Person  string                `json:"person"`
	Channel string                `json:"channel,omitempty"`
	Kind    domain.MessageKind    `json:"kind"`
	Status  domain.DeliveryStatus `json:"status"`
	Reason  string                `json:"reason,omitempty"`
	At      time.Time             `json:"at"`
}

// ReminderRunResponse summarizes a reminder run.
type ReminderRunResponse struct {
	ID          string             `json:"id"`
	StartedAt   time.Time          `json:"started_at"`
	FinishedAt  time.Time          `json:"finished_at"`
	TicketCount int                `json:"ticket_count"`
	PeopleCount int                `json:"people_count"`
	Sent        int                `json:"sent"`
	Skipped     int                `json:"skipped"`
	Failed      int                `json:"failed"`
	Deliveries  []DeliveryResponse `json:"deliveries,omitempty"`
}

// NewReminderRunResponse converts a run, including deliveries when loaded.
func NewReminderRunResponse(run *domain.ReminderRun) ReminderRunResponse {
	return ReminderRunResponse{
		ID:          run.ID,
		StartedAt:   run.StartedAt,
		FinishedAt:  run.FinishedAt,
		TicketCount: run.TicketCount,
		PeopleCount: run.PeopleCount,
		Sent:        run.Sent,
		Skipped:     run.Skipped,
		Failed:      run.Failed,
		Deliveries:  NewDeliveryResponses(run.Deliveries),
	}
}

// NewDeliveryResponses converts delivery records.
func NewDeliveryResponses(deliveries []domain.Delivery) []DeliveryResponse {
	out := make([]DeliveryResponse, 0, len(deliveries))
	for _, d := range deliveries {
		out = append(out, DeliveryResponse{
			Person:  d.Person,
			Channel: d.Channel,
			Kind:    d.Kind,
			Status:  d.Status,
			Reason:  d.Reason,
			At:      d.At,
		})
	}
	return out
}
