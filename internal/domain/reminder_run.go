package domain

import "time"

// MessageKind labels what a delivered chat message was about.
type MessageKind string

const (
	MessageDelegatedReminder MessageKind = "delegated_reminder"
	MessageAcknowledgement   MessageKind = "acknowledgement"
	MessagePersonalReminder  MessageKind = "personal_reminder"
	MessagePrintingDigest    MessageKind = "printing_digest"
	MessageClosingReminder   MessageKind = "closing_reminder"
	MessageTicketEvent       MessageKind = "ticket_event"
)

// DeliveryStatus is the outcome of one message attempt.
type DeliveryStatus string

const (
	DeliverySent    DeliveryStatus = "sent"
	DeliverySkipped DeliveryStatus = "skipped"
	DeliveryFailed  DeliveryStatus = "failed"
)

// Delivery records one message attempt.
type Delivery struct {
	Person  string
	Channel string
	Kind    MessageKind
	Status  DeliveryStatus
	Reason  string
	At      time.Time
}

// ReminderRun summarizes one reminder pass.
type ReminderRun struct {
	ID          string
	StartedAt   time.Time
	FinishedAt  time.Time
	TicketCount int
	PeopleCount int
	Sent        int
	Skipped     int
	Failed      int
	Deliveries  []Delivery
}

// Record appends a delivery and updates the counters.
func (r *ReminderRun) Record(d Delivery) {
	r.Deliveries = append(r.Deliveries, d)
	switch d.Status {
	case DeliverySent:
		r.Sent++
	case DeliverySkipped:
		r.Skipped++
	case DeliveryFailed:
		r.Failed++
	}
}
