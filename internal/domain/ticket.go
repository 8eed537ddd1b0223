package domain

import (
	"strconv"
	"strings"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "Open"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusClosed     TicketStatus = "Closed"
)

// TicketPriority enumerates urgency.
type TicketPriority string

const (
	TicketPriorityHigh   TicketPriority = "High"
	TicketPriorityMedium TicketPriority = "Medium"
	TicketPriorityLow    TicketPriority = "Low"
)

// TicketKind separates delegated work from self-assigned work.
type TicketKind string

const (
	TicketKindNormal   TicketKind = "Normal"
	TicketKindPersonal TicketKind = "Personal"
)

// NotifyFlag controls whether create/update events message anyone.
type NotifyFlag string

const (
	NotifyYes NotifyFlag = "Yes"
	NotifyNo  NotifyFlag = "No"
)

const (
	// TicketIDPrefix precedes the numeric part of every ticket identifier.
	TicketIDPrefix = "TICKET-"
	// DefaultTicketID replaces identifiers that are missing or malformed in the store.
	DefaultTicketID = "TICKET-0001"

	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// Ticket is one row of the external ticket database.
type Ticket struct {
	PageID        string
	ID            string
	Issue         string
	Status        TicketStatus
	Priority      TicketPriority
	DateSubmitted *time.Time
	SubmittedTime string
	ResolvedDate  *time.Time
	ResolvedTime  string
	CreatedBy     string
	AssignedTo    string
	Comments      string
	Kind          TicketKind
	Notify        NotifyFlag
	CreatedAt     time.Time
}

// IsActive reports whether the ticket still needs attention.
func (t *Ticket) IsActive() bool {
	return t.Status == TicketStatusOpen || t.Status == TicketStatusInProgress
}

// IsSelfAssigned reports whether creator and assignee are the same person,
// ignoring surrounding whitespace.
func (t *Ticket) IsSelfAssigned() bool {
	return strings.TrimSpace(t.CreatedBy) == strings.TrimSpace(t.AssignedTo)
}

// SetStatus changes the status and keeps the resolution stamp in step:
// entering Closed stamps now unless a resolution date is already set,
// leaving Closed clears it.
func (t *Ticket) SetStatus(status TicketStatus, now time.Time) {
	t.Status = status
	if status != TicketStatusClosed {
		t.ResolvedDate = nil
		t.ResolvedTime = ""
		return
	}
	if t.ResolvedDate == nil {
		day := truncateDay(now)
		t.ResolvedDate = &day
	}
	if t.ResolvedTime == "" {
		t.ResolvedTime = now.Format(TimeLayout)
	}
}

// KindFor derives the kind of a new ticket from its parties.
func KindFor(createdBy, assignedTo string) TicketKind {
	if createdBy == assignedTo {
		return TicketKindPersonal
	}
	return TicketKindNormal
}

// TicketNumber extracts the numeric suffix of an identifier, or 0 when there is none.
func TicketNumber(id string) int {
	_, suffix, found := strings.Cut(id, "-")
	if !found {
		return 0
	}
	n, err := strconv.Atoi(strings.TrimSpace(suffix))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// NextTicketID returns the identifier following latest.
func NextTicketID(latest string) string {
	return TicketIDPrefix + strconv.Itoa(TicketNumber(latest)+1)
}

// ParseStatus maps a store value onto a known status.
func ParseStatus(raw string) (TicketStatus, bool) {
	switch TicketStatus(strings.TrimSpace(raw)) {
	case TicketStatusOpen:
		return TicketStatusOpen, true
	case TicketStatusInProgress:
		return TicketStatusInProgress, true
	case TicketStatusClosed:
		return TicketStatusClosed, true
	}
	return "", false
}

// ParsePriority maps a store value onto a known priority.
func ParsePriority(raw string) (TicketPriority, bool) {
	switch TicketPriority(strings.TrimSpace(raw)) {
	case TicketPriorityHigh:
		return TicketPriorityHigh, true
	case TicketPriorityMedium:
		return TicketPriorityMedium, true
	case TicketPriorityLow:
		return TicketPriorityLow, true
	}
	return "", false
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
