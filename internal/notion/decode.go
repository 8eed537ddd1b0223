package notion

import (
	"strings"
	"time"

	"github.com/spec-kit/ticket-reminder/internal/domain"
)

// decodeTicket turns a database page into a ticket. Missing or malformed
// properties fall back to fixed defaults and never fail the page.
func decodeTicket(p page) domain.Ticket {
	props := p.Properties

	id := titleText(props[PropID])
	if id == "" || !strings.Contains(id, "-") {
		id = domain.DefaultTicketID
	}

	// only a missing status defaults to Open; unknown names are kept as is
	status := domain.TicketStatusOpen
	if raw := strings.TrimSpace(selectName(props[PropStatus])); raw != "" {
		parsed, ok := domain.ParseStatus(raw)
		if !ok {
			parsed = domain.TicketStatus(raw)
		}
		status = parsed
	}
	priority, ok := domain.ParsePriority(selectName(props[PropPriority]))
	if !ok {
		priority = domain.TicketPriorityMedium
	}

	ticket := domain.Ticket{
		PageID:        p.ID,
		ID:            id,
		Issue:         plainText(props[PropIssue]),
		Status:        status,
		Priority:      priority,
		DateSubmitted: dateStart(props[PropDateSubmitted]),
		SubmittedTime: plainText(props[PropSubmittedTime]),
		ResolvedDate:  dateStart(props[PropResolvedDate]),
		ResolvedTime:  plainText(props[PropResolvedTime]),
		CreatedBy:     selectName(props[PropCreatedBy]),
		AssignedTo:    selectName(props[PropAssignedTo]),
		Comments:      plainText(props[PropComments]),
		Kind:          domain.TicketKind(plainText(props[PropTicketType])),
		Notify:        domain.NotifyFlag(plainText(props[PropNotify])),
	}
	if created, err := time.Parse(time.RFC3339, p.CreatedTime); err == nil {
		ticket.CreatedAt = created
	}
	if ticket.Kind == "" {
		ticket.Kind = domain.KindFor(ticket.CreatedBy, ticket.AssignedTo)
	}
	if ticket.Notify == "" {
		ticket.Notify = domain.NotifyYes
	}
	return ticket
}

func titleText(v propertyValue) string {
	return firstText(v.Title)
}

func plainText(v propertyValue) string {
	return firstText(v.RichText)
}

func firstText(parts []richText) string {
	if len(parts) == 0 {
		return ""
	}
	if parts[0].Text.Content != "" {
		return parts[0].Text.Content
	}
	return parts[0].PlainText
}

func selectName(v propertyValue) string {
	if v.Select == nil {
		return ""
	}
	return v.Select.Name
}

// dateStart accepts both date-only and full timestamp starts.
func dateStart(v propertyValue) *time.Time {
	if v.Date == nil || v.Date.Start == "" {
		return nil
	}
	if t, err := time.Parse(domain.DateLayout, v.Date.Start); err == nil {
		return &t
	}
	if t, err := time.Parse(time.RFC3339, v.Date.Start); err == nil {
		return &t
	}
	return nil
}

func titleProp(content string) map[string]any {
	return map[string]any{"title": []richText{{Text: textBody{Content: content}}}}
}

func richTextProp(content string) map[string]any {
	if content == "" {
		return map[string]any{"rich_text": []richText{}}
	}
	return map[string]any{"rich_text": []richText{{Text: textBody{Content: content}}}}
}

func selectProp(name string) map[string]any {
	return map[string]any{"select": selectOption{Name: name}}
}

func dateProp(t *time.Time) map[string]any {
	if t == nil {
		return map[string]any{"date": nil}
	}
	return map[string]any{"date": dateValue{Start: t.Format(domain.DateLayout)}}
}

// createProperties encodes every column of a new ticket.
func createProperties(t *domain.Ticket) map[string]any {
	props := map[string]any{
		PropID:            titleProp(t.ID),
		PropIssue:         richTextProp(t.Issue),
		PropStatus:        selectProp(string(t.Status)),
		PropPriority:      selectProp(string(t.Priority)),
		PropCreatedBy:     selectProp(t.CreatedBy),
		PropAssignedTo:    selectProp(t.AssignedTo),
		PropSubmittedTime: richTextProp(t.SubmittedTime),
		PropComments:      richTextProp(t.Comments),
		PropTicketType:    richTextProp(string(t.Kind)),
		PropNotify:        richTextProp(string(t.Notify)),
	}
	if t.DateSubmitted != nil {
		props[PropDateSubmitted] = dateProp(t.DateSubmitted)
	}
	return props
}

// updateProperties encodes the editable columns only.
func updateProperties(t *domain.Ticket) map[string]any {
	return map[string]any{
		PropIssue:        richTextProp(t.Issue),
		PropStatus:       selectProp(string(t.Status)),
		PropPriority:     selectProp(string(t.Priority)),
		PropComments:     richTextProp(t.Comments),
		PropResolvedDate: dateProp(t.ResolvedDate),
		PropResolvedTime: richTextProp(t.ResolvedTime),
	}
}
