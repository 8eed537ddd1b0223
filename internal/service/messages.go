package service

import (
	"fmt"
	"strings"

	"github.com/spec-kit/ticket-reminder/internal/domain"
)

const closingReminderText = "🔔 Reminder: Check your open tickets!"

// mention renders a chat at-mention, or the plain name when the ID is unknown.
func mention(id, fallback string) string {
	if id == "" {
		return fallback
	}
	return "<@" + id + ">"
}

func ticketLines(list domain.TicketList) string {
	lines := make([]string, 0, list.Len())
	for i, id := range list.IDs {
		lines = append(lines, fmt.Sprintf("%s: %s", id, list.Issues[i]))
	}
	return strings.Join(lines, "\n")
}

func delegatedReminderText(person, admin string, list domain.TicketList) string {
	return fmt.Sprintf("🔔 *Reminder for:* *%s*\n\n"+
		"Here are your open tickets:\n"+
		"%s\n\n"+
		"‼ Please provide an update to *%s* or update it on the app when possible. 📝",
		person, ticketLines(list), admin)
}

func acknowledgementText(person string) string {
	return fmt.Sprintf("🚀 Notification sent to *%s*!", person)
}

func personalReminderText(person string, list domain.TicketList) string {
	return fmt.Sprintf("🔔 *Personal Reminder for:* *%s*\n\n"+
		"Here are your personal tickets reminders:\n"+
		"%s\n\n", person, ticketLines(list))
}

func printingDigestText(admin string, list domain.TicketList) string {
	return fmt.Sprintf("🔔 *Printing Reminder for:* *%s*\n\n"+
		"Pending Prints:\n"+
		"%s\n\n", admin, ticketLines(list))
}

func ticketEventText(event, owner string, t *domain.Ticket) string {
	return fmt.Sprintf("🎫 *Ticket %s* %s for *%s*\n%s: %s\nStatus: %s | Priority: %s",
		t.ID, event, owner, t.ID, t.Issue, t.Status, t.Priority)
}
