package domain

import (
	"sort"
	"strings"
)

// Roster maps person display names to contact emails.
type Roster map[string]string

// Email returns the contact email for name.
func (r Roster) Email(name string) (string, bool) {
	email, ok := r[name]
	if !ok || strings.TrimSpace(email) == "" {
		return "", false
	}
	return email, true
}

// Has reports whether name is a known person.
func (r Roster) Has(name string) bool {
	_, ok := r[name]
	return ok
}

// Names lists roster members alphabetically.
func (r Roster) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
