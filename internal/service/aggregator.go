package service

import (
	"sort"
	"strings"

	"github.com/spec-kit/ticket-reminder/internal/domain"
)

// AggregateOptions tunes classification.
type AggregateOptions struct {
	// PrintingKeywords route delegated tickets whose issue contains any of
	// them (case-insensitive) to the printing bucket. Empty disables it.
	PrintingKeywords []string
}

// Aggregate groups the open tickets of a snapshot per person.
//
// Every non-blank creator or assignee of an Open or In Progress ticket gets a
// bucket. A ticket whose creator differs from its assignee lands in the
// delegated or printing list of both parties; a self-assigned ticket lands
// only in its owner's personal list. Input order is kept within each list
// and People is sorted.
func Aggregate(tickets []domain.Ticket, opts AggregateOptions) *domain.Aggregation {
	keywords := lowerKeywords(opts.PrintingKeywords)
	agg := &domain.Aggregation{Buckets: make(map[string]*domain.PersonBucket)}

	bucketFor := func(name string) *domain.PersonBucket {
		b, ok := agg.Buckets[name]
		if !ok {
			b = &domain.PersonBucket{}
			agg.Buckets[name] = b
			agg.People = append(agg.People, name)
		}
		return b
	}

	for _, t := range tickets {
		if !t.IsActive() {
			continue
		}
		creator := strings.TrimSpace(t.CreatedBy)
		assignee := strings.TrimSpace(t.AssignedTo)

		if t.IsSelfAssigned() {
			if creator != "" {
				bucketFor(creator).Personal.Add(t)
			}
			continue
		}

		printing := matchesAny(t.Issue, keywords)
		for _, name := range []string{creator, assignee} {
			if name == "" {
				continue
			}
			b := bucketFor(name)
			if printing {
				b.Printing.Add(t)
			} else {
				b.Delegated.Add(t)
			}
		}
	}

	sort.Strings(agg.People)
	return agg
}

func lowerKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, k := range keywords {
		if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
			out = append(out, k)
		}
	}
	return out
}

func matchesAny(issue string, keywords []string) bool {
	if len(keywords) == 0 {
		return false
	}
	issue = strings.ToLower(issue)
	for _, k := range keywords {
		if strings.Contains(issue, k) {
			return true
		}
	}
	return false
}
