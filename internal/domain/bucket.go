package domain

// TicketList holds index-aligned ticket identifiers and issue texts.
type TicketList struct {
	IDs    []string
	Issues []string
}

// Add appends one ticket, keeping IDs and Issues aligned.
func (l *TicketList) Add(t Ticket) {
	l.IDs = append(l.IDs, t.ID)
	l.Issues = append(l.Issues, t.Issue)
}

// Len returns the number of tickets held.
func (l *TicketList) Len() int {
	if l == nil {
		return 0
	}
	return len(l.IDs)
}

// Empty reports whether no tickets are held.
func (l *TicketList) Empty() bool {
	return l.Len() == 0
}

// PersonBucket groups one person's open tickets by classification.
type PersonBucket struct {
	Delegated TicketList
	Printing  TicketList
	Personal  TicketList
}

// Aggregation is the per-person grouping of a ticket snapshot.
type Aggregation struct {
	People  []string
	Buckets map[string]*PersonBucket
}

// Bucket returns the bucket for name, or an empty bucket when there is none.
func (a *Aggregation) Bucket(name string) *PersonBucket {
	if a == nil || a.Buckets == nil {
		return &PersonBucket{}
	}
	if b, ok := a.Buckets[name]; ok && b != nil {
		return b
	}
	return &PersonBucket{}
}

// Empty reports whether the aggregation names nobody.
func (a *Aggregation) Empty() bool {
	return a == nil || len(a.People) == 0
}
