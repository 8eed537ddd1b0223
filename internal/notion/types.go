package notion

// Property names of the ticket database.
const (
	PropID            = "ID"
	PropIssue         = "Issue"
	PropStatus        = "Status"
	PropPriority      = "Priority"
	PropDateSubmitted = "Date Submitted"
	PropSubmittedTime = "Submitted Time"
	PropCreatedBy     = "Created By"
	PropAssignedTo    = "Assigned To"
	PropResolvedDate  = "Resolved Date"
	PropResolvedTime  = "Resolved Time"
	PropComments      = "Comments"
	PropTicketType    = "Ticket Type"
	PropNotify        = "Notify"
)

// SortDirection orders query results by page creation time.
type SortDirection string

const (
	Ascending  SortDirection = "ascending"
	Descending SortDirection = "descending"
)

type richText struct {
	Type      string   `json:"type,omitempty"`
	Text      textBody `json:"text"`
	PlainText string   `json:"plain_text,omitempty"`
}

type textBody struct {
	Content string `json:"content"`
}

type selectOption struct {
	Name string `json:"name"`
}

type dateValue struct {
	Start string  `json:"start"`
	End   *string `json:"end,omitempty"`
}

// propertyValue covers every property type the ticket database uses. Only
// the field matching the property type is populated by the API.
type propertyValue struct {
	Title    []richText    `json:"title,omitempty"`
	RichText []richText    `json:"rich_text,omitempty"`
	Select   *selectOption `json:"select,omitempty"`
	Date     *dateValue    `json:"date,omitempty"`
}

type page struct {
	ID          string                   `json:"id"`
	CreatedTime string                   `json:"created_time"`
	Properties  map[string]propertyValue `json:"properties"`
}

type querySort struct {
	Timestamp string        `json:"timestamp"`
	Direction SortDirection `json:"direction"`
}

type queryRequest struct {
	StartCursor string      `json:"start_cursor,omitempty"`
	PageSize    int         `json:"page_size,omitempty"`
	Sorts       []querySort `json:"sorts,omitempty"`
}

type queryResponse struct {
	Results    []page  `json:"results"`
	HasMore    bool    `json:"has_more"`
	NextCursor *string `json:"next_cursor"`
}

type parent struct {
	DatabaseID string `json:"database_id"`
}

type createPageRequest struct {
	Parent     parent         `json:"parent"`
	Properties map[string]any `json:"properties"`
}

type updatePageRequest struct {
	Properties map[string]any `json:"properties"`
}
