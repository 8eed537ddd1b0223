package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/ticket-reminder/internal/domain"
)

const (
	defaultPageSize = 100
	maxPageSize     = 100
)

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	BaseURL    string
	Token      string
	DatabaseID string
	Version    string
	PageSize   int
	// HTTPClient is used for all requests. If nil, a client with a 30s timeout is used.
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client reads and writes tickets in one Notion database.
type Client struct {
	baseURL    string
	token      string
	databaseID string
	version    string
	pageSize   int
	httpClient *http.Client
	logger     *zap.Logger
}

// TicketPage is one page of a cursor-paginated query.
type TicketPage struct {
	Tickets    []domain.Ticket
	HasMore    bool
	NextCursor string
}

// NewClient validates cfg and builds a client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("notion: BaseURL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("notion: invalid BaseURL %q: %w", cfg.BaseURL, err)
	}
	if cfg.DatabaseID == "" {
		return nil, fmt.Errorf("notion: DatabaseID is required")
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	pageSize := cfg.PageSize
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.Token,
		databaseID: cfg.DatabaseID,
		version:    cfg.Version,
		pageSize:   pageSize,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// QueryTickets fetches one page of tickets ordered by creation time.
func (c *Client) QueryTickets(ctx context.Context, direction SortDirection, cursor string, pageSize int) (*TicketPage, error) {
	response, err := c.queryPages(ctx, direction, cursor, pageSize)
	if err != nil {
		return nil, err
	}

	result := &TicketPage{
		Tickets: make([]domain.Ticket, 0, len(response.Results)),
		HasMore: response.HasMore,
	}
	for _, p := range response.Results {
		result.Tickets = append(result.Tickets, decodeTicket(p))
	}
	if response.NextCursor != nil {
		result.NextCursor = *response.NextCursor
	}
	return result, nil
}

func (c *Client) queryPages(ctx context.Context, direction SortDirection, cursor string, pageSize int) (*queryResponse, error) {
	if pageSize <= 0 {
		pageSize = c.pageSize
	}
	request := queryRequest{
		StartCursor: cursor,
		PageSize:    pageSize,
		Sorts:       []querySort{{Timestamp: "created_time", Direction: direction}},
	}

	body, err := c.doRequest(ctx, http.MethodPost, "/v1/databases/"+url.PathEscape(c.databaseID)+"/query", request)
	if err != nil {
		return nil, fmt.Errorf("notion: query tickets: %w", err)
	}

	var response queryResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("notion: parse query response: %w", err)
	}
	return &response, nil
}

// ListTickets follows the cursor until the database is exhausted.
func (c *Client) ListTickets(ctx context.Context, direction SortDirection) ([]domain.Ticket, error) {
	var (
		tickets []domain.Ticket
		cursor  string
		pages   int
	)
	for {
		result, err := c.QueryTickets(ctx, direction, cursor, c.pageSize)
		if err != nil {
			return nil, err
		}
		pages++
		tickets = append(tickets, result.Tickets...)
		if !result.HasMore || result.NextCursor == "" {
			break
		}
		cursor = result.NextCursor
	}
	c.logger.Debug("fetched tickets", zap.Int("count", len(tickets)), zap.Int("pages", pages))
	return tickets, nil
}

// LatestTicketID returns the raw identifier of the most recently created
// page. It is empty for an empty database or a page without an identifier,
// unlike decoded tickets which carry the default identifier instead.
func (c *Client) LatestTicketID(ctx context.Context) (string, error) {
	response, err := c.queryPages(ctx, Descending, "", 1)
	if err != nil {
		return "", err
	}
	if len(response.Results) == 0 {
		return "", nil
	}
	return strings.TrimSpace(titleText(response.Results[0].Properties[PropID])), nil
}

// CreateTicket adds a page for ticket and records the new page ID on it.
func (c *Client) CreateTicket(ctx context.Context, ticket *domain.Ticket) error {
	request := createPageRequest{
		Parent:     parent{DatabaseID: c.databaseID},
		Properties: createProperties(ticket),
	}
	body, err := c.doRequest(ctx, http.MethodPost, "/v1/pages", request)
	if err != nil {
		return fmt.Errorf("notion: create ticket %s: %w", ticket.ID, err)
	}

	var created page
	if err := json.Unmarshal(body, &created); err != nil {
		return fmt.Errorf("notion: parse create response: %w", err)
	}
	ticket.PageID = created.ID
	if ts, err := time.Parse(time.RFC3339, created.CreatedTime); err == nil {
		ticket.CreatedAt = ts
	}
	c.logger.Info("created ticket", zap.String("ticket_id", ticket.ID), zap.String("page_id", ticket.PageID))
	return nil
}

// GetTicket loads a single page.
func (c *Client) GetTicket(ctx context.Context, pageID string) (*domain.Ticket, error) {
	body, err := c.doRequest(ctx, http.MethodGet, "/v1/pages/"+url.PathEscape(pageID), nil)
	if err != nil {
		return nil, fmt.Errorf("notion: get page %s: %w", pageID, err)
	}
	var p page
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("notion: parse page: %w", err)
	}
	ticket := decodeTicket(p)
	return &ticket, nil
}

// UpdateTicket writes the editable columns of ticket to pageID.
func (c *Client) UpdateTicket(ctx context.Context, pageID string, ticket *domain.Ticket) error {
	request := updatePageRequest{Properties: updateProperties(ticket)}
	if _, err := c.doRequest(ctx, http.MethodPatch, "/v1/pages/"+url.PathEscape(pageID), request); err != nil {
		return fmt.Errorf("notion: update page %s: %w", pageID, err)
	}
	c.logger.Info("updated ticket", zap.String("ticket_id", ticket.ID), zap.String("page_id", pageID))
	return nil
}

// Ping checks that the database is reachable with the configured token.
func (c *Client) Ping(ctx context.Context) error {
	if _, err := c.doRequest(ctx, http.MethodGet, "/v1/databases/"+url.PathEscape(c.databaseID), nil); err != nil {
		return fmt.Errorf("notion: ping: %w", err)
	}
	return nil
}

func (c *Client) doRequest(ctx context.Context, method, path string, payload any) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", c.version)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if jsonErr := json.Unmarshal(body, apiErr); jsonErr != nil || apiErr.Code == "" {
			apiErr.Code = http.StatusText(resp.StatusCode)
			apiErr.Message = strings.TrimSpace(string(body))
		}
		return nil, apiErr
	}
	return body, nil
}
