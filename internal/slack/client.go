package slack

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
)

// ClientConfig holds configuration for creating a Client.
type ClientConfig struct {
	BaseURL  string
	BotToken string
	// HTTPClient is used for all requests. If nil, a client with a 10s timeout is used.
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client calls the two Web API methods reminders need.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     *zap.Logger
}

type apiResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error"`
}

type lookupResponse struct {
	apiResponse
	User struct {
		ID string `json:"id"`
	} `json:"user"`
}

type postMessageRequest struct {
	Channel string `json:"channel"`
	Text    string `json:"text"`
}

// NewClient validates cfg and builds a client.
func NewClient(cfg ClientConfig) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("slack: BaseURL is required")
	}
	if _, err := url.Parse(cfg.BaseURL); err != nil {
		return nil, fmt.Errorf("slack: invalid BaseURL %q: %w", cfg.BaseURL, err)
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		token:      cfg.BotToken,
		httpClient: httpClient,
		logger:     logger,
	}, nil
}

// LookupUserByEmail resolves the chat user ID registered to email.
func (c *Client) LookupUserByEmail(ctx context.Context, email string) (string, error) {
	if strings.TrimSpace(email) == "" {
		return "", fmt.Errorf("slack: email is required")
	}
	query := url.Values{"email": {email}}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/users.lookupByEmail?"+query.Encode(), nil)
	if err != nil {
		return "", err
	}

	var response lookupResponse
	if err := c.do(req, &response); err != nil {
		return "", fmt.Errorf("slack: lookup %s: %w", email, err)
	}
	if !response.OK {
		return "", fmt.Errorf("slack: lookup %s: %w", email, &APIError{Code: response.Error, StatusCode: http.StatusOK})
	}
	if response.User.ID == "" {
		return "", fmt.Errorf("slack: lookup %s: %w", email, &APIError{Code: ErrCodeUsersNotFound, StatusCode: http.StatusOK})
	}
	return response.User.ID, nil
}

// PostMessage sends text to a channel or user ID. Posting to a user ID
// delivers it in the bot's direct-message channel with that user.
func (c *Client) PostMessage(ctx context.Context, channel, text string) error {
	if channel == "" {
		return fmt.Errorf("slack: channel is required")
	}
	payload, err := json.Marshal(postMessageRequest{Channel: channel, Text: text})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat.postMessage", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")

	var response apiResponse
	if err := c.do(req, &response); err != nil {
		return fmt.Errorf("slack: post to %s: %w", channel, err)
	}
	if !response.OK {
		return fmt.Errorf("slack: post to %s: %w", channel, &APIError{Code: response.Error, StatusCode: http.StatusOK})
	}
	c.logger.Debug("message posted", zap.String("channel", channel))
	return nil
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return &APIError{Code: ErrCodeRateLimited, StatusCode: resp.StatusCode}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Code: http.StatusText(resp.StatusCode), StatusCode: resp.StatusCode}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parse response: %w", err)
	}
	return nil
}
