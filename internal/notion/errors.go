package notion

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a structured error response from the Notion API.
type APIError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("notion: %s (%d): %s", e.Code, e.StatusCode, e.Message)
}

// Common Notion error codes.
const (
	ErrCodeObjectNotFound = "object_not_found"
	ErrCodeUnauthorized   = "unauthorized"
	ErrCodeRateLimited    = "rate_limited"
	ErrCodeValidation     = "validation_error"
)

// IsNotFound reports whether err is a Notion 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == ErrCodeObjectNotFound || apiErr.StatusCode == http.StatusNotFound
	}
	return false
}
