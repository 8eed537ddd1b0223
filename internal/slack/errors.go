package slack

import (
	"errors"
	"fmt"
)

// APIError is an `"ok": false` reply or a non-2xx status from the Web API.
type APIError struct {
	Code       string
	StatusCode int
}

func (e *APIError) Error() string {
	return fmt.Sprintf("slack: %s (%d)", e.Code, e.StatusCode)
}

// Web API error codes the reminder flow cares about.
const (
	ErrCodeUsersNotFound   = "users_not_found"
	ErrCodeChannelNotFound = "channel_not_found"
	ErrCodeInvalidAuth     = "invalid_auth"
	ErrCodeRateLimited     = "ratelimited"
)

// IsAPIError checks whether err is an *APIError with the given code.
func IsAPIError(err error, code string) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == code
	}
	return false
}
