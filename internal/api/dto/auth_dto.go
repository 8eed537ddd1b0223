package dto

import "time"

// LoginRequest payload.
type LoginRequest struct {
	Password string `json:"password"`
}

// LoginResponse carries the admin access token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
