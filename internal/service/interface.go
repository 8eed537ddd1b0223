package service

import (
	"context"
	"time"
)

// Messenger is the chat surface the reminder flow needs.
type Messenger interface {
	LookupUserByEmail(ctx context.Context, email string) (string, error)
	PostMessage(ctx context.Context, channel, text string) error
}

// Cacher stores JSON-encodable values with expiry.
type Cacher interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
}
