package mocks

import (
	"context"
	"errors"
	"time"
)

// MockCacher is a function-based mock of the cache interface.
type MockCacher struct {
	GetFunc func(ctx context.Context, key string, dest any) error
	SetFunc func(ctx context.Context, key string, value any, expiration time.Duration) error
}

// Get implements the cache interface
func (m *MockCacher) Get(ctx context.Context, key string, dest any) error {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, key, dest)
	}
	return errors.New("cache miss")
}

// Set implements the cache interface
func (m *MockCacher) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	if m.SetFunc != nil {
		return m.SetFunc(ctx, key, value, expiration)
	}
	return nil
}
