package mocks

import (
	"context"
	"errors"
)

// MockMessenger is a function-based mock of the chat client.
type MockMessenger struct {
	LookupUserByEmailFunc func(ctx context.Context, email string) (string, error)
	PostMessageFunc       func(ctx context.Context, channel, text string) error
}

// LookupUserByEmail implements the messenger interface
func (m *MockMessenger) LookupUserByEmail(ctx context.Context, email string) (string, error) {
	if m.LookupUserByEmailFunc != nil {
		return m.LookupUserByEmailFunc(ctx, email)
	}
	return "", errors.New("LookupUserByEmailFunc not implemented")
}

// PostMessage implements the messenger interface
func (m *MockMessenger) PostMessage(ctx context.Context, channel, text string) error {
	if m.PostMessageFunc != nil {
		return m.PostMessageFunc(ctx, channel, text)
	}
	return errors.New("PostMessageFunc not implemented")
}
