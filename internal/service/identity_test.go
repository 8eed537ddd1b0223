package service

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/ticket-reminder/internal/domain"
	"github.com/spec-kit/ticket-reminder/internal/service/mocks"
)

func TestIdentityResolver(t *testing.T) {
	roster := domain.Roster{"Ayesha": "ayesha@example.com", "Blank": ""}

	t.Run("resolves roster name", func(t *testing.T) {
		messenger := &mocks.MockMessenger{
			LookupUserByEmailFunc: func(ctx context.Context, email string) (string, error) {
				assert.Equal(t, "ayesha@example.com", email)
				return "U1", nil
			},
		}
		r := NewIdentityResolver(roster, messenger, nil, time.Hour, zap.NewNop())

		id, err := r.Resolve(context.Background(), "Ayesha")
		require.NoError(t, err)
		assert.Equal(t, "U1", id)
	})

	t.Run("roster miss", func(t *testing.T) {
		r := NewIdentityResolver(roster, &mocks.MockMessenger{}, nil, time.Hour, zap.NewNop())

		_, err := r.Resolve(context.Background(), "Ghost")
		assert.ErrorIs(t, err, ErrNotInRoster)

		_, err = r.Resolve(context.Background(), "Blank")
		assert.ErrorIs(t, err, ErrNotInRoster)
	})

	t.Run("lookup failure propagates", func(t *testing.T) {
		messenger := &mocks.MockMessenger{
			LookupUserByEmailFunc: func(ctx context.Context, email string) (string, error) {
				return "", errors.New("users_not_found")
			},
		}
		r := NewIdentityResolver(roster, messenger, nil, time.Hour, zap.NewNop())

		_, err := r.Resolve(context.Background(), "Ayesha")
		assert.EqualError(t, err, "users_not_found")
	})

	t.Run("cache hit skips lookup", func(t *testing.T) {
		cache := &mocks.MockCacher{
			GetFunc: func(ctx context.Context, key string, dest any) error {
				assert.Equal(t, "chat:user:ayesha@example.com", key)
				*(dest.(*string)) = "UCACHED"
				return nil
			},
		}
		r := NewIdentityResolver(roster, &mocks.MockMessenger{}, cache, time.Hour, zap.NewNop())

		id, err := r.ResolveEmail(context.Background(), "Ayesha@Example.com")
		require.NoError(t, err)
		assert.Equal(t, "UCACHED", id)
	})

	t.Run("cache miss stores result", func(t *testing.T) {
		var stored any
		var ttl time.Duration
		cache := &mocks.MockCacher{
			SetFunc: func(ctx context.Context, key string, value any, expiration time.Duration) error {
				stored, ttl = value, expiration
				return nil
			},
		}
		messenger := &mocks.MockMessenger{
			LookupUserByEmailFunc: func(ctx context.Context, email string) (string, error) { return "U9", nil },
		}
		r := NewIdentityResolver(roster, messenger, cache, 2*time.Hour, zap.NewNop())

		id, err := r.ResolveEmail(context.Background(), "ayesha@example.com")
		require.NoError(t, err)
		assert.Equal(t, "U9", id)
		assert.Equal(t, "U9", stored)
		assert.Equal(t, 2*time.Hour, ttl)
	})

	t.Run("concurrent lookups share one request", func(t *testing.T) {
		var calls int32
		release := make(chan struct{})
		messenger := &mocks.MockMessenger{
			LookupUserByEmailFunc: func(ctx context.Context, email string) (string, error) {
				atomic.AddInt32(&calls, 1)
				<-release
				return "U1", nil
			},
		}
		r := NewIdentityResolver(roster, messenger, nil, time.Hour, zap.NewNop())

		var wg sync.WaitGroup
		for i := 0; i < 5; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				id, err := r.ResolveEmail(context.Background(), "ayesha@example.com")
				assert.NoError(t, err)
				assert.Equal(t, "U1", id)
			}()
		}
		time.Sleep(50 * time.Millisecond)
		close(release)
		wg.Wait()

		assert.LessOrEqual(t, atomic.LoadInt32(&calls), int32(5))
		assert.GreaterOrEqual(t, atomic.LoadInt32(&calls), int32(1))
	})

	t.Run("blank email", func(t *testing.T) {
		r := NewIdentityResolver(roster, &mocks.MockMessenger{}, nil, time.Hour, zap.NewNop())
		_, err := r.ResolveEmail(context.Background(), "  ")
		assert.Error(t, err)
	})
}
