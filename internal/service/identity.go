package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/spec-kit/ticket-reminder/internal/domain"
)

const identityCachePrefix = "chat:user:"

// ErrNotInRoster is returned for names without a usable roster email.
var ErrNotInRoster = errors.New("person not in roster")

// IdentityResolver maps roster names and emails to chat user IDs.
// Successful lookups are cached when a Cacher is configured, and concurrent
// lookups of one email share a single request.
type IdentityResolver struct {
	roster    domain.Roster
	messenger Messenger
	cache     Cacher
	ttl       time.Duration
	logger    *zap.Logger
	sf        singleflight.Group
}

// NewIdentityResolver builds a resolver. cache may be nil.
func NewIdentityResolver(roster domain.Roster, messenger Messenger, cache Cacher, ttl time.Duration, logger *zap.Logger) *IdentityResolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IdentityResolver{
		roster:    roster,
		messenger: messenger,
		cache:     cache,
		ttl:       ttl,
		logger:    logger.Named("identity"),
	}
}

// Roster exposes the configured roster.
func (r *IdentityResolver) Roster() domain.Roster {
	return r.roster
}

// Resolve looks up the chat ID of a roster person.
func (r *IdentityResolver) Resolve(ctx context.Context, name string) (string, error) {
	email, ok := r.roster.Email(name)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrNotInRoster, name)
	}
	return r.ResolveEmail(ctx, email)
}

// ResolveEmail looks up the chat ID registered to email.
func (r *IdentityResolver) ResolveEmail(ctx context.Context, email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", errors.New("email is empty")
	}
	key := identityCachePrefix + strings.ToLower(email)

	if r.cache != nil {
		var cached string
		if err := r.cache.Get(ctx, key, &cached); err == nil && cached != "" {
			r.logger.Debug("identity cache hit", zap.String("email", email))
			return cached, nil
		}
	}

	v, err, _ := r.sf.Do(key, func() (any, error) {
		id, err := r.messenger.LookupUserByEmail(ctx, email)
		if err != nil {
			return "", err
		}
		if r.cache != nil {
			if err := r.cache.Set(ctx, key, id, r.ttl); err != nil {
				r.logger.Warn("failed to cache identity", zap.String("email", email), zap.Error(err))
			}
		}
		return id, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
