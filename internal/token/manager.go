package token

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"
)

// SafetyBuffer is subtracted from the supplier's declared expiry: a token
// that expires mid-flight would fail the order call, so it is refreshed this
// long before its nominal expiry.
const SafetyBuffer = 5 * time.Minute

// ErrAuth means no usable token could be produced: the refresh failed and no
// cached token exists to fall back on.
var ErrAuth = errors.New("no usable supplier token")

// Authenticator performs the actual token exchange against the supplier.
type Authenticator interface {
	Authenticate(ctx context.Context) (accessToken string, expiresAt time.Time, err error)
}

// rateLimited is matched via errors.As so this package does not need to know
// the supplier's error types.
type rateLimited interface {
	RateLimited() bool
}

// Manager implements cache-first token acquisition. The supplier allows one
// authentication call per cooldown window (minutes), so the cached token is
// always preferred and a rate-limited refresh falls back to the stale token:
// the declared expiry is conservative and a recently expired token is usually
// still accepted server-side.
type Manager struct {
	store   Store
	auth    Authenticator
	nowFunc func() time.Time

	// mu serializes refreshes so concurrent fulfillments cannot burn the
	// rate limit with parallel authentication calls.
	mu sync.Mutex
}

func NewManager(store Store, auth Authenticator) *Manager {
	return &Manager{
		store:   store,
		auth:    auth,
		nowFunc: time.Now,
	}
}

// Token returns a usable access token, refreshing it if needed.
// Fails with an error wrapping ErrAuth when nothing usable can be produced.
func (m *Manager) Token(ctx context.Context) (string, error) {
	if tok := m.cached(ctx); tok != nil && m.usable(tok) {
		return tok.AccessToken, nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	// Another request may have refreshed while we waited for the lock.
	cached := m.cached(ctx)
	if cached != nil && m.usable(cached) {
		return cached.AccessToken, nil
	}

	log.Printf("[token] requesting new access token")
	accessToken, expiresAt, err := m.auth.Authenticate(ctx)
	if err != nil {
		var rl rateLimited
		if errors.As(err, &rl) && rl.RateLimited() && cached != nil {
			log.Printf("[token] rate limited, falling back to cached token (nominal expiry %s)",
				cached.ExpiryDate.Format(time.RFC3339))
			return cached.AccessToken, nil
		}
		return "", fmt.Errorf("%w: %v", ErrAuth, err)
	}

	now := m.nowFunc()
	tok := &CachedToken{
		AccessToken: accessToken,
		ExpiryDate:  expiresAt,
		CreatedAt:   now,
	}
	if werr := m.store.Write(ctx, tok); werr != nil {
		// The token itself is fine; only the cache write failed. The next
		// request will have to re-authenticate, which the lock serializes.
		log.Printf("[token] persisting token failed: %v", werr)
	}
	return accessToken, nil
}

func (m *Manager) cached(ctx context.Context) *CachedToken {
	tok, err := m.store.Read(ctx)
	if err != nil {
		log.Printf("[token] cache read failed, treating as absent: %v", err)
		return nil
	}
	return tok
}

func (m *Manager) usable(tok *CachedToken) bool {
	return m.nowFunc().Before(tok.ExpiryDate.Add(-SafetyBuffer))
}
