package credential

import (
	"context"
	"sync"
	"time"
)

// RefreshBuffer is how long before expiry a cached token stops being served.
// Azure OpenAI rejects tokens close to expiry mid-request, so the slot is
// refreshed while the old token still has headroom.
const RefreshBuffer = 5 * time.Minute

// Token is a bearer token with its expiry.
type Token struct {
	// Value is the raw bearer token string.
	Value string

	// ExpiresAt is when the token stops being accepted.
	ExpiresAt time.Time
}

// Fetcher obtains a fresh token from the identity provider.
type Fetcher interface {
	// Fetch requests a new token scoped to the Cognitive Services audience.
	Fetch(ctx context.Context) (Token, error)

	// Name identifies the fetcher in logs ("imds", "azure-cli", "chain").
	Name() string
}

// Cache is a single-slot, process-wide token cache. One instance is shared
// by all requests; it is injectable so tests can substitute fetchers and
// clocks.
type Cache struct {
	fetcher Fetcher
	now     func() time.Time

	mu  sync.Mutex
	tok Token
	set bool
}

// NewCache creates a cache in front of the given fetcher.
func NewCache(fetcher Fetcher) *Cache {
	return &Cache{fetcher: fetcher, now: time.Now}
}

// Bearer returns a token that is valid for at least RefreshBuffer. A cached
// token inside that window is returned without any network call; otherwise a
// fresh token is fetched and stored.
//
// The fetch happens outside the lock: concurrent callers that both miss the
// window each fetch once and the last writer wins, which is acceptable since
// tokens from the same identity are interchangeable.
func (c *Cache) Bearer(ctx context.Context) (string, error) {
	c.mu.Lock()
	if c.set && c.now().Before(c.tok.ExpiresAt.Add(-RefreshBuffer)) {
		tok := c.tok.Value
		c.mu.Unlock()
		return tok, nil
	}
	c.mu.Unlock()

	tok, err := c.fetcher.Fetch(ctx)
	if err != nil {
		return "", err
	}
	if tok.Value == "" {
		return "", newNoTokenError(nil)
	}

	c.mu.Lock()
	c.tok = tok
	c.set = true
	c.mu.Unlock()

	return tok.Value, nil
}
