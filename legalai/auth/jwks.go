package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"legalai/legalai/utils/logging"

	"github.com/go-jose/go-jose/v3"
	"go.uber.org/zap"
)

var (
	ErrKeysNotLoaded = errors.New("signing keys not loaded")
	ErrUnknownKey    = errors.New("unknown signing key")
)

// KeySource resolves the key that verifies a session token.
type KeySource interface {
	Ready() bool
	Key(kid string) (interface{}, error)
	// Methods lists the accepted JWT "alg" values.
	Methods() []string
}

// HMACKey verifies tokens signed with a shared secret. Useful for local
// development against a stub provider.
type HMACKey []byte

func (k HMACKey) Ready() bool { return len(k) > 0 }

func (k HMACKey) Key(string) (interface{}, error) { return []byte(k), nil }

func (k HMACKey) Methods() []string { return []string{"HS256", "HS384", "HS512"} }

// JWKSCache holds the provider's published key set and refreshes it in the
// background. It is not Ready until the first fetch succeeds.
type JWKSCache struct {
	url        string
	client     *http.Client
	refresh    time.Duration
	retryEvery time.Duration

	mu     sync.RWMutex
	keys   jose.JSONWebKeySet
	loaded bool
}

func NewJWKSCache(url string, client *http.Client, refresh time.Duration) *JWKSCache {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	if refresh <= 0 {
		refresh = time.Hour
	}
	return &JWKSCache{url: url, client: client, refresh: refresh, retryEvery: 5 * time.Second}
}

func (c *JWKSCache) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

func (c *JWKSCache) Methods() []string {
	return []string{"RS256", "RS384", "RS512", "ES256", "ES384"}
}

func (c *JWKSCache) Key(kid string) (interface{}, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if !c.loaded {
		return nil, ErrKeysNotLoaded
	}
	for _, k := range c.keys.Key(kid) {
		if k.Valid() && k.IsPublic() {
			return k.Key, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKey, kid)
}

// Fetch downloads the key set once and swaps it in.
func (c *JWKSCache) Fetch(ctx context.Context) error {
	defer logging.LogDuration(ctx, "jwks_fetch")()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return err
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("jwks fetch failed: %s - %s", resp.Status, string(b))
	}
	var set jose.JSONWebKeySet
	if err := json.NewDecoder(resp.Body).Decode(&set); err != nil {
		return fmt.Errorf("failed to decode jwks: %w", err)
	}
	if len(set.Keys) == 0 {
		return errors.New("jwks has no keys")
	}
	c.mu.Lock()
	c.keys = set
	c.loaded = true
	c.mu.Unlock()
	return nil
}

// Run keeps the key set fresh until ctx is done. Until the first success it
// polls every few seconds so the pending window stays short.
func (c *JWKSCache) Run(ctx context.Context) {
	for {
		wait := c.refresh
		if err := c.Fetch(ctx); err != nil {
			logging.ErrorLogger.Warn("jwks refresh failed", zap.String("url", c.url), zap.Error(err))
			if !c.Ready() {
				wait = c.retryEvery
			}
		}
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}
