package jwtx

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/goccy/go-json"
)

// RemoteKeySet keeps a KeySet in sync with a JWKS endpoint published by the
// token issuer.
type RemoteKeySet struct {
	URL    string
	Keys   *KeySet
	Client *http.Client
}

// NewRemoteKeySet returns a RemoteKeySet that fills keys from url.
func NewRemoteKeySet(url string, keys *KeySet) *RemoteKeySet {
	return &RemoteKeySet{
		URL:    url,
		Keys:   keys,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Refresh fetches the JWKS once and replaces the key set.
func (r *RemoteKeySet) Refresh(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.URL, nil)
	if err != nil {
		return fmt.Errorf("jwtx: build jwks request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := r.Client.Do(req)
	if err != nil {
		return fmt.Errorf("jwtx: fetch jwks: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("jwtx: fetch jwks: unexpected status %d", resp.StatusCode)
	}

	var jwks JWKS
	if err := json.NewDecoder(resp.Body).Decode(&jwks); err != nil {
		return fmt.Errorf("jwtx: decode jwks: %w", err)
	}
	if len(jwks.Keys) == 0 {
		return fmt.Errorf("jwtx: jwks at %s has no keys", r.URL)
	}

	return r.Keys.ResetFromJWKS(jwks)
}

// Run refreshes the key set every interval until ctx is cancelled. Failed
// refreshes are logged and the previous keys remain in use.
func (r *RemoteKeySet) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := r.Refresh(ctx); err != nil {
				slog.WarnContext(ctx, "jwks refresh failed", "url", r.URL, "error", err)
				continue
			}
			slog.DebugContext(ctx, "jwks refreshed", "url", r.URL)
		}
	}
}
