package igdb

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// tokenSession holds the memoized bearer credential. The expiry instant
// already has the safety margin subtracted, so a simple "now before expiry"
// check is enough at the call site.
type tokenSession struct {
	mu        sync.RWMutex
	bearer    string
	expiresAt time.Time
}

func (s *tokenSession) current(now time.Time) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.bearer == "" || !now.Before(s.expiresAt) {
		return "", false
	}
	return s.bearer, true
}

func (s *tokenSession) replace(bearer string, expiresAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.bearer = bearer
	s.expiresAt = expiresAt
}

// token returns a valid bearer token, performing a credential exchange if
// the memoized one is absent or inside the expiry margin. A failed exchange
// leaves any existing session untouched.
//
// Two callers racing through a refresh may both perform the exchange; the
// provider treats the exchange as idempotent and the last replace wins.
func (c *Client) token(ctx context.Context) (string, error) {
	now := c.now()
	if bearer, ok := c.session.current(now); ok {
		return bearer, nil
	}

	bearer, ttl, err := c.exchange(ctx)
	if err != nil {
		return "", wrapError("token", "", err)
	}

	expiresAt := now.Add(ttl - c.margin)
	c.session.replace(bearer, expiresAt)

	c.logger.Debug("igdb token refreshed",
		"expires_at", expiresAt,
	)
	return bearer, nil
}

// exchange performs the Twitch client-credentials grant.
func (c *Client) exchange(ctx context.Context) (string, time.Duration, error) {
	// The auth host gets its own bucket so token refreshes never
	// compete with query traffic for tokens.
	if err := c.limiter.Wait(ctx, "auth"); err != nil {
		return "", 0, fmt.Errorf("rate limit wait: %w", err)
	}

	form := url.Values{}
	form.Set("client_id", c.clientID)
	form.Set("client_secret", c.clientSecret)
	form.Set("grant_type", "client_credentials")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("%w: %v", ErrAuthFailed, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", 0, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", 0, fmt.Errorf("%w: status %d", ErrAuthFailed, resp.StatusCode)
	}

	var parsed struct {
		AccessToken string `json:"access_token"`
		ExpiresIn   int64  `json:"expires_in"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", 0, fmt.Errorf("%w: parse response: %v", ErrAuthFailed, err)
	}
	if parsed.AccessToken == "" {
		return "", 0, fmt.Errorf("%w: empty access token", ErrAuthFailed)
	}

	return parsed.AccessToken, time.Duration(parsed.ExpiresIn) * time.Second, nil
}
