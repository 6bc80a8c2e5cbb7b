// Package igdb provides a client for the IGDB game metadata API.
//
// IGDB authenticates through Twitch's OAuth client-credentials flow. The
// client memoizes the bearer token and exchanges a fresh one transparently
// once the current token enters its expiry safety margin.
package igdb

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/infernokun/inferno-games-server/internal/ratelimit"
)

const (
	defaultAuthURL = "https://id.twitch.tv/oauth2/token"
	defaultAPIURL  = "https://api.igdb.com/v4"

	// IGDB allows 4 requests per second per client id.
	defaultRPS   = 4.0
	defaultBurst = 4

	// HTTP client settings
	defaultTimeout = 30 * time.Second

	// API settings
	defaultLimit = 20
	maxLimit     = 50
)

// Config holds the credentials for the IGDB client.
type Config struct {
	ClientID     string
	ClientSecret string
	// TokenExpiryMargin is subtracted from the advertised token lifetime so
	// a token is never presented close to its expiry instant.
	TokenExpiryMargin time.Duration
}

// Client is a rate-limited IGDB API client with transparent token refresh.
type Client struct {
	http    *http.Client
	limiter *ratelimit.KeyedRateLimiter
	logger  *slog.Logger

	clientID     string
	clientSecret string
	margin       time.Duration

	// Overridable for tests.
	authURL string
	apiURL  string
	now     func() time.Time

	session tokenSession
}

// New creates a new IGDB client. Empty credentials are allowed; the client
// reports itself as not configured and every call fails fast.
func New(cfg Config, logger *slog.Logger) *Client {
	margin := cfg.TokenExpiryMargin
	if margin <= 0 {
		margin = 60 * time.Second
	}
	return &Client{
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		limiter:      ratelimit.New(defaultRPS, defaultBurst),
		logger:       logger,
		clientID:     cfg.ClientID,
		clientSecret: cfg.ClientSecret,
		margin:       margin,
		authURL:      defaultAuthURL,
		apiURL:       defaultAPIURL,
		now:          time.Now,
	}
}

// IsConfigured reports whether credentials are present.
func (c *Client) IsConfigured() bool {
	return c.clientID != "" && c.clientSecret != ""
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.limiter.Stop()
}

// query executes an IGDB query-body request against an endpoint.
func (c *Client) query(ctx context.Context, endpoint, body string) ([]byte, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	token, err := c.token(ctx)
	if err != nil {
		return nil, err
	}

	// Wait for rate limit
	if err := c.limiter.Wait(ctx, "api"); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.apiURL+"/"+endpoint, strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Client-ID", c.clientID)
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("igdb request",
		"endpoint", endpoint,
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch resp.StatusCode {
	case http.StatusOK:
		return respBody, nil
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, ErrAuthFailed
	case http.StatusTooManyRequests:
		return nil, ErrRateLimited
	case http.StatusNotFound:
		return nil, ErrNotFound
	case http.StatusBadRequest:
		return nil, ErrBadRequest
	default:
		if resp.StatusCode >= 500 {
			return nil, ErrServer
		}
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(respBody))
	}
}

// clampLimit bounds a caller-supplied result limit.
func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultLimit
	}
	if limit > maxLimit {
		return maxLimit
	}
	return limit
}
