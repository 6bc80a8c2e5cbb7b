// Package steam provides a client for the Steam Web API and a TTL cache of
// the account's owned-games snapshot.
package steam

import (
	"context"
	"encoding/json/v2"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/infernokun/inferno-games-server/internal/domain"
)

const (
	defaultBaseURL = "https://api.steampowered.com"
	defaultTimeout = 30 * time.Second
)

// Sentinel errors for Steam API operations. Upstream failures of any kind
// collapse to ErrUnavailable; callers retain their stale snapshot.
var (
	ErrNotConfigured = errors.New("steam: missing api key or steam id")
	ErrUnavailable   = errors.New("steam: api unavailable")
)

// Config holds the credentials for the Steam client.
type Config struct {
	APIKey  string
	SteamID string
}

// Client is a Steam Web API client bound to a single account.
type Client struct {
	http   *http.Client
	logger *slog.Logger

	apiKey  string
	steamID string

	// Overridable for tests.
	baseURL string
}

// New creates a new Steam client. Empty credentials are allowed; the client
// reports itself as not configured and every call fails fast.
func New(cfg Config, logger *slog.Logger) *Client {
	return &Client{
		http: &http.Client{
			Timeout: defaultTimeout,
		},
		logger:  logger,
		apiKey:  cfg.APIKey,
		steamID: cfg.SteamID,
		baseURL: defaultBaseURL,
	}
}

// IsConfigured reports whether credentials are present.
func (c *Client) IsConfigured() bool {
	return c.apiKey != "" && c.steamID != ""
}

// GetOwnedGames fetches the full owned-games list for the configured account.
func (c *Client) GetOwnedGames(ctx context.Context) ([]domain.OwnedGame, error) {
	query := url.Values{}
	query.Set("include_appinfo", "true")
	query.Set("include_played_free_games", "true")

	body, err := c.doRequest(ctx, "/IPlayerService/GetOwnedGames/v1/", query)
	if err != nil {
		return nil, fmt.Errorf("get owned games: %w", err)
	}

	var resp struct {
		Response struct {
			GameCount int       `json:"game_count"`
			Games     []rawGame `json:"games"`
		} `json:"response"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("get owned games: %w: parse response: %v", ErrUnavailable, err)
	}

	return convertGames(resp.Response.Games), nil
}

// GetRecentlyPlayed fetches games played in the last two weeks.
func (c *Client) GetRecentlyPlayed(ctx context.Context, count int) ([]domain.OwnedGame, error) {
	query := url.Values{}
	if count > 0 {
		query.Set("count", fmt.Sprintf("%d", count))
	}

	body, err := c.doRequest(ctx, "/IPlayerService/GetRecentlyPlayedGames/v1/", query)
	if err != nil {
		return nil, fmt.Errorf("get recently played: %w", err)
	}

	var resp struct {
		Response struct {
			Games []rawGame `json:"games"`
		} `json:"response"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("get recently played: %w: parse response: %v", ErrUnavailable, err)
	}

	return convertGames(resp.Response.Games), nil
}

// PlayerSummary describes the account's public profile.
type PlayerSummary struct {
	SteamID     string     `json:"steam_id"`
	PersonaName string     `json:"persona_name"`
	ProfileURL  string     `json:"profile_url"`
	AvatarURL   string     `json:"avatar_url"`
	Online      bool       `json:"online"`
	LastLogoff  *time.Time `json:"last_logoff,omitempty"`
}

// GetPlayerSummary fetches the configured account's profile summary.
func (c *Client) GetPlayerSummary(ctx context.Context) (*PlayerSummary, error) {
	query := url.Values{}
	query.Set("steamids", c.steamID)

	body, err := c.doRequest(ctx, "/ISteamUser/GetPlayerSummaries/v2/", query)
	if err != nil {
		return nil, fmt.Errorf("get player summary: %w", err)
	}

	var resp struct {
		Response struct {
			Players []struct {
				SteamID      string `json:"steamid"`
				PersonaName  string `json:"personaname"`
				ProfileURL   string `json:"profileurl"`
				AvatarFull   string `json:"avatarfull"`
				PersonaState int    `json:"personastate"`
				LastLogoff   int64  `json:"lastlogoff"`
			} `json:"players"`
		} `json:"response"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("get player summary: %w: parse response: %v", ErrUnavailable, err)
	}
	if len(resp.Response.Players) == 0 {
		return nil, fmt.Errorf("get player summary: %w: no players returned", ErrUnavailable)
	}

	p := resp.Response.Players[0]
	summary := &PlayerSummary{
		SteamID:     p.SteamID,
		PersonaName: p.PersonaName,
		ProfileURL:  p.ProfileURL,
		AvatarURL:   p.AvatarFull,
		Online:      p.PersonaState > 0,
	}
	if p.LastLogoff > 0 {
		t := time.Unix(p.LastLogoff, 0).UTC()
		summary.LastLogoff = &t
	}
	return summary, nil
}

// doRequest executes a GET against the Steam Web API with credentials added.
func (c *Client) doRequest(ctx context.Context, path string, query url.Values) ([]byte, error) {
	if !c.IsConfigured() {
		return nil, ErrNotConfigured
	}

	query.Set("key", c.apiKey)
	if query.Get("steamids") == "" {
		query.Set("steamid", c.steamID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("steam request",
		"path", path,
	)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	return body, nil
}

// Raw API response types (internal)

type rawGame struct {
	AppID                int64  `json:"appid"`
	Name                 string `json:"name"`
	PlaytimeForever      int    `json:"playtime_forever"`
	PlaytimeWindows      int    `json:"playtime_windows_forever"`
	PlaytimeMac          int    `json:"playtime_mac_forever"`
	PlaytimeLinux        int    `json:"playtime_linux_forever"`
	PlaytimeDeck         int    `json:"playtime_deck_forever"`
	PlaytimeDisconnected int    `json:"playtime_disconnected"`
	RtimeLastPlayed      int64  `json:"rtime_last_played"`
	HasCommunityStats    bool   `json:"has_community_visible_stats"`
	ImgIconURL           string `json:"img_icon_url"`
}

func convertGames(raw []rawGame) []domain.OwnedGame {
	games := make([]domain.OwnedGame, 0, len(raw))
	for _, r := range raw {
		g := domain.OwnedGame{
			AppID:                r.AppID,
			Name:                 r.Name,
			PlaytimeForever:      r.PlaytimeForever,
			PlaytimeWindows:      r.PlaytimeWindows,
			PlaytimeMac:          r.PlaytimeMac,
			PlaytimeLinux:        r.PlaytimeLinux,
			PlaytimeDeck:         r.PlaytimeDeck,
			PlaytimeDisconnected: r.PlaytimeDisconnected,
			HasCommunityStats:    r.HasCommunityStats,
		}
		if r.RtimeLastPlayed > 0 {
			t := time.Unix(r.RtimeLastPlayed, 0).UTC()
			g.LastPlayed = &t
		}
		if r.ImgIconURL != "" {
			g.IconURL = fmt.Sprintf("https://media.steampowered.com/steamcommunity/public/images/apps/%d/%s.jpg",
				r.AppID, r.ImgIconURL)
		}
		games = append(games, g)
	}
	return games
}
