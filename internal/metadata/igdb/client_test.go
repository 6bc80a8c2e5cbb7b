package igdb

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

const searchResponse = `[
  {
    "id": 1942,
    "name": "The Witcher 3: Wild Hunt",
    "summary": "A story-driven open world RPG.",
    "first_release_date": 1431993600,
    "genres": [{"id": 12, "name": "Role-playing (RPG)"}, {"id": 31, "name": "Adventure"}],
    "cover": {"url": "//images.igdb.com/igdb/image/upload/t_thumb/co1wyy.jpg"},
    "screenshots": [{"url": "//images.igdb.com/igdb/image/upload/t_thumb/sc1.jpg"}],
    "involved_companies": [
      {"company": {"id": 908, "name": "CD Projekt RED"}, "developer": true, "publisher": false},
      {"company": {"id": 909, "name": "CD Projekt"}, "developer": false, "publisher": true}
    ],
    "rating": 93.4,
    "rating_count": 3200,
    "url": "https://www.igdb.com/games/the-witcher-3-wild-hunt",
    "external_games": [{"category": 1, "uid": "292030"}]
  }
]`

func tokenHandler(exchanges *atomic.Int32, token string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		exchanges.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token": "` + token + `", "expires_in": 3600}`)) //nolint:errcheck // Test handler
	}
}

// newTestClient wires a client against test auth and API servers.
func newTestClient(t *testing.T, auth, api http.HandlerFunc) *Client {
	t.Helper()
	authServer := httptest.NewServer(auth)
	apiServer := httptest.NewServer(api)
	t.Cleanup(authServer.Close)
	t.Cleanup(apiServer.Close)

	client := New(Config{
		ClientID:          "test-client",
		ClientSecret:      "test-secret",
		TokenExpiryMargin: 60 * time.Second,
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
	client.authURL = authServer.URL
	client.apiURL = apiServer.URL
	return client
}

func TestClient_TokenMemoized(t *testing.T) {
	var exchanges atomic.Int32
	var bearers []string

	api := func(w http.ResponseWriter, r *http.Request) {
		bearers = append(bearers, r.Header.Get("Authorization"))
		if r.Header.Get("Client-ID") != "test-client" {
			t.Errorf("missing Client-ID header")
		}
		w.Write([]byte(`[]`)) //nolint:errcheck // Test handler
	}

	client := newTestClient(t, tokenHandler(&exchanges, "tok-1"), api)

	ctx := context.Background()
	for range 3 {
		if _, err := client.SearchByName(ctx, "portal", 5); err != nil {
			t.Fatalf("SearchByName: %v", err)
		}
	}

	if got := exchanges.Load(); got != 1 {
		t.Errorf("exchanges = %d; want 1 (token should be memoized)", got)
	}
	for _, b := range bearers {
		if b != "Bearer tok-1" {
			t.Errorf("Authorization = %q; want Bearer tok-1", b)
		}
	}
}

func TestClient_TokenRefreshedInsideMargin(t *testing.T) {
	var exchanges atomic.Int32
	api := func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`)) //nolint:errcheck // Test handler
	}

	client := newTestClient(t, tokenHandler(&exchanges, "tok"), api)

	base := time.Now()
	now := base
	client.now = func() time.Time { return now }

	ctx := context.Background()
	if _, err := client.SearchByName(ctx, "portal", 5); err != nil {
		t.Fatalf("SearchByName: %v", err)
	}

	// Just before the margin boundary (3600s ttl - 60s margin): still valid.
	now = base.Add(3539 * time.Second)
	if _, err := client.SearchByName(ctx, "portal", 5); err != nil {
		t.Fatalf("SearchByName: %v", err)
	}
	if got := exchanges.Load(); got != 1 {
		t.Fatalf("exchanges = %d before margin; want 1", got)
	}

	// Past the boundary: a fresh exchange happens.
	now = base.Add(3541 * time.Second)
	if _, err := client.SearchByName(ctx, "portal", 5); err != nil {
		t.Fatalf("SearchByName: %v", err)
	}
	if got := exchanges.Load(); got != 2 {
		t.Errorf("exchanges = %d after margin; want 2", got)
	}
}

func TestClient_FailedExchangeKeepsOldSession(t *testing.T) {
	var failAuth atomic.Bool
	var exchanges atomic.Int32
	auth := func(w http.ResponseWriter, r *http.Request) {
		if failAuth.Load() {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		tokenHandler(&exchanges, "tok-old")(w, r)
	}
	api := func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`)) //nolint:errcheck // Test handler
	}

	client := newTestClient(t, auth, api)

	base := time.Now()
	now := base
	client.now = func() time.Time { return now }

	ctx := context.Background()
	if _, err := client.SearchByName(ctx, "portal", 5); err != nil {
		t.Fatalf("SearchByName: %v", err)
	}

	// Expire the token, then make the exchange fail.
	now = base.Add(2 * time.Hour)
	failAuth.Store(true)

	_, err := client.SearchByName(ctx, "portal", 5)
	if !errors.Is(err, ErrAuthFailed) {
		t.Fatalf("err = %v; want ErrAuthFailed", err)
	}

	// The stale session is untouched.
	if client.session.bearer != "tok-old" {
		t.Errorf("session.bearer = %q; want tok-old", client.session.bearer)
	}
}

func TestClient_SearchMapsFields(t *testing.T) {
	var exchanges atomic.Int32
	api := func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(searchResponse)) //nolint:errcheck // Test handler
	}

	client := newTestClient(t, tokenHandler(&exchanges, "tok"), api)

	games, err := client.SearchByName(context.Background(), "witcher", 5)
	if err != nil {
		t.Fatalf("SearchByName: %v", err)
	}
	if len(games) != 1 {
		t.Fatalf("len(games) = %d; want 1", len(games))
	}

	g := games[0]
	if g.ID != 1942 {
		t.Errorf("ID = %d; want 1942", g.ID)
	}
	if g.Developer != "CD Projekt RED" || g.Publisher != "CD Projekt" {
		t.Errorf("companies = %q/%q; want CD Projekt RED/CD Projekt", g.Developer, g.Publisher)
	}
	if want := "https://images.igdb.com/igdb/image/upload/t_cover_big/co1wyy.jpg"; g.CoverURL != want {
		t.Errorf("CoverURL = %q; want %q", g.CoverURL, want)
	}
	if len(g.ScreenshotURLs) != 1 || g.ScreenshotURLs[0] != "https://images.igdb.com/igdb/image/upload/t_screenshot_big/sc1.jpg" {
		t.Errorf("ScreenshotURLs = %v", g.ScreenshotURLs)
	}
	if g.SteamAppID != 292030 {
		t.Errorf("SteamAppID = %d; want 292030", g.SteamAppID)
	}
	if len(g.Genres) != 2 || g.Genres[0] != "Role-playing (RPG)" {
		t.Errorf("Genres = %v", g.Genres)
	}
	if g.ReleaseYear() != 2015 {
		t.Errorf("ReleaseYear = %d; want 2015", g.ReleaseYear())
	}
}

func TestClient_ErrorClassification(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		wantErr    error
	}{
		{"rate limited", http.StatusTooManyRequests, ErrRateLimited},
		{"auth rejected", http.StatusUnauthorized, ErrAuthFailed},
		{"forbidden", http.StatusForbidden, ErrAuthFailed},
		{"server error", http.StatusInternalServerError, ErrServer},
		{"bad request", http.StatusBadRequest, ErrBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var exchanges atomic.Int32
			api := func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
			}
			client := newTestClient(t, tokenHandler(&exchanges, "tok"), api)

			_, err := client.SearchByName(context.Background(), "portal", 5)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("err = %v; want %v", err, tt.wantErr)
			}
		})
	}
}

func TestClient_NotConfigured(t *testing.T) {
	client := New(Config{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	if client.IsConfigured() {
		t.Error("IsConfigured() = true; want false")
	}

	_, err := client.SearchByName(context.Background(), "portal", 5)
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("err = %v; want ErrNotConfigured", err)
	}
}

func TestClient_GetByID_NotFound(t *testing.T) {
	var exchanges atomic.Int32
	api := func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`)) //nolint:errcheck // Test handler
	}
	client := newTestClient(t, tokenHandler(&exchanges, "tok"), api)

	_, err := client.GetByID(context.Background(), 999999)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v; want ErrNotFound", err)
	}
}
