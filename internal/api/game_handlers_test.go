package api

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"path/filepath"
	"testing"
	"time"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infernokun/inferno-games-server/internal/domain"
	"github.com/infernokun/inferno-games-server/internal/metadata/igdb"
	"github.com/infernokun/inferno-games-server/internal/search"
	"github.com/infernokun/inferno-games-server/internal/service"
	"github.com/infernokun/inferno-games-server/internal/steam"
	"github.com/infernokun/inferno-games-server/internal/store"
)

// testServer wraps the API server with a humatest client.
type testServer struct {
	*Server
	api humatest.TestAPI
}

// setupTestServer builds a server over a throwaway store and search index.
// Steam and IGDB stay unconfigured; the endpoints under test never reach
// either integration.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	st, err := store.New(filepath.Join(t.TempDir(), "catalog"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	idx, err := search.NewSearchIndex(search.Options{DataPath: t.TempDir(), Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	st.SetSearchIndexer(search.NewIndexer(idx))

	igdbClient := igdb.New(igdb.Config{}, logger)
	t.Cleanup(igdbClient.Close)
	steamClient := steam.New(steam.Config{}, logger)
	cache := steam.NewLibraryCache(steamClient, 30*time.Minute, logger)

	metadataService := service.NewMetadataService(igdbClient, logger)
	gameService := service.NewGameService(st, idx, cache, metadataService, logger)
	enrichment := service.NewEnrichmentService(cache, st, igdbClient, service.EnrichmentTunables{}, logger)
	services := &Services{
		Game:       gameService,
		Metadata:   metadataService,
		Library:    service.NewLibraryService(steamClient, cache, st, enrichment, logger),
		Sync:       service.NewSteamSyncService(st, cache, logger),
		Enrichment: enrichment,
	}

	s := NewServer("Inferno Games Test", st, idx, services, logger)

	return &testServer{Server: s, api: humatest.Wrap(t, s.api)}
}

func (ts *testServer) createGame(t *testing.T, title string) domain.Game {
	t.Helper()

	resp := ts.api.Post("/api/v1/games", map[string]any{
		"title":  title,
		"genre":  "RPG",
		"status": "in_progress",
	})
	require.Equal(t, http.StatusOK, resp.Code, "create failed: %s", resp.Body.String())

	var game domain.Game
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &game))
	return game
}

func TestGameEndpoints_CRUD(t *testing.T) {
	ts := setupTestServer(t)

	created := ts.createGame(t, "Hades")
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, domain.StatusInProgress, created.Status)

	resp := ts.api.Get("/api/v1/games/" + created.ID)
	require.Equal(t, http.StatusOK, resp.Code)

	resp = ts.api.Patch("/api/v1/games/"+created.ID, map[string]any{
		"rating": 9,
		"notes":  "escaped on run 34",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var updated domain.Game
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &updated))
	assert.Equal(t, 9, updated.Rating)
	assert.Equal(t, "Hades", updated.Title)

	resp = ts.api.Get("/api/v1/games")
	require.Equal(t, http.StatusOK, resp.Code)
	var list GameListResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Total)

	resp = ts.api.Delete("/api/v1/games/" + created.ID)
	require.Equal(t, http.StatusNoContent, resp.Code)

	resp = ts.api.Get("/api/v1/games/" + created.ID)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestGameEndpoints_ValidationError(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/games", map[string]any{
		"title":  "Bad Status",
		"status": "playing",
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code, resp.Body.String())

	var body APIError
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "VALIDATION", body.Code)
}

func TestGameEndpoints_StatusAndFavorite(t *testing.T) {
	ts := setupTestServer(t)
	created := ts.createGame(t, "Hades")

	resp := ts.api.Put("/api/v1/games/"+created.ID+"/status", map[string]any{
		"status": "completed",
	})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var game domain.Game
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &game))
	assert.Equal(t, domain.StatusCompleted, game.Status)
	assert.Equal(t, 100, game.CompletionPercentage)

	resp = ts.api.Put("/api/v1/games/"+created.ID+"/favorite", map[string]any{
		"favorite": true,
	})
	require.Equal(t, http.StatusOK, resp.Code)
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &game))
	assert.True(t, game.Favorite)
}

func TestGameEndpoints_Search(t *testing.T) {
	ts := setupTestServer(t)
	ts.createGame(t, "Hades")
	ts.createGame(t, "Hollow Knight")

	// Indexing runs asynchronously after writes.
	require.Eventually(t, func() bool {
		count, err := ts.search.DocumentCount()
		return err == nil && count == 2
	}, 2*time.Second, 20*time.Millisecond)

	resp := ts.api.Get("/api/v1/games/search?q=hollow")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var result search.SearchResult
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	require.NotEmpty(t, result.Hits)
	assert.Equal(t, "Hollow Knight", result.Hits[0].Name)
}

func TestGameEndpoints_Stats(t *testing.T) {
	ts := setupTestServer(t)
	ts.createGame(t, "Hades")

	resp := ts.api.Get("/api/v1/games/stats")
	require.Equal(t, http.StatusOK, resp.Code)

	var stats domain.LibraryStats
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.TotalGames)
}

func TestSyncEndpoints_NotConfigured(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/sync/playtime")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	var result service.SyncResult
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	assert.False(t, result.Configured)

	resp = ts.api.Get("/api/v1/sync/enrichment")
	require.Equal(t, http.StatusOK, resp.Code)

	var status service.EnrichmentStatus
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &status))
	assert.False(t, status.Configured)
	assert.False(t, status.Running)
}

func TestSteamEndpoints_NotConfigured(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/steam/profile")
	assert.Equal(t, http.StatusServiceUnavailable, resp.Code, resp.Body.String())

	var body APIError
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
	assert.Equal(t, "NOT_CONFIGURED", body.Code)
}

func TestHealthEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/health")
	require.Equal(t, http.StatusOK, resp.Code)

	var health HealthResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &health))
	assert.Equal(t, "degraded", health.Status, "unconfigured integrations degrade health")
	assert.Equal(t, "healthy", health.Components["database"].Status)
	assert.Equal(t, "healthy", health.Components["search"].Status)
}

func TestVersionEndpoint(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/version")
	require.Equal(t, http.StatusOK, resp.Code)

	var version VersionResponse
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &version))
	assert.Equal(t, "Inferno Games Test", version.Name)
	assert.Equal(t, Version, version.Version)
	assert.Equal(t, "v1", version.API)
}
