package store

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infernokun/inferno-games-server/internal/domain"
	"github.com/infernokun/inferno-games-server/internal/errors"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := New(t.TempDir(), logger)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, s.Close())
	})
	return s
}

func TestStore_CreateAndGetGame(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	game := &domain.Game{
		ID:         "game-1",
		Title:      "Hades",
		Status:     domain.StatusInProgress,
		SteamAppID: 1145360,
		IGDBID:     113112,
	}
	game.InitTimestamps()

	require.NoError(t, s.CreateGame(ctx, game))

	got, err := s.GetGame(ctx, "game-1")
	require.NoError(t, err)
	assert.Equal(t, "Hades", got.Title)
	assert.Equal(t, domain.StatusInProgress, got.Status)
}

func TestStore_CreateGame_DuplicateID(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	game := &domain.Game{ID: "game-1", Title: "Hades"}
	require.NoError(t, s.CreateGame(ctx, game))

	err := s.CreateGame(ctx, game)
	assert.ErrorIs(t, err, errors.ErrConflict)
}

func TestStore_GetGame_NotFound(t *testing.T) {
	s := setupTestStore(t)

	_, err := s.GetGame(context.Background(), "missing")
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestStore_ExternalIDIndexes(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	game := &domain.Game{ID: "game-1", Title: "Hades", SteamAppID: 1145360, IGDBID: 113112}
	require.NoError(t, s.CreateGame(ctx, game))

	bySteam, err := s.GetGameBySteamAppID(ctx, 1145360)
	require.NoError(t, err)
	assert.Equal(t, "game-1", bySteam.ID)

	byIGDB, err := s.GetGameByIGDBID(ctx, 113112)
	require.NoError(t, err)
	assert.Equal(t, "game-1", byIGDB.ID)
}

func TestStore_SparseIndexes(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	// A game with no external links creates no index entries.
	require.NoError(t, s.CreateGame(ctx, &domain.Game{ID: "game-1", Title: "Homebrew Game"}))

	_, err := s.GetGameBySteamAppID(ctx, 0)
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestStore_DuplicateSteamAppIDRejected(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateGame(ctx, &domain.Game{ID: "game-1", Title: "Hades", SteamAppID: 1145360}))

	err := s.CreateGame(ctx, &domain.Game{ID: "game-2", Title: "Hades Again", SteamAppID: 1145360})
	assert.ErrorIs(t, err, errors.ErrConflict)
}

func TestStore_UpdateGame_ReindexesExternalIDs(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	game := &domain.Game{ID: "game-1", Title: "Hades", SteamAppID: 1145360}
	require.NoError(t, s.CreateGame(ctx, game))

	// Relink the record to a different app id.
	game.SteamAppID = 1145350
	require.NoError(t, s.UpdateGame(ctx, game))

	_, err := s.GetGameBySteamAppID(ctx, 1145360)
	assert.ErrorIs(t, err, errors.ErrNotFound, "old index entry should be gone")

	got, err := s.GetGameBySteamAppID(ctx, 1145350)
	require.NoError(t, err)
	assert.Equal(t, "game-1", got.ID)
}

func TestStore_UpdateGame_NotFound(t *testing.T) {
	s := setupTestStore(t)

	err := s.UpdateGame(context.Background(), &domain.Game{ID: "missing"})
	assert.ErrorIs(t, err, errors.ErrNotFound)
}

func TestStore_DeleteGame_Idempotent(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateGame(ctx, &domain.Game{ID: "game-1", Title: "Hades", SteamAppID: 1145360}))

	require.NoError(t, s.DeleteGame(ctx, "game-1"))
	require.NoError(t, s.DeleteGame(ctx, "game-1"), "second delete is a no-op")

	_, err := s.GetGame(ctx, "game-1")
	assert.ErrorIs(t, err, errors.ErrNotFound)

	_, err = s.GetGameBySteamAppID(ctx, 1145360)
	assert.ErrorIs(t, err, errors.ErrNotFound, "index entry removed with the record")
}

func TestStore_ListGames(t *testing.T) {
	s := setupTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.CreateGame(ctx, &domain.Game{ID: "game-1", Title: "Hades", SteamAppID: 1145360}))
	require.NoError(t, s.CreateGame(ctx, &domain.Game{ID: "game-2", Title: "Celeste", SteamAppID: 504230}))
	require.NoError(t, s.CreateGame(ctx, &domain.Game{ID: "game-3", Title: "Homebrew Game"}))

	games, err := s.ListGames(ctx)
	require.NoError(t, err)
	assert.Len(t, games, 3, "index keys must not leak into listings")
}
