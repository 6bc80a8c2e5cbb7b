package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/infernokun/inferno-games-server/internal/domain"
	apperrors "github.com/infernokun/inferno-games-server/internal/errors"
	"github.com/infernokun/inferno-games-server/internal/search"
	"github.com/infernokun/inferno-games-server/internal/steam"
)

// fakeMetadata serves canned records for import and refresh.
type fakeMetadata struct {
	records map[int64]domain.Metadata
}

func (f *fakeMetadata) Get(_ context.Context, igdbID int64) (*domain.Metadata, error) {
	m, ok := f.records[igdbID]
	if !ok {
		return nil, apperrors.NotFound("metadata record not found")
	}
	return &m, nil
}

func newTestGameService(t *testing.T, source *fakeSteamSource, metadata *fakeMetadata) *GameService {
	t.Helper()

	st := newTestStore(t)
	idx, err := search.NewSearchIndex(search.Options{DataPath: t.TempDir(), Logger: discardLogger()})
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })
	st.SetSearchIndexer(search.NewIndexer(idx))

	if source == nil {
		source = &fakeSteamSource{}
	}
	if metadata == nil {
		metadata = &fakeMetadata{}
	}
	cache := steam.NewLibraryCache(source, 30*time.Minute, discardLogger())

	return NewGameService(st, idx, cache, metadata, discardLogger())
}

func TestGameService_CreateAndGet(t *testing.T) {
	svc := newTestGameService(t, nil, nil)
	ctx := context.Background()

	game, err := svc.CreateGame(ctx, CreateGameParams{
		Title:    "Hollow Knight",
		Genre:    "Platform",
		Platform: "nintendo_switch",
		Status:   "in_progress",
		Rating:   9,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, game.ID)
	assert.Equal(t, domain.StatusInProgress, game.Status)
	assert.NotNil(t, game.StartedAt)
	assert.True(t, game.HasPlatform(domain.PlatformNintendoSwitch))

	got, err := svc.GetGame(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hollow Knight", got.Title)
}

func TestGameService_CreateFillsOwnership(t *testing.T) {
	source := &fakeSteamSource{configured: true, games: []domain.OwnedGame{
		playedGame(400, "Portal", 300),
	}}
	svc := newTestGameService(t, source, nil)

	game, err := svc.CreateGame(context.Background(), CreateGameParams{
		Title:      "Portal",
		SteamAppID: 400,
	})
	require.NoError(t, err)
	assert.Equal(t, 300, game.SteamPlaytimeForever)
	assert.True(t, game.HasPlatform(domain.PlatformPC))
}

func TestGameService_UpdatePartial(t *testing.T) {
	svc := newTestGameService(t, nil, nil)
	ctx := context.Background()

	game, err := svc.CreateGame(ctx, CreateGameParams{Title: "Celeste", Rating: 7})
	require.NoError(t, err)

	rating := 9
	notes := "those b-sides"
	updated, err := svc.UpdateGame(ctx, game.ID, UpdateGameParams{
		Rating: &rating,
		Notes:  &notes,
	})
	require.NoError(t, err)
	assert.Equal(t, 9, updated.Rating)
	assert.Equal(t, "those b-sides", updated.Notes)
	assert.Equal(t, "Celeste", updated.Title, "untouched fields survive")
}

func TestGameService_SetStatus(t *testing.T) {
	svc := newTestGameService(t, nil, nil)
	ctx := context.Background()

	game, err := svc.CreateGame(ctx, CreateGameParams{Title: "Celeste"})
	require.NoError(t, err)

	updated, err := svc.SetStatus(ctx, game.ID, domain.StatusCompleted)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCompleted, updated.Status)
	assert.Equal(t, 100, updated.CompletionPercentage)
	assert.NotNil(t, updated.CompletedAt)

	_, err = svc.SetStatus(ctx, game.ID, domain.Status("playing"))
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestGameService_ImportFromIGDB(t *testing.T) {
	metadata := &fakeMetadata{records: map[int64]domain.Metadata{
		1942: {
			IGDBID:     1942,
			Name:       "The Witcher 3: Wild Hunt",
			Genres:     []string{"RPG", "Adventure"},
			Developer:  "CD Projekt Red",
			SteamAppID: 292030,
		},
	}}
	svc := newTestGameService(t, nil, metadata)
	ctx := context.Background()

	game, err := svc.ImportFromIGDB(ctx, 1942)
	require.NoError(t, err)
	assert.Equal(t, "The Witcher 3: Wild Hunt", game.Title)
	assert.Equal(t, domain.StatusNotStarted, game.Status)
	assert.Equal(t, "RPG", game.Genre)
	assert.Equal(t, int64(292030), game.SteamAppID)
	assert.Zero(t, game.Rating)

	// Importing the same record twice is a conflict.
	_, err = svc.ImportFromIGDB(ctx, 1942)
	assert.ErrorIs(t, err, apperrors.ErrConflict)

	_, err = svc.ImportFromIGDB(ctx, 404404)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGameService_RefreshFromIGDB(t *testing.T) {
	metadata := &fakeMetadata{records: map[int64]domain.Metadata{
		1942: {
			IGDBID: 1942,
			Name:   "The Witcher 3: Wild Hunt",
			Genres: []string{"RPG"},
			Rating: 94.5,
		},
	}}
	svc := newTestGameService(t, nil, metadata)
	ctx := context.Background()

	game, err := svc.ImportFromIGDB(ctx, 1942)
	require.NoError(t, err)

	// Manual edits to user fields and the primary genre.
	genre := "Action"
	rating := 10
	_, err = svc.UpdateGame(ctx, game.ID, UpdateGameParams{Genre: &genre, Rating: &rating})
	require.NoError(t, err)

	refreshed, err := svc.RefreshFromIGDB(ctx, game.ID)
	require.NoError(t, err)
	assert.Equal(t, "Action", refreshed.Genre, "primary genre edit must not be reverted")
	assert.Equal(t, 10, refreshed.Rating, "user rating must not be reverted")
	assert.InDelta(t, 94.5, refreshed.IGDBRating, 0.001)

	unlinked, err := svc.CreateGame(ctx, CreateGameParams{Title: "Homebrew"})
	require.NoError(t, err)
	_, err = svc.RefreshFromIGDB(ctx, unlinked.ID)
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestGameService_StatsAndDelete(t *testing.T) {
	svc := newTestGameService(t, nil, nil)
	ctx := context.Background()

	a, err := svc.CreateGame(ctx, CreateGameParams{Title: "A", Status: "completed", Rating: 8})
	require.NoError(t, err)
	_, err = svc.CreateGame(ctx, CreateGameParams{Title: "B"})
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TotalGames)
	assert.Equal(t, 1, stats.ByStatus[domain.StatusCompleted])
	assert.InDelta(t, 50.0, stats.CompletionRate, 0.001)

	require.NoError(t, svc.DeleteGame(ctx, a.ID))
	_, err = svc.GetGame(ctx, a.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestGameService_RebuildSearchIndex(t *testing.T) {
	svc := newTestGameService(t, nil, nil)
	ctx := context.Background()

	_, err := svc.CreateGame(ctx, CreateGameParams{Title: "Outer Wilds"})
	require.NoError(t, err)
	_, err = svc.CreateGame(ctx, CreateGameParams{Title: "Inner Worlds"})
	require.NoError(t, err)

	count, err := svc.RebuildSearchIndex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	result, err := svc.Search(ctx, search.SearchParams{Query: "Outer", Limit: 10})
	require.NoError(t, err)
	require.NotEmpty(t, result.Hits)
	assert.Equal(t, "Outer Wilds", result.Hits[0].Name)
}
