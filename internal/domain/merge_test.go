package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeOwnership_CopiesPlaytimeFields(t *testing.T) {
	lastPlayed := time.Date(2026, 2, 10, 19, 30, 0, 0, time.UTC)
	owned := OwnedGame{
		AppID:           440,
		Name:            "Team Fortress 2",
		PlaytimeForever: 300,
		PlaytimeWindows: 250,
		PlaytimeLinux:   50,
		LastPlayed:      &lastPlayed,
	}

	game := &Game{ID: "game-1", Title: "Team Fortress 2", SteamAppID: 440}
	changed := MergeOwnership(game, owned)

	require.True(t, changed)
	assert.Equal(t, 300, game.SteamPlaytimeForever)
	assert.Equal(t, 250, game.SteamPlaytimeWindows)
	assert.Equal(t, 50, game.SteamPlaytimeLinux)
	require.NotNil(t, game.SteamLastPlayed)
	assert.True(t, game.SteamLastPlayed.Equal(lastPlayed))
	assert.NotNil(t, game.SteamLastSynced)
	assert.InDelta(t, 5.0, game.PlaytimeHours, 0.001)
}

func TestMergeOwnership_Idempotent(t *testing.T) {
	lastPlayed := time.Date(2026, 2, 10, 19, 30, 0, 0, time.UTC)
	owned := OwnedGame{AppID: 440, PlaytimeForever: 300, LastPlayed: &lastPlayed}

	game := &Game{ID: "game-1", SteamAppID: 440}
	require.True(t, MergeOwnership(game, owned))

	before := *game
	changed := MergeOwnership(game, owned)

	assert.False(t, changed)
	assert.Equal(t, before, *game)
}

func TestMergeOwnership_UserPlaytimeWins(t *testing.T) {
	game := &Game{ID: "game-1", SteamAppID: 440, PlaytimeHours: 12.0}
	owned := OwnedGame{AppID: 440, PlaytimeForever: 300} // 5.0 hours

	changed := MergeOwnership(game, owned)

	require.True(t, changed) // the minutes mirror still updates
	assert.Equal(t, 12.0, game.PlaytimeHours)
	assert.Equal(t, 300, game.SteamPlaytimeForever)
}

func TestMergeOwnership_ZeroPlaytimeStaysZero(t *testing.T) {
	game := &Game{ID: "game-1", SteamAppID: 440}
	owned := OwnedGame{AppID: 440}

	changed := MergeOwnership(game, owned)

	assert.False(t, changed)
	assert.Zero(t, game.PlaytimeHours)
	assert.Nil(t, game.SteamLastSynced)
}

func TestMergeOwnership_LastPlayedCleared(t *testing.T) {
	was := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	game := &Game{ID: "game-1", SteamAppID: 440, SteamLastPlayed: &was, SteamPlaytimeForever: 60, PlaytimeHours: 1}

	changed := MergeOwnership(game, OwnedGame{AppID: 440, PlaytimeForever: 60})

	require.True(t, changed)
	assert.Nil(t, game.SteamLastPlayed)
}

func TestApplyMetadata_OverwritesDescriptiveFields(t *testing.T) {
	game := &Game{
		ID:          "game-1",
		Title:       "Hollow Knight",
		Description: "old summary",
		Rating:      9,
		Notes:       "beat the radiance",
		Status:      StatusCompleted,
	}
	meta := Metadata{
		IGDBID:      14593,
		Name:        "Hollow Knight",
		Summary:     "new summary",
		Developer:   "Team Cherry",
		Publisher:   "Team Cherry",
		ReleaseYear: 2017,
		Genres:      []string{"Platform", "Adventure"},
		CoverURL:    "https://images.igdb.com/cover.jpg",
		Rating:      90.1,
		RatingCount: 2400,
	}

	ApplyMetadata(game, meta)

	assert.Equal(t, "new summary", game.Description)
	assert.Equal(t, "Team Cherry", game.Developer)
	assert.Equal(t, 2017, game.ReleaseYear)
	assert.Equal(t, []string{"Platform", "Adventure"}, game.Genres)
	assert.Equal(t, int64(14593), game.IGDBID)
	assert.Equal(t, 90.1, game.IGDBRating)

	// User-owned fields untouched.
	assert.Equal(t, 9, game.Rating)
	assert.Equal(t, "beat the radiance", game.Notes)
	assert.Equal(t, StatusCompleted, game.Status)
}

func TestApplyMetadata_PrimaryGenreTieBreak(t *testing.T) {
	game := &Game{ID: "game-1"}
	meta := Metadata{IGDBID: 1, Genres: []string{"RPG", "Action"}}

	ApplyMetadata(game, meta)
	assert.Equal(t, "RPG", game.Genre)

	// A manual edit is never reverted on a later refresh.
	game.Genre = "Action"
	ApplyMetadata(game, meta)
	assert.Equal(t, "Action", game.Genre)
}

func TestApplyMetadata_EmptyGenreListLeavesPrimaryUnset(t *testing.T) {
	game := &Game{ID: "game-1"}
	ApplyMetadata(game, Metadata{IGDBID: 1})
	assert.Empty(t, game.Genre)
}

func TestNewGameFromMetadata_Defaults(t *testing.T) {
	meta := Metadata{
		IGDBID:     1942,
		Name:       "The Witcher 3: Wild Hunt",
		Summary:    "Geralt of Rivia",
		Genres:     []string{"RPG", "Adventure"},
		SteamAppID: 292030,
	}

	game := NewGameFromMetadata(meta)

	assert.Equal(t, "The Witcher 3: Wild Hunt", game.Title)
	assert.Equal(t, StatusNotStarted, game.Status)
	assert.Zero(t, game.Rating)
	assert.False(t, game.Favorite)
	assert.Equal(t, "RPG", game.Genre)
	assert.Equal(t, int64(292030), game.SteamAppID)
	assert.Equal(t, int64(1942), game.IGDBID)
}
