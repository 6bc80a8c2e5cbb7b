package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetStatus_InProgressRecordsStartedOnce(t *testing.T) {
	game := &Game{ID: "game-1", Status: StatusNotStarted}

	game.SetStatus(StatusInProgress)
	require.NotNil(t, game.StartedAt)
	first := *game.StartedAt

	time.Sleep(time.Millisecond)
	game.SetStatus(StatusInProgress)
	assert.True(t, game.StartedAt.Equal(first), "StartedAt should not move on repeat transitions")
}

func TestSetStatus_CompletedForces100Percent(t *testing.T) {
	game := &Game{ID: "game-1", Status: StatusInProgress, CompletionPercentage: 60}

	game.SetStatus(StatusCompleted)

	require.NotNil(t, game.CompletedAt)
	assert.Equal(t, 100, game.CompletionPercentage)
}

func TestValidStatus(t *testing.T) {
	assert.True(t, ValidStatus(StatusNotStarted))
	assert.True(t, ValidStatus(StatusDLC))
	assert.False(t, ValidStatus(Status("playing")))
	assert.False(t, ValidStatus(Status("")))
}

func TestAddPlatform(t *testing.T) {
	game := &Game{ID: "game-1"}

	game.AddPlatform(PlatformPC)
	assert.Equal(t, PlatformPC, game.Platform)
	assert.Equal(t, []Platform{PlatformPC}, game.Platforms)

	// Adding again is a no-op.
	game.AddPlatform(PlatformPC)
	assert.Len(t, game.Platforms, 1)

	// A second platform extends the list without changing the primary.
	game.AddPlatform(PlatformSteamDeck)
	assert.Equal(t, PlatformPC, game.Platform)
	assert.Equal(t, []Platform{PlatformPC, PlatformSteamDeck}, game.Platforms)
}

func TestHasPlatform(t *testing.T) {
	game := &Game{ID: "game-1", Platform: PlatformNintendoSwitch}
	assert.True(t, game.HasPlatform(PlatformNintendoSwitch))
	assert.False(t, game.HasPlatform(PlatformPC))
}

func TestComputeStats(t *testing.T) {
	games := []Game{
		{Status: StatusCompleted, Rating: 9, PlaytimeHours: 40, Favorite: true, SteamAppID: 440},
		{Status: StatusCompleted, Rating: 7, PlaytimeHours: 10},
		{Status: StatusInProgress, PlaytimeHours: 5, SteamAppID: 570},
		{Status: StatusNotStarted},
	}

	stats := ComputeStats(games)

	assert.Equal(t, 4, stats.TotalGames)
	assert.Equal(t, 2, stats.ByStatus[StatusCompleted])
	assert.Equal(t, 1, stats.ByStatus[StatusInProgress])
	assert.Equal(t, 1, stats.Favorites)
	assert.Equal(t, 55.0, stats.TotalPlaytimeHours)
	assert.Equal(t, 2, stats.RatedGames)
	assert.Equal(t, 8.0, stats.AverageRating)
	assert.Equal(t, 2, stats.LinkedToSteam)
	assert.Equal(t, 50.0, stats.CompletionRate)
}

func TestComputeStats_Empty(t *testing.T) {
	stats := ComputeStats(nil)
	assert.Zero(t, stats.TotalGames)
	assert.Zero(t, stats.AverageRating)
	assert.Zero(t, stats.CompletionRate)
}
