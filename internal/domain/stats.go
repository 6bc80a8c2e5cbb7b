package domain

// LibraryStats contains aggregate numbers over the catalog.
type LibraryStats struct {
	TotalGames         int            `json:"total_games"`
	ByStatus           map[Status]int `json:"by_status"`
	Favorites          int            `json:"favorites"`
	TotalPlaytimeHours float64        `json:"total_playtime_hours"`
	AverageRating      float64        `json:"average_rating"` // over rated games only
	RatedGames         int            `json:"rated_games"`
	LinkedToSteam      int            `json:"linked_to_steam"`
	CompletionRate     float64        `json:"completion_rate"` // 0-100
}

// ComputeStats aggregates statistics over a catalog snapshot.
func ComputeStats(games []Game) LibraryStats {
	stats := LibraryStats{
		ByStatus: make(map[Status]int),
	}

	ratingSum := 0
	for i := range games {
		g := &games[i]
		stats.TotalGames++
		stats.ByStatus[g.Status]++
		stats.TotalPlaytimeHours += g.PlaytimeHours
		if g.Favorite {
			stats.Favorites++
		}
		if g.Rating > 0 {
			stats.RatedGames++
			ratingSum += g.Rating
		}
		if g.SteamAppID != 0 {
			stats.LinkedToSteam++
		}
	}

	if stats.RatedGames > 0 {
		stats.AverageRating = float64(ratingSum) / float64(stats.RatedGames)
	}
	if stats.TotalGames > 0 {
		stats.CompletionRate = float64(stats.ByStatus[StatusCompleted]) / float64(stats.TotalGames) * 100
	}
	return stats
}
