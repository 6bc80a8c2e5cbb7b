package domain

import "time"

// Metadata represents one record fetched from the metadata provider,
// already mapped into domain terms.
type Metadata struct {
	IGDBID         int64      `json:"igdb_id"`
	Name           string     `json:"name"`
	Summary        string     `json:"summary,omitempty"`
	Developer      string     `json:"developer,omitempty"`
	Publisher      string     `json:"publisher,omitempty"`
	ReleaseYear    int        `json:"release_year,omitempty"`
	ReleaseDate    *time.Time `json:"release_date,omitempty"`
	Genres         []string   `json:"genres,omitempty"`
	CoverURL       string     `json:"cover_url,omitempty"`
	ScreenshotURLs []string   `json:"screenshot_urls,omitempty"`
	Rating         float64    `json:"rating,omitempty"`
	RatingCount    int        `json:"rating_count,omitempty"`
	URL            string     `json:"url,omitempty"`

	// SteamAppID is set when the provider links the record to a Steam
	// store page. Used to match owned titles to candidates.
	SteamAppID int64 `json:"steam_app_id,omitempty"`
}
