// Package domain contains the core business entities and domain logic for the Inferno Games library.
package domain

import "time"

// Status represents the play status of a tracked game.
type Status string

// Play statuses.
const (
	StatusNotStarted Status = "not_started"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusOnHold     Status = "on_hold"
	StatusDropped    Status = "dropped"
	StatusDLC        Status = "dlc"
)

// ValidStatus reports whether s is a known status value.
func ValidStatus(s Status) bool {
	switch s {
	case StatusNotStarted, StatusInProgress, StatusCompleted, StatusOnHold, StatusDropped, StatusDLC:
		return true
	}
	return false
}

// Platform represents a gaming platform.
type Platform string

// Platforms.
const (
	PlatformPC             Platform = "pc"
	PlatformPlayStation5   Platform = "playstation_5"
	PlatformPlayStation4   Platform = "playstation_4"
	PlatformPlayStation3   Platform = "playstation_3"
	PlatformXboxSeries     Platform = "xbox_series"
	PlatformXboxOne        Platform = "xbox_one"
	PlatformXbox360        Platform = "xbox_360"
	PlatformNintendoSwitch Platform = "nintendo_switch"
	PlatformNintendo3DS    Platform = "nintendo_3ds"
	PlatformSteamDeck      Platform = "steam_deck"
	PlatformMobileIOS      Platform = "mobile_ios"
	PlatformMobileAndroid  Platform = "mobile_android"
	PlatformOther          Platform = "other"
)

// Game represents a locally tracked game in the catalog.
//
// Fields are split into three groups: user-owned fields (status, rating,
// notes, favorite, playtime override) that synchronization never overwrites,
// descriptive fields refreshed from the metadata provider, and playtime
// facts mirrored from the library provider.
type Game struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Title          string     `json:"title"`
	Description    string     `json:"description,omitempty"`
	Developer      string     `json:"developer,omitempty"`
	Publisher      string     `json:"publisher,omitempty"`
	ReleaseYear    int        `json:"release_year,omitempty"`
	ReleaseDate    *time.Time `json:"release_date,omitempty"`
	Genre          string     `json:"genre,omitempty"`
	Genres         []string   `json:"genres,omitempty"`
	CoverImageURL  string     `json:"cover_image_url,omitempty"`
	ScreenshotURLs []string   `json:"screenshot_urls,omitempty"`
	Platform       Platform   `json:"platform,omitempty"`
	Platforms      []Platform `json:"platforms,omitempty"`
	IsDLC          bool       `json:"is_dlc,omitempty"`

	// User-owned fields. Never touched by the sync or enrichment paths.
	Status               Status     `json:"status"`
	Rating               int        `json:"rating,omitempty"` // 1-10, 0 means unrated
	PlaytimeHours        float64    `json:"playtime_hours,omitempty"`
	CompletionPercentage int        `json:"completion_percentage,omitempty"`
	StartedAt            *time.Time `json:"started_at,omitempty"`
	CompletedAt          *time.Time `json:"completed_at,omitempty"`
	Notes                string     `json:"notes,omitempty"`
	Favorite             bool       `json:"favorite,omitempty"`
	Achievements         int        `json:"achievements,omitempty"`
	TotalAchievements    int        `json:"total_achievements,omitempty"`

	// Metadata provider link.
	IGDBID          int64   `json:"igdb_id,omitempty"`
	IGDBURL         string  `json:"igdb_url,omitempty"`
	IGDBRating      float64 `json:"igdb_rating,omitempty"`
	IGDBRatingCount int     `json:"igdb_rating_count,omitempty"`

	// Library provider link and mirrored playtime facts (minutes).
	SteamAppID                int64      `json:"steam_app_id,omitempty"`
	SteamPlaytimeForever      int        `json:"steam_playtime_forever,omitempty"`
	SteamPlaytimeWindows      int        `json:"steam_playtime_windows,omitempty"`
	SteamPlaytimeMac          int        `json:"steam_playtime_mac,omitempty"`
	SteamPlaytimeLinux        int        `json:"steam_playtime_linux,omitempty"`
	SteamPlaytimeDeck         int        `json:"steam_playtime_deck,omitempty"`
	SteamPlaytimeDisconnected int        `json:"steam_playtime_disconnected,omitempty"`
	SteamLastPlayed           *time.Time `json:"steam_last_played,omitempty"`
	SteamLastSynced           *time.Time `json:"steam_last_synced,omitempty"`
}

// InitTimestamps sets both CreatedAt and UpdatedAt to now.
// Call this when creating a new entity.
func (g *Game) InitTimestamps() {
	now := time.Now()
	g.CreatedAt = now
	g.UpdatedAt = now
}

// Touch updates the UpdatedAt timestamp to the current time.
func (g *Game) Touch() {
	g.UpdatedAt = time.Now()
}

// SetStatus changes the play status and maintains the derived date fields:
// moving to in-progress records StartedAt once, moving to completed records
// CompletedAt and forces completion to 100%.
func (g *Game) SetStatus(status Status) {
	g.Status = status
	now := time.Now()

	switch status {
	case StatusInProgress:
		if g.StartedAt == nil {
			g.StartedAt = &now
		}
	case StatusCompleted:
		if g.CompletedAt == nil {
			g.CompletedAt = &now
		}
		g.CompletionPercentage = 100
	}
}

// HasPlatform reports whether p is in the game's platform list.
func (g *Game) HasPlatform(p Platform) bool {
	if g.Platform == p {
		return true
	}
	for _, have := range g.Platforms {
		if have == p {
			return true
		}
	}
	return false
}

// AddPlatform appends p to the platform list if not already present and
// fills the primary platform field when it is unset.
func (g *Game) AddPlatform(p Platform) {
	if !g.HasPlatform(p) {
		g.Platforms = append(g.Platforms, p)
	}
	if g.Platform == "" {
		g.Platform = p
	}
}
