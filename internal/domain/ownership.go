package domain

import "time"

// OwnedGame represents one title confirmed owned on the library provider,
// with the playtime facts it reports. Identity is the provider's app id.
//
// Records are created wholesale on each cache refresh and never partially
// mutated outside a refresh.
type OwnedGame struct {
	AppID                int64      `json:"app_id"`
	Name                 string     `json:"name"`
	PlaytimeForever      int        `json:"playtime_forever"` // minutes across all platforms
	PlaytimeWindows      int        `json:"playtime_windows,omitempty"`
	PlaytimeMac          int        `json:"playtime_mac,omitempty"`
	PlaytimeLinux        int        `json:"playtime_linux,omitempty"`
	PlaytimeDeck         int        `json:"playtime_deck,omitempty"`
	PlaytimeDisconnected int        `json:"playtime_disconnected,omitempty"`
	LastPlayed           *time.Time `json:"last_played,omitempty"`
	HasCommunityStats    bool       `json:"has_community_stats,omitempty"`
	IconURL              string     `json:"icon_url,omitempty"`
}

// PlaytimeHours returns the total playtime converted to fractional hours.
func (o OwnedGame) PlaytimeHours() float64 {
	return float64(o.PlaytimeForever) / 60.0
}
