package domain

import (
	"slices"
	"time"
)

// MergeOwnership copies the library provider's playtime facts from o onto g
// and reports whether any stored value actually changed, so callers can skip
// a redundant write.
//
// Only provider-sourced fields are compared and written. The user-editable
// PlaytimeHours field is filled from the provider total only while it is
// zero; once a value is present (user-entered or previously derived) it is
// left alone. SteamLastSynced is stamped only when something changed, which
// keeps a second application of the same record a no-op.
func MergeOwnership(g *Game, o OwnedGame) bool {
	changed := false

	if g.SteamPlaytimeForever != o.PlaytimeForever {
		g.SteamPlaytimeForever = o.PlaytimeForever
		changed = true
	}
	if g.SteamPlaytimeWindows != o.PlaytimeWindows {
		g.SteamPlaytimeWindows = o.PlaytimeWindows
		changed = true
	}
	if g.SteamPlaytimeMac != o.PlaytimeMac {
		g.SteamPlaytimeMac = o.PlaytimeMac
		changed = true
	}
	if g.SteamPlaytimeLinux != o.PlaytimeLinux {
		g.SteamPlaytimeLinux = o.PlaytimeLinux
		changed = true
	}
	if g.SteamPlaytimeDeck != o.PlaytimeDeck {
		g.SteamPlaytimeDeck = o.PlaytimeDeck
		changed = true
	}
	if g.SteamPlaytimeDisconnected != o.PlaytimeDisconnected {
		g.SteamPlaytimeDisconnected = o.PlaytimeDisconnected
		changed = true
	}
	if !timesEqual(g.SteamLastPlayed, o.LastPlayed) {
		g.SteamLastPlayed = cloneTime(o.LastPlayed)
		changed = true
	}

	// A user-entered playtime always wins over the derived value.
	if hours := o.PlaytimeHours(); g.PlaytimeHours == 0 && hours != 0 {
		g.PlaytimeHours = hours
		changed = true
	}

	if changed {
		now := time.Now()
		g.SteamLastSynced = &now
		g.UpdatedAt = now
	}
	return changed
}

// ApplyMetadata copies the descriptive fields from m onto g. Refreshing from
// the metadata provider is an explicit user action, so the descriptive fields
// overwrite unconditionally. User-owned fields (status, rating, notes,
// favorite, playtime) are never touched here.
//
// The primary genre is derived from the first element of the genre list only
// while it is unset; a manual edit is never reverted.
func ApplyMetadata(g *Game, m Metadata) {
	g.Description = m.Summary
	g.Developer = m.Developer
	g.Publisher = m.Publisher
	g.ReleaseYear = m.ReleaseYear
	g.ReleaseDate = cloneTime(m.ReleaseDate)
	g.Genres = slices.Clone(m.Genres)
	g.CoverImageURL = m.CoverURL
	g.ScreenshotURLs = slices.Clone(m.ScreenshotURLs)

	g.IGDBID = m.IGDBID
	g.IGDBURL = m.URL
	g.IGDBRating = m.Rating
	g.IGDBRatingCount = m.RatingCount

	if g.Genre == "" && len(m.Genres) > 0 {
		g.Genre = m.Genres[0]
	}
}

// NewGameFromMetadata builds a fresh catalog entry from a provider record.
// Identity fields are seeded from the record and user-editable fields start
// at their defaults. The caller assigns the id and persists.
func NewGameFromMetadata(m Metadata) *Game {
	g := &Game{
		Title:  m.Name,
		Status: StatusNotStarted,
	}
	if m.SteamAppID != 0 {
		g.SteamAppID = m.SteamAppID
	}
	ApplyMetadata(g, m)
	return g
}

func timesEqual(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
