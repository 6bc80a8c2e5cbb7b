package igdb

import (
	"strconv"
	"strings"
	"time"
)

// externalCategorySteam is IGDB's category code for Steam store links.
const externalCategorySteam = 1

// Game is one IGDB record with the fields this application cares about.
type Game struct {
	ID             int64
	Name           string
	Summary        string
	ReleaseDate    *time.Time
	Genres         []string
	CoverURL       string
	ScreenshotURLs []string
	Developer      string
	Publisher      string
	Rating         float64
	RatingCount    int
	URL            string
	SteamAppID     int64
}

// ReleaseYear returns the release year, or 0 when unknown.
func (g Game) ReleaseYear() int {
	if g.ReleaseDate == nil {
		return 0
	}
	return g.ReleaseDate.Year()
}

// Raw API response types (internal)

type rawGame struct {
	ID               int64         `json:"id"`
	Name             string        `json:"name"`
	Summary          string        `json:"summary"`
	FirstReleaseDate int64         `json:"first_release_date"`
	Genres           []rawNamed    `json:"genres"`
	Cover            *rawImage     `json:"cover"`
	Screenshots      []rawImage    `json:"screenshots"`
	Involved         []rawInvolved `json:"involved_companies"`
	Rating           float64       `json:"rating"`
	RatingCount      int           `json:"rating_count"`
	URL              string        `json:"url"`
	ExternalGames    []rawExternal `json:"external_games"`
}

type rawNamed struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type rawImage struct {
	URL string `json:"url"`
}

type rawInvolved struct {
	Company   rawNamed `json:"company"`
	Developer bool     `json:"developer"`
	Publisher bool     `json:"publisher"`
}

type rawExternal struct {
	Category int    `json:"category"`
	UID      string `json:"uid"`
}

// toGame converts a raw record, normalizing image URLs to full-size https.
func toGame(r *rawGame) Game {
	g := Game{
		ID:          r.ID,
		Name:        r.Name,
		Summary:     r.Summary,
		Rating:      r.Rating,
		RatingCount: r.RatingCount,
		URL:         r.URL,
	}

	if r.FirstReleaseDate > 0 {
		t := time.Unix(r.FirstReleaseDate, 0).UTC()
		g.ReleaseDate = &t
	}

	for _, genre := range r.Genres {
		if genre.Name != "" {
			g.Genres = append(g.Genres, genre.Name)
		}
	}

	if r.Cover != nil {
		g.CoverURL = normalizeImageURL(r.Cover.URL, "t_cover_big")
	}
	for _, shot := range r.Screenshots {
		if u := normalizeImageURL(shot.URL, "t_screenshot_big"); u != "" {
			g.ScreenshotURLs = append(g.ScreenshotURLs, u)
		}
	}

	for _, inv := range r.Involved {
		if inv.Developer && g.Developer == "" {
			g.Developer = inv.Company.Name
		}
		if inv.Publisher && g.Publisher == "" {
			g.Publisher = inv.Company.Name
		}
	}

	for _, ext := range r.ExternalGames {
		if ext.Category == externalCategorySteam {
			if appID, err := strconv.ParseInt(ext.UID, 10, 64); err == nil {
				g.SteamAppID = appID
				break
			}
		}
	}

	return g
}

// normalizeImageURL upgrades IGDB's thumbnail URLs to the requested size and
// makes the protocol-relative form absolute.
func normalizeImageURL(u, size string) string {
	if u == "" {
		return ""
	}
	u = strings.Replace(u, "t_thumb", size, 1)
	if strings.HasPrefix(u, "//") {
		u = "https:" + u
	}
	return u
}
