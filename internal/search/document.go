// Package search provides full-text search over the game catalog using Bleve.
// It supports fuzzy matching, genre and status filtering, and faceted counts.
package search

import (
	"github.com/infernokun/inferno-games-server/internal/domain"
	"github.com/infernokun/inferno-games-server/internal/genre"
)

// SearchDocument is the document structure stored in the Bleve index.
// It denormalizes the searchable parts of a Game so a single query can
// match on title, developer, or genre without touching the store.
type SearchDocument struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Developer   string `json:"developer,omitempty"`
	Publisher   string `json:"publisher,omitempty"`

	// Keyword fields for exact filtering and faceting.
	Status     string   `json:"status"`
	Platforms  []string `json:"platforms,omitempty"`
	GenreSlugs []string `json:"genre_slugs,omitempty"`
	Genres     []string `json:"genres,omitempty"` // Display names, stored for results

	// Numeric fields for range queries and sorting.
	ReleaseYear   int     `json:"release_year,omitempty"`
	Rating        int     `json:"rating,omitempty"`
	PlaytimeHours float64 `json:"playtime_hours,omitempty"`
	Favorite      bool    `json:"favorite,omitempty"`

	// Timestamps for sorting by recency. Unix millis.
	CreatedAt int64 `json:"created_at"`
	UpdatedAt int64 `json:"updated_at"`
}

// ToMap converts the document to a map with lowercase field names.
// Bleve by default uses Go struct field names (capitalized), but our
// mapping uses lowercase names, so we convert explicitly.
func (d *SearchDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":         d.ID,
		"name":       d.Name,
		"status":     d.Status,
		"created_at": d.CreatedAt,
		"updated_at": d.UpdatedAt,
	}

	// Optional fields - only add if non-empty
	if d.Description != "" {
		m["description"] = d.Description
	}
	if d.Developer != "" {
		m["developer"] = d.Developer
	}
	if d.Publisher != "" {
		m["publisher"] = d.Publisher
	}
	if len(d.Platforms) > 0 {
		m["platforms"] = d.Platforms
	}
	if len(d.GenreSlugs) > 0 {
		m["genre_slugs"] = d.GenreSlugs
	}
	if len(d.Genres) > 0 {
		m["genres"] = d.Genres
	}
	if d.ReleaseYear > 0 {
		m["release_year"] = d.ReleaseYear
	}
	if d.Rating > 0 {
		m["rating"] = d.Rating
	}
	if d.PlaytimeHours > 0 {
		m["playtime_hours"] = d.PlaytimeHours
	}
	if d.Favorite {
		m["favorite"] = true
	}

	return m
}

// GameToSearchDocument converts a domain Game to a SearchDocument.
func GameToSearchDocument(g *domain.Game) *SearchDocument {
	doc := &SearchDocument{
		ID:            g.ID,
		Name:          g.Title,
		Description:   g.Description,
		Developer:     g.Developer,
		Publisher:     g.Publisher,
		Status:        string(g.Status),
		ReleaseYear:   g.ReleaseYear,
		Rating:        g.Rating,
		PlaytimeHours: g.PlaytimeHours,
		Favorite:      g.Favorite,
		CreatedAt:     g.CreatedAt.UnixMilli(),
		UpdatedAt:     g.UpdatedAt.UnixMilli(),
	}

	genres := genre.Normalize(g.Genres)
	if len(genres) == 0 && g.Genre != "" {
		genres = genre.Normalize([]string{g.Genre})
	}
	doc.Genres = genres
	for _, name := range genres {
		doc.GenreSlugs = append(doc.GenreSlugs, genre.Slugify(name))
	}

	for _, p := range g.Platforms {
		doc.Platforms = append(doc.Platforms, string(p))
	}
	if len(doc.Platforms) == 0 && g.Platform != "" {
		doc.Platforms = []string{string(g.Platform)}
	}

	return doc
}
