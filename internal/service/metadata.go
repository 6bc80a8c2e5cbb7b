// Package service provides the business logic layer for the game catalog,
// the Steam library, and the background synchronization engine.
package service

import (
	"context"
	"log/slog"

	"github.com/infernokun/inferno-games-server/internal/domain"
	apperrors "github.com/infernokun/inferno-games-server/internal/errors"
	"github.com/infernokun/inferno-games-server/internal/genre"
	"github.com/infernokun/inferno-games-server/internal/metadata/igdb"
)

// MetadataService orchestrates metadata-provider lookups.
type MetadataService struct {
	client *igdb.Client
	logger *slog.Logger
}

// NewMetadataService creates a new metadata service.
func NewMetadataService(client *igdb.Client, logger *slog.Logger) *MetadataService {
	return &MetadataService{
		client: client,
		logger: logger,
	}
}

// IsConfigured reports whether the metadata provider has credentials.
func (s *MetadataService) IsConfigured() bool {
	return s.client.IsConfigured()
}

// Search searches the IGDB catalog by name.
// Results are transient and not cached.
func (s *MetadataService) Search(ctx context.Context, query string, limit int) ([]domain.Metadata, error) {
	s.logger.Debug("searching IGDB",
		"query", query,
	)

	games, err := s.client.SearchByName(ctx, query, limit)
	if err != nil {
		return nil, convertIGDBError(err)
	}
	return metadataList(games), nil
}

// Get fetches a single IGDB record by id.
func (s *MetadataService) Get(ctx context.Context, igdbID int64) (*domain.Metadata, error) {
	game, err := s.client.GetByID(ctx, igdbID)
	if err != nil {
		return nil, convertIGDBError(err)
	}
	m := MetadataFromIGDB(*game)
	return &m, nil
}

// Popular returns highly rated, widely reviewed titles for discovery views.
func (s *MetadataService) Popular(ctx context.Context, limit int) ([]domain.Metadata, error) {
	games, err := s.client.Popular(ctx, limit)
	if err != nil {
		return nil, convertIGDBError(err)
	}
	return metadataList(games), nil
}

// RecentReleases returns titles released in the last 90 days.
func (s *MetadataService) RecentReleases(ctx context.Context, limit int) ([]domain.Metadata, error) {
	games, err := s.client.RecentReleases(ctx, limit)
	if err != nil {
		return nil, convertIGDBError(err)
	}
	return metadataList(games), nil
}

// Upcoming returns titles with a future release date.
func (s *MetadataService) Upcoming(ctx context.Context, limit int) ([]domain.Metadata, error) {
	games, err := s.client.Upcoming(ctx, limit)
	if err != nil {
		return nil, convertIGDBError(err)
	}
	return metadataList(games), nil
}

// MetadataFromIGDB maps a provider record into domain terms, normalizing
// genre names on the way in.
func MetadataFromIGDB(g igdb.Game) domain.Metadata {
	return domain.Metadata{
		IGDBID:         g.ID,
		Name:           g.Name,
		Summary:        g.Summary,
		Developer:      g.Developer,
		Publisher:      g.Publisher,
		ReleaseYear:    g.ReleaseYear(),
		ReleaseDate:    g.ReleaseDate,
		Genres:         genre.Normalize(g.Genres),
		CoverURL:       g.CoverURL,
		ScreenshotURLs: g.ScreenshotURLs,
		Rating:         g.Rating,
		RatingCount:    g.RatingCount,
		URL:            g.URL,
		SteamAppID:     g.SteamAppID,
	}
}

func metadataList(games []igdb.Game) []domain.Metadata {
	out := make([]domain.Metadata, 0, len(games))
	for _, g := range games {
		out = append(out, MetadataFromIGDB(g))
	}
	return out
}

// convertIGDBError maps provider sentinel errors onto the application error
// taxonomy so handlers can translate them without importing the client.
func convertIGDBError(err error) error {
	switch {
	case err == nil:
		return nil
	case apperrors.Is(err, igdb.ErrNotConfigured):
		return apperrors.ErrNotConfigured.WithCause(err)
	case apperrors.Is(err, igdb.ErrAuthFailed):
		return apperrors.ErrAuthFailed.WithCause(err)
	case apperrors.Is(err, igdb.ErrRateLimited):
		return apperrors.ErrRateLimited.WithCause(err)
	case apperrors.Is(err, igdb.ErrNotFound):
		return apperrors.NotFound("metadata record not found").WithCause(err)
	default:
		return apperrors.Wrap(err, apperrors.CodeUnavailable, "metadata provider request failed")
	}
}
