package service

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/infernokun/inferno-games-server/internal/domain"
	apperrors "github.com/infernokun/inferno-games-server/internal/errors"
	"github.com/infernokun/inferno-games-server/internal/steam"
	"github.com/infernokun/inferno-games-server/internal/store"
)

// GenreSource resolves cached genre lookups for owned titles. Implemented by
// the enrichment coordinator.
type GenreSource interface {
	CachedGenres(appID int64) ([]string, bool)
}

// OwnedEntry is one Steam library title decorated with local catalog state.
type OwnedEntry struct {
	domain.OwnedGame
	Genres  []string `json:"genres,omitempty"`
	Tracked bool     `json:"tracked"` // a catalog entry links to this app
	GameID  string   `json:"game_id,omitempty"`
}

// OwnedStats are aggregate numbers over the Steam library snapshot.
type OwnedStats struct {
	TotalGames         int     `json:"total_games"`
	PlayedGames        int     `json:"played_games"`
	TotalPlaytimeHours float64 `json:"total_playtime_hours"`
	Tracked            int     `json:"tracked"`
}

// LibraryService exposes read views over the Steam library, overlaying
// genres from the local catalog for tracked titles and from the enrichment
// cache for everything else.
type LibraryService struct {
	client *steam.Client
	cache  *steam.LibraryCache
	store  *store.Store
	genres GenreSource
	logger *slog.Logger
}

// NewLibraryService creates a new library service.
func NewLibraryService(
	client *steam.Client,
	cache *steam.LibraryCache,
	store *store.Store,
	genres GenreSource,
	logger *slog.Logger,
) *LibraryService {
	return &LibraryService{
		client: client,
		cache:  cache,
		store:  store,
		genres: genres,
		logger: logger,
	}
}

// IsConfigured reports whether Steam credentials are present.
func (s *LibraryService) IsConfigured() bool {
	return s.cache.IsConfigured()
}

// Owned returns the owned library in provider order with the genre overlay.
func (s *LibraryService) Owned(ctx context.Context) ([]OwnedEntry, error) {
	if !s.cache.IsConfigured() {
		return nil, apperrors.ErrNotConfigured
	}
	return s.decorate(ctx, s.cache.GetAll(ctx)), nil
}

// SearchOwned filters the owned library by a case-insensitive name substring.
func (s *LibraryService) SearchOwned(ctx context.Context, query string) ([]OwnedEntry, error) {
	if !s.cache.IsConfigured() {
		return nil, apperrors.ErrNotConfigured
	}

	query = strings.ToLower(strings.TrimSpace(query))
	var matched []domain.OwnedGame
	for _, g := range s.cache.GetAll(ctx) {
		if strings.Contains(strings.ToLower(g.Name), query) {
			matched = append(matched, g)
		}
	}
	return s.decorate(ctx, matched), nil
}

// MostPlayed returns the top owned titles by total playtime.
func (s *LibraryService) MostPlayed(ctx context.Context, limit int) ([]OwnedEntry, error) {
	if !s.cache.IsConfigured() {
		return nil, apperrors.ErrNotConfigured
	}
	if limit <= 0 {
		limit = 10
	}

	games := s.cache.GetAll(ctx)
	sort.SliceStable(games, func(i, j int) bool {
		return games[i].PlaytimeForever > games[j].PlaytimeForever
	})
	if len(games) > limit {
		games = games[:limit]
	}
	return s.decorate(ctx, games), nil
}

// RecentlyPlayed returns titles played in the last two weeks, straight from
// the provider (this endpoint is cheap and not cached).
func (s *LibraryService) RecentlyPlayed(ctx context.Context, count int) ([]OwnedEntry, error) {
	games, err := s.client.GetRecentlyPlayed(ctx, count)
	if err != nil {
		return nil, convertSteamError(err)
	}
	return s.decorate(ctx, games), nil
}

// IsOwned reports whether the app is in the current library snapshot.
func (s *LibraryService) IsOwned(ctx context.Context, appID int64) bool {
	_, ok := s.cache.Lookup(ctx, appID)
	return ok
}

// Profile returns the Steam account summary.
func (s *LibraryService) Profile(ctx context.Context) (*steam.PlayerSummary, error) {
	summary, err := s.client.GetPlayerSummary(ctx)
	if err != nil {
		return nil, convertSteamError(err)
	}
	return summary, nil
}

// Stats aggregates numbers over the owned library snapshot.
func (s *LibraryService) Stats(ctx context.Context) (*OwnedStats, error) {
	if !s.cache.IsConfigured() {
		return nil, apperrors.ErrNotConfigured
	}

	stats := &OwnedStats{}
	for _, g := range s.cache.GetAll(ctx) {
		stats.TotalGames++
		stats.TotalPlaytimeHours += g.PlaytimeHours()
		if g.PlaytimeForever > 0 {
			stats.PlayedGames++
		}
		if _, err := s.store.GetGameBySteamAppID(ctx, g.AppID); err == nil {
			stats.Tracked++
		}
	}
	return stats, nil
}

// RefreshCache forces an immediate library snapshot refresh.
func (s *LibraryService) RefreshCache(ctx context.Context) (int, error) {
	if err := s.cache.Refresh(ctx); err != nil {
		return 0, convertSteamError(err)
	}
	return s.cache.Len(), nil
}

// decorate overlays local catalog state and cached genres on a snapshot.
func (s *LibraryService) decorate(ctx context.Context, games []domain.OwnedGame) []OwnedEntry {
	entries := make([]OwnedEntry, 0, len(games))
	for _, g := range games {
		entry := OwnedEntry{OwnedGame: g}

		if local, err := s.store.GetGameBySteamAppID(ctx, g.AppID); err == nil {
			entry.Tracked = true
			entry.GameID = local.ID
			if len(local.Genres) > 0 {
				entry.Genres = local.Genres
			} else if local.Genre != "" {
				entry.Genres = []string{local.Genre}
			}
		}
		if entry.Genres == nil && s.genres != nil {
			if cached, ok := s.genres.CachedGenres(g.AppID); ok {
				entry.Genres = cached
			}
		}

		entries = append(entries, entry)
	}
	return entries
}

// convertSteamError maps provider sentinel errors onto the application
// error taxonomy.
func convertSteamError(err error) error {
	switch {
	case err == nil:
		return nil
	case apperrors.Is(err, steam.ErrNotConfigured):
		return apperrors.ErrNotConfigured.WithCause(err)
	default:
		return apperrors.Wrap(err, apperrors.CodeUnavailable, "steam request failed")
	}
}
