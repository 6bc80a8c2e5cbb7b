package service

import (
	"context"
	"log/slog"

	"github.com/infernokun/inferno-games-server/internal/domain"
	apperrors "github.com/infernokun/inferno-games-server/internal/errors"
	"github.com/infernokun/inferno-games-server/internal/steam"
	"github.com/infernokun/inferno-games-server/internal/store"
)

// SyncResult summarizes one playtime synchronization pass.
type SyncResult struct {
	Configured bool `json:"configured"`
	Linked     int  `json:"linked"`  // catalog entries with a Steam link
	Updated    int  `json:"updated"` // entries whose playtime facts changed
	Errors     int  `json:"errors"`  // per-entry failures, run continues past them
}

// SteamSyncService mirrors playtime facts from the Steam library into
// linked catalog entries. Merges are idempotent and never touch user fields;
// entries are only persisted when something actually changed.
type SteamSyncService struct {
	store  *store.Store
	cache  *steam.LibraryCache
	logger *slog.Logger
}

// NewSteamSyncService creates a new sync service.
func NewSteamSyncService(store *store.Store, cache *steam.LibraryCache, logger *slog.Logger) *SteamSyncService {
	return &SteamSyncService{
		store:  store,
		cache:  cache,
		logger: logger,
	}
}

// SyncPlaytime refreshes the library cache and merges ownership facts into
// every linked catalog entry. Per-entry failures are counted and logged, the
// pass continues past them. A failed cache refresh falls back to the stale
// snapshot rather than failing the pass.
func (s *SteamSyncService) SyncPlaytime(ctx context.Context) (*SyncResult, error) {
	result := &SyncResult{Configured: s.cache.IsConfigured()}
	if !result.Configured {
		s.logger.Debug("steam not configured, skipping playtime sync")
		return result, nil
	}

	if err := s.cache.Refresh(ctx); err != nil {
		s.logger.Warn("steam refresh failed, syncing against stale snapshot",
			"error", err,
		)
	}

	games, err := s.store.ListGames(ctx)
	if err != nil {
		return nil, err
	}

	for i := range games {
		game := &games[i]
		if game.SteamAppID == 0 {
			continue
		}
		result.Linked++

		owned, ok := s.cache.Lookup(ctx, game.SteamAppID)
		if !ok {
			// Ownership can lapse; a linked entry with no current
			// ownership record is not an error.
			continue
		}

		if !domain.MergeOwnership(game, owned) {
			continue
		}

		if err := s.store.UpdateGame(ctx, game); err != nil {
			result.Errors++
			s.logger.Warn("failed to persist synced playtime",
				"game_id", game.ID,
				"title", game.Title,
				"error", err,
			)
			continue
		}
		result.Updated++
	}

	s.logger.Info("playtime sync completed",
		"linked", result.Linked,
		"updated", result.Updated,
		"errors", result.Errors,
	)
	return result, nil
}

// SyncGame merges current ownership facts into a single catalog entry.
// Unlike the scheduled pass, errors propagate so the caller can surface them.
func (s *SteamSyncService) SyncGame(ctx context.Context, id string) (*domain.Game, error) {
	game, err := s.store.GetGame(ctx, id)
	if err != nil {
		return nil, err
	}
	if game.SteamAppID == 0 {
		return nil, apperrors.Validation("game is not linked to a steam app")
	}
	if !s.cache.IsConfigured() {
		return nil, apperrors.ErrNotConfigured
	}

	owned, ok := s.cache.Lookup(ctx, game.SteamAppID)
	if !ok {
		return nil, apperrors.NotFoundf("app %d not present in steam library", game.SteamAppID)
	}

	if domain.MergeOwnership(game, owned) {
		if err := s.store.UpdateGame(ctx, game); err != nil {
			return nil, err
		}
	}
	return game, nil
}

// ValidatePlatforms assigns the PC platform to linked catalog entries that
// are confirmed owned on Steam but carry no PC platform tag. Returns how
// many entries were updated.
func (s *SteamSyncService) ValidatePlatforms(ctx context.Context) (int, error) {
	if !s.cache.IsConfigured() {
		return 0, nil
	}

	games, err := s.store.ListGames(ctx)
	if err != nil {
		return 0, err
	}

	updated := 0
	for i := range games {
		game := &games[i]
		if game.SteamAppID == 0 || game.HasPlatform(domain.PlatformPC) {
			continue
		}
		if _, ok := s.cache.Lookup(ctx, game.SteamAppID); !ok {
			continue
		}

		game.AddPlatform(domain.PlatformPC)
		game.Touch()
		if err := s.store.UpdateGame(ctx, game); err != nil {
			s.logger.Warn("failed to persist platform assignment",
				"game_id", game.ID,
				"error", err,
			)
			continue
		}
		updated++
	}

	if updated > 0 {
		s.logger.Info("platform validation completed", "updated", updated)
	}
	return updated, nil
}
