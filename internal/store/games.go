package store

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/infernokun/inferno-games-server/internal/domain"
)

// Game Operations
//
// Typed wrappers around the generic Games entity that also keep the search
// index in sync. Index updates run in the background so writes never block
// on search.

// CreateGame creates a new game.
func (s *Store) CreateGame(ctx context.Context, game *domain.Game) error {
	if err := s.Games.Create(ctx, game.ID, game); err != nil {
		return fmt.Errorf("create game: %w", err)
	}

	s.indexAsync(game)

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "game created",
			slog.String("id", game.ID),
			slog.String("title", game.Title),
		)
	}
	return nil
}

// GetGame retrieves a game by ID.
func (s *Store) GetGame(ctx context.Context, id string) (*domain.Game, error) {
	return s.Games.Get(ctx, id)
}

// GetGameBySteamAppID retrieves the game linked to a Steam app id.
func (s *Store) GetGameBySteamAppID(ctx context.Context, appID int64) (*domain.Game, error) {
	return s.Games.GetByIndex(ctx, "steam", strconv.FormatInt(appID, 10))
}

// GetGameByIGDBID retrieves the game linked to an IGDB id.
func (s *Store) GetGameByIGDBID(ctx context.Context, igdbID int64) (*domain.Game, error) {
	return s.Games.GetByIndex(ctx, "igdb", strconv.FormatInt(igdbID, 10))
}

// UpdateGame updates an existing game.
func (s *Store) UpdateGame(ctx context.Context, game *domain.Game) error {
	if err := s.Games.Update(ctx, game.ID, game); err != nil {
		return fmt.Errorf("update game: %w", err)
	}

	s.indexAsync(game)
	return nil
}

// DeleteGame removes a game. Idempotent.
func (s *Store) DeleteGame(ctx context.Context, id string) error {
	if err := s.Games.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete game: %w", err)
	}

	go func() {
		if err := s.searchIndexer.DeleteGame(context.Background(), id); err != nil && s.logger != nil {
			s.logger.Warn("failed to remove game from search index",
				"id", id,
				"error", err,
			)
		}
	}()

	if s.logger != nil {
		s.logger.LogAttrs(ctx, slog.LevelInfo, "game deleted",
			slog.String("id", id),
		)
	}
	return nil
}

// ListGames returns all games in the catalog.
func (s *Store) ListGames(ctx context.Context) ([]domain.Game, error) {
	var games []domain.Game
	for game, err := range s.Games.List(ctx) {
		if err != nil {
			return nil, fmt.Errorf("list games: %w", err)
		}
		games = append(games, *game)
	}
	return games, nil
}

// indexAsync pushes a game into the search index without blocking the write.
func (s *Store) indexAsync(game *domain.Game) {
	snapshot := *game
	go func() {
		if err := s.searchIndexer.IndexGame(context.Background(), &snapshot); err != nil && s.logger != nil {
			s.logger.Warn("failed to index game for search",
				"id", snapshot.ID,
				"error", err,
			)
		}
	}()
}
