// Package store provides persistence for the game catalog on top of Badger.
package store

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/dgraph-io/badger/v4"

	"github.com/infernokun/inferno-games-server/internal/domain"
)

// SearchIndexer is the interface for updating the search index.
// Store uses this to keep search in sync without depending on search
// implementation. Index updates must not block store operations.
type SearchIndexer interface {
	IndexGame(ctx context.Context, game *domain.Game) error
	DeleteGame(ctx context.Context, gameID string) error
}

// NoopSearchIndexer is a no-op implementation for testing.
type NoopSearchIndexer struct{}

// IndexGame is a no-op.
func (NoopSearchIndexer) IndexGame(context.Context, *domain.Game) error { return nil }

// DeleteGame is a no-op.
func (NoopSearchIndexer) DeleteGame(context.Context, string) error { return nil }

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	// Search indexer for keeping search in sync with store changes.
	// Set via SetSearchIndexer after store creation to avoid circular dependencies.
	searchIndexer SearchIndexer

	// Generic entities
	Games *Entity[domain.Game]
}

// New creates a new Store instance with the given database path.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	store := &Store{
		db:            db,
		logger:        logger,
		searchIndexer: NoopSearchIndexer{},
	}

	store.initGames()

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", path)
	}

	return store, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

// SetSearchIndexer sets the search indexer for keeping search in sync.
// This is set after store creation to avoid circular dependencies
// (store needs to exist before the search service can be created).
func (s *Store) SetSearchIndexer(indexer SearchIndexer) {
	s.searchIndexer = indexer
}

// initGames initializes the Games entity on the store.
// Both external-id indexes are sparse: unlinked games produce no entries.
func (s *Store) initGames() {
	s.Games = NewEntity[domain.Game](s, "game:").
		WithIndex("steam", func(g *domain.Game) []string {
			if g.SteamAppID == 0 {
				return nil
			}
			return []string{strconv.FormatInt(g.SteamAppID, 10)}
		}).
		WithIndex("igdb", func(g *domain.Game) []string {
			if g.IGDBID == 0 {
				return nil
			}
			return []string{strconv.FormatInt(g.IGDBID, 10)}
		})
}
