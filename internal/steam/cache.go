package steam

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/infernokun/inferno-games-server/internal/domain"
)

// OwnedGamesSource is the slice of the client the cache needs.
type OwnedGamesSource interface {
	GetOwnedGames(ctx context.Context) ([]domain.OwnedGame, error)
	IsConfigured() bool
}

// LibraryCache keeps an approximately fresh mirror of the account's owned
// games so reads never hit the provider more often than the TTL allows.
//
// The snapshot is replaced atomically under a write lock. Readers observe
// either the fully old or fully new snapshot, never a partial one. On a
// failed refresh the previous snapshot is retained.
type LibraryCache struct {
	source OwnedGamesSource
	logger *slog.Logger
	ttl    time.Duration

	// Overridable for tests.
	now func() time.Time

	mu          sync.RWMutex
	ordered     []domain.OwnedGame
	byID        map[int64]domain.OwnedGame
	refreshedAt time.Time
}

// NewLibraryCache creates a cache over a Steam client.
func NewLibraryCache(source OwnedGamesSource, ttl time.Duration, logger *slog.Logger) *LibraryCache {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &LibraryCache{
		source: source,
		logger: logger,
		ttl:    ttl,
		now:    time.Now,
	}
}

// IsConfigured reports whether the underlying client has credentials.
func (c *LibraryCache) IsConfigured() bool {
	return c.source.IsConfigured()
}

// GetAll returns the current snapshot in provider order, refreshing first if
// the cache is uninitialized or older than the TTL. A failed refresh logs
// and falls back to the stale snapshot; an unconfigured client yields nil.
func (c *LibraryCache) GetAll(ctx context.Context) []domain.OwnedGame {
	if !c.ensureFresh(ctx) {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.ordered)
}

// Lookup returns the ownership record for an app id, with the same
// staleness handling as GetAll.
func (c *LibraryCache) Lookup(ctx context.Context, appID int64) (domain.OwnedGame, bool) {
	if !c.ensureFresh(ctx) {
		return domain.OwnedGame{}, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	g, ok := c.byID[appID]
	return g, ok
}

// Refresh fetches the owned-games list and atomically replaces the snapshot.
// On error the previous snapshot is retained and the error returned.
func (c *LibraryCache) Refresh(ctx context.Context) error {
	if !c.source.IsConfigured() {
		return ErrNotConfigured
	}

	// Fetch outside the lock; only the swap is guarded.
	games, err := c.source.GetOwnedGames(ctx)
	if err != nil {
		return err
	}

	byID := make(map[int64]domain.OwnedGame, len(games))
	for _, g := range games {
		byID[g.AppID] = g
	}

	c.mu.Lock()
	c.ordered = games
	c.byID = byID
	c.refreshedAt = c.now()
	c.mu.Unlock()

	c.logger.Debug("steam library cache refreshed",
		"games", len(games),
	)
	return nil
}

// Len returns the number of titles in the current snapshot without
// triggering a refresh.
func (c *LibraryCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.ordered)
}

// RefreshedAt returns when the snapshot was last replaced, zero if never.
func (c *LibraryCache) RefreshedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refreshedAt
}

// ensureFresh refreshes a stale or uninitialized cache, tolerating refresh
// failures when a stale snapshot exists. Returns false only when the client
// is unconfigured.
func (c *LibraryCache) ensureFresh(ctx context.Context) bool {
	if !c.source.IsConfigured() {
		return false
	}

	c.mu.RLock()
	fresh := !c.refreshedAt.IsZero() && c.now().Sub(c.refreshedAt) < c.ttl
	c.mu.RUnlock()
	if fresh {
		return true
	}

	if err := c.Refresh(ctx); err != nil {
		c.logger.Warn("steam library refresh failed, serving stale snapshot",
			"error", err,
		)
	}
	return true
}
