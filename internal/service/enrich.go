package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/infernokun/inferno-games-server/internal/config"
	"github.com/infernokun/inferno-games-server/internal/domain"
	"github.com/infernokun/inferno-games-server/internal/genre"
	"github.com/infernokun/inferno-games-server/internal/metadata/igdb"
	"github.com/infernokun/inferno-games-server/internal/util"
)

// MetadataSearcher is the slice of the IGDB client enrichment needs.
type MetadataSearcher interface {
	SearchByName(ctx context.Context, name string, limit int) ([]igdb.Game, error)
	IsConfigured() bool
}

// OwnedLibrary is the slice of the Steam library cache enrichment needs.
type OwnedLibrary interface {
	GetAll(ctx context.Context) []domain.OwnedGame
	IsConfigured() bool
}

// CatalogLister is the slice of the store enrichment needs.
type CatalogLister interface {
	ListGames(ctx context.Context) ([]domain.Game, error)
}

// EnrichmentTunables control the pacing of the drain loop. They exist as
// explicit settings (not constants buried in the loop) so tests can shrink
// them to milliseconds.
type EnrichmentTunables struct {
	BatchSize         int           // lookups between pauses
	BatchPause        time.Duration // pause after each batch
	RateLimitCooldown time.Duration // wait before retrying a rate-limited lookup
	SearchLimit       int           // candidates requested per lookup
}

// TunablesFromConfig builds enrichment tunables from the sync configuration.
func TunablesFromConfig(cfg config.SyncConfig) EnrichmentTunables {
	return EnrichmentTunables{
		BatchSize:         cfg.EnrichmentBatchSize,
		BatchPause:        cfg.EnrichmentBatchPause,
		RateLimitCooldown: cfg.RateLimitCooldown,
	}
}

func (t *EnrichmentTunables) applyDefaults() {
	if t.BatchSize <= 0 {
		t.BatchSize = 3
	}
	if t.BatchPause <= 0 {
		t.BatchPause = time.Second
	}
	if t.RateLimitCooldown <= 0 {
		t.RateLimitCooldown = 5 * time.Second
	}
	if t.SearchLimit <= 0 {
		t.SearchLimit = 10
	}
}

// EnrichmentStatus is the read-only view of the coordinator for operators.
type EnrichmentStatus struct {
	Running     bool `json:"running"`
	CachedCount int  `json:"cached_count"`
	Configured  bool `json:"configured"`
}

// EnrichmentService backfills genre classification for owned titles that are
// not tracked locally, working within the metadata provider's request budget.
//
// At most one run executes at a time. The genre cache distinguishes "never
// looked up" (key absent) from "looked up, nothing found" (key present with
// an empty list); only the former generates provider calls.
type EnrichmentService struct {
	library  OwnedLibrary
	catalog  CatalogLister
	searcher MetadataSearcher
	logger   *slog.Logger
	tunables EnrichmentTunables

	running atomic.Bool
	genres  *util.SyncMap[int64, []string]
}

// NewEnrichmentService creates the enrichment coordinator.
func NewEnrichmentService(
	library OwnedLibrary,
	catalog CatalogLister,
	searcher MetadataSearcher,
	tunables EnrichmentTunables,
	logger *slog.Logger,
) *EnrichmentService {
	tunables.applyDefaults()
	return &EnrichmentService{
		library:  library,
		catalog:  catalog,
		searcher: searcher,
		logger:   logger,
		tunables: tunables,
		genres:   util.NewSyncMap[int64, []string](),
	}
}

// Trigger starts an enrichment run in the background and returns
// immediately. A run already in progress makes this a no-op.
func (s *EnrichmentService) Trigger() {
	go s.run(context.Background())
}

// Status reports whether a run is in flight and how many lookups are cached.
func (s *EnrichmentService) Status() EnrichmentStatus {
	return EnrichmentStatus{
		Running:     s.running.Load(),
		CachedCount: s.genres.Len(),
		Configured:  s.searcher.IsConfigured() && s.library.IsConfigured(),
	}
}

// ClearCache drops every cached genre lookup, forcing full re-classification
// on the next run.
func (s *EnrichmentService) ClearCache() {
	s.genres.Clear()
	s.logger.Info("enrichment genre cache cleared")
}

// CachedGenres returns the cached genre list for an owned title. The second
// return distinguishes "never looked up" from "looked up, empty".
func (s *EnrichmentService) CachedGenres(appID int64) ([]string, bool) {
	return s.genres.Load(appID)
}

// run executes one enrichment pass. Errors never propagate to the caller;
// every failure is classified, logged, and either retried, skipped, or used
// to end the run early.
func (s *EnrichmentService) run(ctx context.Context) {
	if !s.running.CompareAndSwap(false, true) {
		s.logger.Debug("enrichment run already in progress, ignoring trigger")
		return
	}
	defer s.running.Store(false)

	log := s.logger.With("run_id", uuid.NewString())

	defer func() {
		if r := recover(); r != nil {
			log.Error("enrichment run panicked", "panic", r)
		}
	}()

	if !s.searcher.IsConfigured() || !s.library.IsConfigured() {
		log.Debug("enrichment skipped, provider not configured")
		return
	}

	backlog, err := s.computeBacklog(ctx)
	if err != nil {
		log.Warn("failed to compute enrichment backlog", "error", err)
		return
	}
	if len(backlog) == 0 {
		log.Debug("enrichment backlog empty")
		return
	}

	log.Info("enrichment run started",
		"backlog", len(backlog),
	)
	started := time.Now()

	classified, aborted := s.drain(ctx, log, backlog)

	log.Info("enrichment run finished",
		"classified", classified,
		"aborted", aborted,
		"duration", time.Since(started),
	)
}

// computeBacklog returns the owned titles needing a genre lookup, in library
// order: not classified by a local catalog entry and not already present in
// the genre cache. A cached empty list counts as looked up.
func (s *EnrichmentService) computeBacklog(ctx context.Context) ([]domain.OwnedGame, error) {
	owned := s.library.GetAll(ctx)
	if len(owned) == 0 {
		return nil, nil
	}

	games, err := s.catalog.ListGames(ctx)
	if err != nil {
		return nil, err
	}

	// Locally tracked titles carry trustworthy genre data already.
	classified := make(map[int64]struct{})
	for _, g := range games {
		if g.SteamAppID != 0 && (g.Genre != "" || len(g.Genres) > 0) {
			classified[g.SteamAppID] = struct{}{}
		}
	}

	backlog := make([]domain.OwnedGame, 0, len(owned))
	for _, o := range owned {
		if _, ok := classified[o.AppID]; ok {
			continue
		}
		if _, looked := s.genres.Load(o.AppID); looked {
			continue
		}
		backlog = append(backlog, o)
	}
	return backlog, nil
}

// drain processes the backlog one title at a time, in order. Rate-limited
// items are retried in place after a cooldown. Auth failures abort the whole
// run, leaving the remaining items untouched. Any other lookup error caches
// an empty genre list so one bad title cannot block the run forever.
func (s *EnrichmentService) drain(ctx context.Context, log *slog.Logger, backlog []domain.OwnedGame) (classified int, aborted bool) {
	lookups := 0

	for i := 0; i < len(backlog); {
		item := backlog[i]

		candidates, err := s.searcher.SearchByName(ctx, item.Name, s.tunables.SearchLimit)
		if err != nil {
			switch {
			case errors.Is(err, igdb.ErrAuthFailed):
				log.Warn("metadata credentials rejected, aborting enrichment run",
					"app_id", item.AppID,
					"error", err,
				)
				return classified, true
			case errors.Is(err, igdb.ErrRateLimited):
				log.Debug("metadata provider rate limited, cooling down",
					"app_id", item.AppID,
				)
				if !s.pause(ctx, s.tunables.RateLimitCooldown) {
					return classified, true
				}
				// Retry the same item, do not advance.
				continue
			default:
				log.Warn("genre lookup failed, caching empty result",
					"app_id", item.AppID,
					"name", item.Name,
					"error", err,
				)
				s.genres.Store(item.AppID, []string{})
				i++
				continue
			}
		}

		s.genres.Store(item.AppID, candidateGenres(item, candidates))
		classified++
		i++

		lookups++
		if lookups%s.tunables.BatchSize == 0 && i < len(backlog) {
			if !s.pause(ctx, s.tunables.BatchPause) {
				return classified, true
			}
		}
	}
	return classified, false
}

// pause sleeps without holding any lock. Returns false if the context ended
// before the pause elapsed.
func (s *EnrichmentService) pause(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return true
	case <-ctx.Done():
		return false
	}
}

// matchRule picks a candidate for an owned title, or nil for no opinion.
// Rules are tried in order so the tie-break stays auditable.
type matchRule func(domain.OwnedGame, []igdb.Game) *igdb.Game

var matchRules = []matchRule{matchBySteamAppID, matchByName}

func matchBySteamAppID(item domain.OwnedGame, candidates []igdb.Game) *igdb.Game {
	for i := range candidates {
		if candidates[i].SteamAppID == item.AppID {
			return &candidates[i]
		}
	}
	return nil
}

func matchByName(item domain.OwnedGame, candidates []igdb.Game) *igdb.Game {
	for i := range candidates {
		if strings.EqualFold(candidates[i].Name, item.Name) {
			return &candidates[i]
		}
	}
	return nil
}

// candidateGenres selects the best candidate and returns its normalized
// genre list. No candidates yields an empty list, cached so the title is not
// retried every run.
func candidateGenres(item domain.OwnedGame, candidates []igdb.Game) []string {
	if len(candidates) == 0 {
		return []string{}
	}

	selected := &candidates[0]
	for _, rule := range matchRules {
		if c := rule(item, candidates); c != nil {
			selected = c
			break
		}
	}
	return genre.Normalize(selected.Genres)
}
