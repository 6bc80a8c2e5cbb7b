package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/infernokun/inferno-games-server/internal/config"
)

// Scheduler owns the background timers for playtime sync and enrichment.
// It holds no business logic; each tick delegates to the sync and enrichment
// services, and job failures are logged, never propagated.
type Scheduler struct {
	sync   *SteamSyncService
	enrich *EnrichmentService
	cfg    config.SyncConfig
	logger *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a scheduler over the two background jobs.
func NewScheduler(syncSvc *SteamSyncService, enrich *EnrichmentService, cfg config.SyncConfig, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		sync:   syncSvc,
		enrich: enrich,
		cfg:    cfg,
		logger: logger,
	}
}

// Start launches both periodic jobs. Each runs once after its initial delay
// and then on its interval until Stop.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(2)
	go s.loop(ctx, "playtime_sync", s.cfg.PlaytimeInitialDelay, s.cfg.PlaytimeInterval, func(ctx context.Context) {
		if _, err := s.sync.SyncPlaytime(ctx); err != nil {
			s.logger.Warn("scheduled playtime sync failed", "error", err)
		}
	})
	go s.loop(ctx, "enrichment", s.cfg.EnrichmentInitialDelay, s.cfg.EnrichmentInterval, func(context.Context) {
		s.enrich.Trigger()
	})

	s.logger.Info("sync scheduler started",
		"playtime_interval", s.cfg.PlaytimeInterval,
		"enrichment_interval", s.cfg.EnrichmentInterval,
	)
}

// Stop cancels both jobs and waits for their loops to exit. An enrichment
// run already in flight finishes on its own.
func (s *Scheduler) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.wg.Wait()
}

func (s *Scheduler) loop(ctx context.Context, name string, delay, interval time.Duration, job func(context.Context)) {
	defer s.wg.Done()

	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-timer.C:
	case <-ctx.Done():
		return
	}

	s.logger.Debug("running scheduled job", "job", name)
	job(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.logger.Debug("running scheduled job", "job", name)
			job(ctx)
		case <-ctx.Done():
			return
		}
	}
}
