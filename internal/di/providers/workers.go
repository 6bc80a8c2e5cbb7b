package providers

import (
	"github.com/samber/do/v2"

	"github.com/infernokun/inferno-games-server/internal/config"
	"github.com/infernokun/inferno-games-server/internal/logger"
	"github.com/infernokun/inferno-games-server/internal/service"
)

// SchedulerHandle wraps the sync scheduler with shutdown capability.
type SchedulerHandle struct {
	*service.Scheduler
}

// Shutdown implements do.Shutdownable.
func (h *SchedulerHandle) Shutdown() error {
	h.Stop()
	return nil
}

// ProvideScheduler provides the background sync scheduler, started.
func ProvideScheduler(i do.Injector) (*SchedulerHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	syncSvc := do.MustInvoke[*service.SteamSyncService](i)
	enrichment := do.MustInvoke[*service.EnrichmentService](i)

	scheduler := service.NewScheduler(syncSvc, enrichment, cfg.Sync, log.Logger)
	scheduler.Start()

	log.Info("Sync scheduler started",
		"playtime_interval", cfg.Sync.PlaytimeInterval,
		"enrichment_interval", cfg.Sync.EnrichmentInterval,
	)

	return &SchedulerHandle{Scheduler: scheduler}, nil
}
