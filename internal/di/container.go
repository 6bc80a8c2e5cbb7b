// Package di provides dependency injection configuration for the games server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/infernokun/inferno-games-server/internal/config"
	"github.com/infernokun/inferno-games-server/internal/di/providers"
	"github.com/infernokun/inferno-games-server/internal/logger"
	"github.com/infernokun/inferno-games-server/internal/service"
	"github.com/infernokun/inferno-games-server/internal/steam"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)

	// Database and search
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideSearchIndex)

	// Integrations
	do.Provide(injector, providers.ProvideIGDBClient)
	do.Provide(injector, providers.ProvideSteamClient)
	do.Provide(injector, providers.ProvideLibraryCache)

	// Business services
	do.Provide(injector, providers.ProvideMetadataService)
	do.Provide(injector, providers.ProvideGameService)
	do.Provide(injector, providers.ProvideEnrichmentService)
	do.Provide(injector, providers.ProvideLibraryService)
	do.Provide(injector, providers.ProvideSteamSyncService)

	// Workers
	do.Provide(injector, providers.ProvideScheduler)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)
	do.Provide(injector, providers.ProvideMDNSService)

	return injector
}

// Bootstrap initializes all services in dependency order. Invocation order
// matters: do shuts services down in reverse, so the HTTP server and
// scheduler go down before the store they write to.
func Bootstrap(injector *do.RootScope) error {
	_ = do.MustInvoke[*config.Config](injector)
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)

	_ = do.MustInvoke[*providers.IGDBClientHandle](injector)
	_ = do.MustInvoke[*steam.Client](injector)
	_ = do.MustInvoke[*steam.LibraryCache](injector)

	_ = do.MustInvoke[*service.MetadataService](injector)
	_ = do.MustInvoke[*service.GameService](injector)
	_ = do.MustInvoke[*service.EnrichmentService](injector)
	_ = do.MustInvoke[*service.LibraryService](injector)
	_ = do.MustInvoke[*service.SteamSyncService](injector)

	_ = do.MustInvoke[*providers.SchedulerHandle](injector)

	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)
	_ = do.MustInvoke[*providers.MDNSServiceHandle](injector)

	providers.TriggerSearchReindexIfNeeded(injector)

	return nil
}
