package providers

import (
	"github.com/samber/do/v2"

	"github.com/infernokun/inferno-games-server/internal/config"
	"github.com/infernokun/inferno-games-server/internal/logger"
	"github.com/infernokun/inferno-games-server/internal/service"
	"github.com/infernokun/inferno-games-server/internal/steam"
)

// ProvideMetadataService provides the IGDB-backed metadata service.
func ProvideMetadataService(i do.Injector) (*service.MetadataService, error) {
	igdbHandle := do.MustInvoke[*IGDBClientHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewMetadataService(igdbHandle.Client, log.Logger), nil
}

// ProvideGameService provides the catalog service.
func ProvideGameService(i do.Injector) (*service.GameService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	cache := do.MustInvoke[*steam.LibraryCache](i)
	metadata := do.MustInvoke[*service.MetadataService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewGameService(storeHandle.Store, indexHandle.SearchIndex, cache, metadata, log.Logger), nil
}

// ProvideEnrichmentService provides the genre enrichment coordinator.
func ProvideEnrichmentService(i do.Injector) (*service.EnrichmentService, error) {
	cfg := do.MustInvoke[*config.Config](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cache := do.MustInvoke[*steam.LibraryCache](i)
	igdbHandle := do.MustInvoke[*IGDBClientHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewEnrichmentService(
		cache,
		storeHandle.Store,
		igdbHandle.Client,
		service.TunablesFromConfig(cfg.Sync),
		log.Logger,
	), nil
}

// ProvideLibraryService provides the Steam library read service.
func ProvideLibraryService(i do.Injector) (*service.LibraryService, error) {
	client := do.MustInvoke[*steam.Client](i)
	cache := do.MustInvoke[*steam.LibraryCache](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	enrichment := do.MustInvoke[*service.EnrichmentService](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewLibraryService(client, cache, storeHandle.Store, enrichment, log.Logger), nil
}

// ProvideSteamSyncService provides the playtime sync service.
func ProvideSteamSyncService(i do.Injector) (*service.SteamSyncService, error) {
	storeHandle := do.MustInvoke[*StoreHandle](i)
	cache := do.MustInvoke[*steam.LibraryCache](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSteamSyncService(storeHandle.Store, cache, log.Logger), nil
}
