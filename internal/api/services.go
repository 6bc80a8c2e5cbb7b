package api

import "github.com/infernokun/inferno-games-server/internal/service"

// Services bundles the service layer dependencies for handlers.
type Services struct {
	Game       *service.GameService
	Metadata   *service.MetadataService
	Library    *service.LibraryService
	Sync       *service.SteamSyncService
	Enrichment *service.EnrichmentService
}
