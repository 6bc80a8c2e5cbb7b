package providers

import (
	"github.com/samber/do/v2"

	"github.com/infernokun/inferno-games-server/internal/config"
	"github.com/infernokun/inferno-games-server/internal/logger"
	"github.com/infernokun/inferno-games-server/internal/metadata/igdb"
	"github.com/infernokun/inferno-games-server/internal/steam"
)

// IGDBClientHandle wraps the IGDB client with shutdown capability.
type IGDBClientHandle struct {
	*igdb.Client
}

// Shutdown implements do.Shutdownable.
func (h *IGDBClientHandle) Shutdown() error {
	h.Close()
	return nil
}

// ProvideIGDBClient provides the IGDB metadata client. The client is always
// constructed; without credentials every call reports not configured.
func ProvideIGDBClient(i do.Injector) (*IGDBClientHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := igdb.New(igdb.Config{
		ClientID:          cfg.IGDB.ClientID,
		ClientSecret:      cfg.IGDB.ClientSecret,
		TokenExpiryMargin: cfg.IGDB.TokenExpiryMargin,
	}, log.Logger)

	if cfg.IGDB.Enabled() {
		log.Info("IGDB client configured")
	} else {
		log.Info("IGDB credentials absent, metadata lookups disabled")
	}

	return &IGDBClientHandle{Client: client}, nil
}

// ProvideSteamClient provides the Steam Web API client.
func ProvideSteamClient(i do.Injector) (*steam.Client, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	client := steam.New(steam.Config{
		APIKey:  cfg.Steam.APIKey,
		SteamID: cfg.Steam.SteamID,
	}, log.Logger)

	if cfg.Steam.Enabled() {
		log.Info("Steam client configured", "steam_id", cfg.Steam.SteamID)
	} else {
		log.Info("Steam credentials absent, library sync disabled")
	}

	return client, nil
}

// ProvideLibraryCache provides the owned-games snapshot cache.
func ProvideLibraryCache(i do.Injector) (*steam.LibraryCache, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	client := do.MustInvoke[*steam.Client](i)

	return steam.NewLibraryCache(client, cfg.Steam.LibraryCacheTTL, log.Logger), nil
}
