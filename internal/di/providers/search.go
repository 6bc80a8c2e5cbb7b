package providers

import (
	"context"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/infernokun/inferno-games-server/internal/config"
	"github.com/infernokun/inferno-games-server/internal/logger"
	"github.com/infernokun/inferno-games-server/internal/search"
	"github.com/infernokun/inferno-games-server/internal/service"
)

// SearchIndexHandle wraps the search index with shutdown capability.
type SearchIndexHandle struct {
	*search.SearchIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the Bleve search index and wires it to the
// store for automatic indexing.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)

	index, err := search.NewSearchIndex(search.Options{
		DataPath: filepath.Join(cfg.Data.BasePath, "search"),
		Logger:   log.Logger,
	})
	if err != nil {
		return nil, err
	}

	storeHandle.SetSearchIndexer(search.NewIndexer(index))

	docCount, _ := index.DocumentCount()
	log.Info("Search index initialized", "documents", docCount)

	return &SearchIndexHandle{SearchIndex: index}, nil
}

// TriggerSearchReindexIfNeeded rebuilds an empty index when the catalog has
// entries, covering index loss or a mapping version bump. Should be called
// after all services are wired.
func TriggerSearchReindexIfNeeded(i do.Injector) {
	gameService := do.MustInvoke[*service.GameService](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	docCount, _ := indexHandle.DocumentCount()
	if docCount > 0 {
		return
	}

	ctx := context.Background()
	games, err := storeHandle.ListGames(ctx)
	if err != nil || len(games) == 0 {
		return
	}

	log.Info("Search index is empty but catalog has entries, triggering reindex",
		"game_count", len(games),
	)

	go func() {
		count, err := gameService.RebuildSearchIndex(context.Background())
		if err != nil {
			log.Error("Initial reindex failed", "error", err)
			return
		}
		log.Info("Initial reindex completed", "indexed", count)
	}()
}
