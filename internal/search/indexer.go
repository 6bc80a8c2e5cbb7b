package search

import (
	"context"

	"github.com/infernokun/inferno-games-server/internal/domain"
)

// Indexer adapts a SearchIndex to the store's SearchIndexer interface,
// converting domain games to search documents on the way in.
type Indexer struct {
	index *SearchIndex
}

// NewIndexer creates an indexer backed by the given search index.
func NewIndexer(index *SearchIndex) *Indexer {
	return &Indexer{index: index}
}

// IndexGame converts the game to a search document and indexes it.
func (i *Indexer) IndexGame(_ context.Context, game *domain.Game) error {
	return i.index.IndexDocument(GameToSearchDocument(game))
}

// DeleteGame removes the game from the index.
func (i *Indexer) DeleteGame(_ context.Context, gameID string) error {
	return i.index.DeleteDocument(gameID)
}
