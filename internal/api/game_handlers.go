package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/infernokun/inferno-games-server/internal/domain"
	"github.com/infernokun/inferno-games-server/internal/search"
	"github.com/infernokun/inferno-games-server/internal/service"
)

func (s *Server) registerGameRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listGames",
		Method:      http.MethodGet,
		Path:        "/api/v1/games",
		Summary:     "List games",
		Description: "Returns the full catalog",
		Tags:        []string{"Games"},
	}, s.handleListGames)

	huma.Register(s.api, huma.Operation{
		OperationID: "createGame",
		Method:      http.MethodPost,
		Path:        "/api/v1/games",
		Summary:     "Create game",
		Description: "Creates a catalog entry by hand",
		Tags:        []string{"Games"},
	}, s.handleCreateGame)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchGames",
		Method:      http.MethodGet,
		Path:        "/api/v1/games/search",
		Summary:     "Search games",
		Description: "Full-text search over the catalog with filters and facets",
		Tags:        []string{"Games"},
	}, s.handleSearchGames)

	huma.Register(s.api, huma.Operation{
		OperationID: "rebuildSearchIndex",
		Method:      http.MethodPost,
		Path:        "/api/v1/games/search/rebuild",
		Summary:     "Rebuild search index",
		Description: "Re-indexes the whole catalog from scratch",
		Tags:        []string{"Games"},
	}, s.handleRebuildSearchIndex)

	huma.Register(s.api, huma.Operation{
		OperationID: "gameStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/games/stats",
		Summary:     "Catalog statistics",
		Description: "Aggregate numbers over the catalog",
		Tags:        []string{"Games"},
	}, s.handleGameStats)

	huma.Register(s.api, huma.Operation{
		OperationID: "getGame",
		Method:      http.MethodGet,
		Path:        "/api/v1/games/{id}",
		Summary:     "Get game",
		Description: "Returns a catalog entry by ID",
		Tags:        []string{"Games"},
	}, s.handleGetGame)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateGame",
		Method:      http.MethodPatch,
		Path:        "/api/v1/games/{id}",
		Summary:     "Update game",
		Description: "Applies a partial update to user-editable fields",
		Tags:        []string{"Games"},
	}, s.handleUpdateGame)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteGame",
		Method:        http.MethodDelete,
		Path:          "/api/v1/games/{id}",
		Summary:       "Delete game",
		Description:   "Removes a catalog entry",
		Tags:          []string{"Games"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteGame)

	huma.Register(s.api, huma.Operation{
		OperationID: "setGameStatus",
		Method:      http.MethodPut,
		Path:        "/api/v1/games/{id}/status",
		Summary:     "Set play status",
		Description: "Changes the play status of an entry",
		Tags:        []string{"Games"},
	}, s.handleSetGameStatus)

	huma.Register(s.api, huma.Operation{
		OperationID: "setGameFavorite",
		Method:      http.MethodPut,
		Path:        "/api/v1/games/{id}/favorite",
		Summary:     "Set favorite flag",
		Description: "Marks or unmarks an entry as a favorite",
		Tags:        []string{"Games"},
	}, s.handleSetGameFavorite)
}

// === DTOs ===

// GameListResponse contains a list of catalog entries.
type GameListResponse struct {
	Games []domain.Game `json:"games" doc:"Catalog entries"`
	Total int           `json:"total" doc:"Number of entries"`
}

// GameListOutput wraps the game list response for Huma.
type GameListOutput struct {
	Body GameListResponse
}

// GameOutput wraps a single catalog entry for Huma.
type GameOutput struct {
	Body domain.Game
}

// CreateGameInput wraps the create request body for Huma.
type CreateGameInput struct {
	Body service.CreateGameParams
}

// GetGameInput contains parameters for fetching one entry.
type GetGameInput struct {
	ID string `path:"id" doc:"Game ID"`
}

// UpdateGameInput wraps the partial update body for Huma.
type UpdateGameInput struct {
	ID   string `path:"id" doc:"Game ID"`
	Body service.UpdateGameParams
}

// DeleteGameInput contains parameters for deleting an entry.
type DeleteGameInput struct {
	ID string `path:"id" doc:"Game ID"`
}

// SetStatusInput wraps the status change request for Huma.
type SetStatusInput struct {
	ID   string `path:"id" doc:"Game ID"`
	Body struct {
		Status string `json:"status" doc:"New play status" enum:"not_started,in_progress,completed,on_hold,dropped,dlc"`
	}
}

// SetFavoriteInput wraps the favorite change request for Huma.
type SetFavoriteInput struct {
	ID   string `path:"id" doc:"Game ID"`
	Body struct {
		Favorite bool `json:"favorite" doc:"Favorite flag"`
	}
}

// SearchGamesInput contains search query parameters.
type SearchGamesInput struct {
	Query     string   `query:"q" doc:"Search query"`
	Genres    []string `query:"genres" doc:"Genre slugs to filter by"`
	Statuses  []string `query:"statuses" doc:"Play statuses to filter by"`
	Platforms []string `query:"platforms" doc:"Platforms to filter by"`
	MinYear   int      `query:"min_year" doc:"Minimum release year"`
	MaxYear   int      `query:"max_year" doc:"Maximum release year"`
	Limit     int      `query:"limit" doc:"Page size" default:"20" maximum:"100"`
	Offset    int      `query:"offset" doc:"Page offset"`
	SortBy    string   `query:"sort" doc:"Sort field" enum:",relevance,title,rating,playtime,recent,year"`
	SortOrder string   `query:"order" doc:"Sort direction" enum:",asc,desc"`
	Facets    bool     `query:"facets" doc:"Include facet counts"`
	Highlight bool     `query:"highlight" doc:"Include match highlights"`
}

// SearchGamesOutput wraps the search result for Huma.
type SearchGamesOutput struct {
	Body search.SearchResult
}

// GameStatsOutput wraps the catalog statistics for Huma.
type GameStatsOutput struct {
	Body domain.LibraryStats
}

// RebuildIndexResponse reports how many entries were re-indexed.
type RebuildIndexResponse struct {
	Indexed int `json:"indexed" doc:"Number of entries re-indexed"`
}

// RebuildIndexOutput wraps the rebuild response for Huma.
type RebuildIndexOutput struct {
	Body RebuildIndexResponse
}

// === Handlers ===

func (s *Server) handleListGames(ctx context.Context, _ *struct{}) (*GameListOutput, error) {
	games, err := s.services.Game.ListGames(ctx)
	if err != nil {
		return nil, err
	}
	return &GameListOutput{Body: GameListResponse{Games: games, Total: len(games)}}, nil
}

func (s *Server) handleCreateGame(ctx context.Context, input *CreateGameInput) (*GameOutput, error) {
	game, err := s.services.Game.CreateGame(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &GameOutput{Body: *game}, nil
}

func (s *Server) handleGetGame(ctx context.Context, input *GetGameInput) (*GameOutput, error) {
	game, err := s.services.Game.GetGame(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &GameOutput{Body: *game}, nil
}

func (s *Server) handleUpdateGame(ctx context.Context, input *UpdateGameInput) (*GameOutput, error) {
	game, err := s.services.Game.UpdateGame(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &GameOutput{Body: *game}, nil
}

func (s *Server) handleDeleteGame(ctx context.Context, input *DeleteGameInput) (*struct{}, error) {
	if err := s.services.Game.DeleteGame(ctx, input.ID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handleSetGameStatus(ctx context.Context, input *SetStatusInput) (*GameOutput, error) {
	game, err := s.services.Game.SetStatus(ctx, input.ID, domain.Status(input.Body.Status))
	if err != nil {
		return nil, err
	}
	return &GameOutput{Body: *game}, nil
}

func (s *Server) handleSetGameFavorite(ctx context.Context, input *SetFavoriteInput) (*GameOutput, error) {
	game, err := s.services.Game.SetFavorite(ctx, input.ID, input.Body.Favorite)
	if err != nil {
		return nil, err
	}
	return &GameOutput{Body: *game}, nil
}

func (s *Server) handleSearchGames(ctx context.Context, input *SearchGamesInput) (*SearchGamesOutput, error) {
	params := search.SearchParams{
		Query:         input.Query,
		GenreSlugs:    input.Genres,
		Statuses:      input.Statuses,
		Platforms:     input.Platforms,
		MinYear:       input.MinYear,
		MaxYear:       input.MaxYear,
		Limit:         input.Limit,
		Offset:        input.Offset,
		SortBy:        input.SortBy,
		SortOrder:     input.SortOrder,
		IncludeFacets: input.Facets,
		Highlight:     input.Highlight,
	}

	result, err := s.services.Game.Search(ctx, params)
	if err != nil {
		return nil, err
	}
	return &SearchGamesOutput{Body: *result}, nil
}

func (s *Server) handleGameStats(ctx context.Context, _ *struct{}) (*GameStatsOutput, error) {
	stats, err := s.services.Game.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &GameStatsOutput{Body: *stats}, nil
}

func (s *Server) handleRebuildSearchIndex(ctx context.Context, _ *struct{}) (*RebuildIndexOutput, error) {
	count, err := s.services.Game.RebuildSearchIndex(ctx)
	if err != nil {
		return nil, err
	}
	return &RebuildIndexOutput{Body: RebuildIndexResponse{Indexed: count}}, nil
}
