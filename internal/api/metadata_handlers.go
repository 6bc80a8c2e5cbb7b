package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/infernokun/inferno-games-server/internal/domain"
)

func (s *Server) registerMetadataRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchMetadata",
		Method:      http.MethodGet,
		Path:        "/api/v1/igdb/search",
		Summary:     "Search IGDB",
		Description: "Searches the metadata provider by title",
		Tags:        []string{"Metadata"},
	}, s.handleSearchMetadata)

	huma.Register(s.api, huma.Operation{
		OperationID: "popularMetadata",
		Method:      http.MethodGet,
		Path:        "/api/v1/igdb/popular",
		Summary:     "Popular games",
		Description: "Returns highly rated games from the metadata provider",
		Tags:        []string{"Metadata"},
	}, s.handlePopularMetadata)

	huma.Register(s.api, huma.Operation{
		OperationID: "recentMetadata",
		Method:      http.MethodGet,
		Path:        "/api/v1/igdb/recent",
		Summary:     "Recent releases",
		Description: "Returns recently released games from the metadata provider",
		Tags:        []string{"Metadata"},
	}, s.handleRecentMetadata)

	huma.Register(s.api, huma.Operation{
		OperationID: "upcomingMetadata",
		Method:      http.MethodGet,
		Path:        "/api/v1/igdb/upcoming",
		Summary:     "Upcoming releases",
		Description: "Returns upcoming games from the metadata provider",
		Tags:        []string{"Metadata"},
	}, s.handleUpcomingMetadata)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMetadata",
		Method:      http.MethodGet,
		Path:        "/api/v1/igdb/{id}",
		Summary:     "Get IGDB record",
		Description: "Returns one metadata record by IGDB ID",
		Tags:        []string{"Metadata"},
	}, s.handleGetMetadata)

	huma.Register(s.api, huma.Operation{
		OperationID:   "importFromIGDB",
		Method:        http.MethodPost,
		Path:          "/api/v1/igdb/{id}/import",
		Summary:       "Import from IGDB",
		Description:   "Creates a catalog entry from a metadata record",
		Tags:          []string{"Metadata"},
		DefaultStatus: http.StatusCreated,
	}, s.handleImportFromIGDB)

	huma.Register(s.api, huma.Operation{
		OperationID: "refreshFromIGDB",
		Method:      http.MethodPost,
		Path:        "/api/v1/games/{id}/refresh",
		Summary:     "Refresh from IGDB",
		Description: "Re-applies provider metadata to a linked catalog entry",
		Tags:        []string{"Metadata"},
	}, s.handleRefreshFromIGDB)
}

// === DTOs ===

// MetadataListResponse contains metadata provider records.
type MetadataListResponse struct {
	Results []domain.Metadata `json:"results" doc:"Metadata records"`
	Total   int               `json:"total" doc:"Number of records"`
}

// MetadataListOutput wraps the metadata list for Huma.
type MetadataListOutput struct {
	Body MetadataListResponse
}

// MetadataOutput wraps a single metadata record for Huma.
type MetadataOutput struct {
	Body domain.Metadata
}

// SearchMetadataInput contains parameters for a provider search.
type SearchMetadataInput struct {
	Query string `query:"q" required:"true" minLength:"1" doc:"Title to search for"`
	Limit int    `query:"limit" doc:"Maximum results" default:"10" maximum:"50"`
}

// MetadataListInput contains parameters for provider list endpoints.
type MetadataListInput struct {
	Limit int `query:"limit" doc:"Maximum results" default:"10" maximum:"50"`
}

// MetadataIDInput contains parameters addressing one provider record.
type MetadataIDInput struct {
	ID int64 `path:"id" doc:"IGDB ID"`
}

// === Handlers ===

func (s *Server) handleSearchMetadata(ctx context.Context, input *SearchMetadataInput) (*MetadataListOutput, error) {
	results, err := s.services.Metadata.Search(ctx, input.Query, input.Limit)
	if err != nil {
		return nil, err
	}
	return &MetadataListOutput{Body: MetadataListResponse{Results: results, Total: len(results)}}, nil
}

func (s *Server) handleGetMetadata(ctx context.Context, input *MetadataIDInput) (*MetadataOutput, error) {
	record, err := s.services.Metadata.Get(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &MetadataOutput{Body: *record}, nil
}

func (s *Server) handlePopularMetadata(ctx context.Context, input *MetadataListInput) (*MetadataListOutput, error) {
	results, err := s.services.Metadata.Popular(ctx, input.Limit)
	if err != nil {
		return nil, err
	}
	return &MetadataListOutput{Body: MetadataListResponse{Results: results, Total: len(results)}}, nil
}

func (s *Server) handleRecentMetadata(ctx context.Context, input *MetadataListInput) (*MetadataListOutput, error) {
	results, err := s.services.Metadata.RecentReleases(ctx, input.Limit)
	if err != nil {
		return nil, err
	}
	return &MetadataListOutput{Body: MetadataListResponse{Results: results, Total: len(results)}}, nil
}

func (s *Server) handleUpcomingMetadata(ctx context.Context, input *MetadataListInput) (*MetadataListOutput, error) {
	results, err := s.services.Metadata.Upcoming(ctx, input.Limit)
	if err != nil {
		return nil, err
	}
	return &MetadataListOutput{Body: MetadataListResponse{Results: results, Total: len(results)}}, nil
}

func (s *Server) handleImportFromIGDB(ctx context.Context, input *MetadataIDInput) (*GameOutput, error) {
	game, err := s.services.Game.ImportFromIGDB(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &GameOutput{Body: *game}, nil
}

func (s *Server) handleRefreshFromIGDB(ctx context.Context, input *GetGameInput) (*GameOutput, error) {
	game, err := s.services.Game.RefreshFromIGDB(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &GameOutput{Body: *game}, nil
}
