package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/infernokun/inferno-games-server/internal/service"
)

func (s *Server) registerSyncRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "syncPlaytime",
		Method:      http.MethodPost,
		Path:        "/api/v1/sync/playtime",
		Summary:     "Sync playtime now",
		Description: "Mirrors Steam playtime into all linked catalog entries",
		Tags:        []string{"Sync"},
	}, s.handleSyncPlaytime)

	huma.Register(s.api, huma.Operation{
		OperationID: "syncGame",
		Method:      http.MethodPost,
		Path:        "/api/v1/sync/games/{id}",
		Summary:     "Sync one game",
		Description: "Mirrors Steam playtime into a single linked entry",
		Tags:        []string{"Sync"},
	}, s.handleSyncGame)

	huma.Register(s.api, huma.Operation{
		OperationID: "validatePlatforms",
		Method:      http.MethodPost,
		Path:        "/api/v1/sync/platforms",
		Summary:     "Validate platforms",
		Description: "Tags Steam-owned catalog entries with the PC platform",
		Tags:        []string{"Sync"},
	}, s.handleValidatePlatforms)

	huma.Register(s.api, huma.Operation{
		OperationID:   "triggerEnrichment",
		Method:        http.MethodPost,
		Path:          "/api/v1/sync/enrichment",
		Summary:       "Trigger enrichment",
		Description:   "Starts a genre enrichment run if one is not already in flight",
		Tags:          []string{"Sync"},
		DefaultStatus: http.StatusAccepted,
	}, s.handleTriggerEnrichment)

	huma.Register(s.api, huma.Operation{
		OperationID: "enrichmentStatus",
		Method:      http.MethodGet,
		Path:        "/api/v1/sync/enrichment",
		Summary:     "Enrichment status",
		Description: "Reports whether a run is in flight and the cache size",
		Tags:        []string{"Sync"},
	}, s.handleEnrichmentStatus)

	huma.Register(s.api, huma.Operation{
		OperationID:   "clearEnrichmentCache",
		Method:        http.MethodDelete,
		Path:          "/api/v1/sync/enrichment/cache",
		Summary:       "Clear enrichment cache",
		Description:   "Drops all cached genre lookups so the next run starts fresh",
		Tags:          []string{"Sync"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleClearEnrichmentCache)
}

// === DTOs ===

// SyncResultOutput wraps the sync run summary for Huma.
type SyncResultOutput struct {
	Body service.SyncResult
}

// PlatformValidationResponse reports how many entries were tagged.
type PlatformValidationResponse struct {
	Updated int `json:"updated" doc:"Entries that gained the PC platform"`
}

// PlatformValidationOutput wraps the platform validation response for Huma.
type PlatformValidationOutput struct {
	Body PlatformValidationResponse
}

// EnrichmentStatusOutput wraps the enrichment status for Huma.
type EnrichmentStatusOutput struct {
	Body service.EnrichmentStatus
}

// === Handlers ===

func (s *Server) handleSyncPlaytime(ctx context.Context, _ *struct{}) (*SyncResultOutput, error) {
	result, err := s.services.Sync.SyncPlaytime(ctx)
	if err != nil {
		return nil, err
	}
	return &SyncResultOutput{Body: *result}, nil
}

func (s *Server) handleSyncGame(ctx context.Context, input *GetGameInput) (*GameOutput, error) {
	game, err := s.services.Sync.SyncGame(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &GameOutput{Body: *game}, nil
}

func (s *Server) handleValidatePlatforms(ctx context.Context, _ *struct{}) (*PlatformValidationOutput, error) {
	updated, err := s.services.Sync.ValidatePlatforms(ctx)
	if err != nil {
		return nil, err
	}
	return &PlatformValidationOutput{Body: PlatformValidationResponse{Updated: updated}}, nil
}

func (s *Server) handleTriggerEnrichment(_ context.Context, _ *struct{}) (*EnrichmentStatusOutput, error) {
	s.services.Enrichment.Trigger()
	return &EnrichmentStatusOutput{Body: s.services.Enrichment.Status()}, nil
}

func (s *Server) handleEnrichmentStatus(_ context.Context, _ *struct{}) (*EnrichmentStatusOutput, error) {
	return &EnrichmentStatusOutput{Body: s.services.Enrichment.Status()}, nil
}

func (s *Server) handleClearEnrichmentCache(_ context.Context, _ *struct{}) (*struct{}, error) {
	s.services.Enrichment.ClearCache()
	return &struct{}{}, nil
}
