package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/infernokun/inferno-games-server/internal/service"
	"github.com/infernokun/inferno-games-server/internal/steam"
)

func (s *Server) registerSteamRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listOwnedGames",
		Method:      http.MethodGet,
		Path:        "/api/v1/steam/library",
		Summary:     "List owned games",
		Description: "Returns the Steam library with local catalog overlay",
		Tags:        []string{"Steam"},
	}, s.handleListOwnedGames)

	huma.Register(s.api, huma.Operation{
		OperationID: "steamLibraryStats",
		Method:      http.MethodGet,
		Path:        "/api/v1/steam/library/stats",
		Summary:     "Library statistics",
		Description: "Aggregate numbers over the Steam library snapshot",
		Tags:        []string{"Steam"},
	}, s.handleSteamLibraryStats)

	huma.Register(s.api, huma.Operation{
		OperationID: "mostPlayedGames",
		Method:      http.MethodGet,
		Path:        "/api/v1/steam/library/most-played",
		Summary:     "Most played games",
		Description: "Returns owned games ranked by total playtime",
		Tags:        []string{"Steam"},
	}, s.handleMostPlayedGames)

	huma.Register(s.api, huma.Operation{
		OperationID: "recentlyPlayedGames",
		Method:      http.MethodGet,
		Path:        "/api/v1/steam/library/recently-played",
		Summary:     "Recently played games",
		Description: "Returns games played in the last two weeks",
		Tags:        []string{"Steam"},
	}, s.handleRecentlyPlayedGames)

	huma.Register(s.api, huma.Operation{
		OperationID: "checkOwnership",
		Method:      http.MethodGet,
		Path:        "/api/v1/steam/library/{appID}",
		Summary:     "Check ownership",
		Description: "Reports whether the account owns a Steam app",
		Tags:        []string{"Steam"},
	}, s.handleCheckOwnership)

	huma.Register(s.api, huma.Operation{
		OperationID: "steamProfile",
		Method:      http.MethodGet,
		Path:        "/api/v1/steam/profile",
		Summary:     "Steam profile",
		Description: "Returns the configured account's profile summary",
		Tags:        []string{"Steam"},
	}, s.handleSteamProfile)

	huma.Register(s.api, huma.Operation{
		OperationID: "refreshSteamCache",
		Method:      http.MethodPost,
		Path:        "/api/v1/steam/library/refresh",
		Summary:     "Refresh library cache",
		Description: "Forces a fresh owned-games snapshot from the Steam API",
		Tags:        []string{"Steam"},
	}, s.handleRefreshSteamCache)
}

// === DTOs ===

// OwnedListResponse contains Steam library entries.
type OwnedListResponse struct {
	Games []service.OwnedEntry `json:"games" doc:"Owned games with catalog overlay"`
	Total int                  `json:"total" doc:"Number of entries"`
}

// OwnedListOutput wraps the owned list for Huma.
type OwnedListOutput struct {
	Body OwnedListResponse
}

// ListOwnedInput contains parameters for listing the library.
type ListOwnedInput struct {
	Query string `query:"q" doc:"Filter by name substring"`
}

// PlayedListInput contains parameters for played-games rankings.
type PlayedListInput struct {
	Limit int `query:"limit" doc:"Maximum results" default:"10" maximum:"100"`
}

// OwnershipInput addresses one Steam app.
type OwnershipInput struct {
	AppID int64 `path:"appID" doc:"Steam app ID"`
}

// OwnershipResponse reports ownership of a Steam app.
type OwnershipResponse struct {
	AppID int64 `json:"app_id" doc:"Steam app ID"`
	Owned bool  `json:"owned" doc:"Whether the account owns the app"`
}

// OwnershipOutput wraps the ownership response for Huma.
type OwnershipOutput struct {
	Body OwnershipResponse
}

// SteamStatsOutput wraps the library statistics for Huma.
type SteamStatsOutput struct {
	Body service.OwnedStats
}

// ProfileOutput wraps the profile summary for Huma.
type ProfileOutput struct {
	Body steam.PlayerSummary
}

// RefreshCacheResponse reports the snapshot size after a forced refresh.
type RefreshCacheResponse struct {
	Games int `json:"games" doc:"Owned games in the fresh snapshot"`
}

// RefreshCacheOutput wraps the refresh response for Huma.
type RefreshCacheOutput struct {
	Body RefreshCacheResponse
}

// === Handlers ===

func (s *Server) handleListOwnedGames(ctx context.Context, input *ListOwnedInput) (*OwnedListOutput, error) {
	var (
		games []service.OwnedEntry
		err   error
	)
	if input.Query != "" {
		games, err = s.services.Library.SearchOwned(ctx, input.Query)
	} else {
		games, err = s.services.Library.Owned(ctx)
	}
	if err != nil {
		return nil, err
	}
	return &OwnedListOutput{Body: OwnedListResponse{Games: games, Total: len(games)}}, nil
}

func (s *Server) handleSteamLibraryStats(ctx context.Context, _ *struct{}) (*SteamStatsOutput, error) {
	stats, err := s.services.Library.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &SteamStatsOutput{Body: *stats}, nil
}

func (s *Server) handleMostPlayedGames(ctx context.Context, input *PlayedListInput) (*OwnedListOutput, error) {
	games, err := s.services.Library.MostPlayed(ctx, input.Limit)
	if err != nil {
		return nil, err
	}
	return &OwnedListOutput{Body: OwnedListResponse{Games: games, Total: len(games)}}, nil
}

func (s *Server) handleRecentlyPlayedGames(ctx context.Context, input *PlayedListInput) (*OwnedListOutput, error) {
	games, err := s.services.Library.RecentlyPlayed(ctx, input.Limit)
	if err != nil {
		return nil, err
	}
	return &OwnedListOutput{Body: OwnedListResponse{Games: games, Total: len(games)}}, nil
}

func (s *Server) handleCheckOwnership(ctx context.Context, input *OwnershipInput) (*OwnershipOutput, error) {
	owned := s.services.Library.IsOwned(ctx, input.AppID)
	return &OwnershipOutput{Body: OwnershipResponse{AppID: input.AppID, Owned: owned}}, nil
}

func (s *Server) handleSteamProfile(ctx context.Context, _ *struct{}) (*ProfileOutput, error) {
	profile, err := s.services.Library.Profile(ctx)
	if err != nil {
		return nil, err
	}
	return &ProfileOutput{Body: *profile}, nil
}

func (s *Server) handleRefreshSteamCache(ctx context.Context, _ *struct{}) (*RefreshCacheOutput, error) {
	count, err := s.services.Library.RefreshCache(ctx)
	if err != nil {
		return nil, err
	}
	return &RefreshCacheOutput{Body: RefreshCacheResponse{Games: count}}, nil
}
