package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)

	huma.Register(s.api, huma.Operation{
		OperationID: "serverVersion",
		Method:      http.MethodGet,
		Path:        "/api/v1/version",
		Summary:     "Server version",
		Description: "Returns the server name and version",
		Tags:        []string{"Health"},
	}, s.handleVersion)
}

// VersionResponse identifies the server to clients.
type VersionResponse struct {
	Name    string `json:"name" doc:"Server instance name"`
	Version string `json:"version" doc:"Server version"`
	API     string `json:"api" doc:"API version prefix"`
}

// VersionOutput wraps the version response for Huma.
type VersionOutput struct {
	Body VersionResponse
}

func (s *Server) handleVersion(_ context.Context, _ *struct{}) (*VersionOutput, error) {
	return &VersionOutput{Body: VersionResponse{
		Name:    s.name,
		Version: Version,
		API:     "v1",
	}}, nil
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Response time for this component"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Version    string                     `json:"version" doc:"Server version"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(ctx context.Context, _ *struct{}) (*HealthOutput, error) {
	components := map[string]ComponentHealth{
		"database": s.checkDatabase(ctx),
		"search":   s.checkSearchIndex(),
		"steam":    s.checkSteam(),
		"igdb":     s.checkIGDB(),
	}

	overall := "healthy"
	for _, c := range components {
		switch c.Status {
		case "unhealthy":
			overall = "unhealthy"
		case "degraded":
			if overall == "healthy" {
				overall = "degraded"
			}
		}
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:     overall,
			Version:    Version,
			Components: components,
		},
	}, nil
}

// checkDatabase verifies BadgerDB is accessible with a catalog read.
func (s *Server) checkDatabase(ctx context.Context) ComponentHealth {
	if s.store == nil {
		return ComponentHealth{Status: "degraded", Message: "database not configured"}
	}

	start := time.Now()
	_, err := s.store.ListGames(ctx)
	latency := time.Since(start)

	if err != nil {
		return ComponentHealth{
			Status:  "unhealthy",
			Latency: latency.String(),
			Message: "database read failed",
		}
	}
	return ComponentHealth{Status: "healthy", Latency: latency.String()}
}

// checkSearchIndex verifies the Bleve index is accessible.
func (s *Server) checkSearchIndex() ComponentHealth {
	if s.search == nil {
		return ComponentHealth{Status: "degraded", Message: "search index not configured"}
	}

	start := time.Now()
	count, err := s.search.DocumentCount()
	latency := time.Since(start)

	if err != nil {
		return ComponentHealth{
			Status:  "unhealthy",
			Latency: latency.String(),
			Message: "search index read failed",
		}
	}
	return ComponentHealth{
		Status:  "healthy",
		Latency: latency.String(),
		Message: fmt.Sprintf("%d documents", count),
	}
}

// checkSteam reports whether the Steam integration is usable. Missing
// credentials degrade the component rather than failing it; the server is
// fully functional without Steam.
func (s *Server) checkSteam() ComponentHealth {
	if s.services == nil || s.services.Library == nil || !s.services.Library.IsConfigured() {
		return ComponentHealth{Status: "degraded", Message: "steam not configured"}
	}
	return ComponentHealth{Status: "healthy"}
}

// checkIGDB reports whether the metadata provider is usable.
func (s *Server) checkIGDB() ComponentHealth {
	if s.services == nil || s.services.Metadata == nil || !s.services.Metadata.IsConfigured() {
		return ComponentHealth{Status: "degraded", Message: "igdb not configured"}
	}
	return ComponentHealth{Status: "healthy"}
}
