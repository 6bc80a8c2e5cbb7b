package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/infernokun/inferno-games-server/internal/domain"
	apperrors "github.com/infernokun/inferno-games-server/internal/errors"
	"github.com/infernokun/inferno-games-server/internal/id"
	"github.com/infernokun/inferno-games-server/internal/search"
	"github.com/infernokun/inferno-games-server/internal/steam"
	"github.com/infernokun/inferno-games-server/internal/store"
	"github.com/infernokun/inferno-games-server/internal/validation"
)

// CreateGameParams is the input for creating a catalog entry by hand.
type CreateGameParams struct {
	Title       string   `json:"title" validate:"required,min=1,max=500"`
	Description string   `json:"description,omitempty" validate:"max=10000"`
	Developer   string   `json:"developer,omitempty" validate:"max=200"`
	Publisher   string   `json:"publisher,omitempty" validate:"max=200"`
	ReleaseYear int      `json:"release_year,omitempty" validate:"omitempty,gte=1950,lte=2100"`
	Genre       string   `json:"genre,omitempty" validate:"max=100"`
	Genres      []string `json:"genres,omitempty" validate:"max=20,dive,max=100"`
	Platform    string   `json:"platform,omitempty"`
	Status      string   `json:"status,omitempty" validate:"omitempty,gamestatus"`
	Rating      int      `json:"rating,omitempty" validate:"gte=0,lte=10"`
	Notes       string   `json:"notes,omitempty" validate:"max=10000"`
	SteamAppID  int64    `json:"steam_app_id,omitempty"`
	IGDBID      int64    `json:"igdb_id,omitempty"`
}

// UpdateGameParams is the input for a partial update. Nil fields are left
// untouched.
type UpdateGameParams struct {
	Title                *string   `json:"title,omitempty" validate:"omitempty,min=1,max=500"`
	Description          *string   `json:"description,omitempty" validate:"omitempty,max=10000"`
	Developer            *string   `json:"developer,omitempty" validate:"omitempty,max=200"`
	Publisher            *string   `json:"publisher,omitempty" validate:"omitempty,max=200"`
	ReleaseYear          *int      `json:"release_year,omitempty" validate:"omitempty,gte=1950,lte=2100"`
	Genre                *string   `json:"genre,omitempty" validate:"omitempty,max=100"`
	Genres               *[]string `json:"genres,omitempty" validate:"omitempty,max=20,dive,max=100"`
	Status               *string   `json:"status,omitempty" validate:"omitempty,gamestatus"`
	Rating               *int      `json:"rating,omitempty" validate:"omitempty,gte=0,lte=10"`
	PlaytimeHours        *float64  `json:"playtime_hours,omitempty" validate:"omitempty,gte=0"`
	CompletionPercentage *int      `json:"completion_percentage,omitempty" validate:"omitempty,gte=0,lte=100"`
	Notes                *string   `json:"notes,omitempty" validate:"omitempty,max=10000"`
	Favorite             *bool     `json:"favorite,omitempty"`
}

// MetadataGetter is the slice of the metadata service the catalog needs for
// import and refresh.
type MetadataGetter interface {
	Get(ctx context.Context, igdbID int64) (*domain.Metadata, error)
}

// GameService orchestrates catalog operations.
type GameService struct {
	store     *store.Store
	search    *search.SearchIndex
	cache     *steam.LibraryCache
	metadata  MetadataGetter
	validator *validation.Validator
	logger    *slog.Logger
}

// NewGameService creates a new game service.
func NewGameService(
	store *store.Store,
	searchIndex *search.SearchIndex,
	cache *steam.LibraryCache,
	metadata MetadataGetter,
	logger *slog.Logger,
) *GameService {
	return &GameService{
		store:     store,
		search:    searchIndex,
		cache:     cache,
		metadata:  metadata,
		validator: validation.New(),
		logger:    logger,
	}
}

// CreateGame creates a catalog entry. A Steam link triggers an immediate
// ownership merge so playtime facts are present from the start.
func (s *GameService) CreateGame(ctx context.Context, params CreateGameParams) (*domain.Game, error) {
	if err := s.validator.Validate(params); err != nil {
		return nil, err
	}

	game := &domain.Game{
		ID:          id.MustGenerate(id.PrefixGame),
		Title:       params.Title,
		Description: params.Description,
		Developer:   params.Developer,
		Publisher:   params.Publisher,
		ReleaseYear: params.ReleaseYear,
		Genre:       params.Genre,
		Genres:      params.Genres,
		Status:      domain.StatusNotStarted,
		Rating:      params.Rating,
		Notes:       params.Notes,
		SteamAppID:  params.SteamAppID,
		IGDBID:      params.IGDBID,
	}
	if params.Status != "" {
		game.SetStatus(domain.Status(params.Status))
	}
	if params.Platform != "" {
		game.AddPlatform(domain.Platform(params.Platform))
	}
	game.InitTimestamps()

	s.fillFromOwnership(ctx, game)

	if err := s.store.CreateGame(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}

// GetGame retrieves a single catalog entry by id.
func (s *GameService) GetGame(ctx context.Context, gameID string) (*domain.Game, error) {
	return s.store.GetGame(ctx, gameID)
}

// ListGames returns the full catalog.
func (s *GameService) ListGames(ctx context.Context) ([]domain.Game, error) {
	return s.store.ListGames(ctx)
}

// UpdateGame applies a partial update to user-editable fields.
func (s *GameService) UpdateGame(ctx context.Context, gameID string, params UpdateGameParams) (*domain.Game, error) {
	if err := s.validator.Validate(params); err != nil {
		return nil, err
	}

	game, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	if params.Title != nil {
		game.Title = *params.Title
	}
	if params.Description != nil {
		game.Description = *params.Description
	}
	if params.Developer != nil {
		game.Developer = *params.Developer
	}
	if params.Publisher != nil {
		game.Publisher = *params.Publisher
	}
	if params.ReleaseYear != nil {
		game.ReleaseYear = *params.ReleaseYear
	}
	if params.Genre != nil {
		game.Genre = *params.Genre
	}
	if params.Genres != nil {
		game.Genres = *params.Genres
	}
	if params.Status != nil {
		game.SetStatus(domain.Status(*params.Status))
	}
	if params.Rating != nil {
		game.Rating = *params.Rating
	}
	if params.PlaytimeHours != nil {
		game.PlaytimeHours = *params.PlaytimeHours
	}
	if params.CompletionPercentage != nil {
		game.CompletionPercentage = *params.CompletionPercentage
	}
	if params.Notes != nil {
		game.Notes = *params.Notes
	}
	if params.Favorite != nil {
		game.Favorite = *params.Favorite
	}
	game.Touch()

	if err := s.store.UpdateGame(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}

// DeleteGame removes a catalog entry. Deletion is terminal; the enrichment
// and ownership caches are deliberately left alone.
func (s *GameService) DeleteGame(ctx context.Context, gameID string) error {
	return s.store.DeleteGame(ctx, gameID)
}

// SetStatus changes the play status of an entry.
func (s *GameService) SetStatus(ctx context.Context, gameID string, status domain.Status) (*domain.Game, error) {
	if !domain.ValidStatus(status) {
		return nil, apperrors.Validationf("unknown status %q", status)
	}

	game, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	game.SetStatus(status)
	game.Touch()

	if err := s.store.UpdateGame(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}

// SetFavorite toggles the favorite flag of an entry.
func (s *GameService) SetFavorite(ctx context.Context, gameID string, favorite bool) (*domain.Game, error) {
	game, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	game.Favorite = favorite
	game.Touch()

	if err := s.store.UpdateGame(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}

// Stats aggregates statistics over the whole catalog.
func (s *GameService) Stats(ctx context.Context) (*domain.LibraryStats, error) {
	games, err := s.store.ListGames(ctx)
	if err != nil {
		return nil, err
	}
	stats := domain.ComputeStats(games)
	return &stats, nil
}

// Search runs a full-text query against the catalog index.
func (s *GameService) Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error) {
	return s.search.Search(ctx, params)
}

// RebuildSearchIndex drops the index and reindexes the full catalog.
func (s *GameService) RebuildSearchIndex(ctx context.Context) (int, error) {
	games, err := s.store.ListGames(ctx)
	if err != nil {
		return 0, err
	}

	if err := s.search.Rebuild(); err != nil {
		return 0, err
	}

	docs := make([]*search.SearchDocument, 0, len(games))
	for i := range games {
		docs = append(docs, search.GameToSearchDocument(&games[i]))
	}
	if err := s.search.IndexDocuments(docs); err != nil {
		return 0, err
	}

	s.logger.Info("search index rebuilt", "games", len(docs))
	return len(docs), nil
}

// ImportFromIGDB creates a catalog entry from a metadata-provider record.
// User fields start at their defaults.
func (s *GameService) ImportFromIGDB(ctx context.Context, igdbID int64) (*domain.Game, error) {
	if existing, err := s.store.GetGameByIGDBID(ctx, igdbID); err == nil {
		return nil, apperrors.Conflict("game already imported").WithDetails(existing.ID)
	} else if !apperrors.Is(err, apperrors.ErrNotFound) {
		return nil, err
	}

	meta, err := s.metadata.Get(ctx, igdbID)
	if err != nil {
		return nil, err
	}

	game := domain.NewGameFromMetadata(*meta)
	game.ID = id.MustGenerate(id.PrefixGame)
	game.InitTimestamps()

	s.fillFromOwnership(ctx, game)

	if err := s.store.CreateGame(ctx, game); err != nil {
		return nil, err
	}

	s.logger.Info("imported game from IGDB",
		"game_id", game.ID,
		"igdb_id", igdbID,
		"title", game.Title,
	)
	return game, nil
}

// RefreshFromIGDB re-fetches metadata for a linked entry and overwrites the
// descriptive fields. This is the explicit user-triggered refresh path, so
// overwrite is the contract; user fields are still untouched.
func (s *GameService) RefreshFromIGDB(ctx context.Context, gameID string) (*domain.Game, error) {
	game, err := s.store.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if game.IGDBID == 0 {
		return nil, apperrors.Validation("game is not linked to an IGDB record")
	}

	meta, err := s.metadata.Get(ctx, game.IGDBID)
	if err != nil {
		return nil, err
	}

	domain.ApplyMetadata(game, *meta)
	game.Touch()

	if err := s.store.UpdateGame(ctx, game); err != nil {
		return nil, err
	}
	return game, nil
}

// fillFromOwnership merges current Steam ownership facts into a new entry
// when the app is confirmed owned, and tags it as a PC title.
func (s *GameService) fillFromOwnership(ctx context.Context, game *domain.Game) {
	if game.SteamAppID == 0 || s.cache == nil || !s.cache.IsConfigured() {
		return
	}
	owned, ok := s.cache.Lookup(ctx, game.SteamAppID)
	if !ok {
		return
	}
	domain.MergeOwnership(game, owned)
	game.AddPlatform(domain.PlatformPC)
	now := time.Now()
	game.SteamLastSynced = &now
}
