package igdb

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"strconv"
	"time"
)

// gameFields is the field list requested on every games query.
const gameFields = "fields name, summary, first_release_date, genres.name, " +
	"cover.url, screenshots.url, " +
	"involved_companies.company.name, involved_companies.developer, involved_companies.publisher, " +
	"rating, rating_count, url, external_games.category, external_games.uid"

// SearchByName searches IGDB for games matching a name.
func (c *Client) SearchByName(ctx context.Context, name string, limit int) ([]Game, error) {
	body := fmt.Sprintf("search %q; %s; limit %d;", name, gameFields, clampLimit(limit))

	games, err := c.queryGames(ctx, body)
	if err != nil {
		return nil, wrapError("search", name, err)
	}
	return games, nil
}

// GetByID retrieves a single game by its IGDB id.
func (c *Client) GetByID(ctx context.Context, id int64) (*Game, error) {
	body := fmt.Sprintf("%s; where id = %d;", gameFields, id)

	games, err := c.queryGames(ctx, body)
	if err != nil {
		return nil, wrapError("getGame", strconv.FormatInt(id, 10), err)
	}
	if len(games) == 0 {
		return nil, wrapError("getGame", strconv.FormatInt(id, 10), ErrNotFound)
	}
	return &games[0], nil
}

// Popular returns highly rated games with a meaningful rating count.
func (c *Client) Popular(ctx context.Context, limit int) ([]Game, error) {
	body := fmt.Sprintf("%s; where rating_count > 100 & rating > 75; sort rating desc; limit %d;",
		gameFields, clampLimit(limit))

	games, err := c.queryGames(ctx, body)
	if err != nil {
		return nil, wrapError("popular", "", err)
	}
	return games, nil
}

// RecentReleases returns games released in the last 90 days, newest first.
func (c *Client) RecentReleases(ctx context.Context, limit int) ([]Game, error) {
	now := c.now().Unix()
	cutoff := c.now().Add(-90 * 24 * time.Hour).Unix()
	body := fmt.Sprintf("%s; where first_release_date > %d & first_release_date <= %d; sort first_release_date desc; limit %d;",
		gameFields, cutoff, now, clampLimit(limit))

	games, err := c.queryGames(ctx, body)
	if err != nil {
		return nil, wrapError("recentReleases", "", err)
	}
	return games, nil
}

// Upcoming returns games with a future release date, soonest first.
func (c *Client) Upcoming(ctx context.Context, limit int) ([]Game, error) {
	body := fmt.Sprintf("%s; where first_release_date > %d; sort first_release_date asc; limit %d;",
		gameFields, c.now().Unix(), clampLimit(limit))

	games, err := c.queryGames(ctx, body)
	if err != nil {
		return nil, wrapError("upcoming", "", err)
	}
	return games, nil
}

// queryGames executes a games-endpoint query and converts the results.
func (c *Client) queryGames(ctx context.Context, body string) ([]Game, error) {
	respBody, err := c.query(ctx, "games", body)
	if err != nil {
		return nil, err
	}

	var raw []rawGame
	if err := json.Unmarshal(respBody, &raw); err != nil {
		return nil, fmt.Errorf("parse response: %w", err)
	}

	games := make([]Game, 0, len(raw))
	for i := range raw {
		games = append(games, toGame(&raw[i]))
	}
	return games, nil
}
