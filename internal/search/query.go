package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// SearchParams configures a search query.
type SearchParams struct {
	Query string // User's search query

	// Filters
	GenreSlugs []string // Filter by exact genre slugs
	Statuses   []string // Filter by play status
	Platforms  []string // Filter by platform
	MinYear    int      // Minimum release year
	MaxYear    int      // Maximum release year

	// Pagination
	Limit  int
	Offset int

	// Sorting
	SortBy    string // "relevance", "title", "rating", "playtime", "recent"
	SortOrder string // "asc", "desc"

	// Options
	IncludeFacets bool // Include genre and status facet counts
	Highlight     bool // Include match highlighting
}

// DefaultSearchParams returns sensible defaults.
func DefaultSearchParams() SearchParams {
	return SearchParams{
		Limit:         20,
		Offset:        0,
		SortBy:        "relevance",
		SortOrder:     "desc",
		IncludeFacets: true,
		Highlight:     true,
	}
}

// SearchResult represents the search results.
type SearchResult struct {
	Query  string       `json:"query"`
	Total  uint64       `json:"total"`
	TookMs int64        `json:"took_ms"`
	Hits   []SearchHit  `json:"hits"`
	Facets SearchFacets `json:"facets,omitempty"`
}

// SearchHit represents a single search result.
type SearchHit struct {
	ID            string            `json:"id"`
	Score         float64           `json:"score"`
	Name          string            `json:"name"`
	Developer     string            `json:"developer,omitempty"`
	Status        string            `json:"status,omitempty"`
	Genres        []string          `json:"genres,omitempty"`
	ReleaseYear   int               `json:"release_year,omitempty"`
	Rating        int               `json:"rating,omitempty"`
	PlaytimeHours float64           `json:"playtime_hours,omitempty"`
	Highlights    map[string]string `json:"highlights,omitempty"`
}

// SearchFacets contains facet counts.
type SearchFacets struct {
	Genres   []FacetCount `json:"genres,omitempty"`
	Statuses []FacetCount `json:"statuses,omitempty"`
}

// FacetCount represents a facet value and its count.
type FacetCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Search executes a search query.
func (s *SearchIndex) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Build the query
	searchQuery := buildSearchQuery(params)

	// Create search request
	searchRequest := bleve.NewSearchRequestOptions(searchQuery, params.Limit, params.Offset, false)

	// Add sorting
	addSorting(searchRequest, params)

	// Add facets
	if params.IncludeFacets {
		searchRequest.AddFacet("genre_slugs", bleve.NewFacetRequest("genre_slugs", 20))
		searchRequest.AddFacet("status", bleve.NewFacetRequest("status", 10))
	}

	// Add highlighting
	if params.Highlight {
		searchRequest.Highlight = bleve.NewHighlight()
		searchRequest.Highlight.AddField("name")
		searchRequest.Highlight.AddField("developer")
	}

	// Request stored fields
	searchRequest.Fields = []string{
		"id", "name", "developer", "status", "genres",
		"release_year", "rating", "playtime_hours",
	}

	// Execute search
	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	// Convert results
	result := &SearchResult{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]SearchHit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		searchHit := SearchHit{
			ID:    hit.ID,
			Score: hit.Score,
		}

		// Extract stored fields
		if n, ok := hit.Fields["name"].(string); ok {
			searchHit.Name = n
		}
		if d, ok := hit.Fields["developer"].(string); ok {
			searchHit.Developer = d
		}
		if st, ok := hit.Fields["status"].(string); ok {
			searchHit.Status = st
		}
		searchHit.Genres = extractStringField(hit.Fields["genres"])
		if y, ok := hit.Fields["release_year"].(float64); ok {
			searchHit.ReleaseYear = int(y)
		}
		if r, ok := hit.Fields["rating"].(float64); ok {
			searchHit.Rating = int(r)
		}
		if p, ok := hit.Fields["playtime_hours"].(float64); ok {
			searchHit.PlaytimeHours = p
		}

		// Extract highlights
		if len(hit.Fragments) > 0 {
			searchHit.Highlights = make(map[string]string)
			for field, fragments := range hit.Fragments {
				if len(fragments) > 0 {
					searchHit.Highlights[field] = fragments[0]
				}
			}
		}

		result.Hits = append(result.Hits, searchHit)
	}

	// Extract facets
	if params.IncludeFacets {
		result.Facets = extractFacets(searchResult)
	}

	return result, nil
}

// extractStringField handles Bleve returning a stored multi-value field as
// either a single string or a slice of interface values.
func extractStringField(v interface{}) []string {
	switch val := v.(type) {
	case string:
		return []string{val}
	case []interface{}:
		out := make([]string, 0, len(val))
		for _, item := range val {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// buildSearchQuery constructs the Bleve query from params.
func buildSearchQuery(params SearchParams) query.Query {
	var queries []query.Query

	// Main text query across title and developer.
	if params.Query != "" {
		textQueries := []query.Query{}

		// Name/title match with highest boost
		nameMatch := bleve.NewMatchQuery(params.Query)
		nameMatch.SetField("name")
		nameMatch.SetBoost(3.0)
		textQueries = append(textQueries, nameMatch)

		// Developer match
		developerMatch := bleve.NewMatchQuery(params.Query)
		developerMatch.SetField("developer")
		developerMatch.SetBoost(1.5)
		textQueries = append(textQueries, developerMatch)

		// Add fuzzy matching for typo tolerance on name
		fuzzyQuery := bleve.NewFuzzyQuery(params.Query)
		fuzzyQuery.SetFuzziness(1)
		fuzzyQuery.SetField("name")
		fuzzyQuery.SetBoost(0.8)
		textQueries = append(textQueries, fuzzyQuery)

		// Prefix query for autocomplete (minimum 2 chars)
		if len(params.Query) >= 2 {
			prefixQuery := bleve.NewPrefixQuery(strings.ToLower(params.Query))
			prefixQuery.SetField("name")
			prefixQuery.SetBoost(0.5)
			textQueries = append(textQueries, prefixQuery)
		}

		// Combine with OR (match any field)
		queries = append(queries, bleve.NewDisjunctionQuery(textQueries...))
	}

	// Genre slug filter (exact match, OR across slugs)
	if len(params.GenreSlugs) > 0 {
		genreQueries := make([]query.Query, len(params.GenreSlugs))
		for i, slug := range params.GenreSlugs {
			gq := bleve.NewTermQuery(slug)
			gq.SetField("genre_slugs")
			genreQueries[i] = gq
		}
		queries = append(queries, bleve.NewDisjunctionQuery(genreQueries...))
	}

	// Status filter
	if len(params.Statuses) > 0 {
		statusQueries := make([]query.Query, len(params.Statuses))
		for i, st := range params.Statuses {
			sq := bleve.NewTermQuery(st)
			sq.SetField("status")
			statusQueries[i] = sq
		}
		queries = append(queries, bleve.NewDisjunctionQuery(statusQueries...))
	}

	// Platform filter
	if len(params.Platforms) > 0 {
		platformQueries := make([]query.Query, len(params.Platforms))
		for i, p := range params.Platforms {
			pq := bleve.NewTermQuery(p)
			pq.SetField("platforms")
			platformQueries[i] = pq
		}
		queries = append(queries, bleve.NewDisjunctionQuery(platformQueries...))
	}

	// Release year range filter
	if params.MinYear > 0 || params.MaxYear > 0 {
		min := float64(params.MinYear)
		max := float64(params.MaxYear)
		if params.MaxYear == 0 {
			max = 3000 // Far future
		}
		rangeQuery := bleve.NewNumericRangeQuery(&min, &max)
		rangeQuery.SetField("release_year")
		queries = append(queries, rangeQuery)
	}

	// Combine all queries with AND
	if len(queries) == 0 {
		return bleve.NewMatchAllQuery()
	}
	if len(queries) == 1 {
		return queries[0]
	}
	return bleve.NewConjunctionQuery(queries...)
}

// addSorting configures sort order.
func addSorting(req *bleve.SearchRequest, params SearchParams) {
	switch params.SortBy {
	case "title", "name":
		if params.SortOrder == "desc" {
			req.SortBy([]string{"-name"})
		} else {
			req.SortBy([]string{"name"})
		}
	case "rating":
		if params.SortOrder == "asc" {
			req.SortBy([]string{"rating", "name"})
		} else {
			req.SortBy([]string{"-rating", "name"})
		}
	case "playtime":
		if params.SortOrder == "asc" {
			req.SortBy([]string{"playtime_hours"})
		} else {
			req.SortBy([]string{"-playtime_hours"})
		}
	case "recent":
		if params.SortOrder == "asc" {
			req.SortBy([]string{"created_at"})
		} else {
			req.SortBy([]string{"-created_at"})
		}
	case "year":
		if params.SortOrder == "asc" {
			req.SortBy([]string{"release_year", "name"})
		} else {
			req.SortBy([]string{"-release_year", "name"})
		}
	default:
		// Relevance (score) is default - Bleve handles this
		req.SortBy([]string{"-_score"})
	}
}

// extractFacets converts Bleve facets to our format.
func extractFacets(result *bleve.SearchResult) SearchFacets {
	facets := SearchFacets{}

	if genreFacet, ok := result.Facets["genre_slugs"]; ok {
		for _, term := range genreFacet.Terms.Terms() {
			facets.Genres = append(facets.Genres, FacetCount{
				Value: term.Term,
				Count: term.Count,
			})
		}
	}

	if statusFacet, ok := result.Facets["status"]; ok {
		for _, term := range statusFacet.Terms.Terms() {
			facets.Statuses = append(facets.Statuses, FacetCount{
				Value: term.Term,
				Count: term.Count,
			})
		}
	}

	return facets
}
