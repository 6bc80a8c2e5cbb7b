package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for game documents.
//
// The mapping is designed with these priorities:
//  1. Fast full-text search on titles with English stemming
//  2. Exact keyword matching for status, platform, and genre filters
//  3. Numeric range queries for release year, rating, and playtime
//  4. Term vectors enabled on the name field for highlighting
func buildIndexMapping() mapping.IndexMapping {
	// Create the index mapping
	indexMapping := bleve.NewIndexMapping()

	// Use English analyzer as default for text fields
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	// Create document mapping
	docMapping := bleve.NewDocumentMapping()

	// --- Text fields (full-text searchable) ---

	// Name field - primary search target, boosted
	nameFieldMapping := bleve.NewTextFieldMapping()
	nameFieldMapping.Analyzer = en.AnalyzerName
	nameFieldMapping.Store = true
	nameFieldMapping.IncludeTermVectors = true // For highlighting
	docMapping.AddFieldMappingsAt("name", nameFieldMapping)

	// Description - searchable but not stored (too large)
	descFieldMapping := bleve.NewTextFieldMapping()
	descFieldMapping.Analyzer = en.AnalyzerName
	descFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("description", descFieldMapping)

	// Developer - searchable with simple analyzer (no stemming on studio names)
	developerFieldMapping := bleve.NewTextFieldMapping()
	developerFieldMapping.Analyzer = simple.Name
	developerFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("developer", developerFieldMapping)

	// Publisher - searchable with simple analyzer
	publisherFieldMapping := bleve.NewTextFieldMapping()
	publisherFieldMapping.Analyzer = simple.Name
	publisherFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("publisher", publisherFieldMapping)

	// --- Keyword fields (exact match, facetable) ---

	// ID - stored but not analyzed
	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", idFieldMapping)

	// Status - for filtering by play status
	statusFieldMapping := bleve.NewTextFieldMapping()
	statusFieldMapping.Analyzer = keyword.Name
	statusFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("status", statusFieldMapping)

	// Platforms - keyword analyzer keeps values like "nintendo_switch" intact
	platformsFieldMapping := bleve.NewTextFieldMapping()
	platformsFieldMapping.Analyzer = keyword.Name
	platformsFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("platforms", platformsFieldMapping)

	// Genre slugs - for exact genre filtering and faceting
	genreSlugsFieldMapping := bleve.NewTextFieldMapping()
	genreSlugsFieldMapping.Analyzer = keyword.Name
	genreSlugsFieldMapping.Store = true
	genreSlugsFieldMapping.IncludeTermVectors = true // For faceting
	docMapping.AddFieldMappingsAt("genre_slugs", genreSlugsFieldMapping)

	// Genre display names - stored for retrieval in search results
	genresFieldMapping := bleve.NewTextFieldMapping()
	genresFieldMapping.Analyzer = keyword.Name
	genresFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("genres", genresFieldMapping)

	// --- Numeric fields (range queries, sorting) ---

	// Release year - for range filtering
	yearFieldMapping := bleve.NewNumericFieldMapping()
	yearFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("release_year", yearFieldMapping)

	// Rating - for range filtering and sorting
	ratingFieldMapping := bleve.NewNumericFieldMapping()
	ratingFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("rating", ratingFieldMapping)

	// Playtime hours - for sorting
	playtimeFieldMapping := bleve.NewNumericFieldMapping()
	playtimeFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("playtime_hours", playtimeFieldMapping)

	// Favorite flag
	favoriteFieldMapping := bleve.NewBooleanFieldMapping()
	favoriteFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("favorite", favoriteFieldMapping)

	// Timestamps - for sorting by recency
	createdAtFieldMapping := bleve.NewNumericFieldMapping()
	createdAtFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("created_at", createdAtFieldMapping)

	updatedAtFieldMapping := bleve.NewNumericFieldMapping()
	updatedAtFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("updated_at", updatedAtFieldMapping)

	// Register the document mapping
	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
