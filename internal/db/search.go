package db

import "github.com/askdocs-io/askdocs/internal/domain/filter"

// KNNQuery is the input for vector similarity search.
type KNNQuery struct {
	IndexName    string
	Filters      filter.Expression
	Vector       []float32
	K            int
	ReturnFields []string
}

// FieldQuery is the input for filtered, optionally sorted, paginated retrieval.
type FieldQuery struct {
	IndexName    string
	Filters      filter.Expression
	SortBy       string // empty means unsorted
	Ascending    bool
	Offset       int
	Limit        int
	ReturnFields []string
}

// SearchResult is the output of a search operation.
type SearchResult struct {
	Total   int
	Entries []SearchEntry
}

// SearchEntry is a single record hit from a search.
type SearchEntry struct {
	Key    string
	Score  float64
	Fields map[string]string
}
