// Package search wraps the web-search capability used by the researcher
// stage. The concrete backend is Google Custom Search; a mock is provided
// for offline runs and tests.
package search

import "context"

// Result is one search hit.
type Result struct {
	Title     string
	Link      string
	Snippet   string
	Published string
}

// Client is the search capability boundary.
type Client interface {
	Search(ctx context.Context, query string, limit int) ([]Result, error)
}
