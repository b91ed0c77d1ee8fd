package search

import (
	"context"
	"errors"
	"fmt"

	customsearch "google.golang.org/api/customsearch/v1"
	"google.golang.org/api/option"
)

// GoogleClient implements Client on top of the Custom Search JSON API.
type GoogleClient struct {
	apiKey   string
	engineID string
}

func NewGoogleClient(apiKey, engineID string) (*GoogleClient, error) {
	if apiKey == "" {
		return nil, errors.New("search api key missing")
	}
	if engineID == "" {
		return nil, errors.New("search engine id missing")
	}
	return &GoogleClient{apiKey: apiKey, engineID: engineID}, nil
}

func (g *GoogleClient) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	svc, err := customsearch.NewService(ctx, option.WithAPIKey(g.apiKey))
	if err != nil {
		return nil, fmt.Errorf("create customsearch service: %w", err)
	}

	if limit <= 0 || limit > 10 {
		// The JSON API caps a single page at 10 results.
		limit = 10
	}

	resp, err := svc.Cse.List().
		Q(query).
		Cx(g.engineID).
		Num(int64(limit)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("customsearch query %q: %w", query, err)
	}

	results := make([]Result, 0, len(resp.Items))
	for _, item := range resp.Items {
		results = append(results, Result{
			Title:   item.Title,
			Link:    item.Link,
			Snippet: item.Snippet,
		})
	}
	return results, nil
}
