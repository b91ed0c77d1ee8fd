package search

import "context"

// MockClient returns canned results, for tests and offline runs.
type MockClient struct {
	Results []Result
	Err     error
}

func (m *MockClient) Search(_ context.Context, _ string, limit int) ([]Result, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if limit > 0 && limit < len(m.Results) {
		return m.Results[:limit], nil
	}
	return m.Results, nil
}
