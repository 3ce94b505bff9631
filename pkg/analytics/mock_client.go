package analytics

import (
	"context"
	"fmt"
	"slices"
	"sync"

	dashboard "github.com/goliatone/go-dashboard-controls/components/dashboard"
)

// MockClient implements ViewClient using in-memory fixtures keyed by view id.
// Filters are recorded but not applied.
type MockClient struct {
	mu       sync.RWMutex
	data     map[string]dashboard.ViewData
	requests []dashboard.ViewRequest
}

// NewMockClient builds a mock analytics client from the provided fixtures.
func NewMockClient(data map[string]dashboard.ViewData) *MockClient {
	return &MockClient{data: data}
}

// QueryView returns a copy of the fixture for req.ViewID.
func (c *MockClient) QueryView(_ context.Context, req dashboard.ViewRequest) (dashboard.ViewData, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.requests = append(c.requests, req)
	data, ok := c.data[req.ViewID]
	if !ok {
		return dashboard.ViewData{}, fmt.Errorf("analytics: unknown view %s", req.ViewID)
	}
	out := dashboard.ViewData{Columns: slices.Clone(data.Columns), Rows: make([][]any, len(data.Rows))}
	for i, row := range data.Rows {
		out.Rows[i] = slices.Clone(row)
	}
	return out, nil
}

// Requests returns the requests seen so far.
func (c *MockClient) Requests() []dashboard.ViewRequest {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.requests)
}
