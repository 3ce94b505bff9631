package dashboard

import (
	"context"
	"slices"
)

// Provider fetches rows of a data view. Implementations apply the filter
// conditions and template variables carried by the request.
type Provider interface {
	Fetch(ctx context.Context, req ViewRequest) (ViewData, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context, req ViewRequest) (ViewData, error)

// Fetch calls f.
func (f ProviderFunc) Fetch(ctx context.Context, req ViewRequest) (ViewData, error) {
	return f(ctx, req)
}

// ViewRequest identifies the view and the filters active for one widget.
type ViewRequest struct {
	ViewID   string
	WidgetID string
	BoardID  string
	// Columns restricts the result, e.g. to the assist field of a controller.
	Columns []string
	Filters FilterParams
}

// ViewData is one result set.
type ViewData struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// Column returns the values of one column, or nil when it is absent.
func (d ViewData) Column(name string) []any {
	idx := slices.Index(d.Columns, name)
	if idx < 0 {
		return nil
	}
	out := make([]any, 0, len(d.Rows))
	for _, row := range d.Rows {
		if idx < len(row) {
			out = append(out, row[idx])
		}
	}
	return out
}
