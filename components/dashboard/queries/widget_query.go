package queries

import (
	"context"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-controls/components/dashboard"
)

// DispatchWidgetInput identifies the widget to dispatch.
type DispatchWidgetInput struct {
	WidgetID     string
	BoardEditing bool
}

type widgetService interface {
	Widget(ctx context.Context, widgetID string) (dashboard.Widget, error)
	Dispatch(ctx context.Context, widget dashboard.Widget, boardEditing bool) dashboard.Variant
}

// DispatchWidgetQuery resolves the render variant of a stored widget.
type DispatchWidgetQuery struct {
	service widgetService
}

// NewDispatchWidgetQuery builds the query.
func NewDispatchWidgetQuery(service widgetService) *DispatchWidgetQuery {
	return &DispatchWidgetQuery{service: service}
}

var _ gocommand.Querier[DispatchWidgetInput, dashboard.Variant] = (*DispatchWidgetQuery)(nil)

// Query loads the widget and dispatches it.
func (q *DispatchWidgetQuery) Query(ctx context.Context, input DispatchWidgetInput) (dashboard.Variant, error) {
	widget, err := q.service.Widget(ctx, input.WidgetID)
	if err != nil {
		return nil, err
	}
	return q.service.Dispatch(ctx, widget, input.BoardEditing), nil
}
