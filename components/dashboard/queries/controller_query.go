package queries

import (
	"context"
	"fmt"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-controls/components/dashboard"
)

// ControllerViewInput identifies a controller widget.
type ControllerViewInput struct {
	WidgetID string
}

// ControllerView is the read model of a controller: its control, the
// selectable options and whether it is currently shown.
type ControllerView struct {
	WidgetID string                        `json:"widgetId"`
	Facade   dashboard.FacadeType          `json:"facade"`
	Visible  bool                          `json:"visible"`
	Control  map[string]any                `json:"control"`
	Options  []dashboard.FilterValueOption `json:"options"`
}

type controllerService interface {
	Widget(ctx context.Context, widgetID string) (dashboard.Widget, error)
	Controller(ctx context.Context, widgetID string) (*dashboard.ControllerMachine, error)
	Visible(ctx context.Context, widget dashboard.Widget) bool
}

// ControllerViewQuery derives the control of a controller widget.
type ControllerViewQuery struct {
	service controllerService
}

// NewControllerViewQuery builds the query.
func NewControllerViewQuery(service controllerService) *ControllerViewQuery {
	return &ControllerViewQuery{service: service}
}

var _ gocommand.Querier[ControllerViewInput, ControllerView] = (*ControllerViewQuery)(nil)

// Query builds the controller view. A controller whose control cannot be
// derived, e.g. a date facade without date config, is an error here.
func (q *ControllerViewQuery) Query(ctx context.Context, input ControllerViewInput) (ControllerView, error) {
	machine, err := q.service.Controller(ctx, input.WidgetID)
	if err != nil {
		return ControllerView{}, err
	}
	control, ok := machine.View()
	if !ok {
		return ControllerView{}, fmt.Errorf("queries: controller %s has no control", input.WidgetID)
	}
	return ControllerView{
		WidgetID: input.WidgetID,
		Facade:   control.Facade(),
		Visible:  q.service.Visible(ctx, machine.Widget()),
		Control:  dashboard.ControlPayload(control),
		Options:  machine.Options(),
	}, nil
}
