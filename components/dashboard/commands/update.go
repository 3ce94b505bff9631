package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-controls/components/dashboard"
)

// UpdateWidgetInput replaces a widget record, e.g. after editing its config.
type UpdateWidgetInput struct {
	Actor
	Widget dashboard.Widget `json:"widget"`
}

type updateService interface {
	WidgetUpdate(ctx context.Context, widget dashboard.Widget) error
}

// UpdateWidgetCommand wraps Board.WidgetUpdate.
type UpdateWidgetCommand struct {
	service   updateService
	telemetry Telemetry
}

// NewUpdateWidgetCommand creates the command.
func NewUpdateWidgetCommand(service updateService, telemetry Telemetry) *UpdateWidgetCommand {
	return &UpdateWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[UpdateWidgetInput] = (*UpdateWidgetCommand)(nil)

// Execute validates and persists the widget.
func (c *UpdateWidgetCommand) Execute(ctx context.Context, msg UpdateWidgetInput) error {
	if c.service == nil {
		return errors.New("update command requires service")
	}
	if msg.Widget.ID == "" {
		return errors.New("update command requires widget id")
	}
	ctx = msg.Actor.context(ctx)
	if err := c.service.WidgetUpdate(ctx, msg.Widget); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.widget.update", map[string]any{
		"widget_id": msg.Widget.ID,
		"kind":      string(msg.Widget.Config.Type),
	})
	return nil
}
