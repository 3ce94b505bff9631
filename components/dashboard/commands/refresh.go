package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
)

// RefreshWidgetInput asks for fresh rows of one widget.
type RefreshWidgetInput struct {
	WidgetID string `json:"widget_id"`
}

type refreshService interface {
	RenderedWidgetByID(ctx context.Context, widgetID string) error
}

// RefreshWidgetCommand refetches widget data; hooks notify transports.
type RefreshWidgetCommand struct {
	service   refreshService
	telemetry Telemetry
}

// NewRefreshWidgetCommand creates the command.
func NewRefreshWidgetCommand(service refreshService, telemetry Telemetry) *RefreshWidgetCommand {
	return &RefreshWidgetCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[RefreshWidgetInput] = (*RefreshWidgetCommand)(nil)

// Execute refreshes the widget.
func (c *RefreshWidgetCommand) Execute(ctx context.Context, msg RefreshWidgetInput) error {
	if c.service == nil {
		return errors.New("refresh command requires service")
	}
	if msg.WidgetID == "" {
		return errors.New("refresh command requires widget id")
	}
	if err := c.service.RenderedWidgetByID(ctx, msg.WidgetID); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.refresh", map[string]any{
		"widget_id": msg.WidgetID,
	})
	return nil
}
