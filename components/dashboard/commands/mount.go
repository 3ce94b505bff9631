package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-controls/components/dashboard"
)

// MountControllerInput identifies the controller being placed on screen.
type MountControllerInput struct {
	WidgetID string `json:"widget_id"`
}

type mountService interface {
	MountController(ctx context.Context, widgetID string) (*dashboard.ControllerMachine, error)
}

// MountControllerCommand loads the option rows of a controller.
type MountControllerCommand struct {
	service   mountService
	telemetry Telemetry
}

// NewMountControllerCommand creates the command.
func NewMountControllerCommand(service mountService, telemetry Telemetry) *MountControllerCommand {
	return &MountControllerCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[MountControllerInput] = (*MountControllerCommand)(nil)

// Execute mounts the controller.
func (c *MountControllerCommand) Execute(ctx context.Context, msg MountControllerInput) error {
	if c.service == nil {
		return errors.New("mount command requires service")
	}
	machine, err := c.service.MountController(ctx, msg.WidgetID)
	if err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.command.mount", map[string]any{
		"widget_id": msg.WidgetID,
		"options":   len(machine.Options()),
	})
	return nil
}
