package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-controls/components/dashboard"
)

// SubmitControllerValueInput carries one form submission for a controller.
type SubmitControllerValueInput struct {
	Actor
	WidgetID string `json:"widget_id"`
	Value    any    `json:"value"`
	// Result receives the widget after the submission, when non-nil.
	Result *SubmitControllerValueResult `json:"-"`
}

// SubmitControllerValueResult reports what a submission did.
type SubmitControllerValueResult struct {
	Widget    dashboard.Widget `json:"widget"`
	Committed bool             `json:"committed"`
}

type submitService interface {
	SubmitController(ctx context.Context, widgetID string, sub dashboard.FormSubmission) (dashboard.Widget, bool, error)
}

// SubmitControllerValueCommand wraps Board.SubmitController.
type SubmitControllerValueCommand struct {
	service   submitService
	telemetry Telemetry
}

// NewSubmitControllerValueCommand creates the command.
func NewSubmitControllerValueCommand(service submitService, telemetry Telemetry) *SubmitControllerValueCommand {
	return &SubmitControllerValueCommand{service: service, telemetry: normalizeTelemetry(telemetry)}
}

var _ gocommand.Commander[SubmitControllerValueInput] = (*SubmitControllerValueCommand)(nil)

// Execute applies the submission. A malformed value is not an error; the
// result then reports Committed=false.
func (c *SubmitControllerValueCommand) Execute(ctx context.Context, msg SubmitControllerValueInput) error {
	if c.service == nil {
		return errors.New("submit command requires service")
	}
	if msg.WidgetID == "" {
		return errors.New("submit command requires widget id")
	}
	ctx = msg.Actor.context(ctx)
	widget, committed, err := c.service.SubmitController(ctx, msg.WidgetID, dashboard.FormSubmission{Value: msg.Value})
	if err != nil {
		return err
	}
	if msg.Result != nil {
		*msg.Result = SubmitControllerValueResult{Widget: widget, Committed: committed}
	}
	c.telemetry.Record(ctx, "dashboard.command.submit", map[string]any{
		"widget_id": msg.WidgetID,
		"committed": committed,
	})
	return nil
}
