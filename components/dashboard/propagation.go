package dashboard

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/goliatone/go-dashboard-controls/pkg/activity"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "go-dashboard-controls"

// ActivityVerbFilterApply is emitted each time a controller commits a value.
const ActivityVerbFilterApply = "filter.apply"

// PipelineOptions configures a Pipeline.
type PipelineOptions struct {
	Telemetry Telemetry
	Logger    *slog.Logger
	Activity  *activity.Emitter
	Tracer    trace.Tracer
}

// Pipeline persists a committed controller widget and then refreshes the
// widgets that depend on it.
type Pipeline struct {
	actions   BoardActions
	telemetry Telemetry
	logger    *slog.Logger
	activity  *activity.Emitter
	tracer    trace.Tracer
}

// NewPipeline wires the board actions into a pipeline.
func NewPipeline(actions BoardActions, opts PipelineOptions) *Pipeline {
	if opts.Tracer == nil {
		opts.Tracer = otel.Tracer(tracerName)
	}
	return &Pipeline{
		actions:   actions,
		telemetry: normalizeTelemetry(opts.Telemetry),
		logger:    normalizeLogger(opts.Logger),
		activity:  opts.Activity,
		tracer:    opts.Tracer,
	}
}

// Commit persists next and, only once that succeeded, triggers the dependent
// refresh. Only a persistence failure is returned. prev is the widget next
// was derived from and is used for auditing.
func (p *Pipeline) Commit(ctx context.Context, prev, next Widget) error {
	if p.actions == nil {
		return fmt.Errorf("dashboard: pipeline has no board actions")
	}
	ctx, span := p.tracer.Start(ctx, "dashboard.controller.commit",
		trace.WithAttributes(
			attribute.String("widget.id", next.ID),
			attribute.String("board.id", next.DashboardID),
		))
	defer span.End()

	if err := p.actions.WidgetUpdate(ctx, next); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "widget update failed")
		return fmt.Errorf("dashboard: persist widget %s: %w", next.ID, err)
	}
	// next is persisted from here on; a failed dependent refresh does not
	// undo the commit.
	if err := p.actions.RefreshWidgetsByFilter(ctx, next); err != nil {
		span.RecordError(err)
		p.logger.WarnContext(ctx, "dependent refresh failed", "widget_id", next.ID, "error", err)
		p.telemetry.Record(ctx, "dashboard.widget.refresh_error", map[string]any{
			"widget_id":    next.ID,
			"dashboard_id": next.DashboardID,
			"error":        err.Error(),
		})
	}

	payload := commitPayload(prev, next)
	if meta := activityContextFrom(ctx); !meta.IsZero() {
		payload["actor_id"] = meta.ActorID
		payload["tenant_id"] = meta.TenantID
	}
	p.telemetry.Record(ctx, "dashboard.controller.commit", payload)
	p.emitActivity(ctx, next, payload)
	return nil
}

func (p *Pipeline) emitActivity(ctx context.Context, next Widget, payload map[string]any) {
	if !p.activity.Enabled() {
		return
	}
	meta := activityContextFrom(ctx)
	err := p.activity.Emit(ctx, activity.Event{
		Verb:           ActivityVerbFilterApply,
		ActorID:        meta.ActorID,
		UserID:         meta.UserID,
		TenantID:       meta.TenantID,
		ObjectType:     "widget",
		ObjectID:       next.ID,
		DefinitionCode: "controller:" + fmt.Sprint(payload["facade"]),
		Metadata:       payload,
	})
	if err != nil {
		p.logger.WarnContext(ctx, "activity emit failed", "widget_id", next.ID, "error", err)
	}
}

func commitPayload(prev, next Widget) map[string]any {
	payload := map[string]any{
		"widget_id":    next.ID,
		"dashboard_id": next.DashboardID,
	}
	if content, ok := next.ControllerContent(); ok {
		payload["facade"] = string(content.Type)
		payload["values"] = len(content.Config.ControllerValues)
	}
	if prevContent, ok := prev.ControllerContent(); ok {
		payload["previous_values"] = len(prevContent.Config.ControllerValues)
	}
	return payload
}
