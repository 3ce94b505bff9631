package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/goliatone/go-dashboard-controls/pkg/activity"
	"go.opentelemetry.io/otel/trace"
)

// ProviderRegistry resolves the provider that serves a view.
type ProviderRegistry interface {
	Provider(viewID string) (Provider, bool)
}

// BoardOptions configures a Board. Every collaborator is provided via
// interface so applications can swap implementations.
type BoardOptions struct {
	Store       WidgetStore
	Providers   ProviderRegistry
	RefreshHook RefreshHook
	Validator   ConfigValidator
	Telemetry   Telemetry
	Logger      *slog.Logger
	Dates       *DateRangeResolver
	Activity    *activity.Emitter
	Tracer      trace.Tracer
	Visibility  *VisibilityEvaluator
}

// Board is the reference BoardActions implementation: it persists widgets,
// refreshes widget data through view providers and finds the widgets that
// depend on a controller.
type Board struct {
	opts       BoardOptions
	pipeline   *Pipeline
	dispatcher *Dispatcher

	mu      sync.Mutex
	issued  map[string]uint64
	applied map[string]uint64
	data    map[string]ViewData
}

var _ BoardActions = (*Board)(nil)

// NewBoard builds a Board instance with safe defaults.
func NewBoard(opts BoardOptions) *Board {
	if opts.Providers == nil {
		opts.Providers = NewRegistry()
	}
	if opts.RefreshHook == nil {
		opts.RefreshHook = noopRefreshHook{}
	}
	if opts.Validator == nil {
		opts.Validator = NewJSONSchemaValidator()
	}
	if opts.Dates == nil {
		opts.Dates = NewDateRangeResolver(DateRangeOptions{})
	}
	if opts.Visibility == nil {
		opts.Visibility = NewVisibilityEvaluator()
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	opts.Logger = normalizeLogger(opts.Logger)
	b := &Board{
		opts:    opts,
		issued:  map[string]uint64{},
		applied: map[string]uint64{},
		data:    map[string]ViewData{},
	}
	b.dispatcher = NewDispatcher(DispatcherOptions{Telemetry: opts.Telemetry, Logger: opts.Logger})
	b.pipeline = NewPipeline(b, PipelineOptions{
		Telemetry: opts.Telemetry,
		Logger:    opts.Logger,
		Activity:  opts.Activity,
		Tracer:    opts.Tracer,
	})
	return b
}

// Widget loads one widget.
func (b *Board) Widget(ctx context.Context, widgetID string) (Widget, error) {
	store, err := b.widgetStore()
	if err != nil {
		return Widget{}, err
	}
	if widgetID == "" {
		return Widget{}, errMissingWidgetID
	}
	return store.Widget(ctx, widgetID)
}

// Widgets lists the widgets of a board.
func (b *Board) Widgets(ctx context.Context, boardID string) ([]Widget, error) {
	store, err := b.widgetStore()
	if err != nil {
		return nil, err
	}
	return store.Widgets(ctx, boardID)
}

// Dispatch selects the render variant for widget.
func (b *Board) Dispatch(ctx context.Context, widget Widget, boardEditing bool) Variant {
	return b.dispatcher.Dispatch(ctx, widget, boardEditing)
}

// Data returns the latest rows fetched for widgetID.
func (b *Board) Data(widgetID string) (ViewData, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	data, ok := b.data[widgetID]
	return data, ok
}

// RenderedWidgetByID refreshes the widget's data. A refresh superseded by a
// newer one is not an error.
func (b *Board) RenderedWidgetByID(ctx context.Context, widgetID string) error {
	_, err := b.Refresh(ctx, widgetID)
	if errors.Is(err, ErrStaleRefresh) {
		return nil
	}
	return err
}

// Refresh fetches fresh rows for the widget. Every call takes a ticket; rows
// are stored only when no later ticket has been stored yet, otherwise
// ErrStaleRefresh is returned.
func (b *Board) Refresh(ctx context.Context, widgetID string) (ViewData, error) {
	widget, err := b.Widget(ctx, widgetID)
	if err != nil {
		return ViewData{}, err
	}
	ticket := b.issueTicket(widget.ID)
	data, fetched, err := b.fetch(ctx, widget)
	if err != nil {
		b.opts.Telemetry.Record(ctx, "dashboard.widget.refresh_error", map[string]any{
			"widget_id": widget.ID,
			"error":     err.Error(),
		})
		return ViewData{}, err
	}
	if !fetched {
		return ViewData{}, nil
	}
	if !b.applyTicket(widget.ID, ticket, data) {
		b.opts.Logger.DebugContext(ctx, "stale refresh dropped", "widget_id", widget.ID, "ticket", ticket)
		return ViewData{}, fmt.Errorf("%w: %s ticket %d", ErrStaleRefresh, widget.ID, ticket)
	}
	b.opts.Telemetry.Record(ctx, "dashboard.widget.refresh", map[string]any{
		"widget_id": widget.ID,
		"rows":      len(data.Rows),
	})
	if err := b.opts.RefreshHook.WidgetUpdated(ctx, WidgetEvent{
		DashboardID: widget.DashboardID,
		WidgetID:    widget.ID,
		Reason:      EventReasonRefresh,
		Revision:    widget.Revision,
	}); err != nil {
		b.opts.Logger.WarnContext(ctx, "refresh hook failed", "widget_id", widget.ID, "error", err)
	}
	return data, nil
}

func (b *Board) issueTicket(widgetID string) uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.issued[widgetID]++
	return b.issued[widgetID]
}

func (b *Board) applyTicket(widgetID string, ticket uint64, data ViewData) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ticket <= b.applied[widgetID] {
		return false
	}
	b.applied[widgetID] = ticket
	b.data[widgetID] = data
	return true
}

func (b *Board) fetch(ctx context.Context, widget Widget) (ViewData, bool, error) {
	req := ViewRequest{WidgetID: widget.ID, BoardID: widget.DashboardID}
	switch widget.Config.Type {
	case WidgetKindChart:
		content, ok := widget.ChartContent()
		if !ok || content.ViewID == "" {
			return ViewData{}, false, nil
		}
		filters, err := b.FilterParams(ctx, widget.DashboardID, content.ViewID)
		if err != nil {
			return ViewData{}, false, err
		}
		req.ViewID = content.ViewID
		req.Filters = filters
	case WidgetKindController:
		content, ok := widget.ControllerContent()
		if !ok || content.Config.ValueOptionType != ValueOptionCommon {
			return ViewData{}, false, nil
		}
		viewID, field, ok := content.Config.AssistView()
		if !ok {
			return ViewData{}, false, nil
		}
		req.ViewID = viewID
		req.Columns = []string{field}
	default:
		return ViewData{}, false, nil
	}
	provider, ok := b.opts.Providers.Provider(req.ViewID)
	if !ok {
		return ViewData{}, false, fmt.Errorf("dashboard: no provider for view %s", req.ViewID)
	}
	data, err := provider.Fetch(ctx, req)
	if err != nil {
		return ViewData{}, false, fmt.Errorf("dashboard: fetch view %s for %s: %w", req.ViewID, widget.ID, err)
	}
	return data, true, nil
}

// FilterParams collects the filters the board's controllers apply to viewID.
func (b *Board) FilterParams(ctx context.Context, boardID, viewID string) (FilterParams, error) {
	widgets, err := b.Widgets(ctx, boardID)
	if err != nil {
		return FilterParams{}, err
	}
	return BuildFilterParams(widgets, viewID, b.opts.Dates), nil
}

// WidgetUpdate validates and persists widget as the authoritative record.
func (b *Board) WidgetUpdate(ctx context.Context, widget Widget) error {
	store, err := b.widgetStore()
	if err != nil {
		return err
	}
	if err := b.opts.Validator.Validate(widget); err != nil {
		return err
	}
	saved, err := store.SaveWidget(ctx, widget)
	if err != nil {
		return err
	}
	if err := b.opts.RefreshHook.WidgetUpdated(ctx, WidgetEvent{
		DashboardID: saved.DashboardID,
		WidgetID:    saved.ID,
		Reason:      EventReasonUpdate,
		Revision:    saved.Revision,
	}); err != nil {
		b.opts.Logger.WarnContext(ctx, "update hook failed", "widget_id", saved.ID, "error", err)
	}
	return nil
}

// DeleteWidget removes a widget and drops its cached rows.
func (b *Board) DeleteWidget(ctx context.Context, widgetID string) error {
	widget, err := b.Widget(ctx, widgetID)
	if err != nil {
		return err
	}
	if err := b.opts.Store.DeleteWidget(ctx, widget.ID); err != nil {
		return err
	}
	b.mu.Lock()
	delete(b.data, widget.ID)
	delete(b.issued, widget.ID)
	delete(b.applied, widget.ID)
	b.mu.Unlock()
	if err := b.opts.RefreshHook.WidgetUpdated(ctx, WidgetEvent{
		DashboardID: widget.DashboardID,
		WidgetID:    widget.ID,
		Reason:      EventReasonDelete,
		Revision:    widget.Revision,
	}); err != nil {
		b.opts.Logger.WarnContext(ctx, "delete hook failed", "widget_id", widget.ID, "error", err)
	}
	return nil
}

// RefreshWidgetsByFilter refreshes every dependent of controller. Failures of
// single dependents are recorded and do not stop the others.
func (b *Board) RefreshWidgetsByFilter(ctx context.Context, controller Widget) error {
	dependents, err := b.Dependents(ctx, controller)
	if err != nil {
		return err
	}
	for _, dep := range dependents {
		if _, err := b.Refresh(ctx, dep.ID); err != nil && !errors.Is(err, ErrStaleRefresh) {
			b.opts.Logger.WarnContext(ctx, "dependent refresh failed",
				"controller_id", controller.ID, "widget_id", dep.ID, "error", err)
			continue
		}
		if err := b.opts.RefreshHook.WidgetUpdated(ctx, WidgetEvent{
			DashboardID: dep.DashboardID,
			WidgetID:    dep.ID,
			SourceID:    controller.ID,
			Reason:      EventReasonFilter,
			Revision:    dep.Revision,
		}); err != nil {
			b.opts.Logger.WarnContext(ctx, "filter hook failed", "widget_id", dep.ID, "error", err)
		}
	}
	return nil
}

// Dependents lists the widgets whose data depends on controller: widgets
// bound to one of its related views and relation targets of the controller.
func (b *Board) Dependents(ctx context.Context, controller Widget) ([]Widget, error) {
	widgets, err := b.Widgets(ctx, controller.DashboardID)
	if err != nil {
		return nil, err
	}
	views := map[string]bool{}
	if content, ok := controller.ControllerContent(); ok {
		for _, view := range content.RelatedViews {
			views[view.ViewID] = true
		}
	}
	targets := map[string]bool{}
	collect := func(relations []Relation) {
		for _, rel := range relations {
			if rel.SourceID == controller.ID && rel.Type == RelationTypeControlToWidget {
				targets[rel.TargetID] = true
			}
		}
	}
	collect(controller.Relations)
	for _, w := range widgets {
		collect(w.Relations)
	}
	var out []Widget
	for _, w := range widgets {
		if w.ID == controller.ID {
			continue
		}
		if targets[w.ID] {
			out = append(out, w)
			continue
		}
		if chart, ok := w.ChartContent(); ok && views[chart.ViewID] {
			out = append(out, w)
		}
	}
	return out, nil
}

// Controller builds a state machine for a controller widget using the rows
// last fetched for it.
func (b *Board) Controller(ctx context.Context, widgetID string) (*ControllerMachine, error) {
	widget, err := b.Widget(ctx, widgetID)
	if err != nil {
		return nil, err
	}
	data, _ := b.Data(widget.ID)
	return NewControllerMachine(widget, data.Rows, MachineOptions{
		Actions:   b,
		Committer: b.pipeline,
		Dates:     b.opts.Dates,
		Telemetry: b.opts.Telemetry,
		Logger:    b.opts.Logger,
	})
}

// MountController mounts the controller, which refreshes its option rows,
// and feeds the fresh rows back into the machine.
func (b *Board) MountController(ctx context.Context, widgetID string) (*ControllerMachine, error) {
	machine, err := b.Controller(ctx, widgetID)
	if err != nil {
		return nil, err
	}
	if err := machine.Mount(ctx); err != nil {
		b.opts.Logger.WarnContext(ctx, "controller mount refresh failed", "widget_id", widgetID, "error", err)
	}
	if data, ok := b.Data(widgetID); ok {
		machine.ObserveRows(data.Rows)
	}
	return machine, nil
}

// SubmitController applies a form submission to a controller. committed is
// false when the submission was malformed and therefore ignored.
func (b *Board) SubmitController(ctx context.Context, widgetID string, sub FormSubmission) (Widget, bool, error) {
	machine, err := b.Controller(ctx, widgetID)
	if err != nil {
		return Widget{}, false, err
	}
	committed, err := machine.Submit(ctx, sub)
	if err != nil {
		return Widget{}, false, err
	}
	if committed {
		if stored, err := b.Widget(ctx, widgetID); err == nil {
			return stored, true, nil
		}
	}
	return machine.Widget(), committed, nil
}

// Visible evaluates the visibility rule of a controller against the current
// values of the controller it depends on.
func (b *Board) Visible(ctx context.Context, widget Widget) bool {
	content, ok := widget.ControllerContent()
	if !ok {
		return true
	}
	visible, err := b.opts.Visibility.Visible(content, func(id string) ([]any, bool) {
		dep, err := b.Widget(ctx, id)
		if err != nil {
			return nil, false
		}
		depContent, ok := dep.ControllerContent()
		if !ok {
			return nil, false
		}
		return depContent.Config.ControllerValues, true
	})
	if err != nil {
		b.opts.Logger.WarnContext(ctx, "visibility rule failed", "widget_id", widget.ID, "error", err)
	}
	return visible
}

func (b *Board) widgetStore() (WidgetStore, error) {
	if b.opts.Store == nil {
		return nil, errMissingWidgetStore
	}
	return b.opts.Store, nil
}
