package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
)

// Committer hands a derived widget to the propagation pipeline.
type Committer interface {
	Commit(ctx context.Context, prev, next Widget) error
}

// MachineOptions configures a ControllerMachine. Actions is required; a
// Pipeline over Actions is built when Committer is nil.
type MachineOptions struct {
	Actions   BoardActions
	Committer Committer
	Dates     *DateRangeResolver
	Telemetry Telemetry
	Logger    *slog.Logger
}

// ControllerMachine owns the form state of one controller widget. Its view is
// recomputed from the current widget and rows; submissions derive a new widget
// and commit it through the pipeline.
type ControllerMachine struct {
	actions   BoardActions
	committer Committer
	dates     *DateRangeResolver
	telemetry Telemetry
	logger    *slog.Logger

	commitMu sync.Mutex

	mu       sync.RWMutex
	widget   Widget
	rows     [][]any
	memoKey  string
	memoView Control
	memoOK   bool
}

// NewControllerMachine builds a machine for widget. rows are the current
// query results used by common-mode options and may be nil.
func NewControllerMachine(widget Widget, rows [][]any, opts MachineOptions) (*ControllerMachine, error) {
	if _, ok := widget.ControllerContent(); !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotController, widget.ID)
	}
	if opts.Actions == nil {
		return nil, fmt.Errorf("dashboard: controller %s requires board actions", widget.ID)
	}
	if opts.Dates == nil {
		opts.Dates = NewDateRangeResolver(DateRangeOptions{})
	}
	opts.Telemetry = normalizeTelemetry(opts.Telemetry)
	opts.Logger = normalizeLogger(opts.Logger)
	if opts.Committer == nil {
		opts.Committer = NewPipeline(opts.Actions, PipelineOptions{
			Telemetry: opts.Telemetry,
			Logger:    opts.Logger,
		})
	}
	return &ControllerMachine{
		actions:   opts.Actions,
		committer: opts.Committer,
		dates:     opts.Dates,
		telemetry: opts.Telemetry,
		logger:    opts.Logger,
		widget:    widget.Clone(),
		rows:      rows,
	}, nil
}

// Mount requests a data refresh for the controller so its options reflect
// current query results.
func (m *ControllerMachine) Mount(ctx context.Context) error {
	widget := m.Widget()
	m.telemetry.Record(ctx, "dashboard.controller.mount", map[string]any{
		"widget_id": widget.ID,
		"facade":    string(m.content().Type),
	})
	return m.actions.RenderedWidgetByID(ctx, widget.ID)
}

// Widget returns a copy of the current widget.
func (m *ControllerMachine) Widget() Widget {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.widget.Clone()
}

// ObserveRows replaces the query rows the options derive from.
func (m *ControllerMachine) ObserveRows(rows [][]any) {
	m.mu.Lock()
	m.rows = rows
	m.mu.Unlock()
}

// Options resolves the selectable values for the current configuration.
func (m *ControllerMachine) Options() []FilterValueOption {
	m.mu.RLock()
	defer m.mu.RUnlock()
	content := m.contentLocked()
	return ResolveValueOptions(content.Config.ValueOptionType, content.Config.ValueOptions, m.rows)
}

// DateValues resolves the controller date into display values.
func (m *ControllerMachine) DateValues() ([]string, error) {
	content := m.content()
	if content.Config.ControllerDate == nil {
		return nil, ErrMissingControllerDate
	}
	return m.dates.Resolve(content.Config.ValueOptionType, *content.Config.ControllerDate), nil
}

// View returns the control for the current state with OnChange bound to
// Submit. ok is false when the facade is unknown or a date facade lacks
// its controllerDate.
func (m *ControllerMachine) View() (Control, bool) {
	content := m.content()
	options := m.Options()
	var dateValues []string
	if facade, known := ParseFacadeType(string(content.Type)); known && facade.IsDate() {
		values, err := m.DateValues()
		if err != nil {
			m.logger.Debug("controller without date config", "widget_id", m.Widget().ID)
			return nil, false
		}
		dateValues = values
	}

	key := configHash(map[string]any{
		"content": content,
		"options": options,
		"dates":   dateValues,
	})
	m.mu.Lock()
	if key != m.memoKey {
		m.memoView, m.memoOK = DeriveControlView(content, options, dateValues)
		m.memoKey = key
	}
	view, ok := m.memoView, m.memoOK
	m.mu.Unlock()
	if !ok {
		return nil, false
	}
	return view.bind(m.onChange), true
}

func (m *ControllerMachine) onChange(ctx context.Context, value any) error {
	_, err := m.Submit(ctx, FormSubmission{Value: value})
	return err
}

// Derive computes the widget a submission would commit without committing it.
// The current widget is never modified.
func (m *ControllerMachine) Derive(sub FormSubmission) (Widget, error) {
	return deriveSubmission(m.Widget(), sub)
}

// Submit normalizes sub and commits the derived widget. Malformed submissions
// are absorbed: nothing is committed and (false, nil) is returned. The machine
// adopts the new widget once it is persisted.
func (m *ControllerMachine) Submit(ctx context.Context, sub FormSubmission) (bool, error) {
	m.commitMu.Lock()
	defer m.commitMu.Unlock()

	prev := m.Widget()
	next, err := deriveSubmission(prev, sub)
	if err != nil {
		if errors.Is(err, ErrMalformedSubmission) {
			m.logger.DebugContext(ctx, "controller submission rejected", "widget_id", prev.ID, "error", err)
			m.telemetry.Record(ctx, "dashboard.controller.rejected", map[string]any{
				"widget_id": prev.ID,
				"facade":    string(m.content().Type),
			})
			return false, nil
		}
		return false, err
	}
	if err := m.committer.Commit(ctx, prev, next); err != nil {
		return false, err
	}
	m.mu.Lock()
	m.widget = next
	m.mu.Unlock()
	return true, nil
}

func deriveSubmission(widget Widget, sub FormSubmission) (Widget, error) {
	content, ok := widget.ControllerContent()
	if !ok {
		return Widget{}, fmt.Errorf("%w: %s", ErrNotController, widget.ID)
	}
	facade, known := ParseFacadeType(string(content.Type))
	if !known {
		return Widget{}, fmt.Errorf("%w: unknown facade %q", ErrMalformedSubmission, content.Type)
	}
	if facade.IsDate() {
		date, err := NormalizeDate(facade, content.Config.ControllerDate, sub.Value)
		if err != nil {
			return Widget{}, err
		}
		return widget.WithControllerContent(func(c ControllerContent) ControllerContent {
			c.Type = facade
			c.Config.ControllerDate = &date
			return c
		})
	}
	values, err := NormalizeValues(sub.Value)
	if err != nil {
		return Widget{}, err
	}
	return widget.WithControllerContent(func(c ControllerContent) ControllerContent {
		c.Type = facade
		c.Config.ControllerValues = slices.Clone(values)
		return c
	})
}

func (m *ControllerMachine) content() ControllerContent {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.contentLocked()
}

func (m *ControllerMachine) contentLocked() ControllerContent {
	content, _ := m.widget.ControllerContent()
	return content
}
