package dashboard

import (
	"context"
	"log/slog"
)

const (
	// PlaceholderWidget is rendered for widgets of an unknown kind.
	PlaceholderWidget = "default widget"
	// PlaceholderMedia is rendered for media widgets of an unknown sub-type.
	PlaceholderMedia = "default media"
)

// Variant is the render target selected for a widget. The set is closed:
// ChartVariant, MediaVariant, ContainerVariant, ControllerVariant and
// FallbackVariant are its only members.
type Variant interface {
	Kind() WidgetKind
	variant()
}

// ChartVariant delegates to the chart renderer inside a data scope keyed by
// (WidgetID, BoardID).
type ChartVariant struct {
	WidgetID     string
	BoardID      string
	BoardEditing bool
	Content      ChartContent
}

// MediaVariant delegates to one media renderer.
type MediaVariant struct {
	WidgetID string
	Media    MediaKind
	Content  MediaContent
}

// ContainerVariant delegates to the tab container.
type ContainerVariant struct {
	WidgetID string
	Tabs     []ContainerTab
}

// ControllerVariant hands the widget to a ControllerMachine.
type ControllerVariant struct {
	WidgetID string
	Facade   FacadeType
}

// FallbackVariant is a visible placeholder for unrecognized discriminants.
type FallbackVariant struct {
	WidgetID    string
	Placeholder string
	Reason      string
}

func (ChartVariant) Kind() WidgetKind      { return WidgetKindChart }
func (MediaVariant) Kind() WidgetKind      { return WidgetKindMedia }
func (ContainerVariant) Kind() WidgetKind  { return WidgetKindContainer }
func (ControllerVariant) Kind() WidgetKind { return WidgetKindController }
func (FallbackVariant) Kind() WidgetKind   { return "" }

func (ChartVariant) variant()      {}
func (MediaVariant) variant()      {}
func (ContainerVariant) variant()  {}
func (ControllerVariant) variant() {}
func (FallbackVariant) variant()   {}

// DispatcherOptions configures a Dispatcher.
type DispatcherOptions struct {
	Telemetry Telemetry
	Logger    *slog.Logger
}

// Dispatcher routes widgets to their render variant. It never fails: unknown
// discriminants degrade to a FallbackVariant.
type Dispatcher struct {
	telemetry Telemetry
	logger    *slog.Logger
}

// NewDispatcher builds a dispatcher with safe defaults.
func NewDispatcher(opts DispatcherOptions) *Dispatcher {
	return &Dispatcher{
		telemetry: normalizeTelemetry(opts.Telemetry),
		logger:    normalizeLogger(opts.Logger),
	}
}

// Dispatch selects the variant governing widget.
func (d *Dispatcher) Dispatch(ctx context.Context, widget Widget, boardEditing bool) Variant {
	switch widget.Config.Type {
	case WidgetKindChart:
		content, _ := widget.ChartContent()
		return ChartVariant{
			WidgetID:     widget.ID,
			BoardID:      widget.DashboardID,
			BoardEditing: boardEditing,
			Content:      content,
		}
	case WidgetKindMedia:
		content, _ := widget.MediaContent()
		return d.DispatchMedia(ctx, widget.ID, content)
	case WidgetKindContainer:
		content, _ := widget.ContainerContent()
		return ContainerVariant{WidgetID: widget.ID, Tabs: content.Tabs}
	case WidgetKindController:
		content, ok := widget.ControllerContent()
		if !ok {
			return d.fallback(ctx, widget.ID, PlaceholderWidget, "controller content missing")
		}
		facade, known := ParseFacadeType(string(content.Type))
		if !known {
			return d.fallback(ctx, widget.ID, PlaceholderWidget, "unknown facade "+string(content.Type))
		}
		return ControllerVariant{WidgetID: widget.ID, Facade: facade}
	default:
		return d.fallback(ctx, widget.ID, PlaceholderWidget, "unknown widget type "+string(widget.Config.Type))
	}
}

// DispatchMedia selects the media variant for content.Type.
func (d *Dispatcher) DispatchMedia(ctx context.Context, widgetID string, content MediaContent) Variant {
	switch content.Type {
	case MediaKindRichText, MediaKindImage, MediaKindVideo, MediaKindIframe, MediaKindTimer:
		return MediaVariant{WidgetID: widgetID, Media: content.Type, Content: content}
	default:
		return d.fallback(ctx, widgetID, PlaceholderMedia, "unknown media type "+string(content.Type))
	}
}

func (d *Dispatcher) fallback(ctx context.Context, widgetID, placeholder, reason string) Variant {
	d.logger.DebugContext(ctx, "widget dispatch fallback", "widget_id", widgetID, "reason", reason)
	d.telemetry.Record(ctx, "dashboard.widget.dispatch_fallback", map[string]any{
		"widget_id": widgetID,
		"reason":    reason,
	})
	return FallbackVariant{WidgetID: widgetID, Placeholder: placeholder, Reason: reason}
}
