package dashboard

import (
	"context"
	"slices"
	"time"
)

// WidgetKind is the primary discriminant stored in a widget's config.type.
type WidgetKind string

const (
	WidgetKindChart      WidgetKind = "chart"
	WidgetKindMedia      WidgetKind = "media"
	WidgetKindContainer  WidgetKind = "container"
	WidgetKindController WidgetKind = "controller"
)

// MediaKind is the nested discriminant of media widgets (content.type).
type MediaKind string

const (
	MediaKindRichText MediaKind = "richText"
	MediaKindImage    MediaKind = "image"
	MediaKindVideo    MediaKind = "video"
	MediaKindIframe   MediaKind = "iframe"
	MediaKindTimer    MediaKind = "timer"
)

// RelationTypeControlToWidget links a controller to a widget it filters.
const RelationTypeControlToWidget = "controlToWidget"

// Widget is a placeable unit on a board. Values are treated as immutable:
// updates always produce a new Widget through the With* helpers.
type Widget struct {
	ID          string       `json:"id"`
	DashboardID string       `json:"dashboardId"`
	Config      WidgetConfig `json:"config"`
	Relations   []Relation   `json:"relations,omitempty"`
	Revision    int          `json:"revision,omitempty"`
	UpdatedAt   time.Time    `json:"updatedAt,omitempty"`
}

// Relation connects two widgets on the same board.
type Relation struct {
	ID       string `json:"id"`
	SourceID string `json:"sourceId"`
	TargetID string `json:"targetId"`
	Type     string `json:"type"`
}

// BoardActions are the board-level collaborators a controller talks to.
// Implementations treat every call as fire-and-forget from the caller's
// point of view; returned errors are logged by the caller.
type BoardActions interface {
	// RenderedWidgetByID requests a data refresh for the widget.
	RenderedWidgetByID(ctx context.Context, widgetID string) error
	// WidgetUpdate persists the widget as the authoritative record.
	WidgetUpdate(ctx context.Context, widget Widget) error
	// RefreshWidgetsByFilter recomputes every widget depending on the controller.
	RefreshWidgetsByFilter(ctx context.Context, controller Widget) error
}

// WidgetStore persists widget records for a board.
type WidgetStore interface {
	Widget(ctx context.Context, widgetID string) (Widget, error)
	Widgets(ctx context.Context, dashboardID string) ([]Widget, error)
	SaveWidget(ctx context.Context, widget Widget) (Widget, error)
	DeleteWidget(ctx context.Context, widgetID string) error
}

// RefreshHook notifies transports (REST/WebSocket/SSE/pub-sub) about widget changes.
type RefreshHook interface {
	WidgetUpdated(ctx context.Context, event WidgetEvent) error
}

// WidgetEvent describes changes that transports might care about.
type WidgetEvent struct {
	DashboardID string `json:"dashboardId"`
	WidgetID    string `json:"widgetId"`
	SourceID    string `json:"sourceId,omitempty"`
	Reason      string `json:"reason"`
	Revision    int    `json:"revision,omitempty"`
}

const (
	EventReasonUpdate  = "update"
	EventReasonFilter  = "filter"
	EventReasonRefresh = "refresh"
	EventReasonDelete  = "delete"
)

// IsKind reports whether the widget's primary discriminant equals kind.
func (w Widget) IsKind(kind WidgetKind) bool {
	return w.Config.Type == kind
}

// WithConfig returns a copy of the widget carrying cfg.
func (w Widget) WithConfig(cfg WidgetConfig) Widget {
	next := w
	next.Relations = slices.Clone(w.Relations)
	next.Config = cfg
	return next
}

// Clone returns a deep copy of the widget.
func (w Widget) Clone() Widget {
	return w.WithConfig(w.Config.Clone())
}
