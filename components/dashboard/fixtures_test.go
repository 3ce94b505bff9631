package dashboard

import (
	"context"
	"sync"
)

const testBoardID = "board-1"

func controllerWidget(id string, facade FacadeType, cfg ControllerConfig, views ...RelatedView) Widget {
	return Widget{
		ID:          id,
		DashboardID: testBoardID,
		Config: WidgetConfig{
			Type: WidgetKindController,
			Name: id,
			Content: ControllerContent{
				Type:         facade,
				Name:         id,
				RelatedViews: views,
				Config:       cfg,
			},
		},
	}
}

func chartWidget(id, viewID string) Widget {
	return Widget{
		ID:          id,
		DashboardID: testBoardID,
		Config: WidgetConfig{
			Type:    WidgetKindChart,
			Name:    id,
			Content: ChartContent{ViewID: viewID, ChartType: "bar", Title: id},
		},
	}
}

func fieldView(viewID, field string) RelatedView {
	return RelatedView{ViewID: viewID, RelatedCategory: RelatedCategoryField, FieldValue: field}
}

func floatPtr(v float64) *float64 { return &v }

// recordingActions is a BoardActions stub that records call order.
type recordingActions struct {
	mu         sync.Mutex
	calls      []string
	rendered   []string
	updated    []Widget
	refreshed  []Widget
	updateErr  error
	refreshErr error
}

func (a *recordingActions) RenderedWidgetByID(_ context.Context, id string) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, "render:"+id)
	a.rendered = append(a.rendered, id)
	return nil
}

func (a *recordingActions) WidgetUpdate(_ context.Context, w Widget) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, "update:"+w.ID)
	if a.updateErr != nil {
		return a.updateErr
	}
	a.updated = append(a.updated, w)
	return nil
}

func (a *recordingActions) RefreshWidgetsByFilter(_ context.Context, w Widget) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls = append(a.calls, "refresh:"+w.ID)
	a.refreshed = append(a.refreshed, w)
	return a.refreshErr
}

func (a *recordingActions) callLog() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.calls...)
}

type recordingTelemetry struct {
	mu     sync.Mutex
	events []string
	last   map[string]map[string]any
}

func (t *recordingTelemetry) Record(_ context.Context, event string, payload map[string]any) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = append(t.events, event)
	if t.last == nil {
		t.last = map[string]map[string]any{}
	}
	t.last[event] = payload
}

func (t *recordingTelemetry) count(event string) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := 0
	for _, e := range t.events {
		if e == event {
			n++
		}
	}
	return n
}

type recordingHook struct {
	mu     sync.Mutex
	events []WidgetEvent
}

func (h *recordingHook) WidgetUpdated(_ context.Context, event WidgetEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return nil
}

func (h *recordingHook) reasons(widgetID string) []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []string
	for _, e := range h.events {
		if e.WidgetID == widgetID {
			out = append(out, e.Reason)
		}
	}
	return out
}
