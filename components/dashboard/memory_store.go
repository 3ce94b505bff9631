package dashboard

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

// InMemoryWidgetStore is a concurrency-safe WidgetStore for tests, the CLI
// and single-process servers.
type InMemoryWidgetStore struct {
	mu    sync.RWMutex
	data  map[string]Widget
	order []string
	now   func() time.Time
}

// NewInMemoryWidgetStore creates a store seeded with widgets.
func NewInMemoryWidgetStore(widgets ...Widget) *InMemoryWidgetStore {
	s := &InMemoryWidgetStore{
		data: make(map[string]Widget, len(widgets)),
		now:  time.Now,
	}
	for _, w := range widgets {
		if w.ID == "" {
			continue
		}
		if _, exists := s.data[w.ID]; !exists {
			s.order = append(s.order, w.ID)
		}
		s.data[w.ID] = w.Clone()
	}
	return s
}

// Widget returns a copy of the stored widget.
func (s *InMemoryWidgetStore) Widget(_ context.Context, widgetID string) (Widget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	w, ok := s.data[widgetID]
	if !ok {
		return Widget{}, fmt.Errorf("%w: %s", ErrWidgetNotFound, widgetID)
	}
	return w.Clone(), nil
}

// Widgets lists the widgets of a board in insertion order.
func (s *InMemoryWidgetStore) Widgets(_ context.Context, dashboardID string) ([]Widget, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Widget, 0, len(s.order))
	for _, id := range s.order {
		w := s.data[id]
		if dashboardID != "" && w.DashboardID != dashboardID {
			continue
		}
		out = append(out, w.Clone())
	}
	return out, nil
}

// SaveWidget replaces the stored record and bumps its revision.
func (s *InMemoryWidgetStore) SaveWidget(_ context.Context, widget Widget) (Widget, error) {
	if strings.TrimSpace(widget.ID) == "" {
		return Widget{}, errMissingWidgetID
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	current, exists := s.data[widget.ID]
	if !exists {
		s.order = append(s.order, widget.ID)
	}
	next := widget.Clone()
	next.Revision = current.Revision + 1
	next.UpdatedAt = s.now().UTC()
	s.data[widget.ID] = next
	return next.Clone(), nil
}

// DeleteWidget removes the widget.
func (s *InMemoryWidgetStore) DeleteWidget(_ context.Context, widgetID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.data[widgetID]; !ok {
		return fmt.Errorf("%w: %s", ErrWidgetNotFound, widgetID)
	}
	delete(s.data, widgetID)
	s.order = slices.DeleteFunc(s.order, func(id string) bool { return id == widgetID })
	return nil
}
