package commands

import (
	"context"
	"errors"
	"strings"
	"testing"

	dashboard "github.com/goliatone/go-dashboard-controls/components/dashboard"
	"github.com/goliatone/go-dashboard-controls/pkg/activity"
)

const manifest = `
board: demo
views:
  - id: sales
    columns: [region, amount]
    rows:
      - [eu, 10]
      - [us, 20]
widgets:
  - id: region
    config:
      type: controller
      content:
        type: dropdownList
        relatedViews:
          - {viewId: sales, relatedCategory: field, fieldValue: region}
        config:
          valueOptionType: common
          assistViewFields: [sales, region]
  - id: chart
    config:
      type: chart
      content: {viewId: sales}
`

type fixture struct {
	board    *dashboard.Board
	store    *dashboard.InMemoryWidgetStore
	registry *dashboard.Registry
	capture  *activity.CaptureHook
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	doc, err := dashboard.DecodeManifest(strings.NewReader(manifest))
	if err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	store := dashboard.NewInMemoryWidgetStore()
	registry := dashboard.NewRegistry()
	if err := NewSeedBoardCommand(store, registry, nil).Execute(context.Background(), SeedBoardInput{Manifest: doc}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	capture := &activity.CaptureHook{}
	board := dashboard.NewBoard(dashboard.BoardOptions{
		Store:     store,
		Providers: registry,
		Activity:  activity.NewEmitter(activity.Hooks{capture}, activity.Config{Enabled: true}),
	})
	return fixture{board: board, store: store, registry: registry, capture: capture}
}

func TestSeedBoardCommand(t *testing.T) {
	fx := newFixture(t)
	widgets, err := fx.store.Widgets(context.Background(), "demo")
	if err != nil {
		t.Fatalf("Widgets returned error: %v", err)
	}
	if len(widgets) != 2 {
		t.Fatalf("expected 2 widgets, got %d", len(widgets))
	}
	if views := fx.registry.Views(); len(views) != 1 || views[0] != "sales" {
		t.Fatalf("expected sales view, got %v", views)
	}
	if err := NewSeedBoardCommand(fx.store, nil, nil).Execute(context.Background(), SeedBoardInput{}); err == nil {
		t.Fatalf("expected error without manifest")
	}
}

func TestSubmitControllerValueCommand(t *testing.T) {
	fx := newFixture(t)
	telemetry := &stubTelemetry{}
	cmd := NewSubmitControllerValueCommand(fx.board, telemetry)

	var result SubmitControllerValueResult
	err := cmd.Execute(context.Background(), SubmitControllerValueInput{
		Actor:    Actor{ActorID: "actor-1"},
		WidgetID: "region",
		Value:    "us",
		Result:   &result,
	})
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if !result.Committed || result.Widget.Revision != 2 {
		t.Fatalf("expected committed revision 2, got %+v", result)
	}
	data, ok := fx.board.Data("chart")
	if !ok || len(data.Rows) != 1 {
		t.Fatalf("expected chart filtered to one row, got %+v", data)
	}
	if len(fx.capture.Events) != 1 || fx.capture.Events[0].ActorID != "actor-1" {
		t.Fatalf("expected activity with actor, got %+v", fx.capture.Events)
	}
	if telemetry.calls != 1 {
		t.Fatalf("expected telemetry to record the submission")
	}

	if err := cmd.Execute(context.Background(), SubmitControllerValueInput{WidgetID: "region", Value: map[string]any{}, Result: &result}); err != nil {
		t.Fatalf("malformed submission must not fail: %v", err)
	}
	if result.Committed {
		t.Fatalf("malformed submission must not commit")
	}
	if err := cmd.Execute(context.Background(), SubmitControllerValueInput{}); err == nil {
		t.Fatalf("expected error without widget id")
	}
}

func TestMountControllerCommand(t *testing.T) {
	fx := newFixture(t)
	telemetry := &stubTelemetry{}
	if err := NewMountControllerCommand(fx.board, telemetry).Execute(context.Background(), MountControllerInput{WidgetID: "region"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if telemetry.last["options"] != 2 {
		t.Fatalf("expected 2 options, got %v", telemetry.last["options"])
	}
	if err := NewMountControllerCommand(fx.board, nil).Execute(context.Background(), MountControllerInput{WidgetID: "chart"}); !errors.Is(err, dashboard.ErrNotController) {
		t.Fatalf("expected ErrNotController, got %v", err)
	}
}

func TestRefreshWidgetCommand(t *testing.T) {
	fx := newFixture(t)
	if err := NewRefreshWidgetCommand(fx.board, nil).Execute(context.Background(), RefreshWidgetInput{WidgetID: "chart"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if _, ok := fx.board.Data("chart"); !ok {
		t.Fatalf("expected chart data after refresh")
	}
	if err := NewRefreshWidgetCommand(nil, nil).Execute(context.Background(), RefreshWidgetInput{WidgetID: "chart"}); err == nil {
		t.Fatalf("expected error without service")
	}
}

func TestUpdateWidgetCommand(t *testing.T) {
	fx := newFixture(t)
	widget, err := fx.store.Widget(context.Background(), "chart")
	if err != nil {
		t.Fatalf("Widget returned error: %v", err)
	}
	widget.Config.Name = "Renamed"
	if err := NewUpdateWidgetCommand(fx.board, nil).Execute(context.Background(), UpdateWidgetInput{Widget: widget}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	stored, _ := fx.store.Widget(context.Background(), "chart")
	if stored.Config.Name != "Renamed" || stored.Revision != 2 {
		t.Fatalf("expected renamed widget at revision 2, got %+v", stored)
	}
}

func TestRemoveWidgetCommand(t *testing.T) {
	fx := newFixture(t)
	if err := NewRemoveWidgetCommand(fx.board, nil).Execute(context.Background(), RemoveWidgetInput{WidgetID: "chart"}); err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if _, err := fx.store.Widget(context.Background(), "chart"); !errors.Is(err, dashboard.ErrWidgetNotFound) {
		t.Fatalf("expected widget to be removed, got %v", err)
	}
}

type stubTelemetry struct {
	calls int
	last  map[string]any
}

func (s *stubTelemetry) Record(_ context.Context, _ string, payload map[string]any) {
	s.calls++
	s.last = payload
}
