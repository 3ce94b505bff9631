package queries

import (
	"context"
	"errors"
	"testing"

	dashboard "github.com/goliatone/go-dashboard-controls/components/dashboard"
)

func newBoard(t *testing.T) *dashboard.Board {
	t.Helper()
	registry := dashboard.NewRegistry()
	err := dashboard.RegisterStaticViews(registry, []dashboard.ManifestView{{
		ID:      "sales",
		Columns: []string{"region"},
		Rows:    [][]any{{"eu"}, {"us"}},
	}})
	if err != nil {
		t.Fatalf("register views: %v", err)
	}
	store := dashboard.NewInMemoryWidgetStore(
		dashboard.Widget{ID: "region", DashboardID: "demo", Config: dashboard.WidgetConfig{
			Type: dashboard.WidgetKindController,
			Content: dashboard.ControllerContent{
				Type: dashboard.FacadeRadioGroup,
				Config: dashboard.ControllerConfig{
					ValueOptionType:  dashboard.ValueOptionCustom,
					ValueOptions:     []dashboard.FilterValueOption{{Key: "eu", Label: "Europe"}},
					ControllerValues: []any{"eu"},
				},
			},
		}},
		dashboard.Widget{ID: "when", DashboardID: "demo", Config: dashboard.WidgetConfig{
			Type:    dashboard.WidgetKindController,
			Content: dashboard.ControllerContent{Type: dashboard.FacadeTime},
		}},
		dashboard.Widget{ID: "chart", DashboardID: "demo", Config: dashboard.WidgetConfig{
			Type:    dashboard.WidgetKindChart,
			Content: dashboard.ChartContent{ViewID: "sales"},
		}},
	)
	return dashboard.NewBoard(dashboard.BoardOptions{Store: store, Providers: registry})
}

func TestDispatchWidgetQuery(t *testing.T) {
	query := NewDispatchWidgetQuery(newBoard(t))
	variant, err := query.Query(context.Background(), DispatchWidgetInput{WidgetID: "chart", BoardEditing: true})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	chart, ok := variant.(dashboard.ChartVariant)
	if !ok || !chart.BoardEditing || chart.Content.ViewID != "sales" {
		t.Fatalf("expected editing chart variant, got %#v", variant)
	}
	if _, err := query.Query(context.Background(), DispatchWidgetInput{WidgetID: "missing"}); !errors.Is(err, dashboard.ErrWidgetNotFound) {
		t.Fatalf("expected ErrWidgetNotFound, got %v", err)
	}
}

func TestControllerViewQuery(t *testing.T) {
	query := NewControllerViewQuery(newBoard(t))
	view, err := query.Query(context.Background(), ControllerViewInput{WidgetID: "region"})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if view.Facade != dashboard.FacadeRadioGroup || !view.Visible {
		t.Fatalf("unexpected view %+v", view)
	}
	if view.Control["value"] != "eu" || view.Control["radioButtonType"] != "default" {
		t.Fatalf("unexpected control payload %+v", view.Control)
	}
	if len(view.Options) != 1 || view.Options[0].Label != "Europe" {
		t.Fatalf("expected custom options, got %+v", view.Options)
	}
	if _, err := query.Query(context.Background(), ControllerViewInput{WidgetID: "when"}); err == nil {
		t.Fatalf("expected error for date facade without date config")
	}
}

func TestBoardQuery(t *testing.T) {
	controller := dashboard.NewController(dashboard.ControllerOptions{Board: newBoard(t)})
	view, err := NewBoardQuery(controller).Query(context.Background(), BoardInput{BoardID: "demo"})
	if err != nil {
		t.Fatalf("Query returned error: %v", err)
	}
	if len(view.Widgets) != 3 {
		t.Fatalf("expected 3 widgets, got %d", len(view.Widgets))
	}
	if view.Widgets[1]["kind"] != "fallback" {
		t.Fatalf("expected date controller without config to fall back, got %v", view.Widgets[1]["kind"])
	}
}
