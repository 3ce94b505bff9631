package analytics

import (
	"context"
	"testing"

	dashboard "github.com/goliatone/go-dashboard-controls/components/dashboard"
)

func TestRegisterRemoteViews(t *testing.T) {
	client := NewMockClient(map[string]dashboard.ViewData{
		"sales": {Columns: []string{"region"}, Rows: [][]any{{"eu"}}},
	})
	reg := dashboard.NewRegistry()
	if err := RegisterRemoteViews(reg, client, "sales"); err != nil {
		t.Fatalf("register: %v", err)
	}
	provider, ok := reg.Provider("sales")
	if !ok {
		t.Fatalf("expected sales provider")
	}
	data, err := provider.Fetch(context.Background(), dashboard.ViewRequest{ViewID: "sales", WidgetID: "chart"})
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if data.Rows[0][0] != "eu" {
		t.Fatalf("unexpected data %+v", data)
	}
	if reqs := client.Requests(); len(reqs) != 1 || reqs[0].WidgetID != "chart" {
		t.Fatalf("unexpected requests %+v", reqs)
	}
}

func TestRegisterRemoteViewsFallback(t *testing.T) {
	client := NewMockClient(map[string]dashboard.ViewData{"orders": {Columns: []string{"total"}}})
	reg := dashboard.NewRegistry()
	if err := RegisterRemoteViews(reg, client); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, ok := reg.Provider("orders"); !ok {
		t.Fatalf("expected fallback provider")
	}
	if err := RegisterRemoteViews(nil, client); err == nil {
		t.Fatalf("expected error without registry")
	}
}
