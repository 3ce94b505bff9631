package goadmin_test

import (
	"context"
	"testing"

	dashboardpkg "github.com/goliatone/go-dashboard-controls/pkg/dashboard"
	"github.com/goliatone/go-dashboard-controls/pkg/goadmin"
)

type stubMenuBuilder struct {
	calls int
	items []goadmin.MenuItem
}

func (s *stubMenuBuilder) EnsureMenuItem(_ context.Context, _ string, item goadmin.MenuItem) error {
	s.calls++
	s.items = append(s.items, item)
	return nil
}

func TestAdminBootstrapSeedsMenu(t *testing.T) {
	builder := &stubMenuBuilder{}
	board := dashboardpkg.NewBoard(dashboardpkg.BoardOptions{})
	admin, err := goadmin.New(goadmin.Config{
		EnableBoards: true,
		Board:        board,
		MenuBuilder:  builder,
		Manifests: []*dashboardpkg.BoardManifest{
			{Board: "sales-board", Name: "Sales overview"},
			{Board: "ops_board"},
		},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := admin.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	if builder.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", builder.calls)
	}
	if builder.items[0].Label != "Sales overview" || builder.items[0].Route != "/boards/sales-board" {
		t.Fatalf("unexpected first item %+v", builder.items[0])
	}
	if builder.items[1].Label != "Ops Board" || builder.items[1].Position != 1 {
		t.Fatalf("unexpected second item %+v", builder.items[1])
	}
	if admin.Board() == nil {
		t.Fatalf("expected board")
	}
}

func TestAdminRequiresBoardWhenEnabled(t *testing.T) {
	if _, err := goadmin.New(goadmin.Config{EnableBoards: true}); err == nil {
		t.Fatalf("expected error without board")
	}
}

func TestAdminDisabledSkipsBootstrap(t *testing.T) {
	builder := &stubMenuBuilder{}
	admin, err := goadmin.New(goadmin.Config{
		EnableBoards: false,
		MenuBuilder:  builder,
		Manifests:    []*dashboardpkg.BoardManifest{{Board: "b1"}},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := admin.Bootstrap(context.Background()); err != nil {
		t.Fatalf("Bootstrap returned error: %v", err)
	}
	if builder.calls != 0 {
		t.Fatalf("expected 0 calls, got %d", builder.calls)
	}
	if admin.Board() != nil {
		t.Fatalf("expected nil board when disabled")
	}
}
