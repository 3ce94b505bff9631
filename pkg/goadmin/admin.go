package goadmin

import (
	"context"
	"errors"
	"strings"

	"github.com/ettle/strcase"

	dashboardpkg "github.com/goliatone/go-dashboard-controls/pkg/dashboard"
)

// MenuBuilder ensures board entries exist within the admin navigation.
type MenuBuilder interface {
	EnsureMenuItem(ctx context.Context, menuCode string, item MenuItem) error
}

// MenuItem captures board link metadata.
type MenuItem struct {
	Label    string
	Route    string
	Icon     string
	Position int
}

// Config wires boards into an admin shell.
type Config struct {
	EnableBoards bool
	MenuCode     string
	MenuBuilder  MenuBuilder
	Board        *dashboardpkg.Board
	Manifests    []*dashboardpkg.BoardManifest
	// RoutePrefix is joined with the board id, e.g. "/boards" -> "/boards/sales".
	RoutePrefix string
	Icon        string
}

// Admin exposes helpers for go-admin style applications.
type Admin struct {
	cfg Config
}

// New creates an Admin helper that can seed board menus.
func New(cfg Config) (*Admin, error) {
	if cfg.EnableBoards && cfg.Board == nil {
		return nil, errors.New("goadmin: board is required when enabled")
	}
	if cfg.MenuCode == "" {
		cfg.MenuCode = "admin.main"
	}
	if cfg.RoutePrefix == "" {
		cfg.RoutePrefix = "/boards"
	}
	if cfg.Icon == "" {
		cfg.Icon = "chart-bar"
	}
	return &Admin{cfg: cfg}, nil
}

// Board exposes the configured board when enabled.
func (a *Admin) Board() *dashboardpkg.Board {
	if !a.cfg.EnableBoards {
		return nil
	}
	return a.cfg.Board
}

// MenuItems lists one entry per manifest, in manifest order.
func (a *Admin) MenuItems() []MenuItem {
	items := make([]MenuItem, 0, len(a.cfg.Manifests))
	for idx, doc := range a.cfg.Manifests {
		if doc == nil || doc.Board == "" {
			continue
		}
		label := strings.TrimSpace(doc.Name)
		if label == "" {
			label = titleLabel(doc.Board)
		}
		items = append(items, MenuItem{
			Label:    label,
			Route:    strings.TrimRight(a.cfg.RoutePrefix, "/") + "/" + doc.Board,
			Icon:     a.cfg.Icon,
			Position: idx,
		})
	}
	return items
}

// Bootstrap seeds menu entries when boards are enabled.
func (a *Admin) Bootstrap(ctx context.Context) error {
	if !a.cfg.EnableBoards || a.cfg.MenuBuilder == nil {
		return nil
	}
	var err error
	for _, item := range a.MenuItems() {
		err = errors.Join(err, a.cfg.MenuBuilder.EnsureMenuItem(ctx, a.cfg.MenuCode, item))
	}
	return err
}

// titleLabel turns "ops_board" or "opsBoard" into "Ops Board".
func titleLabel(id string) string {
	words := strings.Split(strcase.ToSnake(id), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
