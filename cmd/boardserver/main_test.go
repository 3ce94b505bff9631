package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"testing"
)

const serverManifest = `
version: "1"
board: ops
name: Operations
views:
  - id: incidents
    columns: [service, count]
    rows:
      - [api, 3]
      - [web, 1]
widgets:
  - id: service
    config:
      type: controller
      name: Service
      content:
        type: dropdownList
        relatedViews:
          - viewId: incidents
            relatedCategory: field
            fieldValue: service
        config:
          valueOptionType: common
          controllerValues: []
          assistViewFields: [incidents, service]
  - id: chart
    config:
      type: chart
      content:
        viewId: incidents
`

func TestLoadBoardsSeedsInMemoryStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ops.yaml")
	if err := os.WriteFile(path, []byte(serverManifest), 0o600); err != nil {
		t.Fatalf("write manifest: %v", err)
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ctx := context.Background()

	deps, err := openBackends(ctx, config{}, logger)
	if err != nil {
		t.Fatalf("open backends: %v", err)
	}
	defer deps.Close()
	if deps.persisted || deps.views != nil || deps.redis != nil {
		t.Fatalf("expected in-memory backends without DSNs")
	}

	manifests, err := loadBoards(ctx, config{Manifests: []string{path}}, deps, nil)
	if err != nil {
		t.Fatalf("load boards: %v", err)
	}
	if len(manifests) != 1 || manifests[0].Board != "ops" {
		t.Fatalf("unexpected manifests %+v", manifests)
	}
	widgets, err := deps.widgets.Widgets(ctx, "ops")
	if err != nil {
		t.Fatalf("widgets: %v", err)
	}
	if len(widgets) != 2 {
		t.Fatalf("expected 2 seeded widgets, got %d", len(widgets))
	}
	if _, ok := deps.registry.Provider("incidents"); !ok {
		t.Fatalf("expected inline view to be registered")
	}
}

func TestHeaderActor(t *testing.T) {
	req, _ := http.NewRequest(http.MethodPost, "/widgets/service/submit", nil)
	req.Header.Set("X-Actor-ID", "a1")
	req.Header.Set("X-Tenant-ID", "t1")
	actor := headerActor(req)
	if actor.ActorID != "a1" || actor.TenantID != "t1" || actor.UserID != "" {
		t.Fatalf("unexpected actor %+v", actor)
	}
}
