package commands

import (
	"context"
	"errors"

	gocommand "github.com/goliatone/go-command"
	dashboard "github.com/goliatone/go-dashboard-controls/components/dashboard"
)

// SeedBoardInput carries the manifest to load.
type SeedBoardInput struct {
	Manifest *dashboard.BoardManifest
}

// SeedBoardCommand registers the manifest's inline views and stores its widgets.
type SeedBoardCommand struct {
	store     dashboard.WidgetStore
	registry  *dashboard.Registry
	telemetry Telemetry
}

// NewSeedBoardCommand wires dependencies. registry may be nil when views are
// served elsewhere.
func NewSeedBoardCommand(store dashboard.WidgetStore, registry *dashboard.Registry, telemetry Telemetry) *SeedBoardCommand {
	return &SeedBoardCommand{
		store:     store,
		registry:  registry,
		telemetry: normalizeTelemetry(telemetry),
	}
}

var _ gocommand.Commander[SeedBoardInput] = (*SeedBoardCommand)(nil)

// Execute runs the bootstrap pipeline.
func (c *SeedBoardCommand) Execute(ctx context.Context, msg SeedBoardInput) error {
	if c.store == nil {
		return errors.New("seed command requires widget store")
	}
	if msg.Manifest == nil {
		return errors.New("seed command requires a manifest")
	}
	if err := dashboard.RegisterManifestViews(c.registry, msg.Manifest); err != nil {
		return err
	}
	if err := dashboard.SeedBoard(ctx, c.store, msg.Manifest); err != nil {
		return err
	}
	c.telemetry.Record(ctx, "dashboard.seed", map[string]any{
		"board":   msg.Manifest.Board,
		"widgets": len(msg.Manifest.Widgets),
	})
	return nil
}
