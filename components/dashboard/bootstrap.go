package dashboard

import (
	"context"
	"errors"
	"fmt"
)

// SeedBoard saves every manifest widget into store. Failures are collected so
// one broken widget does not keep the rest of the board from loading.
func SeedBoard(ctx context.Context, store WidgetStore, doc *BoardManifest) error {
	if store == nil {
		return errMissingWidgetStore
	}
	if doc == nil {
		return errors.New("dashboard: manifest is required to seed a board")
	}
	var seedErr error
	for _, widget := range doc.Widgets {
		if _, err := store.SaveWidget(ctx, widget); err != nil {
			seedErr = errors.Join(seedErr, fmt.Errorf("seed widget %s: %w", widget.ID, err))
		}
	}
	return seedErr
}

// RegisterManifestViews registers a StaticProvider for the inline views of doc.
// SQL views are left to the fallback provider of reg.
func RegisterManifestViews(reg *Registry, doc *BoardManifest) error {
	if reg == nil || doc == nil {
		return nil
	}
	if err := RegisterStaticViews(reg, doc.StaticViews()); err != nil {
		return fmt.Errorf("register views of %s: %w", doc.Board, err)
	}
	return nil
}
