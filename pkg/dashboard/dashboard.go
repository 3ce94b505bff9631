package dashboard

import (
	core "github.com/goliatone/go-dashboard-controls/components/dashboard"
)

// Board exposes the underlying components/dashboard.Board type.
type Board = core.Board

// BoardOptions re-export for convenience.
type BoardOptions = core.BoardOptions

// BoardManifest re-export for convenience.
type BoardManifest = core.BoardManifest

// Widget re-export for convenience.
type Widget = core.Widget

// NewBoard proxies to the internal constructor.
func NewBoard(opts BoardOptions) *Board {
	return core.NewBoard(opts)
}

// ReadManifest proxies to the internal manifest loader.
func ReadManifest(path string) (*BoardManifest, error) {
	return core.ReadManifest(path)
}
