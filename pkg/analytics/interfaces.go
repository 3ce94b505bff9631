package analytics

import (
	"context"

	dashboard "github.com/goliatone/go-dashboard-controls/components/dashboard"
)

// ViewClient queries data views hosted by a remote BI service.
type ViewClient interface {
	QueryView(ctx context.Context, req dashboard.ViewRequest) (dashboard.ViewData, error)
}
