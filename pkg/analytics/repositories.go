package analytics

import (
	"context"
	"fmt"

	dashboard "github.com/goliatone/go-dashboard-controls/components/dashboard"
)

// NewViewProvider adapts an analytics client into a board data provider.
func NewViewProvider(client ViewClient) dashboard.Provider {
	return &viewProvider{client: client}
}

type viewProvider struct {
	client ViewClient
}

func (p *viewProvider) Fetch(ctx context.Context, req dashboard.ViewRequest) (dashboard.ViewData, error) {
	return p.client.QueryView(ctx, req)
}

// RegisterRemoteViews serves viewIDs from client. With no ids the client
// becomes the registry fallback for every view without a provider.
func RegisterRemoteViews(reg *dashboard.Registry, client ViewClient, viewIDs ...string) error {
	if reg == nil || client == nil {
		return fmt.Errorf("analytics: registry and client are required")
	}
	provider := NewViewProvider(client)
	if len(viewIDs) == 0 {
		reg.SetFallback(provider)
		return nil
	}
	for _, id := range viewIDs {
		if err := reg.RegisterProvider(id, provider); err != nil {
			return err
		}
	}
	return nil
}
