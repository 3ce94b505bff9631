package dashboard

import (
	"context"
	"errors"
)

// NotificationsClient defines the minimal interface needed from go-notifications (or similar).
type NotificationsClient interface {
	PublishDashboardEvent(ctx context.Context, event WidgetEvent) error
}

// NotificationsHook forwards widget events to an external notifications client.
// Channel, when set, limits forwarding to events with that reason.
type NotificationsHook struct {
	Client  NotificationsClient
	Channel string
}

// WidgetUpdated publishes events to the configured notifications client.
func (h *NotificationsHook) WidgetUpdated(ctx context.Context, event WidgetEvent) error {
	if h == nil || h.Client == nil {
		return nil
	}
	if h.Channel != "" && h.Channel != event.Reason {
		return nil
	}
	return h.Client.PublishDashboardEvent(ctx, event)
}

// RefreshHooks fans widget events out to several hooks.
type RefreshHooks []RefreshHook

// WidgetUpdated calls every hook and joins their errors.
func (hooks RefreshHooks) WidgetUpdated(ctx context.Context, event WidgetEvent) error {
	var errs []error
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		if err := hook.WidgetUpdated(ctx, event); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

type noopRefreshHook struct{}

func (noopRefreshHook) WidgetUpdated(context.Context, WidgetEvent) error {
	return nil
}
