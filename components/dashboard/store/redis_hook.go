package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/goliatone/go-dashboard-controls/components/dashboard"
)

// DefaultRefreshChannel is the pub/sub channel used when none is configured.
const DefaultRefreshChannel = "dashboard:widget-events"

// RedisRefreshHook publishes widget events on a Redis channel so every
// server instance can forward them to its own clients.
type RedisRefreshHook struct {
	client  redis.UniversalClient
	channel string
	logger  *slog.Logger
}

var _ dashboard.RefreshHook = (*RedisRefreshHook)(nil)

// NewRedisRefreshHook creates the hook. An empty channel uses DefaultRefreshChannel.
func NewRedisRefreshHook(client redis.UniversalClient, channel string, logger *slog.Logger) *RedisRefreshHook {
	if channel == "" {
		channel = DefaultRefreshChannel
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisRefreshHook{client: client, channel: channel, logger: logger}
}

func (h *RedisRefreshHook) WidgetUpdated(ctx context.Context, event dashboard.WidgetEvent) error {
	payload, err := encodeEvent(event)
	if err != nil {
		return err
	}
	return h.client.Publish(ctx, h.channel, payload).Err()
}

// Relay forwards every event published on the channel to target until ctx
// is done. Undecodable messages are logged and skipped.
func (h *RedisRefreshHook) Relay(ctx context.Context, target dashboard.RefreshHook) error {
	sub := h.client.Subscribe(ctx, h.channel)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("store: subscribe %s: %w", h.channel, err)
	}
	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return nil
		case msg, ok := <-messages:
			if !ok {
				return nil
			}
			event, err := decodeEvent(msg.Payload)
			if err != nil {
				h.logger.Warn("dropping widget event", "channel", h.channel, "error", err)
				continue
			}
			if err := target.WidgetUpdated(ctx, event); err != nil {
				h.logger.Warn("relay widget event", "widget", event.WidgetID, "error", err)
			}
		}
	}
}

func encodeEvent(event dashboard.WidgetEvent) (string, error) {
	data, err := json.Marshal(event)
	if err != nil {
		return "", fmt.Errorf("store: encode widget event: %w", err)
	}
	return string(data), nil
}

func decodeEvent(payload string) (dashboard.WidgetEvent, error) {
	var event dashboard.WidgetEvent
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return dashboard.WidgetEvent{}, err
	}
	if event.WidgetID == "" {
		return dashboard.WidgetEvent{}, fmt.Errorf("store: widget event without widget id")
	}
	return event, nil
}
