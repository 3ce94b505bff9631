package dashboard

import (
	"context"
	"log/slog"
)

// Telemetry records dashboard events for observability.
type Telemetry interface {
	Record(ctx context.Context, event string, payload map[string]any)
}

type noopTelemetry struct{}

func (noopTelemetry) Record(context.Context, string, map[string]any) {}

func normalizeTelemetry(t Telemetry) Telemetry {
	if t == nil {
		return noopTelemetry{}
	}
	return t
}

// LogTelemetry writes every event as a structured log line.
type LogTelemetry struct {
	Logger *slog.Logger
	Level  slog.Level
}

// Record logs the event with its payload as attributes.
func (t LogTelemetry) Record(ctx context.Context, event string, payload map[string]any) {
	logger := normalizeLogger(t.Logger)
	attrs := make([]any, 0, len(payload)*2)
	for k, v := range payload {
		attrs = append(attrs, k, v)
	}
	logger.Log(ctx, t.Level, event, attrs...)
}

// MultiTelemetry fans events out to several sinks.
type MultiTelemetry []Telemetry

// Record forwards the event to every non-nil sink.
func (m MultiTelemetry) Record(ctx context.Context, event string, payload map[string]any) {
	for _, t := range m {
		if t != nil {
			t.Record(ctx, event, payload)
		}
	}
}

func normalizeLogger(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}
