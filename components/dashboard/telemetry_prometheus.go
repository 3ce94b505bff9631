package dashboard

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusTelemetry counts telemetry events by name and widget kind.
type PrometheusTelemetry struct {
	events *prometheus.CounterVec
}

// NewPrometheusTelemetry registers the event counter on reg. A nil registerer
// falls back to the default Prometheus registry.
func NewPrometheusTelemetry(reg prometheus.Registerer) (*PrometheusTelemetry, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	events := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_controls_events_total",
			Help: "Dashboard controller and widget events by name.",
		},
		[]string{"event", "facade"},
	)
	if err := reg.Register(events); err != nil {
		if already, ok := err.(prometheus.AlreadyRegisteredError); ok {
			events = already.ExistingCollector.(*prometheus.CounterVec)
		} else {
			return nil, err
		}
	}
	return &PrometheusTelemetry{events: events}, nil
}

// Record increments the counter for event.
func (t *PrometheusTelemetry) Record(_ context.Context, event string, payload map[string]any) {
	if t == nil || t.events == nil {
		return
	}
	facade, _ := payload["facade"].(string)
	t.events.WithLabelValues(event, facade).Inc()
}

// Collector exposes the underlying counter, mainly for tests.
func (t *PrometheusTelemetry) Collector() *prometheus.CounterVec {
	return t.events
}
