package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ClickMetrics holds the Prometheus metrics for the click pipeline.
type ClickMetrics struct {
	ClicksRecorded     prometheus.Counter
	ClicksSuppressed   *prometheus.CounterVec
	SinkFailures       *prometheus.CounterVec
	WebhooksDispatched prometheus.Counter
	WebhooksSkipped    *prometheus.CounterVec
}

// NewClickMetrics registers the metrics on reg.
func NewClickMetrics(reg prometheus.Registerer) *ClickMetrics {
	factory := promauto.With(reg)

	return &ClickMetrics{
		ClicksRecorded: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "linktrack",
			Subsystem: "clicks",
			Name:      "recorded_total",
			Help:      "Total number of clicks written to the analytics store.",
		}),
		ClicksSuppressed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "linktrack",
			Subsystem: "clicks",
			Name:      "suppressed_total",
			Help:      "Total number of visits not recorded, by reason.",
		}, []string{"reason"}), // reason: no_track, bot, duplicate, sink_error
		SinkFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "linktrack",
			Subsystem: "commit",
			Name:      "sink_failures_total",
			Help:      "Total number of failed sink writes, by sink.",
		}, []string{"sink"}),
		WebhooksDispatched: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "linktrack",
			Subsystem: "webhooks",
			Name:      "dispatched_total",
			Help:      "Total number of link.clicked payloads handed to the dispatcher.",
		}),
		WebhooksSkipped: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "linktrack",
			Subsystem: "webhooks",
			Name:      "skipped_total",
			Help:      "Total number of fan-outs that stopped early, by reason.",
		}, []string{"reason"}), // reason: quota, cache_miss, no_active, link_missing, error
	}
}

// NewNop returns metrics registered on a private registry.
func NewNop() *ClickMetrics {
	return NewClickMetrics(prometheus.NewRegistry())
}
