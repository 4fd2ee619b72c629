package metrics

import "github.com/prometheus/client_golang/prometheus"

// PollerMetricsCollector handles journal poller and route progression metrics
type PollerMetricsCollector struct {
	pollTicksTotal       *prometheus.CounterVec
	pollTickDuration     prometheus.Histogram
	clipboardCopies      prometheus.Counter
	routeEventsTotal     *prometheus.CounterVec
	offRouteRecoveries   *prometheus.CounterVec
	routeProgressPercent prometheus.Gauge
}

// NewPollerMetricsCollector creates a new poller metrics collector
func NewPollerMetricsCollector() *PollerMetricsCollector {
	return &PollerMetricsCollector{
		// Ticks by result: ok, no_journal, conflict, panic
		pollTicksTotal: newCounterVec("poll_ticks_total",
			"Total number of poller ticks by result",
			"result"),

		pollTickDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "poll_tick_duration_seconds",
				Help:      "Poller tick duration distribution",
				Buckets:   []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0, 5.0},
			},
		),

		clipboardCopies: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "clipboard_copies_total",
				Help:      "Total number of next-system clipboard writes",
			},
		),

		routeEventsTotal: newCounterVec("route_events_total",
			"Total number of route lifecycle events",
			"event"),
		offRouteRecoveries: newCounterVec("off_route_recoveries_total",
			"Total number of off-route distance lookups by result",
			"result"),

		routeProgressPercent: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "route_progress_percent",
				Help:      "Progress along the loaded route",
			},
		),
	}
}

func (c *PollerMetricsCollector) Register() error {
	return register(
		c.pollTicksTotal,
		c.pollTickDuration,
		c.clipboardCopies,
		c.routeEventsTotal,
		c.offRouteRecoveries,
		c.routeProgressPercent,
	)
}

func (c *PollerMetricsCollector) RecordPollTick(result string, duration float64) {
	c.pollTicksTotal.WithLabelValues(result).Inc()
	c.pollTickDuration.Observe(duration)
}

func (c *PollerMetricsCollector) RecordClipboardCopy() {
	c.clipboardCopies.Inc()
}

func (c *PollerMetricsCollector) RecordRouteEvent(event string) {
	c.routeEventsTotal.WithLabelValues(event).Inc()
}

func (c *PollerMetricsCollector) RecordOffRouteRecovery(result string) {
	c.offRouteRecoveries.WithLabelValues(result).Inc()
}

func (c *PollerMetricsCollector) SetRouteProgress(percent float64) {
	c.routeProgressPercent.Set(percent)
}
