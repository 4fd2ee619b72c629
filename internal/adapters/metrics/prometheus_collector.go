package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace for all metrics
	namespace = "neutron_assistant"
	// Subsystem for daemon metrics
	subsystem = "daemon"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalPollerCollector is set by SetGlobalPollerCollector when metrics are enabled
	globalPollerCollector PollerMetricsRecorder

	// globalAPICollector is set by SetGlobalAPICollector when metrics are enabled
	globalAPICollector APIMetricsRecorder

	// globalCalculationCollector is set by SetGlobalCalculationCollector when metrics are enabled
	globalCalculationCollector CalculationMetricsRecorder
)

// PollerMetricsRecorder records journal poller events
type PollerMetricsRecorder interface {
	RecordPollTick(result string, duration float64)
	RecordClipboardCopy()
	RecordRouteEvent(event string)
	RecordOffRouteRecovery(result string)
	SetRouteProgress(percent float64)
}

// APIMetricsRecorder records outbound HTTP calls to the route, coordinate and build services
type APIMetricsRecorder interface {
	RecordAPIRequest(service, endpoint string, statusCode int, duration float64)
	RecordAPIRetry(service, endpoint, reason string)
	RecordRateLimitWait(service string, duration float64)
}

// CalculationMetricsRecorder records route calculations
type CalculationMetricsRecorder interface {
	RecordCalculation(kind, status string, duration float64, cacheHit bool)
}

// InitRegistry replaces the global registry with an empty one
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// IsEnabled reports whether Setup or InitRegistry ran
func IsEnabled() bool {
	return Registry != nil
}

// register adds collectors to the global registry; a no-op while metrics are disabled
func register(collectors ...prometheus.Collector) error {
	if Registry == nil {
		return nil
	}
	for _, collector := range collectors {
		if err := Registry.Register(collector); err != nil {
			return err
		}
	}
	return nil
}

func SetGlobalPollerCollector(collector PollerMetricsRecorder) {
	globalPollerCollector = collector
}

func SetGlobalAPICollector(collector APIMetricsRecorder) {
	globalAPICollector = collector
}

func SetGlobalCalculationCollector(collector CalculationMetricsRecorder) {
	globalCalculationCollector = collector
}

// RecordPollTick records the result of one poller tick globally
func RecordPollTick(result string, duration float64) {
	if globalPollerCollector != nil {
		globalPollerCollector.RecordPollTick(result, duration)
	}
}

func RecordClipboardCopy() {
	if globalPollerCollector != nil {
		globalPollerCollector.RecordClipboardCopy()
	}
}

// RecordRouteEvent records a route lifecycle event (loaded, completed, cleared)
func RecordRouteEvent(event string) {
	if globalPollerCollector != nil {
		globalPollerCollector.RecordRouteEvent(event)
	}
}

func RecordOffRouteRecovery(result string) {
	if globalPollerCollector != nil {
		globalPollerCollector.RecordOffRouteRecovery(result)
	}
}

func SetRouteProgress(percent float64) {
	if globalPollerCollector != nil {
		globalPollerCollector.SetRouteProgress(percent)
	}
}

// RecordAPIRequest records an outbound request globally
func RecordAPIRequest(service, endpoint string, statusCode int, duration float64) {
	if globalAPICollector != nil {
		globalAPICollector.RecordAPIRequest(service, endpoint, statusCode, duration)
	}
}

func RecordAPIRetry(service, endpoint, reason string) {
	if globalAPICollector != nil {
		globalAPICollector.RecordAPIRetry(service, endpoint, reason)
	}
}

func RecordRateLimitWait(service string, duration float64) {
	if globalAPICollector != nil {
		globalAPICollector.RecordRateLimitWait(service, duration)
	}
}

// RecordCalculation records a finished route calculation globally
func RecordCalculation(kind, status string, duration float64, cacheHit bool) {
	if globalCalculationCollector != nil {
		globalCalculationCollector.RecordCalculation(kind, status, duration, cacheHit)
	}
}

func newCounterVec(name, help string, labels ...string) *prometheus.CounterVec {
	return prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
	}, labels)
}

func newHistogramVec(name, help string, buckets []float64, labels ...string) *prometheus.HistogramVec {
	return prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: subsystem,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}, labels)
}
