package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// APIMetricsCollector handles metrics for calls to external services
type APIMetricsCollector struct {
	apiRequestsTotal   *prometheus.CounterVec
	apiRequestDuration *prometheus.HistogramVec
	apiRetries         *prometheus.CounterVec
	apiRateLimitWait   *prometheus.HistogramVec
}

// NewAPIMetricsCollector creates a new API metrics collector
func NewAPIMetricsCollector() *APIMetricsCollector {
	return &APIMetricsCollector{
		apiRequestsTotal: newCounterVec("api_requests_total",
			"Total number of outbound API requests by service, endpoint, and status code",
			"service", "endpoint", "status_code"),
		apiRequestDuration: newHistogramVec("api_request_duration_seconds",
			"Outbound API request duration distribution",
			[]float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0, 10.0, 30.0},
			"service", "endpoint"),
		// reason: network, rate_limited or server_error
		apiRetries: newCounterVec("api_retries_total",
			"Total number of outbound API retry attempts",
			"service", "endpoint", "reason"),
		apiRateLimitWait: newHistogramVec("api_rate_limit_wait_seconds",
			"Time spent waiting for the per-service rate limiter",
			[]float64{0.001, 0.01, 0.1, 0.5, 1.0, 2.0, 5.0},
			"service"),
	}
}

func (c *APIMetricsCollector) Register() error {
	return register(
		c.apiRequestsTotal,
		c.apiRequestDuration,
		c.apiRetries,
		c.apiRateLimitWait,
	)
}

func (c *APIMetricsCollector) RecordAPIRequest(service, endpoint string, statusCode int, duration float64) {
	c.apiRequestsTotal.WithLabelValues(service, endpoint, strconv.Itoa(statusCode)).Inc()
	c.apiRequestDuration.WithLabelValues(service, endpoint).Observe(duration)
}

func (c *APIMetricsCollector) RecordAPIRetry(service, endpoint, reason string) {
	c.apiRetries.WithLabelValues(service, endpoint, reason).Inc()
}

func (c *APIMetricsCollector) RecordRateLimitWait(service string, duration float64) {
	c.apiRateLimitWait.WithLabelValues(service).Observe(duration)
}
