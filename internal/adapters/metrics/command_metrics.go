package metrics

import "github.com/prometheus/client_golang/prometheus"

// CommandMetricsCollector handles mediator command/query metrics and route calculations
type CommandMetricsCollector struct {
	commandDuration *prometheus.HistogramVec
	commandsTotal   *prometheus.CounterVec

	calculationsTotal   *prometheus.CounterVec
	calculationDuration *prometheus.HistogramVec
}

// NewCommandMetricsCollector creates a new command metrics collector
func NewCommandMetricsCollector() *CommandMetricsCollector {
	return &CommandMetricsCollector{
		commandDuration: newHistogramVec("command_duration_seconds",
			"Command execution duration distribution",
			[]float64{0.001, 0.01, 0.1, 0.5, 1.0, 5.0, 30.0, 120.0},
			"command", "status"),
		commandsTotal: newCounterVec("commands_total",
			"Total number of commands executed by type and status",
			"command", "status"),

		// Route calculations by kind, final status and cache use
		calculationsTotal: newCounterVec("route_calculations_total",
			"Total number of route calculations by kind, status, and cache hit",
			"kind", "status", "cache"),
		calculationDuration: newHistogramVec("route_calculation_duration_seconds",
			"Route calculation duration distribution",
			[]float64{0.1, 1.0, 5.0, 15.0, 30.0, 60.0, 120.0, 300.0},
			"kind"),
	}
}

func (c *CommandMetricsCollector) Register() error {
	return register(
		c.commandDuration,
		c.commandsTotal,
		c.calculationsTotal,
		c.calculationDuration,
	)
}

// RecordCommandExecution records command execution metrics
func (c *CommandMetricsCollector) RecordCommandExecution(commandName string, duration float64, success bool) {
	status := "success"
	if !success {
		status = "error"
	}

	c.commandDuration.WithLabelValues(commandName, status).Observe(duration)
	c.commandsTotal.WithLabelValues(commandName, status).Inc()
}

func (c *CommandMetricsCollector) RecordCalculation(kind, status string, duration float64, cacheHit bool) {
	cache := "miss"
	if cacheHit {
		cache = "hit"
	}
	c.calculationsTotal.WithLabelValues(kind, status, cache).Inc()
	c.calculationDuration.WithLabelValues(kind).Observe(duration)
}
