package metrics

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Setup creates the registry, registers every collector and installs the
// global recorders. The returned command collector feeds the mediator middleware.
func Setup() (*CommandMetricsCollector, error) {
	InitRegistry()
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	poller := NewPollerMetricsCollector()
	if err := poller.Register(); err != nil {
		return nil, fmt.Errorf("failed to register poller metrics: %w", err)
	}
	api := NewAPIMetricsCollector()
	if err := api.Register(); err != nil {
		return nil, fmt.Errorf("failed to register api metrics: %w", err)
	}
	commands := NewCommandMetricsCollector()
	if err := commands.Register(); err != nil {
		return nil, fmt.Errorf("failed to register command metrics: %w", err)
	}

	SetGlobalPollerCollector(poller)
	SetGlobalAPICollector(api)
	SetGlobalCalculationCollector(commands)
	return commands, nil
}

// Handler serves the registry in the Prometheus text format, or 404 when
// metrics are disabled
func Handler() http.Handler {
	if Registry == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{Registry: Registry})
}
