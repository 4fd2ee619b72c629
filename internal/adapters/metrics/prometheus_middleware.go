package metrics

import (
	"context"
	"time"

	"github.com/andrescamacho/neutron-assistant-go/internal/application/mediator"
)

// PrometheusMiddleware records duration and success of every request sent
// through the mediator. A nil collector disables it.
func PrometheusMiddleware(collector *CommandMetricsCollector) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		if collector == nil {
			return next(ctx, request)
		}

		start := time.Now()
		response, err := next(ctx, request)
		collector.RecordCommandExecution(mediator.RequestName(request), time.Since(start).Seconds(), err == nil)

		return response, err
	}
}
