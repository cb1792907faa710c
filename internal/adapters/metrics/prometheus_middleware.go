package metrics

import (
	"context"
	"time"

	"github.com/andrescamacho/factorysim-go/internal/application/common"
)

// PrometheusMiddleware times every mediator request under its short name, so
// "*simulation.StepCommand" is recorded as "StepCommand". A nil collector passes requests through.
func PrometheusMiddleware(collector *CommandMetricsCollector) common.Middleware {
	if collector == nil {
		return func(ctx context.Context, request common.Request, next common.HandlerFunc) (common.Response, error) {
			return next(ctx, request)
		}
	}
	return func(ctx context.Context, request common.Request, next common.HandlerFunc) (common.Response, error) {
		start := time.Now()
		response, err := next(ctx, request)
		collector.RecordCommandExecution(common.RequestName(request), time.Since(start).Seconds(), err)
		return response, err
	}
}
