package metrics

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/waypointhq/waypoint-go/internal/application/common"
)

// MediatorMiddleware records execution duration and outcome for every
// command and query dispatched through the mediator. A nil collector makes
// the middleware a no-op.
func MediatorMiddleware(collector *CommandMetricsCollector) common.Middleware {
	return func(ctx context.Context, request common.Request, next common.HandlerFunc) (common.Response, error) {
		if collector == nil {
			return next(ctx, request)
		}

		name := commandName(request)
		start := time.Now()
		response, err := next(ctx, request)
		collector.RecordCommandExecution(name, time.Since(start).Seconds(), err == nil)
		return response, err
	}
}

// commandName strips pointer and package prefixes:
// "*commands.PlanRoutesCommand" becomes "PlanRoutesCommand"
func commandName(request common.Request) string {
	if request == nil {
		return "Unknown"
	}
	name := reflect.TypeOf(request).String()
	name = strings.TrimPrefix(name, "*")
	if idx := strings.LastIndex(name, "."); idx >= 0 {
		name = name[idx+1:]
	}
	return name
}
