package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/waypointhq/waypoint-go/internal/application/common"
	"github.com/waypointhq/waypoint-go/internal/domain/assignment"
	"github.com/waypointhq/waypoint-go/internal/domain/shared"
)

// ActiveRoutesQuery lists the routes in flight on a day (dashboard view).
// A zero Date means today.
type ActiveRoutesQuery struct {
	Date time.Time
}

// ActiveRoutesResponse carries the day's active routes
type ActiveRoutesResponse struct {
	Routes []*assignment.RouteAssignment
}

// ActiveRoutesHandler reads the dashboard projection from the route store
type ActiveRoutesHandler struct {
	routes assignment.RouteRepository
	clock  shared.Clock
}

// NewActiveRoutesHandler creates the active routes handler
func NewActiveRoutesHandler(routes assignment.RouteRepository, clock shared.Clock) *ActiveRoutesHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &ActiveRoutesHandler{routes: routes, clock: clock}
}

// Handle executes the active routes query
func (h *ActiveRoutesHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	q, ok := request.(*ActiveRoutesQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	day := q.Date
	if day.IsZero() {
		day = h.clock.Now()
	}
	routes, err := h.routes.ListActiveOn(ctx, shared.DateOf(day))
	if err != nil {
		return nil, err
	}
	return &ActiveRoutesResponse{Routes: routes}, nil
}
