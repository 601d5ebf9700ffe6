package queries

import (
	"context"
	"fmt"

	"github.com/waypointhq/waypoint-go/internal/application/common"
	"github.com/waypointhq/waypoint-go/internal/application/execution/services"
	"github.com/waypointhq/waypoint-go/internal/domain/delivery"
	"github.com/waypointhq/waypoint-go/internal/domain/routing"
	"github.com/waypointhq/waypoint-go/internal/domain/shared"
)

// OptimizeOfficeRouteQuery asks for a drive-optimized loop over offices
type OptimizeOfficeRouteQuery struct {
	Current   shared.Coordinate
	OfficeIDs []uint
}

// OptimizeOfficeRouteResponse carries offices in visit order plus the
// rendered polyline
type OptimizeOfficeRouteResponse struct {
	Offices  []*delivery.Office
	Geometry []routing.GeoPoint
}

// OptimizeOfficeRouteHandler delegates to the office dispatcher's planner
type OptimizeOfficeRouteHandler struct {
	dispatcher *services.OfficeDispatcher
}

// NewOptimizeOfficeRouteHandler creates the office loop optimization handler
func NewOptimizeOfficeRouteHandler(dispatcher *services.OfficeDispatcher) *OptimizeOfficeRouteHandler {
	return &OptimizeOfficeRouteHandler{dispatcher: dispatcher}
}

// Handle executes the optimize office route query
func (h *OptimizeOfficeRouteHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	q, ok := request.(*OptimizeOfficeRouteQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	offices, geometry, err := h.dispatcher.OptimizeOfficeRoute(ctx, q.Current, q.OfficeIDs)
	if err != nil {
		return nil, err
	}
	return &OptimizeOfficeRouteResponse{Offices: offices, Geometry: geometry}, nil
}
