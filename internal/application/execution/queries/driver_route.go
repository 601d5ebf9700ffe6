package queries

import (
	"context"
	"fmt"

	"github.com/waypointhq/waypoint-go/internal/application/common"
	"github.com/waypointhq/waypoint-go/internal/domain/assignment"
)

// DriverRouteQuery fetches the driver's active plan for the mobile client
type DriverRouteQuery struct {
	Username string
}

// DriverRouteResponse is the active plan projection. DisplayOrder maps parcel
// id to its 1-based stop number, depot excluded.
type DriverRouteResponse struct {
	Route        *assignment.RouteAssignment `json:"route"`
	DisplayOrder map[string]int              `json:"displayOrder"`
}

// DriverRouteHandler reads the active route and derives its display order
type DriverRouteHandler struct {
	routes assignment.RouteRepository
}

// NewDriverRouteHandler creates the driver route handler
func NewDriverRouteHandler(routes assignment.RouteRepository) *DriverRouteHandler {
	return &DriverRouteHandler{routes: routes}
}

// Handle executes the driver route query
func (h *DriverRouteHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	q, ok := request.(*DriverRouteQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	route, err := h.routes.ActiveForDriver(ctx, q.Username)
	if err != nil {
		return nil, err
	}
	return &DriverRouteResponse{Route: route, DisplayOrder: route.DisplayOrder()}, nil
}
