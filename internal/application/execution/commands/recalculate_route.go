package commands

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/waypointhq/waypoint-go/internal/application/common"
	"github.com/waypointhq/waypoint-go/internal/domain/assignment"
	"github.com/waypointhq/waypoint-go/internal/domain/routing"
	"github.com/waypointhq/waypoint-go/internal/domain/shared"
)

// RecalculateRouteCommand refreshes the path from the driver's position
type RecalculateRouteCommand struct {
	DriverUsername string
	Current        shared.Coordinate
}

// RecalculateRouteResponse carries the route with its replaced geometry
type RecalculateRouteResponse struct {
	Route *assignment.RouteAssignment
}

// RecalculateRouteHandler rebuilds the rendered path over (current position,
// remaining non-terminal stops, depot). Only the polyline changes; visit
// records keep their numbering and statuses.
type RecalculateRouteHandler struct {
	routes  assignment.RouteRepository
	planner routing.TripPlanner
	log     *logrus.Entry
}

// NewRecalculateRouteHandler creates the recalculation handler
func NewRecalculateRouteHandler(routes assignment.RouteRepository, planner routing.TripPlanner, log *logrus.Logger) *RecalculateRouteHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &RecalculateRouteHandler{
		routes:  routes,
		planner: planner,
		log:     log.WithField("component", "recalculate-route"),
	}
}

// Handle executes the recalculate route command
func (h *RecalculateRouteHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*RecalculateRouteCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	route, err := h.routes.ActiveForDriver(ctx, cmd.DriverUsername)
	if err != nil {
		return nil, err
	}

	remaining := route.RemainingParcels()
	points := make([]routing.GeoPoint, 0, len(remaining)+2)
	points = append(points, routing.GeoPoint{Lon: cmd.Current.Lon, Lat: cmd.Current.Lat})
	for _, snap := range remaining {
		points = append(points, routing.GeoPoint{Lon: snap.Longitude, Lat: snap.Latitude})
	}
	points = append(points, route.DepotPoint())

	plan, err := h.planner.Trip(ctx, points)
	if err != nil {
		return nil, err
	}

	route.ReplaceGeometry(plan.Geometry)
	// Geometry-only write: a delivered/undelivered event committed since the
	// load above must keep its mirrored status in the sequence column.
	if err := h.routes.SaveGeometry(ctx, route.RouteID, plan.Geometry); err != nil {
		return nil, fmt.Errorf("saving recalculated route %s: %w", route.RouteID, err)
	}

	h.log.WithFields(logrus.Fields{
		"driver":    cmd.DriverUsername,
		"remaining": len(remaining),
	}).Info("route recalculated")
	return &RecalculateRouteResponse{Route: route}, nil
}
