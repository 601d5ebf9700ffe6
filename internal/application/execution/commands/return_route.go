package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/waypointhq/waypoint-go/internal/application/common"
	"github.com/waypointhq/waypoint-go/internal/application/execution/services"
	"github.com/waypointhq/waypoint-go/internal/domain/assignment"
	"github.com/waypointhq/waypoint-go/internal/domain/history"
	"github.com/waypointhq/waypoint-go/internal/domain/routing"
	"github.com/waypointhq/waypoint-go/internal/domain/shared"
)

// ReturnRouteCommand routes the driver home and closes the journey
type ReturnRouteCommand struct {
	DriverUsername string
	Current        shared.Coordinate
	Depot          shared.Coordinate
	DurationHours  float64
}

// ReturnRouteResponse carries the homebound polyline and, when a journey was
// open, the materialized day aggregate
type ReturnRouteResponse struct {
	Geometry []routing.GeoPoint
	History  *history.DeliveryHistory
}

// ReturnRouteHandler plans the leg from the driver's position back to the
// depot and finalizes the journey. A driver with no active route still gets
// the homebound geometry.
type ReturnRouteHandler struct {
	supervisor *services.JourneySupervisor
	planner    routing.TripPlanner
	log        *logrus.Entry
}

// NewReturnRouteHandler creates the return route handler
func NewReturnRouteHandler(supervisor *services.JourneySupervisor, planner routing.TripPlanner, log *logrus.Logger) *ReturnRouteHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ReturnRouteHandler{
		supervisor: supervisor,
		planner:    planner,
		log:        log.WithField("component", "return-route"),
	}
}

// Handle executes the return route command
func (h *ReturnRouteHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*ReturnRouteCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	plan, err := h.planner.Trip(ctx, []routing.GeoPoint{
		{Lon: cmd.Current.Lon, Lat: cmd.Current.Lat},
		{Lon: cmd.Depot.Lon, Lat: cmd.Depot.Lat},
	})
	if err != nil {
		return nil, err
	}

	resp := &ReturnRouteResponse{Geometry: plan.Geometry}
	if cmd.DriverUsername == "" {
		return resp, nil
	}

	row, err := h.supervisor.FinishJourney(ctx, cmd.DriverUsername, cmd.DurationHours)
	if err != nil {
		// Routing home twice is legitimate; the second call finds nothing
		// left to close.
		if errors.Is(err, assignment.ErrNoActiveRoute) || errors.Is(err, assignment.ErrRouteInactive) {
			h.log.WithField("driver", cmd.DriverUsername).Info("return requested with no open journey")
			return resp, nil
		}
		return nil, err
	}
	resp.History = row
	return resp, nil
}
