package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/waypointhq/waypoint-go/internal/application/common"
	executionServices "github.com/waypointhq/waypoint-go/internal/application/execution/services"
	"github.com/waypointhq/waypoint-go/internal/domain/assignment"
	"github.com/waypointhq/waypoint-go/internal/domain/routing"
	"github.com/waypointhq/waypoint-go/internal/domain/shared"
)

// AssignRouteCommand persists a manually prepared route and starts the journey
type AssignRouteCommand struct {
	DriverUsername string
	TruckPlate     string
	Sequence       []assignment.VisitRecord
	Geometry       []routing.GeoPoint
}

// AssignRouteResponse carries the persisted route
type AssignRouteResponse struct {
	Route *assignment.RouteAssignment
}

// AssignRouteHandler accepts a sequence prepared outside the planner (manager
// tooling, replays) and runs it through the same journey start as a planned
// route, so every invariant check applies.
type AssignRouteHandler struct {
	supervisor *executionServices.JourneySupervisor
	clock      shared.Clock
	log        *logrus.Entry
}

// NewAssignRouteHandler creates the manual assignment handler
func NewAssignRouteHandler(supervisor *executionServices.JourneySupervisor, clock shared.Clock, log *logrus.Logger) *AssignRouteHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &AssignRouteHandler{
		supervisor: supervisor,
		clock:      clock,
		log:        log.WithField("component", "assign-route"),
	}
}

// Handle executes the assign route command
func (h *AssignRouteHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*AssignRouteCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	route, err := assignment.NewRouteAssignment(
		uuid.NewString(),
		cmd.DriverUsername,
		cmd.TruckPlate,
		h.clock.Now(),
		cmd.Sequence,
		cmd.Geometry,
	)
	if err != nil {
		return nil, err
	}

	if err := h.supervisor.StartJourney(ctx, route); err != nil {
		return nil, err
	}

	h.log.WithFields(logrus.Fields{"driver": cmd.DriverUsername, "truck": cmd.TruckPlate}).Info("manual route assigned")
	return &AssignRouteResponse{Route: route}, nil
}
