package commands

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/waypointhq/waypoint-go/internal/application/common"
	executionServices "github.com/waypointhq/waypoint-go/internal/application/execution/services"
	planningServices "github.com/waypointhq/waypoint-go/internal/application/planning/services"
	"github.com/waypointhq/waypoint-go/internal/domain/assignment"
	"github.com/waypointhq/waypoint-go/internal/domain/delivery"
	"github.com/waypointhq/waypoint-go/internal/domain/planning"
	"github.com/waypointhq/waypoint-go/internal/domain/shared"
)

// PlanRoutesCommand plans and persists today's routes for the given drivers
type PlanRoutesCommand struct {
	DriverUsernames []string
}

// PlanRoutesResponse carries the routes the plan created, in driver order
type PlanRoutesResponse struct {
	Routes []*assignment.RouteAssignment
}

// PlanRoutesHandler runs the full planning pipeline: eligible parcels →
// zones → trucks → optimized sequences → persisted journeys.
//
// Persistence is all-or-nothing: every generated route starts its journey
// inside one transaction, so a single active-route or capacity conflict
// rolls the entire plan back.
type PlanRoutesHandler struct {
	parcels    delivery.ParcelRepository
	drivers    delivery.DriverRepository
	trucks     delivery.TruckRepository
	clusterer  planning.Clusterer
	allocator  *planning.TruckAllocator
	assembler  *planningServices.PlanAssembler
	supervisor *executionServices.JourneySupervisor
	tx         common.Transactor
	clock      shared.Clock
	log        *logrus.Entry
}

// NewPlanRoutesHandler creates the planning pipeline handler
func NewPlanRoutesHandler(
	parcels delivery.ParcelRepository,
	drivers delivery.DriverRepository,
	trucks delivery.TruckRepository,
	clusterer planning.Clusterer,
	allocator *planning.TruckAllocator,
	assembler *planningServices.PlanAssembler,
	supervisor *executionServices.JourneySupervisor,
	tx common.Transactor,
	clock shared.Clock,
	log *logrus.Logger,
) *PlanRoutesHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &PlanRoutesHandler{
		parcels:    parcels,
		drivers:    drivers,
		trucks:     trucks,
		clusterer:  clusterer,
		allocator:  allocator,
		assembler:  assembler,
		supervisor: supervisor,
		tx:         tx,
		clock:      clock,
		log:        log.WithField("component", "plan-routes"),
	}
}

// Handle executes the plan routes command
func (h *PlanRoutesHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*PlanRoutesCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	if len(cmd.DriverUsernames) == 0 {
		return nil, shared.NewValidationError("drivers", "at least one driver required")
	}

	if err := h.verifyDrivers(ctx, cmd.DriverUsernames); err != nil {
		return nil, err
	}

	today := shared.DateOf(h.clock.Now())
	parcels, err := h.parcels.PendingDueOn(ctx, today)
	if err != nil {
		return nil, fmt.Errorf("loading eligible parcels: %w", err)
	}
	if len(parcels) == 0 {
		return nil, planning.ErrNoEligibleParcels
	}

	zones, err := h.clusterer.Cluster(parcels, cmd.DriverUsernames)
	if err != nil {
		return nil, err
	}

	available, err := h.trucks.AvailableByCapacity(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading available trucks: %w", err)
	}
	allocations, err := h.allocator.Allocate(zones, available)
	if err != nil {
		return nil, err
	}

	routes := make([]*assignment.RouteAssignment, 0, len(allocations))
	for _, alloc := range allocations {
		route, err := h.assembler.Assemble(ctx, alloc)
		if err != nil {
			return nil, err
		}
		if route != nil {
			routes = append(routes, route)
		}
	}

	err = h.tx.WithinTx(ctx, func(ctx context.Context) error {
		for _, route := range routes {
			if err := h.supervisor.StartJourney(ctx, route); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.log.WithFields(logrus.Fields{
		"drivers": len(cmd.DriverUsernames),
		"parcels": len(parcels),
		"routes":  len(routes),
	}).Info("plan persisted")
	return &PlanRoutesResponse{Routes: routes}, nil
}

func (h *PlanRoutesHandler) verifyDrivers(ctx context.Context, usernames []string) error {
	for _, username := range usernames {
		driver, err := h.drivers.FindByUsername(ctx, username)
		if err != nil {
			return err
		}
		if !driver.Verified {
			return fmt.Errorf("%w: %s", delivery.ErrDriverUnverified, username)
		}
	}
	return nil
}
