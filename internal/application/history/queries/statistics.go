package queries

import (
	"context"
	"fmt"

	"github.com/waypointhq/waypoint-go/internal/application/common"
	"github.com/waypointhq/waypoint-go/internal/domain/assignment"
	"github.com/waypointhq/waypoint-go/internal/domain/delivery"
	"github.com/waypointhq/waypoint-go/internal/domain/shared"
)

// StatisticsQuery asks for the operations dashboard counters
type StatisticsQuery struct{}

// StatisticsResponse is the one-shot dashboard projection
type StatisticsResponse struct {
	ParcelCounts    map[delivery.ParcelStatus]int64 `json:"parcelCounts"`
	TotalDrivers    int64                           `json:"totalDrivers"`
	VerifiedDrivers int64                           `json:"verifiedDrivers"`
	TotalTrucks     int                             `json:"totalTrucks"`
	TrucksInUse     int                             `json:"trucksInUse"`
	ActiveRoutes    int                             `json:"activeRoutes"`
}

// StatisticsHandler fans out over the repositories; each counter is one
// aggregate query, no row materialization.
type StatisticsHandler struct {
	parcels delivery.ParcelRepository
	drivers delivery.DriverRepository
	trucks  delivery.TruckRepository
	routes  assignment.RouteRepository
	clock   shared.Clock
}

// NewStatisticsHandler creates the statistics handler
func NewStatisticsHandler(
	parcels delivery.ParcelRepository,
	drivers delivery.DriverRepository,
	trucks delivery.TruckRepository,
	routes assignment.RouteRepository,
	clock shared.Clock,
) *StatisticsHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &StatisticsHandler{parcels: parcels, drivers: drivers, trucks: trucks, routes: routes, clock: clock}
}

// Handle executes the statistics query
func (h *StatisticsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	if _, ok := request.(*StatisticsQuery); !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	counts, err := h.parcels.StatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	total, verified, err := h.drivers.VerificationCounts(ctx)
	if err != nil {
		return nil, err
	}
	trucks, err := h.trucks.All(ctx)
	if err != nil {
		return nil, err
	}
	inUse := 0
	for _, t := range trucks {
		if t.InUse {
			inUse++
		}
	}
	active, err := h.routes.ListActiveOn(ctx, shared.DateOf(h.clock.Now()))
	if err != nil {
		return nil, err
	}

	return &StatisticsResponse{
		ParcelCounts:    counts,
		TotalDrivers:    total,
		VerifiedDrivers: verified,
		TotalTrucks:     len(trucks),
		TrucksInUse:     inUse,
		ActiveRoutes:    len(active),
	}, nil
}
