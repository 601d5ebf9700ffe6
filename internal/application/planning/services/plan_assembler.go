package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/waypointhq/waypoint-go/internal/domain/assignment"
	"github.com/waypointhq/waypoint-go/internal/domain/delivery"
	"github.com/waypointhq/waypoint-go/internal/domain/planning"
	"github.com/waypointhq/waypoint-go/internal/domain/routing"
	"github.com/waypointhq/waypoint-go/internal/domain/shared"
)

// PlanAssembler turns an allocated zone into a persistable route assignment.
//
// The depot is prepended to the zone's parcels before the trip planner runs,
// so the optimized loop starts and ends at the depot. The assembled sequence
// is visit-ordered, opens with the depot at zero inbound duration and closes
// with the single synthetic return-leg record.
type PlanAssembler struct {
	planner routing.TripPlanner
	depot   assignment.ParcelSnapshot
	clock   shared.Clock
	log     *logrus.Entry
}

// NewPlanAssembler creates an assembler anchored at the company depot
func NewPlanAssembler(planner routing.TripPlanner, depot assignment.ParcelSnapshot, clock shared.Clock, log *logrus.Logger) *PlanAssembler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &PlanAssembler{
		planner: planner,
		depot:   depot,
		clock:   clock,
		log:     log.WithField("component", "plan-assembler"),
	}
}

// Assemble builds one driver's route for an allocation.
// Returns (nil, nil) for an empty zone: no route is persisted for it.
func (a *PlanAssembler) Assemble(ctx context.Context, alloc planning.Allocation) (*assignment.RouteAssignment, error) {
	parcels := alloc.Zone.Parcels
	if len(parcels) == 0 {
		a.log.WithField("zone", alloc.Zone.Index).Debug("skipping empty zone")
		return nil, nil
	}

	var (
		sequence []assignment.VisitRecord
		geometry []routing.GeoPoint
		err      error
	)
	if len(parcels) == 1 {
		// depot + parcel + depot, no engine round-trip
		sequence = a.twoStopSequence(parcels[0])
	} else {
		sequence, geometry, err = a.optimizedSequence(ctx, parcels)
		if err != nil {
			return nil, fmt.Errorf("zone %d: %w", alloc.Zone.Index, err)
		}
	}

	route, err := assignment.NewRouteAssignment(
		uuid.NewString(),
		alloc.Zone.DriverUsername,
		alloc.Truck.LicensePlate,
		a.clock.Now(),
		sequence,
		geometry,
	)
	if err != nil {
		return nil, fmt.Errorf("zone %d: %w", alloc.Zone.Index, err)
	}

	a.log.WithFields(logrus.Fields{
		"zone":   alloc.Zone.Index,
		"driver": alloc.Zone.DriverUsername,
		"truck":  alloc.Truck.LicensePlate,
		"stops":  len(sequence),
	}).Info("assembled route")
	return route, nil
}

func (a *PlanAssembler) optimizedSequence(ctx context.Context, parcels []*delivery.Parcel) ([]assignment.VisitRecord, []routing.GeoPoint, error) {
	points := make([]routing.GeoPoint, 0, len(parcels)+1)
	points = append(points, routing.GeoPoint{Lon: a.depot.Longitude, Lat: a.depot.Latitude})
	for _, p := range parcels {
		points = append(points, routing.GeoPoint{Lon: p.Location.Lon, Lat: p.Location.Lat})
	}

	plan, err := a.planner.Trip(ctx, points)
	if err != nil {
		return nil, nil, err
	}

	sequence := make([]assignment.VisitRecord, 0, len(plan.Waypoints)+1)
	for visitPos, wp := range plan.Waypoints {
		inputIdx := wp.InputIndex
		if inputIdx < 0 || inputIdx > len(parcels) {
			return nil, nil, fmt.Errorf("%w: waypoint input index %d out of range", routing.ErrDecode, inputIdx)
		}

		record := assignment.VisitRecord{
			VisitOrder:       visitPos,
			Snapped:          wp.Snapped,
			InboundDurationS: plan.InboundDuration(visitPos),
		}
		if inputIdx == 0 {
			record.Kind = assignment.VisitDepot
			record.Snapshot = a.depot
		} else {
			parcel := parcels[inputIdx-1]
			record.Kind = assignment.VisitParcel
			record.Snapshot = assignment.SnapshotOf(parcel)
			record.Status = parcel.Status
		}
		sequence = append(sequence, record)
	}

	closing := plan.ClosingLeg()
	if closing == nil {
		return nil, nil, fmt.Errorf("%w: trip plan carries no closing leg", routing.ErrDecode)
	}
	sequence = append(sequence, assignment.VisitRecord{
		VisitOrder:       len(sequence),
		Kind:             assignment.VisitDepot,
		Snapshot:         a.depot,
		Snapped:          plan.Waypoints[0].Snapped,
		InboundDurationS: closing.DurationS,
		IsReturnLeg:      true,
	})

	return sequence, plan.Geometry, nil
}

func (a *PlanAssembler) twoStopSequence(parcel *delivery.Parcel) []assignment.VisitRecord {
	depotPoint := routing.GeoPoint{Lon: a.depot.Longitude, Lat: a.depot.Latitude}
	return []assignment.VisitRecord{
		{
			VisitOrder: 0,
			Kind:       assignment.VisitDepot,
			Snapshot:   a.depot,
			Snapped:    depotPoint,
		},
		{
			VisitOrder: 1,
			Kind:       assignment.VisitParcel,
			Snapshot:   assignment.SnapshotOf(parcel),
			Snapped:    routing.GeoPoint{Lon: parcel.Location.Lon, Lat: parcel.Location.Lat},
			Status:     parcel.Status,
		},
		{
			VisitOrder:  2,
			Kind:        assignment.VisitDepot,
			Snapshot:    a.depot,
			Snapped:     depotPoint,
			IsReturnLeg: true,
		},
	}
}
