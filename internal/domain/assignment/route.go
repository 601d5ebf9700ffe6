package assignment

import (
	"fmt"
	"time"

	"github.com/waypointhq/waypoint-go/internal/domain/delivery"
	"github.com/waypointhq/waypoint-go/internal/domain/routing"
	"github.com/waypointhq/waypoint-go/internal/domain/shared"
)

// RouteAssignment aggregate root - one driver's planned delivery loop.
//
// Invariants:
// - At most one active assignment per driver (store-enforced)
// - The referenced truck is in use exactly while the assignment is active
// - Sequence starts at the depot and ends with the single return-leg record
type RouteAssignment struct {
	RouteID        string
	DriverUsername string
	TruckPlate     string
	CreationDate   time.Time
	IsActive       bool
	Sequence       []VisitRecord
	PathGeometry   []routing.GeoPoint
}

// NewRouteAssignment creates an active assignment with a validated sequence
func NewRouteAssignment(routeID, driverUsername, truckPlate string, creationDate time.Time, sequence []VisitRecord, geometry []routing.GeoPoint) (*RouteAssignment, error) {
	if routeID == "" {
		return nil, shared.NewValidationError("routeID", "required")
	}
	if driverUsername == "" {
		return nil, shared.NewValidationError("driver", "required")
	}
	if truckPlate == "" {
		return nil, shared.NewValidationError("truck", "required")
	}
	r := &RouteAssignment{
		RouteID:        routeID,
		DriverUsername: driverUsername,
		TruckPlate:     truckPlate,
		CreationDate:   shared.DateOf(creationDate),
		IsActive:       true,
		Sequence:       sequence,
		PathGeometry:   geometry,
	}
	if err := r.validate(); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *RouteAssignment) validate() error {
	if len(r.Sequence) == 0 {
		return shared.NewValidationError("sequence", "must not be empty")
	}
	if !r.Sequence[0].IsDepot() {
		return shared.NewValidationError("sequence", "first stop must be the depot")
	}
	returnLegs := 0
	for i, v := range r.Sequence {
		if v.VisitOrder != i {
			return shared.NewValidationError("sequence", fmt.Sprintf("visit order gap at position %d", i))
		}
		if v.IsReturnLeg {
			returnLegs++
			if i != len(r.Sequence)-1 {
				return shared.NewValidationError("sequence", "return leg must be the tail record")
			}
			if !v.IsDepot() {
				return shared.NewValidationError("sequence", "return leg must carry the depot snapshot")
			}
		}
	}
	if returnLegs != 1 {
		return shared.NewValidationError("sequence", fmt.Sprintf("expected exactly one return leg, found %d", returnLegs))
	}
	return nil
}

// ParcelIDs returns the real parcel ids in visit order, depot excluded
func (r *RouteAssignment) ParcelIDs() []string {
	ids := make([]string, 0, len(r.Sequence))
	for _, v := range r.Sequence {
		if !v.IsDepot() {
			ids = append(ids, v.Snapshot.ParcelID)
		}
	}
	return ids
}

// DisplayOrder maps parcel id → 1-based visit position for the driver UI
func (r *RouteAssignment) DisplayOrder() map[string]int {
	order := make(map[string]int)
	idx := 1
	for _, v := range r.Sequence {
		if !v.IsDepot() {
			order[v.Snapshot.ParcelID] = idx
			idx++
		}
	}
	return order
}

// RemainingParcels returns snapshots of stops not yet delivered or
// undelivered, in visit order
func (r *RouteAssignment) RemainingParcels() []ParcelSnapshot {
	var remaining []ParcelSnapshot
	for _, v := range r.Sequence {
		if v.IsDepot() || v.Status.IsTerminal() {
			continue
		}
		remaining = append(remaining, v.Snapshot)
	}
	return remaining
}

// DepotPoint returns the depot coordinate from the leading stop
func (r *RouteAssignment) DepotPoint() routing.GeoPoint {
	depot := r.Sequence[0].Snapshot
	return routing.GeoPoint{Lon: depot.Longitude, Lat: depot.Latitude}
}

// UpdateParcelStatus mirrors a parcel status change into every matching visit
// record. Returns true when at least one record matched; false means the
// route predates the parcel (stale-route tolerance: callers still update the
// parcel row).
func (r *RouteAssignment) UpdateParcelStatus(parcelID string, status delivery.ParcelStatus) bool {
	matched := false
	for i := range r.Sequence {
		if !r.Sequence[i].IsDepot() && r.Sequence[i].Snapshot.ParcelID == parcelID {
			r.Sequence[i].Status = status
			matched = true
		}
	}
	return matched
}

// ReplaceGeometry swaps the rendered path after a mid-route recalculation.
// Visit records keep their numbering; only the polyline changes.
func (r *RouteAssignment) ReplaceGeometry(geometry []routing.GeoPoint) {
	r.PathGeometry = geometry
}

// Deactivate marks the route finished. The second call reports the route
// already inactive so finish-journey stays idempotent.
func (r *RouteAssignment) Deactivate() error {
	if !r.IsActive {
		return ErrRouteInactive
	}
	r.IsActive = false
	return nil
}

func (r *RouteAssignment) String() string {
	return fmt.Sprintf("RouteAssignment(id=%s, driver=%s, truck=%s, stops=%d, active=%t)",
		r.RouteID, r.DriverUsername, r.TruckPlate, len(r.Sequence), r.IsActive)
}
