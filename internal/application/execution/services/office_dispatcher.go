package services

import (
	"context"
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/waypointhq/waypoint-go/internal/application/common"
	"github.com/waypointhq/waypoint-go/internal/domain/assignment"
	"github.com/waypointhq/waypoint-go/internal/domain/delivery"
	"github.com/waypointhq/waypoint-go/internal/domain/history"
	"github.com/waypointhq/waypoint-go/internal/domain/routing"
	"github.com/waypointhq/waypoint-go/internal/domain/shared"
)

// OfficeStop is one entry of a suggested office sub-route: an office and the
// driver's undelivered parcels assigned to it.
type OfficeStop struct {
	Office  *delivery.Office            `json:"office"`
	Parcels []assignment.ParcelSnapshot `json:"parcels"`
}

// OfficeDispatcher reroutes undelivered parcels to pickup offices.
//
// Assignment is company-scoped when the parcel carries a company, falling
// back to the global office set; nearest office wins, ties broken by office
// id ascending.
type OfficeDispatcher struct {
	offices          delivery.OfficeRepository
	parcels          delivery.ParcelRepository
	routes           assignment.RouteRepository
	officeDeliveries history.OfficeDeliveryRepository
	transitioner     *ParcelTransitioner
	tx               common.Transactor
	planner          routing.TripPlanner
	notifier         delivery.Notifier
	clock            shared.Clock
	log              *logrus.Entry
}

// NewOfficeDispatcher creates the office fallback dispatcher
func NewOfficeDispatcher(
	offices delivery.OfficeRepository,
	parcels delivery.ParcelRepository,
	routes assignment.RouteRepository,
	officeDeliveries history.OfficeDeliveryRepository,
	transitioner *ParcelTransitioner,
	tx common.Transactor,
	planner routing.TripPlanner,
	notifier delivery.Notifier,
	clock shared.Clock,
	log *logrus.Logger,
) *OfficeDispatcher {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &OfficeDispatcher{
		offices:          offices,
		parcels:          parcels,
		routes:           routes,
		officeDeliveries: officeDeliveries,
		transitioner:     transitioner,
		tx:               tx,
		planner:          planner,
		notifier:         notifier,
		clock:            clock,
		log:              log.WithField("component", "office-dispatcher"),
	}
}

// AssignNearestOffice links an undelivered parcel to its closest office and
// persists the link. With no office available the parcel is left unassigned
// and (nil, nil) is returned.
func (d *OfficeDispatcher) AssignNearestOffice(ctx context.Context, parcel *delivery.Parcel) (*delivery.Office, error) {
	candidates, err := d.candidateOffices(ctx, parcel.CompanyID)
	if err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		d.log.WithField("parcel", parcel.ID).Warn("no office available for fallback")
		return nil, nil
	}

	// Candidates arrive ordered by id ascending, so keeping the first
	// strictly-closer office breaks distance ties toward the lowest id.
	nearest := candidates[0]
	best := parcel.Location.DistanceKm(nearest.Location)
	for _, office := range candidates[1:] {
		if dist := parcel.Location.DistanceKm(office.Location); dist < best {
			nearest = office
			best = dist
		}
	}

	if err := d.transitioner.AssignOffice(ctx, parcel.ID, nearest.ID); err != nil {
		return nil, err
	}

	d.log.WithFields(logrus.Fields{
		"parcel":      parcel.ID,
		"office":      nearest.ID,
		"distance_km": best,
	}).Info("assigned fallback office")
	return nearest, nil
}

// SuggestOfficeRoute groups the driver's not-yet-dropped undelivered parcels
// by their assigned office, offices ordered by distance from the first
// remaining undelivered stop.
func (d *OfficeDispatcher) SuggestOfficeRoute(ctx context.Context, driverUsername string) ([]OfficeStop, error) {
	route, err := d.routes.ActiveForDriver(ctx, driverUsername)
	if err != nil {
		return nil, err
	}

	dropped, err := d.officeDeliveries.ParcelIDsDroppedBy(ctx, driverUsername)
	if err != nil {
		return nil, fmt.Errorf("loading dropped parcel ids: %w", err)
	}
	droppedSet := make(map[string]bool, len(dropped))
	for _, id := range dropped {
		droppedSet[id] = true
	}

	var (
		anchor    *shared.Coordinate
		remaining []assignment.ParcelSnapshot
	)
	for _, visit := range route.Sequence {
		if visit.IsDepot() || visit.Status != delivery.StatusUndelivered || droppedSet[visit.Snapshot.ParcelID] {
			continue
		}
		if anchor == nil {
			anchor = &shared.Coordinate{Lat: visit.Snapshot.Latitude, Lon: visit.Snapshot.Longitude}
		}
		remaining = append(remaining, visit.Snapshot)
	}
	if len(remaining) == 0 {
		return nil, nil
	}

	parcels, err := d.parcels.FindByIDs(ctx, snapshotIDs(remaining))
	if err != nil {
		return nil, fmt.Errorf("loading undelivered parcels: %w", err)
	}
	officeOf := make(map[string]uint, len(parcels))
	officeIDs := make([]uint, 0, len(parcels))
	seen := make(map[uint]bool)
	for _, p := range parcels {
		if p.OfficeID == nil {
			continue
		}
		officeOf[p.ID] = *p.OfficeID
		if !seen[*p.OfficeID] {
			seen[*p.OfficeID] = true
			officeIDs = append(officeIDs, *p.OfficeID)
		}
	}
	offices, err := d.offices.FindByIDs(ctx, officeIDs)
	if err != nil {
		return nil, err
	}

	stops := make([]OfficeStop, 0, len(offices))
	for _, office := range offices {
		stop := OfficeStop{Office: office}
		for _, snap := range remaining {
			if officeOf[snap.ParcelID] == office.ID {
				stop.Parcels = append(stop.Parcels, snap)
			}
		}
		if len(stop.Parcels) > 0 {
			stops = append(stops, stop)
		}
	}
	sort.SliceStable(stops, func(i, j int) bool {
		return anchor.DistanceKm(stops[i].Office.Location) < anchor.DistanceKm(stops[j].Office.Location)
	})
	return stops, nil
}

// OptimizeOfficeRoute runs the trip planner over the driver's current
// position and the selected offices, returning the offices in visit order.
func (d *OfficeDispatcher) OptimizeOfficeRoute(ctx context.Context, current shared.Coordinate, officeIDs []uint) ([]*delivery.Office, []routing.GeoPoint, error) {
	offices, err := d.offices.FindByIDs(ctx, officeIDs)
	if err != nil {
		return nil, nil, err
	}
	if len(offices) == 0 {
		return nil, nil, nil
	}

	points := make([]routing.GeoPoint, 0, len(offices)+1)
	points = append(points, routing.GeoPoint{Lon: current.Lon, Lat: current.Lat})
	for _, office := range offices {
		points = append(points, routing.GeoPoint{Lon: office.Location.Lon, Lat: office.Location.Lat})
	}

	plan, err := d.planner.Trip(ctx, points)
	if err != nil {
		return nil, nil, err
	}

	ordered := make([]*delivery.Office, 0, len(offices))
	for _, wp := range plan.Waypoints {
		if wp.InputIndex == 0 {
			continue // the driver's own position, not a stop
		}
		if wp.InputIndex-1 < len(offices) {
			ordered = append(ordered, offices[wp.InputIndex-1])
		}
	}
	return ordered, plan.Geometry, nil
}

// RecordOfficeDelivery confirms a drop-off batch: parcels advance to
// delivered, the batch is appended once per (driver, office, parcels, day)
// and recipients are notified best-effort. The transitions and the batch
// record commit together; a parcel that cannot advance rolls back the rest,
// so the batch stays retryable.
func (d *OfficeDispatcher) RecordOfficeDelivery(ctx context.Context, driverUsername string, officeID uint, parcelIDs []string) (*history.OfficeDelivery, error) {
	office, err := d.offices.FindByID(ctx, officeID)
	if err != nil {
		return nil, err
	}

	today := shared.DateOf(d.clock.Now())
	exists, err := d.officeDeliveries.ExistsFor(ctx, driverUsername, officeID, parcelIDs, today)
	if err != nil {
		return nil, fmt.Errorf("checking drop-off idempotence: %w", err)
	}
	if exists {
		d.log.WithFields(logrus.Fields{"driver": driverUsername, "office": officeID}).
			Info("drop-off already recorded today, skipping")
		return nil, nil
	}

	var (
		record    *history.OfficeDelivery
		delivered []*delivery.Parcel
	)
	err = d.tx.WithinTx(ctx, func(ctx context.Context) error {
		delivered = make([]*delivery.Parcel, 0, len(parcelIDs))
		for _, id := range parcelIDs {
			parcel, err := d.transitioner.DeliverAtOffice(ctx, id)
			if err != nil {
				return err
			}
			delivered = append(delivered, parcel)
		}

		record = &history.OfficeDelivery{
			DriverUsername: driverUsername,
			OfficeID:       officeID,
			ParcelIDs:      parcelIDs,
			Timestamp:      d.clock.Now(),
		}
		if route, err := d.routes.ActiveForDriver(ctx, driverUsername); err == nil {
			record.RouteID = route.RouteID
		}
		if err := d.officeDeliveries.Append(ctx, record); err != nil {
			return fmt.Errorf("appending office delivery: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, parcel := range delivered {
		if err := d.notifier.NotifyOfficeFallback(ctx, parcel, office, driverUsername); err != nil {
			d.log.WithError(err).WithField("parcel", parcel.ID).Warn("office fallback notification failed")
		}
	}

	d.log.WithFields(logrus.Fields{
		"driver":  driverUsername,
		"office":  officeID,
		"parcels": len(parcelIDs),
	}).Info("recorded office delivery")
	return record, nil
}

func (d *OfficeDispatcher) candidateOffices(ctx context.Context, companyID string) ([]*delivery.Office, error) {
	if companyID != "" {
		offices, err := d.offices.ByCompany(ctx, companyID)
		if err != nil {
			return nil, err
		}
		if len(offices) > 0 {
			return offices, nil
		}
	}
	return d.offices.All(ctx)
}

func snapshotIDs(snaps []assignment.ParcelSnapshot) []string {
	ids := make([]string, len(snaps))
	for i, s := range snaps {
		ids[i] = s.ParcelID
	}
	return ids
}
