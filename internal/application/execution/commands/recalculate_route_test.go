package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/waypointhq/waypoint-go/internal/adapters/persistence"
	"github.com/waypointhq/waypoint-go/internal/application/execution/commands"
	"github.com/waypointhq/waypoint-go/internal/domain/assignment"
	"github.com/waypointhq/waypoint-go/internal/domain/delivery"
	"github.com/waypointhq/waypoint-go/internal/domain/routing"
	"github.com/waypointhq/waypoint-go/internal/domain/shared"
	"github.com/waypointhq/waypoint-go/test/helpers"
)

var depot = assignment.DepotSnapshot("1 Depot Way", 42.6500, 23.3800)

func seedActiveRoute(t *testing.T, db *gorm.DB, driver string, parcels ...*delivery.Parcel) *assignment.RouteAssignment {
	t.Helper()
	sequence := []assignment.VisitRecord{{
		VisitOrder: 0,
		Kind:       assignment.VisitDepot,
		Snapshot:   depot,
		Snapped:    routing.GeoPoint{Lon: depot.Longitude, Lat: depot.Latitude},
	}}
	for i, p := range parcels {
		sequence = append(sequence, assignment.VisitRecord{
			VisitOrder:       i + 1,
			Kind:             assignment.VisitParcel,
			Snapshot:         assignment.SnapshotOf(p),
			Snapped:          routing.GeoPoint{Lon: p.Location.Lon, Lat: p.Location.Lat},
			InboundDurationS: 60,
			Status:           p.Status,
		})
	}
	sequence = append(sequence, assignment.VisitRecord{
		VisitOrder:  len(parcels) + 1,
		Kind:        assignment.VisitDepot,
		Snapshot:    depot,
		Snapped:     routing.GeoPoint{Lon: depot.Longitude, Lat: depot.Latitude},
		IsReturnLeg: true,
	})

	route, err := assignment.NewRouteAssignment(
		"route-"+driver, driver, "CA-5050-AB", time.Now(), sequence,
		[]routing.GeoPoint{{Lon: depot.Longitude, Lat: depot.Latitude}},
	)
	require.NoError(t, err)
	require.NoError(t, persistence.NewGormRouteRepository(db).Create(context.Background(), route))
	return route
}

func routeParcel(t *testing.T, db *gorm.DB, id string, lat, lon float64, status delivery.ParcelStatus) *delivery.Parcel {
	t.Helper()
	parcel := helpers.ParcelFixture(t, id, lat, lon, 2.0)
	if status != delivery.StatusPending {
		require.NoError(t, parcel.MarkInTransit())
	}
	switch status {
	case delivery.StatusDelivered:
		require.NoError(t, parcel.MarkDelivered(""))
	case delivery.StatusUndelivered:
		require.NoError(t, parcel.MarkUndelivered())
	}
	helpers.SeedParcel(t, db, parcel)
	return parcel
}

func TestRecalculateRouteHandler_SubmitsRemainingStopsAndDepot(t *testing.T) {
	// Arrange - five stops, two already terminal
	db := helpers.NewTestDB(t)
	parcels := []*delivery.Parcel{
		routeParcel(t, db, "PKG-1", 42.7000, 23.3200, delivery.StatusDelivered),
		routeParcel(t, db, "PKG-2", 42.7050, 23.3300, delivery.StatusInTransit),
		routeParcel(t, db, "PKG-3", 42.7100, 23.3400, delivery.StatusUndelivered),
		routeParcel(t, db, "PKG-4", 42.7150, 23.3500, delivery.StatusInTransit),
		routeParcel(t, db, "PKG-5", 42.7200, 23.3600, delivery.StatusInTransit),
	}
	original := seedActiveRoute(t, db, "alice", parcels...)

	newGeometry := []routing.GeoPoint{
		{Lon: 23.3350, Lat: 42.6950},
		{Lon: 23.3300, Lat: 42.7050},
		{Lon: 23.3800, Lat: 42.6500},
	}
	planner := &helpers.MockTripPlanner{Geometry: newGeometry}
	handler := commands.NewRecalculateRouteHandler(persistence.NewGormRouteRepository(db), planner, nil)

	// Act
	response, err := handler.Handle(context.Background(), &commands.RecalculateRouteCommand{
		DriverUsername: "alice",
		Current:        shared.Coordinate{Lat: 42.6950, Lon: 23.3350},
	})

	// Assert - current position, the three open stops, then the depot
	require.NoError(t, err)
	submitted := planner.LastCall()
	require.Len(t, submitted, 5)
	assert.Equal(t, routing.GeoPoint{Lon: 23.3350, Lat: 42.6950}, submitted[0])
	assert.Equal(t, routing.GeoPoint{Lon: 23.3300, Lat: 42.7050}, submitted[1])
	assert.Equal(t, routing.GeoPoint{Lon: 23.3500, Lat: 42.7150}, submitted[2])
	assert.Equal(t, routing.GeoPoint{Lon: 23.3600, Lat: 42.7200}, submitted[3])
	assert.Equal(t, routing.GeoPoint{Lon: depot.Longitude, Lat: depot.Latitude}, submitted[4])

	// Only the polyline changed; the sequence kept its numbering and statuses
	result := response.(*commands.RecalculateRouteResponse)
	assert.Equal(t, newGeometry, result.Route.PathGeometry)
	require.Len(t, result.Route.Sequence, len(original.Sequence))
	for i, visit := range result.Route.Sequence {
		assert.Equal(t, original.Sequence[i].VisitOrder, visit.VisitOrder)
		assert.Equal(t, original.Sequence[i].Status, visit.Status)
	}

	// And the change persisted
	stored, err := persistence.NewGormRouteRepository(db).ActiveForDriver(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, newGeometry, stored.PathGeometry)
}

func TestRecalculateRouteHandler_KeepsStatusesMirroredWhileRecalculating(t *testing.T) {
	// Arrange - a delivery event commits while the engine call is in flight
	db := helpers.NewTestDB(t)
	parcels := []*delivery.Parcel{
		routeParcel(t, db, "PKG-1", 42.7000, 23.3200, delivery.StatusInTransit),
		routeParcel(t, db, "PKG-2", 42.7050, 23.3300, delivery.StatusInTransit),
	}
	seedActiveRoute(t, db, "alice", parcels...)

	repo := persistence.NewGormRouteRepository(db)
	newGeometry := []routing.GeoPoint{{Lon: 23.3350, Lat: 42.6950}}
	planner := &helpers.MockTripPlanner{
		Geometry: newGeometry,
		OnTrip: func([]routing.GeoPoint) {
			route, err := repo.ActiveForDriver(context.Background(), "alice")
			require.NoError(t, err)
			require.True(t, route.UpdateParcelStatus("PKG-1", delivery.StatusDelivered))
			require.NoError(t, repo.Save(context.Background(), route))
		},
	}
	handler := commands.NewRecalculateRouteHandler(repo, planner, nil)

	// Act
	_, err := handler.Handle(context.Background(), &commands.RecalculateRouteCommand{
		DriverUsername: "alice",
		Current:        shared.Coordinate{Lat: 42.6950, Lon: 23.3350},
	})

	// Assert - the interleaved status survives next to the fresh polyline
	require.NoError(t, err)
	stored, err := repo.ActiveForDriver(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, delivery.StatusDelivered, stored.Sequence[1].Status)
	assert.Equal(t, newGeometry, stored.PathGeometry)
}

func TestRecalculateRouteHandler_NoActiveRoute(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	handler := commands.NewRecalculateRouteHandler(persistence.NewGormRouteRepository(db), &helpers.MockTripPlanner{}, nil)

	// Act
	_, err := handler.Handle(context.Background(), &commands.RecalculateRouteCommand{
		DriverUsername: "alice",
		Current:        shared.Coordinate{Lat: 42.6950, Lon: 23.3350},
	})

	// Assert
	assert.ErrorIs(t, err, assignment.ErrNoActiveRoute)
}

func TestRecalculateRouteHandler_EngineFailureLeavesTheRouteUntouched(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	parcel := routeParcel(t, db, "PKG-1", 42.7000, 23.3200, delivery.StatusInTransit)
	original := seedActiveRoute(t, db, "alice", parcel)
	planner := &helpers.MockTripPlanner{Err: routing.ErrUnavailable}
	handler := commands.NewRecalculateRouteHandler(persistence.NewGormRouteRepository(db), planner, nil)

	// Act
	_, err := handler.Handle(context.Background(), &commands.RecalculateRouteCommand{
		DriverUsername: "alice",
		Current:        shared.Coordinate{Lat: 42.6950, Lon: 23.3350},
	})

	// Assert
	assert.ErrorIs(t, err, routing.ErrUnavailable)
	stored, findErr := persistence.NewGormRouteRepository(db).ActiveForDriver(context.Background(), "alice")
	require.NoError(t, findErr)
	assert.Equal(t, original.PathGeometry, stored.PathGeometry)
}
