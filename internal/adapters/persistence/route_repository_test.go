package persistence_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waypointhq/waypoint-go/internal/adapters/persistence"
	"github.com/waypointhq/waypoint-go/internal/domain/assignment"
	"github.com/waypointhq/waypoint-go/internal/domain/delivery"
	"github.com/waypointhq/waypoint-go/internal/domain/routing"
	"github.com/waypointhq/waypoint-go/test/helpers"
)

var depot = assignment.DepotSnapshot("1 Depot Way", 42.6500, 23.3800)

func buildSequence(parcelIDs ...string) []assignment.VisitRecord {
	sequence := []assignment.VisitRecord{{
		VisitOrder: 0,
		Kind:       assignment.VisitDepot,
		Snapshot:   depot,
		Snapped:    routing.GeoPoint{Lon: depot.Longitude, Lat: depot.Latitude},
	}}
	for i, id := range parcelIDs {
		sequence = append(sequence, assignment.VisitRecord{
			VisitOrder: i + 1,
			Kind:       assignment.VisitParcel,
			Snapshot: assignment.ParcelSnapshot{
				ParcelID: id, Address: "addr " + id,
				Latitude: 42.70, Longitude: 23.32,
				Recipient: "recipient", WeightKg: 1.0,
			},
			Snapped:          routing.GeoPoint{Lon: 23.32, Lat: 42.70},
			InboundDurationS: 60,
			Status:           delivery.StatusPending,
		})
	}
	sequence = append(sequence, assignment.VisitRecord{
		VisitOrder:       len(parcelIDs) + 1,
		Kind:             assignment.VisitDepot,
		Snapshot:         depot,
		Snapped:          routing.GeoPoint{Lon: depot.Longitude, Lat: depot.Latitude},
		InboundDurationS: 120,
		IsReturnLeg:      true,
	})
	return sequence
}

func buildRoute(t *testing.T, routeID, driver string, creation time.Time, parcelIDs ...string) *assignment.RouteAssignment {
	t.Helper()
	route, err := assignment.NewRouteAssignment(
		routeID, driver, "CA-5050-AB", creation,
		buildSequence(parcelIDs...),
		[]routing.GeoPoint{{Lon: 23.38, Lat: 42.65}, {Lon: 23.32, Lat: 42.70}},
	)
	require.NoError(t, err)
	return route
}

func TestRouteRepository_CreateAndFindActive(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormRouteRepository(db)
	route := buildRoute(t, "route-1", "alice", time.Now(), "PKG-1", "PKG-2")

	// Act
	require.NoError(t, repo.Create(context.Background(), route))
	found, err := repo.ActiveForDriver(context.Background(), "alice")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "route-1", found.RouteID)
	assert.Equal(t, "CA-5050-AB", found.TruckPlate)
	assert.True(t, found.IsActive)
	assert.Equal(t, []string{"PKG-1", "PKG-2"}, found.ParcelIDs())
	require.Len(t, found.PathGeometry, 2)
	assert.Equal(t, route.Sequence[1].Snapshot, found.Sequence[1].Snapshot)
}

func TestRouteRepository_SecondActiveRouteForDriverIsRejected(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormRouteRepository(db)
	require.NoError(t, repo.Create(context.Background(), buildRoute(t, "route-1", "alice", time.Now(), "PKG-1")))

	// Act
	err := repo.Create(context.Background(), buildRoute(t, "route-2", "alice", time.Now(), "PKG-2"))

	// Assert
	assert.ErrorIs(t, err, assignment.ErrActiveRouteExists)
}

func TestRouteRepository_DeactivatedRouteFreesTheDriver(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormRouteRepository(db)
	route := buildRoute(t, "route-1", "alice", time.Now(), "PKG-1")
	require.NoError(t, repo.Create(context.Background(), route))

	require.NoError(t, route.Deactivate())
	require.NoError(t, repo.Save(context.Background(), route))

	// Act - the driver can start a fresh route once the old one is inactive
	err := repo.Create(context.Background(), buildRoute(t, "route-2", "alice", time.Now(), "PKG-2"))

	// Assert
	require.NoError(t, err)
	_, err = repo.ActiveForDriver(context.Background(), "alice")
	require.NoError(t, err)
}

func TestRouteRepository_ActiveForDriverReportsNoActiveRoute(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormRouteRepository(db)

	// Act
	_, err := repo.ActiveForDriver(context.Background(), "alice")

	// Assert
	assert.ErrorIs(t, err, assignment.ErrNoActiveRoute)
}

func TestRouteRepository_ByDriverReturnsLatestRegardlessOfActivity(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormRouteRepository(db)

	old := buildRoute(t, "route-1", "alice", time.Now().AddDate(0, 0, -2), "PKG-1")
	require.NoError(t, old.Deactivate())
	require.NoError(t, repo.Create(context.Background(), old))

	latest := buildRoute(t, "route-2", "alice", time.Now(), "PKG-2")
	require.NoError(t, latest.Deactivate())
	require.NoError(t, repo.Create(context.Background(), latest))

	// Act
	found, err := repo.ByDriver(context.Background(), "alice")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "route-2", found.RouteID)
	assert.False(t, found.IsActive)

	_, err = repo.ByDriver(context.Background(), "nobody")
	assert.ErrorIs(t, err, assignment.ErrRouteNotFound)
}

func TestRouteRepository_ListActiveOnFiltersByCreationDay(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormRouteRepository(db)
	today := time.Now()

	require.NoError(t, repo.Create(context.Background(), buildRoute(t, "route-1", "alice", today, "PKG-1")))
	require.NoError(t, repo.Create(context.Background(), buildRoute(t, "route-2", "bob", today.AddDate(0, 0, -1), "PKG-2")))

	inactive := buildRoute(t, "route-3", "carol", today, "PKG-3")
	require.NoError(t, inactive.Deactivate())
	require.NoError(t, repo.Create(context.Background(), inactive))

	// Act
	routes, err := repo.ListActiveOn(context.Background(), today)

	// Assert
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, "route-1", routes[0].RouteID)
}

func TestRouteRepository_ListActiveReferencingMatchesExactParcelIDs(t *testing.T) {
	// Arrange - "PKG-1" is a substring of "PKG-10"; only exact citation counts
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormRouteRepository(db)
	require.NoError(t, repo.Create(context.Background(), buildRoute(t, "route-1", "alice", time.Now(), "PKG-10")))
	require.NoError(t, repo.Create(context.Background(), buildRoute(t, "route-2", "bob", time.Now(), "PKG-1")))

	// Act
	routes, err := repo.ListActiveReferencing(context.Background(), "PKG-1")

	// Assert
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, "route-2", routes[0].RouteID)
}

func TestRouteRepository_SaveGeometryLeavesTheSequenceAlone(t *testing.T) {
	// Arrange - the stored sequence advanced after the entity was loaded
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormRouteRepository(db)
	route := buildRoute(t, "route-1", "alice", time.Now(), "PKG-1")
	require.NoError(t, repo.Create(context.Background(), route))

	mirrored, err := repo.ActiveForDriver(context.Background(), "alice")
	require.NoError(t, err)
	require.True(t, mirrored.UpdateParcelStatus("PKG-1", delivery.StatusDelivered))
	require.NoError(t, repo.Save(context.Background(), mirrored))

	// Act
	newGeometry := []routing.GeoPoint{{Lon: 23.35, Lat: 42.69}}
	require.NoError(t, repo.SaveGeometry(context.Background(), "route-1", newGeometry))

	// Assert
	stored, err := repo.ActiveForDriver(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, newGeometry, stored.PathGeometry)
	assert.Equal(t, delivery.StatusDelivered, stored.Sequence[1].Status)
}

func TestRouteRepository_SaveGeometryUnknownRoute(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormRouteRepository(db)

	// Act
	err := repo.SaveGeometry(context.Background(), "route-404", []routing.GeoPoint{{Lon: 23.35, Lat: 42.69}})

	// Assert
	assert.ErrorIs(t, err, assignment.ErrRouteNotFound)
}

func TestRouteRepository_DropAllCountsDeletions(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	repo := persistence.NewGormRouteRepository(db)
	require.NoError(t, repo.Create(context.Background(), buildRoute(t, "route-1", "alice", time.Now(), "PKG-1")))
	require.NoError(t, repo.Create(context.Background(), buildRoute(t, "route-2", "bob", time.Now(), "PKG-2")))

	// Act
	dropped, err := repo.DropAll(context.Background())

	// Assert
	require.NoError(t, err)
	assert.EqualValues(t, 2, dropped)
	_, err = repo.ActiveForDriver(context.Background(), "alice")
	assert.ErrorIs(t, err, assignment.ErrNoActiveRoute)
}
