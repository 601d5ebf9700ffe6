package queries_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/waypointhq/waypoint-go/internal/adapters/persistence"
	"github.com/waypointhq/waypoint-go/internal/application/execution/queries"
	"github.com/waypointhq/waypoint-go/internal/domain/assignment"
	"github.com/waypointhq/waypoint-go/internal/domain/delivery"
	"github.com/waypointhq/waypoint-go/internal/domain/routing"
	"github.com/waypointhq/waypoint-go/internal/domain/shared"
	"github.com/waypointhq/waypoint-go/test/helpers"
)

var depot = assignment.DepotSnapshot("1 Depot Way", 42.6500, 23.3800)

func statusRoute(t *testing.T, db *gorm.DB, routeID, driver string, creation time.Time, active bool, statuses ...delivery.ParcelStatus) {
	t.Helper()
	sequence := []assignment.VisitRecord{{
		VisitOrder: 0,
		Kind:       assignment.VisitDepot,
		Snapshot:   depot,
		Snapped:    routing.GeoPoint{Lon: depot.Longitude, Lat: depot.Latitude},
	}}
	for i, status := range statuses {
		sequence = append(sequence, assignment.VisitRecord{
			VisitOrder: i + 1,
			Kind:       assignment.VisitParcel,
			Snapshot: assignment.ParcelSnapshot{
				ParcelID: "PKG-" + string(rune('1'+i)), Address: "addr",
				Latitude: 42.70, Longitude: 23.32,
				Recipient: "recipient", WeightKg: 1.0,
			},
			Snapped: routing.GeoPoint{Lon: 23.32, Lat: 42.70},
			Status:  status,
		})
	}
	sequence = append(sequence, assignment.VisitRecord{
		VisitOrder:  len(statuses) + 1,
		Kind:        assignment.VisitDepot,
		Snapshot:    depot,
		Snapped:     routing.GeoPoint{Lon: depot.Longitude, Lat: depot.Latitude},
		IsReturnLeg: true,
	})

	route, err := assignment.NewRouteAssignment(routeID, driver, "CA-5050-AB", creation, sequence, nil)
	require.NoError(t, err)
	if !active {
		require.NoError(t, route.Deactivate())
	}
	require.NoError(t, persistence.NewGormRouteRepository(db).Create(context.Background(), route))
}

func TestDriverStatusHandler_ActiveDriverWithStatusCounts(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	statusRoute(t, db, "route-1", "alice", time.Now(), true,
		delivery.StatusInTransit, delivery.StatusDelivered, delivery.StatusDelivered, delivery.StatusUndelivered)
	handler := queries.NewDriverStatusHandler(persistence.NewGormRouteRepository(db), nil)

	// Act
	response, err := handler.Handle(context.Background(), &queries.DriverStatusQuery{Username: "alice"})

	// Assert
	require.NoError(t, err)
	result := response.(*queries.DriverStatusResponse)
	assert.Equal(t, queries.DriverActive, result.Status)
	assert.Equal(t, "route-1", result.RouteID)
	assert.Equal(t, 1, result.InTransitCount)
	assert.Equal(t, 2, result.DeliveredCount)
	assert.Equal(t, 1, result.UndeliveredCount)
	assert.Equal(t, 0, result.PendingCount)
}

func TestDriverStatusHandler_CompletedToday(t *testing.T) {
	// Arrange - an inactive route created today
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(time.Date(2026, 3, 10, 19, 0, 0, 0, time.UTC))
	statusRoute(t, db, "route-1", "alice", clock.Now(), false, delivery.StatusDelivered)
	handler := queries.NewDriverStatusHandler(persistence.NewGormRouteRepository(db), clock)

	// Act
	response, err := handler.Handle(context.Background(), &queries.DriverStatusQuery{Username: "alice"})

	// Assert
	require.NoError(t, err)
	result := response.(*queries.DriverStatusResponse)
	assert.Equal(t, queries.DriverCompletedToday, result.Status)
	assert.Equal(t, "route-1", result.RouteID)
}

func TestDriverStatusHandler_YesterdaysRouteMeansAvailable(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	clock := shared.NewMockClock(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC))
	statusRoute(t, db, "route-1", "alice", clock.Now().AddDate(0, 0, -1), false, delivery.StatusDelivered)
	handler := queries.NewDriverStatusHandler(persistence.NewGormRouteRepository(db), clock)

	// Act
	response, err := handler.Handle(context.Background(), &queries.DriverStatusQuery{Username: "alice"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, queries.DriverAvailable, response.(*queries.DriverStatusResponse).Status)
}

func TestDriverStatusHandler_UnknownDriverIsAvailable(t *testing.T) {
	// Arrange
	db := helpers.NewTestDB(t)
	handler := queries.NewDriverStatusHandler(persistence.NewGormRouteRepository(db), nil)

	// Act
	response, err := handler.Handle(context.Background(), &queries.DriverStatusQuery{Username: "nobody"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, queries.DriverAvailable, response.(*queries.DriverStatusResponse).Status)
}
