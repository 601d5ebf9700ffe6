package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waypointhq/waypoint-go/internal/application/planning/services"
	"github.com/waypointhq/waypoint-go/internal/domain/assignment"
	"github.com/waypointhq/waypoint-go/internal/domain/delivery"
	"github.com/waypointhq/waypoint-go/internal/domain/planning"
	"github.com/waypointhq/waypoint-go/internal/domain/routing"
	"github.com/waypointhq/waypoint-go/internal/domain/shared"
	"github.com/waypointhq/waypoint-go/test/helpers"
)

var depot = assignment.DepotSnapshot("1 Depot Way", 42.6500, 23.3800)

func testParcel(t *testing.T, id string, lat, lon float64) *delivery.Parcel {
	t.Helper()
	parcel, err := delivery.NewParcel(
		id, "addr "+id, lat, lon,
		"recipient", "", "", time.Now().UTC(), 2.0,
	)
	require.NoError(t, err)
	return parcel
}

func allocation(t *testing.T, driver string, parcels ...*delivery.Parcel) planning.Allocation {
	t.Helper()
	truck, err := delivery.NewTruck("CA-5050-AB", 50)
	require.NoError(t, err)
	return planning.Allocation{
		Zone:  &planning.Zone{Index: 0, DriverUsername: driver, Parcels: parcels},
		Truck: truck,
	}
}

func TestPlanAssembler_BuildsDepotAnchoredLoop(t *testing.T) {
	// Arrange - the engine visits input 2 before input 1
	planner := &helpers.MockTripPlanner{VisitOrder: []int{0, 2, 1}, LegDuration: 300}
	clock := shared.NewMockClock(time.Date(2026, 3, 10, 8, 0, 0, 0, time.UTC))
	assembler := services.NewPlanAssembler(planner, depot, clock, nil)

	p1 := testParcel(t, "PKG-1", 42.7000, 23.3200)
	p2 := testParcel(t, "PKG-2", 42.6800, 23.4000)

	// Act
	route, err := assembler.Assemble(context.Background(), allocation(t, "alice", p1, p2))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "alice", route.DriverUsername)
	assert.Equal(t, "CA-5050-AB", route.TruckPlate)
	assert.True(t, route.IsActive)
	assert.Equal(t, time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC), route.CreationDate)

	// depot, PKG-2, PKG-1, return leg
	require.Len(t, route.Sequence, 4)
	assert.True(t, route.Sequence[0].IsDepot())
	assert.Equal(t, "PKG-2", route.Sequence[1].Snapshot.ParcelID)
	assert.Equal(t, "PKG-1", route.Sequence[2].Snapshot.ParcelID)
	assert.True(t, route.Sequence[3].IsReturnLeg)
	assert.True(t, route.Sequence[3].IsDepot())

	// inbound durations follow the plan's visit-keyed legs
	assert.Equal(t, 0.0, route.Sequence[0].InboundDurationS)
	assert.Equal(t, 300.0, route.Sequence[1].InboundDurationS)
	assert.Equal(t, 300.0, route.Sequence[3].InboundDurationS)

	// the depot led the submitted point set
	submitted := planner.LastCall()
	require.Len(t, submitted, 3)
	assert.Equal(t, routing.GeoPoint{Lon: depot.Longitude, Lat: depot.Latitude}, submitted[0])
}

func TestPlanAssembler_SingleParcelSkipsTheEngine(t *testing.T) {
	// Arrange
	planner := &helpers.MockTripPlanner{}
	assembler := services.NewPlanAssembler(planner, depot, nil, nil)
	parcel := testParcel(t, "PKG-1", 42.7000, 23.3200)

	// Act
	route, err := assembler.Assemble(context.Background(), allocation(t, "alice", parcel))

	// Assert
	require.NoError(t, err)
	assert.Zero(t, planner.CallCount())
	require.Len(t, route.Sequence, 3)
	assert.True(t, route.Sequence[0].IsDepot())
	assert.Equal(t, "PKG-1", route.Sequence[1].Snapshot.ParcelID)
	assert.True(t, route.Sequence[2].IsReturnLeg)
}

func TestPlanAssembler_EmptyZoneYieldsNoRoute(t *testing.T) {
	// Arrange
	assembler := services.NewPlanAssembler(&helpers.MockTripPlanner{}, depot, nil, nil)

	// Act
	route, err := assembler.Assemble(context.Background(), allocation(t, "alice"))

	// Assert
	require.NoError(t, err)
	assert.Nil(t, route)
}

func TestPlanAssembler_PropagatesEngineFailures(t *testing.T) {
	// Arrange
	planner := &helpers.MockTripPlanner{Err: routing.ErrUnavailable}
	assembler := services.NewPlanAssembler(planner, depot, nil, nil)
	p1 := testParcel(t, "PKG-1", 42.7000, 23.3200)
	p2 := testParcel(t, "PKG-2", 42.6800, 23.4000)

	// Act
	_, err := assembler.Assemble(context.Background(), allocation(t, "alice", p1, p2))

	// Assert
	assert.True(t, errors.Is(err, routing.ErrUnavailable))
}
