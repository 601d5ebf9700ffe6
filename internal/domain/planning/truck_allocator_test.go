package planning_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waypointhq/waypoint-go/internal/domain/delivery"
	"github.com/waypointhq/waypoint-go/internal/domain/planning"
)

func truck(t *testing.T, plate string, capacityKg float64) *delivery.Truck {
	t.Helper()
	tr, err := delivery.NewTruck(plate, capacityKg)
	require.NoError(t, err)
	return tr
}

func zone(t *testing.T, index int, driver string, weightsKg ...float64) *planning.Zone {
	t.Helper()
	z := &planning.Zone{Index: index, DriverUsername: driver}
	for i, w := range weightsKg {
		z.Parcels = append(z.Parcels, parcelAt(t, driver+"-"+string(rune('A'+i)), 42.7, 23.3, w))
	}
	return z
}

func TestTruckAllocator_SmallestSufficientTruckWins(t *testing.T) {
	// Arrange - 30 kg and 70 kg zones against 50 kg and 200 kg trucks
	zones := []*planning.Zone{
		zone(t, 0, "alice", 10, 20),
		zone(t, 1, "bob", 30, 40),
	}
	trucks := []*delivery.Truck{
		truck(t, "CA-5050-AB", 50),
		truck(t, "CA-2000-XX", 200),
	}
	allocator := planning.NewTruckAllocator()

	// Act
	allocations, err := allocator.Allocate(zones, trucks)

	// Assert
	require.NoError(t, err)
	require.Len(t, allocations, 2)
	assert.Equal(t, "CA-5050-AB", allocations[0].Truck.LicensePlate)
	assert.Equal(t, "alice", allocations[0].Zone.DriverUsername)
	assert.Equal(t, "CA-2000-XX", allocations[1].Truck.LicensePlate)
	assert.Equal(t, "bob", allocations[1].Zone.DriverUsername)
}

func TestTruckAllocator_EachTruckServesAtMostOneZone(t *testing.T) {
	// Arrange - both zones fit the small truck, but only one can have it
	zones := []*planning.Zone{
		zone(t, 0, "alice", 10),
		zone(t, 1, "bob", 15),
	}
	trucks := []*delivery.Truck{
		truck(t, "CA-5050-AB", 50),
		truck(t, "CA-2000-XX", 200),
	}

	// Act
	allocations, err := planning.NewTruckAllocator().Allocate(zones, trucks)

	// Assert
	require.NoError(t, err)
	require.Len(t, allocations, 2)
	assert.NotEqual(t, allocations[0].Truck.LicensePlate, allocations[1].Truck.LicensePlate)
}

func TestTruckAllocator_FailsWholePlanWhenAnyZoneIsUnservable(t *testing.T) {
	// Arrange - second zone exceeds every truck
	zones := []*planning.Zone{
		zone(t, 0, "alice", 10),
		zone(t, 1, "bob", 500),
	}
	trucks := []*delivery.Truck{
		truck(t, "CA-5050-AB", 50),
		truck(t, "CA-2000-XX", 200),
	}

	// Act
	allocations, err := planning.NewTruckAllocator().Allocate(zones, trucks)

	// Assert
	var capErr *planning.InsufficientCapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, []int{1}, capErr.Zones)
	assert.Nil(t, allocations)
}

func TestTruckAllocator_ReportsEveryUnservableZone(t *testing.T) {
	// Arrange
	zones := []*planning.Zone{
		zone(t, 0, "alice", 100),
		zone(t, 1, "bob", 120),
	}
	trucks := []*delivery.Truck{
		truck(t, "CA-2020-AA", 20),
		truck(t, "CA-2020-BB", 20),
	}

	// Act
	_, err := planning.NewTruckAllocator().Allocate(zones, trucks)

	// Assert
	var capErr *planning.InsufficientCapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, []int{0, 1}, capErr.Zones)
}

func TestTruckAllocator_EmptyZonesConsumeNoTruck(t *testing.T) {
	// Arrange - an empty zone sits between two real ones, trucks are scarce
	zones := []*planning.Zone{
		zone(t, 0, "alice", 10),
		{Index: 1, DriverUsername: "bob"},
		zone(t, 2, "carol", 15),
	}
	trucks := []*delivery.Truck{
		truck(t, "CA-2020-AA", 20),
		truck(t, "CA-2020-BB", 20),
	}

	// Act
	allocations, err := planning.NewTruckAllocator().Allocate(zones, trucks)

	// Assert - both real zones get a truck, the empty one is skipped
	require.NoError(t, err)
	require.Len(t, allocations, 2)
	assert.Equal(t, "alice", allocations[0].Zone.DriverUsername)
	assert.Equal(t, "carol", allocations[1].Zone.DriverUsername)
}

func TestZone_WeightKgSumsParcels(t *testing.T) {
	z := zone(t, 0, "alice", 5, 7, 8)
	assert.InDelta(t, 20.0, z.WeightKg(), 1e-9)
}
