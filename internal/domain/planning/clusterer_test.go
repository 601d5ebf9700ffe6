package planning_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waypointhq/waypoint-go/internal/domain/delivery"
	"github.com/waypointhq/waypoint-go/internal/domain/planning"
)

func parcelAt(t *testing.T, id string, lat, lon, weightKg float64) *delivery.Parcel {
	t.Helper()
	parcel, err := delivery.NewParcel(
		id, "addr "+id, lat, lon,
		"recipient", "", "", time.Now().UTC(), weightKg,
	)
	require.NoError(t, err)
	return parcel
}

func TestKMeansClusterer_OneZonePerDriverCoveringEveryParcel(t *testing.T) {
	// Arrange - two distinct neighborhoods
	var parcels []*delivery.Parcel
	for i := 0; i < 5; i++ {
		parcels = append(parcels, parcelAt(t, fmt.Sprintf("N-%d", i), 42.70+float64(i)*0.001, 23.32, 1.0))
	}
	for i := 0; i < 5; i++ {
		parcels = append(parcels, parcelAt(t, fmt.Sprintf("S-%d", i), 42.60+float64(i)*0.001, 23.40, 1.0))
	}
	clusterer := planning.NewKMeansClusterer(42)

	// Act
	zones, err := clusterer.Cluster(parcels, []string{"alice", "bob"})

	// Assert
	require.NoError(t, err)
	require.Len(t, zones, 2)
	assert.Equal(t, "alice", zones[0].DriverUsername)
	assert.Equal(t, "bob", zones[1].DriverUsername)

	seen := make(map[string]int)
	for _, zone := range zones {
		for _, p := range zone.Parcels {
			seen[p.ID]++
		}
	}
	require.Len(t, seen, len(parcels))
	for id, n := range seen {
		assert.Equalf(t, 1, n, "parcel %s assigned %d times", id, n)
	}

	// The two neighborhoods are far apart; k-means must not split either
	for _, zone := range zones {
		prefix := zone.Parcels[0].ID[:1]
		for _, p := range zone.Parcels {
			assert.Equal(t, prefix, p.ID[:1])
		}
	}
}

func TestKMeansClusterer_SingleDriverGetsEverything(t *testing.T) {
	// Arrange
	parcels := []*delivery.Parcel{
		parcelAt(t, "PKG-1", 42.70, 23.32, 1.0),
		parcelAt(t, "PKG-2", 42.60, 23.40, 1.0),
	}
	clusterer := planning.NewKMeansClusterer(42)

	// Act
	zones, err := clusterer.Cluster(parcels, []string{"alice"})

	// Assert
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.Len(t, zones[0].Parcels, 2)
}

func TestKMeansClusterer_IsDeterministicForAFixedSeed(t *testing.T) {
	// Arrange
	var parcels []*delivery.Parcel
	for i := 0; i < 12; i++ {
		parcels = append(parcels, parcelAt(t, fmt.Sprintf("PKG-%d", i), 42.60+float64(i%4)*0.05, 23.30+float64(i%3)*0.05, 1.0))
	}
	drivers := []string{"alice", "bob", "carol"}

	// Act
	first, err := planning.NewKMeansClusterer(42).Cluster(parcels, drivers)
	require.NoError(t, err)
	second, err := planning.NewKMeansClusterer(42).Cluster(parcels, drivers)
	require.NoError(t, err)

	// Assert
	for i := range first {
		require.Len(t, second[i].Parcels, len(first[i].Parcels))
		for j := range first[i].Parcels {
			assert.Equal(t, first[i].Parcels[j].ID, second[i].Parcels[j].ID)
		}
	}
}

func TestKMeansClusterer_RebalancesEmptyZones(t *testing.T) {
	// Arrange - three coincident parcels for three drivers collapse into one
	// cluster; rebalancing must still give every driver work
	parcels := []*delivery.Parcel{
		parcelAt(t, "PKG-1", 42.70, 23.32, 1.0),
		parcelAt(t, "PKG-2", 42.70, 23.32, 1.0),
		parcelAt(t, "PKG-3", 42.70, 23.32, 1.0),
	}
	clusterer := planning.NewKMeansClusterer(42)

	// Act
	zones, err := clusterer.Cluster(parcels, []string{"alice", "bob", "carol"})

	// Assert
	require.NoError(t, err)
	require.Len(t, zones, 3)
	total := 0
	for _, zone := range zones {
		assert.NotEmpty(t, zone.Parcels)
		total += len(zone.Parcels)
	}
	assert.Equal(t, 3, total)
}

func TestKMeansClusterer_ErrorsOnEmptyInput(t *testing.T) {
	clusterer := planning.NewKMeansClusterer(42)

	_, err := clusterer.Cluster(nil, []string{"alice"})
	assert.ErrorIs(t, err, planning.ErrNoEligibleParcels)

	_, err = clusterer.Cluster([]*delivery.Parcel{parcelAt(t, "PKG-1", 42.7, 23.3, 1.0)}, nil)
	assert.ErrorIs(t, err, planning.ErrNoDrivers)
}
