package helpers

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/waypointhq/waypoint-go/internal/adapters/persistence"
	"github.com/waypointhq/waypoint-go/internal/domain/delivery"
	"github.com/waypointhq/waypoint-go/internal/domain/shared"
)

// ParcelFixture builds a pending parcel due today
func ParcelFixture(t *testing.T, id string, lat, lon, weightKg float64) *delivery.Parcel {
	t.Helper()
	parcel, err := delivery.NewParcel(
		id, "1 Test Street", lat, lon,
		"Recipient "+id, "+1-555-0100", id+"@example.com",
		time.Now().UTC(), weightKg,
	)
	require.NoError(t, err)
	return parcel
}

// SeedParcel persists a parcel fixture
func SeedParcel(t *testing.T, db *gorm.DB, parcel *delivery.Parcel) {
	t.Helper()
	repo := persistence.NewGormParcelRepository(db)
	require.NoError(t, repo.Save(context.Background(), parcel))
}

// SeedTruck persists an idle truck
func SeedTruck(t *testing.T, db *gorm.DB, plate string, capacityKg float64) *delivery.Truck {
	t.Helper()
	truck, err := delivery.NewTruck(plate, capacityKg)
	require.NoError(t, err)
	repo := persistence.NewGormTruckRepository(db)
	require.NoError(t, repo.Save(context.Background(), truck))
	return truck
}

// SeedDriver persists a driver row directly; the engine never writes drivers
func SeedDriver(t *testing.T, db *gorm.DB, username string, verified bool) {
	t.Helper()
	require.NoError(t, db.Create(&persistence.DriverModel{
		Username: username,
		Verified: verified,
	}).Error)
}

// SeedOffice persists an office row directly; the engine never writes offices
func SeedOffice(t *testing.T, db *gorm.DB, id uint, name, companyID string, lat, lon float64) *delivery.Office {
	t.Helper()
	require.NoError(t, db.Create(&persistence.OfficeModel{
		ID:        id,
		Name:      name,
		Address:   name + " Address",
		CompanyID: companyID,
		Latitude:  lat,
		Longitude: lon,
	}).Error)
	return &delivery.Office{
		ID:        id,
		Name:      name,
		Address:   name + " Address",
		CompanyID: companyID,
		Location:  shared.Coordinate{Lat: lat, Lon: lon},
	}
}
