package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/waypointhq/waypoint-go/internal/domain/history"
	"github.com/waypointhq/waypoint-go/internal/domain/shared"
)

// GormOfficeDeliveryRepository implements OfficeDeliveryRepository using GORM
type GormOfficeDeliveryRepository struct {
	db *gorm.DB
}

// NewGormOfficeDeliveryRepository creates a new GORM office delivery repository
func NewGormOfficeDeliveryRepository(db *gorm.DB) *GormOfficeDeliveryRepository {
	return &GormOfficeDeliveryRepository{db: db}
}

// Append inserts a drop-off record
func (r *GormOfficeDeliveryRepository) Append(ctx context.Context, d *history.OfficeDelivery) error {
	parcelIDs, err := json.Marshal(d.ParcelIDs)
	if err != nil {
		return fmt.Errorf("failed to marshal parcel ids: %w", err)
	}
	model := &OfficeDeliveryModel{
		DriverUsername: d.DriverUsername,
		OfficeID:       d.OfficeID,
		ParcelIDs:      string(parcelIDs),
		RouteID:        d.RouteID,
		Timestamp:      d.Timestamp,
	}
	result := dbFrom(ctx, r.db).Create(model)
	if result.Error != nil {
		return fmt.Errorf("failed to append office delivery: %w", result.Error)
	}
	d.ID = model.ID
	return nil
}

// ParcelIDsDroppedBy returns ids of the driver's parcels already dropped at
// any office
func (r *GormOfficeDeliveryRepository) ParcelIDsDroppedBy(ctx context.Context, driverUsername string) ([]string, error) {
	var models []OfficeDeliveryModel
	result := dbFrom(ctx, r.db).Where("driver_username = ?", driverUsername).Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list office deliveries: %w", result.Error)
	}

	seen := make(map[string]bool)
	var ids []string
	for i := range models {
		var batch []string
		if err := json.Unmarshal([]byte(models[i].ParcelIDs), &batch); err != nil {
			return nil, fmt.Errorf("failed to unmarshal parcel ids of record %d: %w", models[i].ID, err)
		}
		for _, id := range batch {
			if !seen[id] {
				seen[id] = true
				ids = append(ids, id)
			}
		}
	}
	return ids, nil
}

// ExistsFor reports whether the same batch was already recorded for the
// driver and office on the given day. Parcel sets are compared order
// insensitively.
func (r *GormOfficeDeliveryRepository) ExistsFor(ctx context.Context, driverUsername string, officeID uint, parcelIDs []string, day time.Time) (bool, error) {
	start := shared.DateOf(day)
	var models []OfficeDeliveryModel
	result := dbFrom(ctx, r.db).
		Where("driver_username = ? AND office_id = ? AND timestamp >= ? AND timestamp <= ?",
			driverUsername, officeID, start, endOfDay(day)).
		Find(&models)
	if result.Error != nil {
		return false, fmt.Errorf("failed to check office deliveries: %w", result.Error)
	}

	want := sortedCopy(parcelIDs)
	for i := range models {
		var batch []string
		if err := json.Unmarshal([]byte(models[i].ParcelIDs), &batch); err != nil {
			return false, fmt.Errorf("failed to unmarshal parcel ids of record %d: %w", models[i].ID, err)
		}
		if equalStrings(sortedCopy(batch), want) {
			return true, nil
		}
	}
	return false, nil
}

func sortedCopy(ids []string) []string {
	out := make([]string, len(ids))
	copy(out, ids)
	sort.Strings(out)
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
