package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/waypointhq/waypoint-go/internal/domain/delivery"
	"github.com/waypointhq/waypoint-go/internal/domain/shared"
)

// GormParcelRepository implements ParcelRepository using GORM
type GormParcelRepository struct {
	db *gorm.DB
}

// NewGormParcelRepository creates a new GORM parcel repository
func NewGormParcelRepository(db *gorm.DB) *GormParcelRepository {
	return &GormParcelRepository{db: db}
}

// FindByID retrieves a parcel by its package id
func (r *GormParcelRepository) FindByID(ctx context.Context, id string) (*delivery.Parcel, error) {
	var model ParcelModel
	result := dbFrom(ctx, r.db).Where("package_id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", delivery.ErrUnknownParcel, id)
		}
		return nil, fmt.Errorf("failed to find parcel: %w", result.Error)
	}
	return parcelModelToEntity(&model), nil
}

// FindByIDs retrieves parcels for the given package ids
func (r *GormParcelRepository) FindByIDs(ctx context.Context, ids []string) ([]*delivery.Parcel, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var models []ParcelModel
	result := dbFrom(ctx, r.db).Where("package_id IN ?", ids).Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find parcels: %w", result.Error)
	}
	parcels := make([]*delivery.Parcel, 0, len(models))
	for i := range models {
		parcels = append(parcels, parcelModelToEntity(&models[i]))
	}
	return parcels, nil
}

// PendingDueOn returns pending parcels due on or before the day. Due date
// ascending puts overdue parcels ahead of today's.
func (r *GormParcelRepository) PendingDueOn(ctx context.Context, day time.Time) ([]*delivery.Parcel, error) {
	var models []ParcelModel
	result := dbFrom(ctx, r.db).
		Where("status = ? AND due_date <= ?", string(delivery.StatusPending), endOfDay(day)).
		Order("due_date asc, package_id asc").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find eligible parcels: %w", result.Error)
	}
	parcels := make([]*delivery.Parcel, 0, len(models))
	for i := range models {
		parcels = append(parcels, parcelModelToEntity(&models[i]))
	}
	return parcels, nil
}

// ByDueDateAndStatus supports the history fallback scan
func (r *GormParcelRepository) ByDueDateAndStatus(ctx context.Context, day time.Time, status delivery.ParcelStatus) ([]*delivery.Parcel, error) {
	start := shared.DateOf(day)
	var models []ParcelModel
	result := dbFrom(ctx, r.db).
		Where("status = ? AND due_date >= ? AND due_date <= ?", string(status), start, endOfDay(day)).
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to scan parcels: %w", result.Error)
	}
	parcels := make([]*delivery.Parcel, 0, len(models))
	for i := range models {
		parcels = append(parcels, parcelModelToEntity(&models[i]))
	}
	return parcels, nil
}

// Save upserts a parcel
func (r *GormParcelRepository) Save(ctx context.Context, parcel *delivery.Parcel) error {
	result := dbFrom(ctx, r.db).Save(parcelEntityToModel(parcel))
	if result.Error != nil {
		return fmt.Errorf("failed to save parcel: %w", result.Error)
	}
	return nil
}

// ResetAllToPending returns every parcel to pending and clears office links
// and signatures. Destructive; only the administrative reset calls it.
func (r *GormParcelRepository) ResetAllToPending(ctx context.Context) error {
	result := dbFrom(ctx, r.db).Model(&ParcelModel{}).
		Where("1 = 1").
		Updates(map[string]interface{}{
			"status":    string(delivery.StatusPending),
			"office_id": nil,
			"signature": "",
		})
	if result.Error != nil {
		return fmt.Errorf("failed to reset parcels: %w", result.Error)
	}
	return nil
}

// StatusCounts aggregates parcels per status
func (r *GormParcelRepository) StatusCounts(ctx context.Context) (map[delivery.ParcelStatus]int64, error) {
	var rows []struct {
		Status string
		Count  int64
	}
	result := dbFrom(ctx, r.db).Model(&ParcelModel{}).
		Select("status, count(*) as count").
		Group("status").
		Scan(&rows)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to count parcels: %w", result.Error)
	}
	counts := make(map[delivery.ParcelStatus]int64, len(rows))
	for _, row := range rows {
		counts[delivery.ParcelStatus(row.Status)] = row.Count
	}
	return counts, nil
}

// Recent returns the most recently due parcels
func (r *GormParcelRepository) Recent(ctx context.Context, limit int) ([]*delivery.Parcel, error) {
	var models []ParcelModel
	result := dbFrom(ctx, r.db).Order("due_date desc").Limit(limit).Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list recent parcels: %w", result.Error)
	}
	parcels := make([]*delivery.Parcel, 0, len(models))
	for i := range models {
		parcels = append(parcels, parcelModelToEntity(&models[i]))
	}
	return parcels, nil
}

func parcelModelToEntity(model *ParcelModel) *delivery.Parcel {
	return &delivery.Parcel{
		ID:        model.PackageID,
		Address:   model.Address,
		Location:  shared.Coordinate{Lat: model.Latitude, Lon: model.Longitude},
		Recipient: model.Recipient,
		Phone:     model.Phone,
		Email:     model.Email,
		DueDate:   model.DueDate,
		WeightKg:  model.WeightKg,
		Status:    delivery.ParcelStatus(model.Status),
		CompanyID: model.CompanyID,
		OfficeID:  model.OfficeID,
		Signature: model.Signature,
	}
}

func parcelEntityToModel(parcel *delivery.Parcel) *ParcelModel {
	return &ParcelModel{
		PackageID: parcel.ID,
		Address:   parcel.Address,
		Latitude:  parcel.Location.Lat,
		Longitude: parcel.Location.Lon,
		Recipient: parcel.Recipient,
		Phone:     parcel.Phone,
		Email:     parcel.Email,
		DueDate:   parcel.DueDate,
		WeightKg:  parcel.WeightKg,
		Status:    string(parcel.Status),
		CompanyID: parcel.CompanyID,
		OfficeID:  parcel.OfficeID,
		Signature: parcel.Signature,
	}
}

func endOfDay(day time.Time) time.Time {
	return shared.DateOf(day).AddDate(0, 0, 1).Add(-time.Nanosecond)
}
