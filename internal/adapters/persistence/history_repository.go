package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/waypointhq/waypoint-go/internal/domain/history"
	"github.com/waypointhq/waypoint-go/internal/domain/shared"
)

// GormHistoryRepository implements HistoryRepository using GORM
type GormHistoryRepository struct {
	db *gorm.DB
}

// NewGormHistoryRepository creates a new GORM history repository
func NewGormHistoryRepository(db *gorm.DB) *GormHistoryRepository {
	return &GormHistoryRepository{db: db}
}

// Upsert creates or replaces the row keyed (date, driver). The conflict
// clause makes concurrent upserts converge to the last writer.
func (r *GormHistoryRepository) Upsert(ctx context.Context, h *history.DeliveryHistory) error {
	model := &DeliveryHistoryModel{
		Date:             shared.DateOf(h.Date),
		DriverUsername:   h.DriverUsername,
		TruckPlate:       h.TruckPlate,
		DeliveredCount:   h.DeliveredCount,
		DeliveredKilos:   h.DeliveredKilos,
		UndeliveredCount: h.UndeliveredCount,
		UndeliveredKilos: h.UndeliveredKilos,
		DurationHours:    h.DurationHours,
		RouteID:          h.RouteID,
	}
	result := dbFrom(ctx, r.db).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "date"}, {Name: "driver_username"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"truck_plate", "delivered_count", "delivered_kilos",
			"undelivered_count", "undelivered_kilos", "duration_hours", "route_id",
		}),
	}).Create(model)
	if result.Error != nil {
		return fmt.Errorf("failed to upsert history: %w", result.Error)
	}
	return nil
}

// FindByDateAndDriver retrieves one driver's aggregate for a day
func (r *GormHistoryRepository) FindByDateAndDriver(ctx context.Context, date time.Time, driverUsername string) (*history.DeliveryHistory, error) {
	var model DeliveryHistoryModel
	result := dbFrom(ctx, r.db).
		Where("date = ? AND driver_username = ?", shared.DateOf(date), driverUsername).
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("no history for %s on %s", driverUsername, shared.DateOf(date).Format("2006-01-02"))
		}
		return nil, fmt.Errorf("failed to find history: %w", result.Error)
	}
	return historyModelToEntity(&model), nil
}

// ListSince returns rows on or after the given day, newest first
func (r *GormHistoryRepository) ListSince(ctx context.Context, from time.Time) ([]*history.DeliveryHistory, error) {
	var models []DeliveryHistoryModel
	result := dbFrom(ctx, r.db).
		Where("date >= ?", shared.DateOf(from)).
		Order("date desc, driver_username asc").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list history: %w", result.Error)
	}
	rows := make([]*history.DeliveryHistory, 0, len(models))
	for i := range models {
		rows = append(rows, historyModelToEntity(&models[i]))
	}
	return rows, nil
}

// ListByDate returns every driver's row for one day
func (r *GormHistoryRepository) ListByDate(ctx context.Context, date time.Time) ([]*history.DeliveryHistory, error) {
	var models []DeliveryHistoryModel
	result := dbFrom(ctx, r.db).
		Where("date = ?", shared.DateOf(date)).
		Order("driver_username asc").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list history by date: %w", result.Error)
	}
	rows := make([]*history.DeliveryHistory, 0, len(models))
	for i := range models {
		rows = append(rows, historyModelToEntity(&models[i]))
	}
	return rows, nil
}

func historyModelToEntity(model *DeliveryHistoryModel) *history.DeliveryHistory {
	return &history.DeliveryHistory{
		Date:             model.Date,
		DriverUsername:   model.DriverUsername,
		TruckPlate:       model.TruckPlate,
		DeliveredCount:   model.DeliveredCount,
		DeliveredKilos:   model.DeliveredKilos,
		UndeliveredCount: model.UndeliveredCount,
		UndeliveredKilos: model.UndeliveredKilos,
		DurationHours:    model.DurationHours,
		RouteID:          model.RouteID,
	}
}
