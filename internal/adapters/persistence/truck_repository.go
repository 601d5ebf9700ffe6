package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/waypointhq/waypoint-go/internal/domain/delivery"
)

// GormTruckRepository implements TruckRepository using GORM
type GormTruckRepository struct {
	db *gorm.DB
}

// NewGormTruckRepository creates a new GORM truck repository
func NewGormTruckRepository(db *gorm.DB) *GormTruckRepository {
	return &GormTruckRepository{db: db}
}

// FindByPlate retrieves a truck by license plate
func (r *GormTruckRepository) FindByPlate(ctx context.Context, licensePlate string) (*delivery.Truck, error) {
	var model TruckModel
	result := dbFrom(ctx, r.db).Where("license_plate = ?", licensePlate).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", delivery.ErrUnknownTruck, licensePlate)
		}
		return nil, fmt.Errorf("failed to find truck: %w", result.Error)
	}
	return truckModelToEntity(&model), nil
}

// AvailableByCapacity returns trucks not in use, smallest first
func (r *GormTruckRepository) AvailableByCapacity(ctx context.Context) ([]*delivery.Truck, error) {
	var models []TruckModel
	result := dbFrom(ctx, r.db).
		Where("in_use = ?", false).
		Order("capacity_kg asc, license_plate asc").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list available trucks: %w", result.Error)
	}
	trucks := make([]*delivery.Truck, 0, len(models))
	for i := range models {
		trucks = append(trucks, truckModelToEntity(&models[i]))
	}
	return trucks, nil
}

// All returns every truck
func (r *GormTruckRepository) All(ctx context.Context) ([]*delivery.Truck, error) {
	var models []TruckModel
	result := dbFrom(ctx, r.db).Order("license_plate asc").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list trucks: %w", result.Error)
	}
	trucks := make([]*delivery.Truck, 0, len(models))
	for i := range models {
		trucks = append(trucks, truckModelToEntity(&models[i]))
	}
	return trucks, nil
}

// Save upserts a truck
func (r *GormTruckRepository) Save(ctx context.Context, truck *delivery.Truck) error {
	model := &TruckModel{
		LicensePlate: truck.LicensePlate,
		CapacityKg:   truck.CapacityKg,
		InUse:        truck.InUse,
	}
	result := dbFrom(ctx, r.db).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to save truck: %w", result.Error)
	}
	return nil
}

func truckModelToEntity(model *TruckModel) *delivery.Truck {
	return &delivery.Truck{
		LicensePlate: model.LicensePlate,
		CapacityKg:   model.CapacityKg,
		InUse:        model.InUse,
	}
}
