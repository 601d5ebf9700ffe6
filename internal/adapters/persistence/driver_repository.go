package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/waypointhq/waypoint-go/internal/domain/delivery"
)

// GormDriverRepository implements DriverRepository using GORM
type GormDriverRepository struct {
	db *gorm.DB
}

// NewGormDriverRepository creates a new GORM driver repository
func NewGormDriverRepository(db *gorm.DB) *GormDriverRepository {
	return &GormDriverRepository{db: db}
}

// FindByUsername retrieves a driver by username
func (r *GormDriverRepository) FindByUsername(ctx context.Context, username string) (*delivery.Driver, error) {
	var model DriverModel
	result := dbFrom(ctx, r.db).Where("username = ?", username).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", delivery.ErrUnknownDriver, username)
		}
		return nil, fmt.Errorf("failed to find driver: %w", result.Error)
	}
	return &delivery.Driver{
		Username:  model.Username,
		CompanyID: model.CompanyID,
		Verified:  model.Verified,
	}, nil
}

// VerificationCounts returns total and verified driver counts
func (r *GormDriverRepository) VerificationCounts(ctx context.Context) (int64, int64, error) {
	db := dbFrom(ctx, r.db)

	var total int64
	if result := db.Model(&DriverModel{}).Count(&total); result.Error != nil {
		return 0, 0, fmt.Errorf("failed to count drivers: %w", result.Error)
	}
	var verified int64
	if result := db.Model(&DriverModel{}).Where("verified = ?", true).Count(&verified); result.Error != nil {
		return 0, 0, fmt.Errorf("failed to count verified drivers: %w", result.Error)
	}
	return total, verified, nil
}
