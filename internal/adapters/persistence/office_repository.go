package persistence

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/waypointhq/waypoint-go/internal/domain/delivery"
	"github.com/waypointhq/waypoint-go/internal/domain/shared"
)

// GormOfficeRepository implements OfficeRepository using GORM
type GormOfficeRepository struct {
	db *gorm.DB
}

// NewGormOfficeRepository creates a new GORM office repository
func NewGormOfficeRepository(db *gorm.DB) *GormOfficeRepository {
	return &GormOfficeRepository{db: db}
}

// FindByID retrieves an office by id
func (r *GormOfficeRepository) FindByID(ctx context.Context, id uint) (*delivery.Office, error) {
	var model OfficeModel
	result := dbFrom(ctx, r.db).Where("id = ?", id).First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %d", delivery.ErrUnknownOffice, id)
		}
		return nil, fmt.Errorf("failed to find office: %w", result.Error)
	}
	return officeModelToEntity(&model), nil
}

// FindByIDs retrieves offices for the given ids, ordered by id ascending
func (r *GormOfficeRepository) FindByIDs(ctx context.Context, ids []uint) ([]*delivery.Office, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var models []OfficeModel
	result := dbFrom(ctx, r.db).Where("id IN ?", ids).Order("id asc").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to find offices: %w", result.Error)
	}
	offices := make([]*delivery.Office, 0, len(models))
	for i := range models {
		offices = append(offices, officeModelToEntity(&models[i]))
	}
	return offices, nil
}

// ByCompany returns the company's offices ordered by id ascending
func (r *GormOfficeRepository) ByCompany(ctx context.Context, companyID string) ([]*delivery.Office, error) {
	var models []OfficeModel
	result := dbFrom(ctx, r.db).Where("company_id = ?", companyID).Order("id asc").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list company offices: %w", result.Error)
	}
	offices := make([]*delivery.Office, 0, len(models))
	for i := range models {
		offices = append(offices, officeModelToEntity(&models[i]))
	}
	return offices, nil
}

// All returns every office ordered by id ascending
func (r *GormOfficeRepository) All(ctx context.Context) ([]*delivery.Office, error) {
	var models []OfficeModel
	result := dbFrom(ctx, r.db).Order("id asc").Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list offices: %w", result.Error)
	}
	offices := make([]*delivery.Office, 0, len(models))
	for i := range models {
		offices = append(offices, officeModelToEntity(&models[i]))
	}
	return offices, nil
}

func officeModelToEntity(model *OfficeModel) *delivery.Office {
	return &delivery.Office{
		ID:        model.ID,
		Name:      model.Name,
		Address:   model.Address,
		CompanyID: model.CompanyID,
		Location:  shared.Coordinate{Lat: model.Latitude, Lon: model.Longitude},
	}
}
