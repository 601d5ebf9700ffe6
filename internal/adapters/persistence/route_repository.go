package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/waypointhq/waypoint-go/internal/domain/assignment"
	"github.com/waypointhq/waypoint-go/internal/domain/routing"
	"github.com/waypointhq/waypoint-go/internal/domain/shared"
)

// GormRouteRepository implements RouteRepository using GORM.
//
// Visit sequences and geometries are stored as ordered JSON arrays. The
// unique index on active_driver turns a concurrent double-create into a
// duplicated-key error, reported as ErrActiveRouteExists.
type GormRouteRepository struct {
	db *gorm.DB
}

// NewGormRouteRepository creates a new GORM route repository
func NewGormRouteRepository(db *gorm.DB) *GormRouteRepository {
	return &GormRouteRepository{db: db}
}

// Create inserts a new assignment
func (r *GormRouteRepository) Create(ctx context.Context, route *assignment.RouteAssignment) error {
	model, err := routeEntityToModel(route)
	if err != nil {
		return err
	}
	result := dbFrom(ctx, r.db).Create(model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("%w: %s", assignment.ErrActiveRouteExists, route.DriverUsername)
		}
		return fmt.Errorf("failed to create route: %w", result.Error)
	}
	return nil
}

// ActiveForDriver retrieves the driver's single active assignment
func (r *GormRouteRepository) ActiveForDriver(ctx context.Context, driverUsername string) (*assignment.RouteAssignment, error) {
	var model RouteAssignmentModel
	result := dbFrom(ctx, r.db).
		Where("driver_username = ? AND is_active = ?", driverUsername, true).
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", assignment.ErrNoActiveRoute, driverUsername)
		}
		return nil, fmt.Errorf("failed to find active route: %w", result.Error)
	}
	return routeModelToEntity(&model)
}

// ByDriver retrieves the driver's most recent assignment, active or not
func (r *GormRouteRepository) ByDriver(ctx context.Context, driverUsername string) (*assignment.RouteAssignment, error) {
	var model RouteAssignmentModel
	result := dbFrom(ctx, r.db).
		Where("driver_username = ?", driverUsername).
		Order("creation_date desc").
		First(&model)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", assignment.ErrRouteNotFound, driverUsername)
		}
		return nil, fmt.Errorf("failed to find route: %w", result.Error)
	}
	return routeModelToEntity(&model)
}

// ListActiveOn returns the active routes created on a day
func (r *GormRouteRepository) ListActiveOn(ctx context.Context, day time.Time) ([]*assignment.RouteAssignment, error) {
	start := shared.DateOf(day)
	var models []RouteAssignmentModel
	result := dbFrom(ctx, r.db).
		Where("is_active = ? AND creation_date >= ? AND creation_date <= ?", true, start, endOfDay(day)).
		Order("driver_username asc").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list active routes: %w", result.Error)
	}
	return routeModelsToEntities(models)
}

// ListActiveReferencing returns active routes whose sequence cites the parcel.
// The LIKE filter narrows candidates at the store; the decoded sequence is
// the authority.
func (r *GormRouteRepository) ListActiveReferencing(ctx context.Context, parcelID string) ([]*assignment.RouteAssignment, error) {
	var models []RouteAssignmentModel
	result := dbFrom(ctx, r.db).
		Where("is_active = ? AND sequence LIKE ?", true, "%"+parcelID+"%").
		Find(&models)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list routes referencing parcel: %w", result.Error)
	}

	routes, err := routeModelsToEntities(models)
	if err != nil {
		return nil, err
	}
	matching := routes[:0]
	for _, route := range routes {
		for _, id := range route.ParcelIDs() {
			if id == parcelID {
				matching = append(matching, route)
				break
			}
		}
	}
	return matching, nil
}

// Save persists sequence, geometry and activity mutations
func (r *GormRouteRepository) Save(ctx context.Context, route *assignment.RouteAssignment) error {
	model, err := routeEntityToModel(route)
	if err != nil {
		return err
	}
	result := dbFrom(ctx, r.db).Save(model)
	if result.Error != nil {
		return fmt.Errorf("failed to save route: %w", result.Error)
	}
	return nil
}

// SaveGeometry updates the rendered path without touching the sequence
func (r *GormRouteRepository) SaveGeometry(ctx context.Context, routeID string, geometry []routing.GeoPoint) error {
	encoded, err := json.Marshal(geometry)
	if err != nil {
		return fmt.Errorf("failed to marshal geometry: %w", err)
	}
	result := dbFrom(ctx, r.db).
		Model(&RouteAssignmentModel{}).
		Where("route_id = ?", routeID).
		Update("path_geometry", string(encoded))
	if result.Error != nil {
		return fmt.Errorf("failed to save route geometry: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", assignment.ErrRouteNotFound, routeID)
	}
	return nil
}

// DropAll removes every assignment and reports how many were deleted
func (r *GormRouteRepository) DropAll(ctx context.Context) (int64, error) {
	result := dbFrom(ctx, r.db).Where("1 = 1").Delete(&RouteAssignmentModel{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to drop routes: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func routeEntityToModel(route *assignment.RouteAssignment) (*RouteAssignmentModel, error) {
	sequence, err := json.Marshal(route.Sequence)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sequence: %w", err)
	}
	geometry, err := json.Marshal(route.PathGeometry)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal geometry: %w", err)
	}

	model := &RouteAssignmentModel{
		RouteID:        route.RouteID,
		DriverUsername: route.DriverUsername,
		TruckPlate:     route.TruckPlate,
		CreationDate:   route.CreationDate,
		IsActive:       route.IsActive,
		Sequence:       string(sequence),
		PathGeometry:   string(geometry),
	}
	if route.IsActive {
		driver := route.DriverUsername
		model.ActiveDriver = &driver
	}
	return model, nil
}

func routeModelToEntity(model *RouteAssignmentModel) (*assignment.RouteAssignment, error) {
	var sequence []assignment.VisitRecord
	if err := json.Unmarshal([]byte(model.Sequence), &sequence); err != nil {
		return nil, fmt.Errorf("failed to unmarshal sequence of route %s: %w", model.RouteID, err)
	}
	var geometry []routing.GeoPoint
	if model.PathGeometry != "" {
		if err := json.Unmarshal([]byte(model.PathGeometry), &geometry); err != nil {
			return nil, fmt.Errorf("failed to unmarshal geometry of route %s: %w", model.RouteID, err)
		}
	}
	return &assignment.RouteAssignment{
		RouteID:        model.RouteID,
		DriverUsername: model.DriverUsername,
		TruckPlate:     model.TruckPlate,
		CreationDate:   model.CreationDate,
		IsActive:       model.IsActive,
		Sequence:       sequence,
		PathGeometry:   geometry,
	}, nil
}

func routeModelsToEntities(models []RouteAssignmentModel) ([]*assignment.RouteAssignment, error) {
	routes := make([]*assignment.RouteAssignment, 0, len(models))
	for i := range models {
		route, err := routeModelToEntity(&models[i])
		if err != nil {
			return nil, err
		}
		routes = append(routes, route)
	}
	return routes, nil
}
