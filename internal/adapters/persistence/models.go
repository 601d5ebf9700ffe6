package persistence

import (
	"time"
)

// ParcelModel represents the parcels table
type ParcelModel struct {
	PackageID string    `gorm:"column:package_id;primaryKey"`
	Address   string    `gorm:"column:address;not null"`
	Latitude  float64   `gorm:"column:latitude;not null"`
	Longitude float64   `gorm:"column:longitude;not null"`
	Recipient string    `gorm:"column:recipient;not null"`
	Phone     string    `gorm:"column:phone"`
	Email     string    `gorm:"column:email"`
	DueDate   time.Time `gorm:"column:due_date;not null;index"`
	WeightKg  float64   `gorm:"column:weight_kg;not null"`
	Status    string    `gorm:"column:status;not null;index"`
	CompanyID string    `gorm:"column:company_id;index"`
	OfficeID  *uint     `gorm:"column:office_id"`
	Signature string    `gorm:"column:signature;type:text"`
}

func (ParcelModel) TableName() string {
	return "parcels"
}

// TruckModel represents the trucks table
type TruckModel struct {
	LicensePlate string  `gorm:"column:license_plate;primaryKey"`
	CapacityKg   float64 `gorm:"column:capacity_kg;not null"`
	InUse        bool    `gorm:"column:in_use;not null;default:false"`
}

func (TruckModel) TableName() string {
	return "trucks"
}

// OfficeModel represents the offices table
type OfficeModel struct {
	ID        uint    `gorm:"column:id;primaryKey;autoIncrement"`
	Name      string  `gorm:"column:name;not null"`
	Address   string  `gorm:"column:address"`
	CompanyID string  `gorm:"column:company_id;index"`
	Latitude  float64 `gorm:"column:latitude;not null"`
	Longitude float64 `gorm:"column:longitude;not null"`
}

func (OfficeModel) TableName() string {
	return "offices"
}

// DriverModel represents the drivers table
type DriverModel struct {
	Username  string `gorm:"column:username;primaryKey"`
	CompanyID string `gorm:"column:company_id;index"`
	Verified  bool   `gorm:"column:verified;not null;default:false"`
}

func (DriverModel) TableName() string {
	return "drivers"
}

// RouteAssignmentModel represents the route_assignments table.
// ActiveDriver mirrors DriverUsername while the route is active and is NULL
// otherwise; its unique index is what enforces one active route per driver
// at the database, so concurrent creates cannot race past an application
// check.
type RouteAssignmentModel struct {
	RouteID        string    `gorm:"column:route_id;primaryKey"`
	DriverUsername string    `gorm:"column:driver_username;not null;index"`
	TruckPlate     string    `gorm:"column:truck_plate;not null"`
	CreationDate   time.Time `gorm:"column:creation_date;not null;index"`
	IsActive       bool      `gorm:"column:is_active;not null;index"`
	ActiveDriver   *string   `gorm:"column:active_driver;uniqueIndex"`
	Sequence       string    `gorm:"column:sequence;type:text;not null"`
	PathGeometry   string    `gorm:"column:path_geometry;type:text"`
}

func (RouteAssignmentModel) TableName() string {
	return "route_assignments"
}

// DeliveryHistoryModel represents the delivery_histories table
type DeliveryHistoryModel struct {
	ID               uint      `gorm:"column:id;primaryKey;autoIncrement"`
	Date             time.Time `gorm:"column:date;not null;uniqueIndex:idx_history_date_driver"`
	DriverUsername   string    `gorm:"column:driver_username;not null;uniqueIndex:idx_history_date_driver"`
	TruckPlate       string    `gorm:"column:truck_plate"`
	DeliveredCount   int       `gorm:"column:delivered_count;not null;default:0"`
	DeliveredKilos   float64   `gorm:"column:delivered_kilos;not null;default:0"`
	UndeliveredCount int       `gorm:"column:undelivered_count;not null;default:0"`
	UndeliveredKilos float64   `gorm:"column:undelivered_kilos;not null;default:0"`
	DurationHours    float64   `gorm:"column:duration_hours;not null;default:0"`
	RouteID          string    `gorm:"column:route_id"`
}

func (DeliveryHistoryModel) TableName() string {
	return "delivery_histories"
}

// OfficeDeliveryModel represents the office_deliveries table (append-only)
type OfficeDeliveryModel struct {
	ID             uint      `gorm:"column:id;primaryKey;autoIncrement"`
	DriverUsername string    `gorm:"column:driver_username;not null;index"`
	OfficeID       uint      `gorm:"column:office_id;not null"`
	ParcelIDs      string    `gorm:"column:parcel_ids;type:text;not null"`
	RouteID        string    `gorm:"column:route_id"`
	Timestamp      time.Time `gorm:"column:timestamp;not null;index"`
}

func (OfficeDeliveryModel) TableName() string {
	return "office_deliveries"
}
