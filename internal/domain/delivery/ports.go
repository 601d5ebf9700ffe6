package delivery

import (
	"context"
	"time"
)

// ParcelRepository persists parcels
type ParcelRepository interface {
	FindByID(ctx context.Context, id string) (*Parcel, error)
	FindByIDs(ctx context.Context, ids []string) ([]*Parcel, error)

	// PendingDueOn returns pending parcels with due date on or before the
	// given day, overdue parcels first, then by due date ascending
	PendingDueOn(ctx context.Context, day time.Time) ([]*Parcel, error)

	// ByDueDateAndStatus supports the history fallback scan
	ByDueDateAndStatus(ctx context.Context, day time.Time, status ParcelStatus) ([]*Parcel, error)

	Save(ctx context.Context, parcel *Parcel) error

	// ResetAllToPending is destructive; used only by the administrative
	// drop-all operation
	ResetAllToPending(ctx context.Context) error

	StatusCounts(ctx context.Context) (map[ParcelStatus]int64, error)
	Recent(ctx context.Context, limit int) ([]*Parcel, error)
}

// TruckRepository persists trucks
type TruckRepository interface {
	FindByPlate(ctx context.Context, licensePlate string) (*Truck, error)

	// AvailableByCapacity returns trucks not in use, capacity ascending
	AvailableByCapacity(ctx context.Context) ([]*Truck, error)

	All(ctx context.Context) ([]*Truck, error)
	Save(ctx context.Context, truck *Truck) error
}

// OfficeRepository reads offices (rows are owned by external CRUD)
type OfficeRepository interface {
	FindByID(ctx context.Context, id uint) (*Office, error)
	FindByIDs(ctx context.Context, ids []uint) ([]*Office, error)

	// ByCompany returns the company's offices ordered by id ascending
	ByCompany(ctx context.Context, companyID string) ([]*Office, error)

	// All returns every office ordered by id ascending (global fallback)
	All(ctx context.Context) ([]*Office, error)
}

// DriverRepository reads drivers (rows are owned by the identity layer)
type DriverRepository interface {
	FindByUsername(ctx context.Context, username string) (*Driver, error)
	VerificationCounts(ctx context.Context) (total, verified int64, err error)
}

// Notifier delivers recipient notifications. Implementations are best-effort:
// callers log failures and never propagate them.
type Notifier interface {
	NotifyDelivered(ctx context.Context, parcel *Parcel, driverUsername string) error
	NotifyOfficeFallback(ctx context.Context, parcel *Parcel, office *Office, driverUsername string) error
}
