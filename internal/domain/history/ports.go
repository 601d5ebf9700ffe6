package history

import (
	"context"
	"time"
)

// HistoryRepository persists per-day, per-driver delivery aggregates
type HistoryRepository interface {
	// Upsert creates or replaces the row keyed (Date, DriverUsername).
	// Concurrent upserts converge to the last writer.
	Upsert(ctx context.Context, h *DeliveryHistory) error

	FindByDateAndDriver(ctx context.Context, date time.Time, driverUsername string) (*DeliveryHistory, error)
	ListSince(ctx context.Context, from time.Time) ([]*DeliveryHistory, error)
	ListByDate(ctx context.Context, date time.Time) ([]*DeliveryHistory, error)
}

// OfficeDeliveryRepository records office drop-offs
type OfficeDeliveryRepository interface {
	Append(ctx context.Context, d *OfficeDelivery) error

	// ParcelIDsDroppedBy returns ids of the driver's parcels already dropped
	// at any office, for filtering office-route suggestions
	ParcelIDsDroppedBy(ctx context.Context, driverUsername string) ([]string, error)

	// ExistsFor guards against duplicate drop-off rows for the same driver,
	// office and parcel set on one day
	ExistsFor(ctx context.Context, driverUsername string, officeID uint, parcelIDs []string, day time.Time) (bool, error)
}
