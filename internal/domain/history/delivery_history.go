package history

import (
	"time"

	"github.com/waypointhq/waypoint-go/internal/domain/shared"
)

// DeliveryHistory is the per-day, per-driver end-of-route aggregate.
//
// Invariant: unique per (Date, DriverUsername); repeated finishes of the same
// day upsert rather than duplicate.
type DeliveryHistory struct {
	Date             time.Time
	DriverUsername   string
	TruckPlate       string
	DeliveredCount   int
	DeliveredKilos   float64
	UndeliveredCount int
	UndeliveredKilos float64
	DurationHours    float64
	RouteID          string
}

// NewDeliveryHistory creates an aggregate row keyed to the calendar date
func NewDeliveryHistory(date time.Time, driverUsername string) *DeliveryHistory {
	return &DeliveryHistory{
		Date:           shared.DateOf(date),
		DriverUsername: driverUsername,
	}
}

// DaySummary is the dashboard projection of one day across all drivers
type DaySummary struct {
	Date             time.Time
	DeliveredCount   int
	DeliveredKilos   float64
	UndeliveredCount int
	UndeliveredKilos float64
	TruckCount       int
	DurationHours    float64
	Drivers          []string
}
