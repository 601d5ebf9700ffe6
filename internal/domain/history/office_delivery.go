package history

import "time"

// OfficeDelivery is the append-only record of a driver dropping undelivered
// parcels at an office. Parcels listed here are delivered after the drop-off.
type OfficeDelivery struct {
	ID             uint
	DriverUsername string
	OfficeID       uint
	ParcelIDs      []string
	RouteID        string
	Timestamp      time.Time
}
