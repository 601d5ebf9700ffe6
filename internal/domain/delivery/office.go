package delivery

import "github.com/waypointhq/waypoint-go/internal/domain/shared"

// Office is a company pickup point used as the fallback destination for
// undeliverable parcels
type Office struct {
	ID        uint
	Name      string
	Address   string
	CompanyID string
	Location  shared.Coordinate
}

// Driver is the projection of the identity layer this engine needs.
// The identity service owns the rows; this engine only reads them.
type Driver struct {
	Username  string
	CompanyID string
	Verified  bool
}
