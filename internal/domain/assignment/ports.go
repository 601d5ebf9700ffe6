package assignment

import (
	"context"
	"time"

	"github.com/waypointhq/waypoint-go/internal/domain/routing"
)

// RouteRepository is the route store.
//
// Create must fail with ErrActiveRouteExists when the driver already has an
// active route; the constraint is enforced at the database so concurrent
// creates cannot race past an application-level check.
type RouteRepository interface {
	Create(ctx context.Context, route *RouteAssignment) error

	ActiveForDriver(ctx context.Context, driverUsername string) (*RouteAssignment, error)
	ByDriver(ctx context.Context, driverUsername string) (*RouteAssignment, error)

	// ListActiveOn is the dashboard projection of routes created on a day
	ListActiveOn(ctx context.Context, day time.Time) ([]*RouteAssignment, error)

	// ListActiveReferencing returns active routes whose sequence cites the
	// parcel; used by the lifecycle writer to mirror status changes
	ListActiveReferencing(ctx context.Context, parcelID string) ([]*RouteAssignment, error)

	// Save persists sequence/geometry/active mutations of an existing route
	Save(ctx context.Context, route *RouteAssignment) error

	// SaveGeometry replaces only the rendered path. Recalculation goes
	// through here so a status mirrored into the sequence between load and
	// save is never overwritten.
	SaveGeometry(ctx context.Context, routeID string, geometry []routing.GeoPoint) error

	// DropAll removes every assignment. Destructive; callers also reset the
	// parcels the routes referenced.
	DropAll(ctx context.Context) (int64, error)
}
