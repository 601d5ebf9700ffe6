package routing

import "context"

// TripPlanner optimizes a delivery loop over ordered geo-points.
// The first point is the fixed start and the trip returns to it.
//
// Implementations must re-key the engine response to visit order and must not
// return partial successes: any engine failure surfaces as a tagged error.
type TripPlanner interface {
	Trip(ctx context.Context, points []GeoPoint) (*TripPlan, error)
}
