package assignment

import "errors"

var (
	// ErrActiveRouteExists rejects creating a second active route for a driver
	ErrActiveRouteExists = errors.New("driver already has an active route")

	// ErrRouteInactive reports a repeated terminal transition
	ErrRouteInactive = errors.New("route is already inactive")

	// ErrNoActiveRoute reports a driver without an in-flight route
	ErrNoActiveRoute = errors.New("no active route for driver")

	// ErrRouteNotFound reports a driver with no route assignment at all
	ErrRouteNotFound = errors.New("no route assignment for driver")
)
