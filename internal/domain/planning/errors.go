package planning

import (
	"errors"
	"fmt"
)

var (
	// ErrNoEligibleParcels means nothing is pending and due for planning
	ErrNoEligibleParcels = errors.New("no eligible parcels to plan")

	// ErrNoDrivers means the plan request named no drivers
	ErrNoDrivers = errors.New("no drivers provided")
)

// InsufficientCapacityError lists zones no available truck can serve.
// The whole plan aborts; nothing is persisted.
type InsufficientCapacityError struct {
	Zones []int
}

func (e *InsufficientCapacityError) Error() string {
	return fmt.Sprintf("no available truck with sufficient capacity for zone(s) %v", e.Zones)
}
