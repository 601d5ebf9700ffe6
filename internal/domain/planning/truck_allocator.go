package planning

import (
	"github.com/waypointhq/waypoint-go/internal/domain/delivery"
)

// TruckAllocator pairs zones with the smallest sufficient trucks
type TruckAllocator struct{}

func NewTruckAllocator() *TruckAllocator {
	return &TruckAllocator{}
}

// Allocate consumes trucks greedily from the ascending-capacity list,
// assigning each zone the smallest truck that carries its weight. If any
// zone cannot be served the whole plan fails with InsufficientCapacityError
// and no assignment is returned.
func (a *TruckAllocator) Allocate(zones []*Zone, availableByCapacity []*delivery.Truck) ([]Allocation, error) {
	remaining := make([]*delivery.Truck, len(availableByCapacity))
	copy(remaining, availableByCapacity)

	allocations := make([]Allocation, 0, len(zones))
	var unservable []int

	for _, zone := range zones {
		weight := zone.WeightKg()
		// An empty zone needs no truck; fewer parcels than drivers can
		// leave one behind after rebalancing
		if weight == 0 {
			continue
		}

		assigned := -1
		for i, truck := range remaining {
			if truck.CanCarry(weight) {
				assigned = i
				break
			}
		}
		if assigned == -1 {
			unservable = append(unservable, zone.Index)
			continue
		}

		allocations = append(allocations, Allocation{Zone: zone, Truck: remaining[assigned]})
		remaining = append(remaining[:assigned], remaining[assigned+1:]...)
	}

	if len(unservable) > 0 {
		return nil, &InsufficientCapacityError{Zones: unservable}
	}
	return allocations, nil
}
