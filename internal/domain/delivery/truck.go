package delivery

import "github.com/waypointhq/waypoint-go/internal/domain/shared"

// Truck is a capacity-rated vehicle.
//
// Invariant: InUse is true iff a currently active route references the truck.
// Only the journey supervisor flips it, inside the same transaction that
// creates or deactivates the route.
type Truck struct {
	LicensePlate string
	CapacityKg   float64
	InUse        bool
}

// NewTruck creates an idle truck
func NewTruck(licensePlate string, capacityKg float64) (*Truck, error) {
	if licensePlate == "" {
		return nil, shared.NewValidationError("licensePlate", "required")
	}
	if capacityKg <= 0 {
		return nil, shared.NewValidationError("capacityKg", "must be positive")
	}
	return &Truck{LicensePlate: licensePlate, CapacityKg: capacityKg}, nil
}

// CanCarry reports whether the truck capacity covers the given load
func (t *Truck) CanCarry(weightKg float64) bool {
	return t.CapacityKg >= weightKg
}
