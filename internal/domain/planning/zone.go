package planning

import "github.com/waypointhq/waypoint-go/internal/domain/delivery"

// Zone is one driver's workload: a geographically coherent parcel partition
type Zone struct {
	Index          int
	DriverUsername string
	Parcels        []*delivery.Parcel
}

// WeightKg sums the zone's parcel weights
func (z *Zone) WeightKg() float64 {
	total := 0.0
	for _, p := range z.Parcels {
		total += p.WeightKg
	}
	return total
}

// Allocation pairs a zone with the truck selected to serve it
type Allocation struct {
	Zone  *Zone
	Truck *delivery.Truck
}
