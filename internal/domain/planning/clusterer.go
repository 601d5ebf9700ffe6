package planning

import (
	"math"
	"math/rand"

	"github.com/waypointhq/waypoint-go/internal/domain/delivery"
)

// Clusterer partitions parcels into exactly one zone per driver
type Clusterer interface {
	Cluster(parcels []*delivery.Parcel, driverUsernames []string) ([]*Zone, error)
}

// KMeansClusterer partitions by geographic proximity with Lloyd's algorithm
// over (lat,lon). The seed is fixed in configuration so plans are
// reproducible; nInit restarts keep a degenerate initialization from
// dominating.
type KMeansClusterer struct {
	seed    int64
	nInit   int
	maxIter int
}

// NewKMeansClusterer creates a clusterer with the given partitioning seed
func NewKMeansClusterer(seed int64) *KMeansClusterer {
	return &KMeansClusterer{seed: seed, nInit: 10, maxIter: 100}
}

// Cluster produces len(driverUsernames) zones covering every parcel exactly
// once, in driver order. Zones left empty by k-means are fed one parcel each
// from the most-loaded donor zone so every driver gets a workload.
func (c *KMeansClusterer) Cluster(parcels []*delivery.Parcel, driverUsernames []string) ([]*Zone, error) {
	if len(parcels) == 0 {
		return nil, ErrNoEligibleParcels
	}
	if len(driverUsernames) == 0 {
		return nil, ErrNoDrivers
	}

	k := len(driverUsernames)
	zones := make([]*Zone, k)
	for i := range zones {
		zones[i] = &Zone{Index: i, DriverUsername: driverUsernames[i]}
	}

	if k == 1 {
		zones[0].Parcels = parcels
		return zones, nil
	}

	labels := c.fit(parcels, k)
	for i, p := range parcels {
		z := zones[labels[i]]
		z.Parcels = append(z.Parcels, p)
	}

	rebalance(zones)
	return zones, nil
}

// fit runs nInit seeded k-means restarts and keeps the lowest-inertia labeling
func (c *KMeansClusterer) fit(parcels []*delivery.Parcel, k int) []int {
	rng := rand.New(rand.NewSource(c.seed))

	bestInertia := math.Inf(1)
	var bestLabels []int

	for run := 0; run < c.nInit; run++ {
		labels, inertia := c.run(parcels, k, rng)
		if inertia < bestInertia {
			bestInertia = inertia
			bestLabels = labels
		}
	}
	return bestLabels
}

func (c *KMeansClusterer) run(parcels []*delivery.Parcel, k int, rng *rand.Rand) ([]int, float64) {
	// Initialize centroids on distinct parcels
	perm := rng.Perm(len(parcels))
	centroids := make([][2]float64, k)
	for i := 0; i < k; i++ {
		p := parcels[perm[i%len(perm)]]
		centroids[i] = [2]float64{p.Location.Lat, p.Location.Lon}
	}

	labels := make([]int, len(parcels))
	for iter := 0; iter < c.maxIter; iter++ {
		changed := false
		for i, p := range parcels {
			best := nearestCentroid(p, centroids)
			if labels[i] != best {
				labels[i] = best
				changed = true
			}
		}

		// Recompute centroids; empty clusters keep their previous position
		sums := make([][2]float64, k)
		counts := make([]int, k)
		for i, p := range parcels {
			sums[labels[i]][0] += p.Location.Lat
			sums[labels[i]][1] += p.Location.Lon
			counts[labels[i]]++
		}
		for j := 0; j < k; j++ {
			if counts[j] > 0 {
				centroids[j] = [2]float64{sums[j][0] / float64(counts[j]), sums[j][1] / float64(counts[j])}
			}
		}

		if !changed {
			break
		}
	}

	inertia := 0.0
	for i, p := range parcels {
		inertia += sqDist(p, centroids[labels[i]])
	}
	return labels, inertia
}

func nearestCentroid(p *delivery.Parcel, centroids [][2]float64) int {
	best, bestDist := 0, math.Inf(1)
	for j, c := range centroids {
		if d := sqDist(p, c); d < bestDist {
			best, bestDist = j, d
		}
	}
	return best
}

func sqDist(p *delivery.Parcel, c [2]float64) float64 {
	dLat := p.Location.Lat - c[0]
	dLon := p.Location.Lon - c[1]
	return dLat*dLat + dLon*dLon
}

// rebalance moves one parcel at a time from the most-loaded donor zone into
// each empty zone. Stops when no zone is empty or no donor holds two or more
// parcels. Deterministic given the post-clustering assignment.
func rebalance(zones []*Zone) {
	for {
		var empty *Zone
		for _, z := range zones {
			if len(z.Parcels) == 0 {
				empty = z
				break
			}
		}
		if empty == nil {
			return
		}

		var donor *Zone
		for _, z := range zones {
			if len(z.Parcels) >= 2 && (donor == nil || len(z.Parcels) > len(donor.Parcels)) {
				donor = z
			}
		}
		if donor == nil {
			return
		}

		moved := donor.Parcels[len(donor.Parcels)-1]
		donor.Parcels = donor.Parcels[:len(donor.Parcels)-1]
		empty.Parcels = append(empty.Parcels, moved)
	}
}
