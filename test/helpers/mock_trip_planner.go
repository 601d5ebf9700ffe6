package helpers

import (
	"context"
	"sync"

	"github.com/waypointhq/waypoint-go/internal/domain/routing"
)

// MockTripPlanner is a test double for the routing engine client. By default
// it visits points in submission order and closes the loop with fixed leg
// durations.
type MockTripPlanner struct {
	mu sync.Mutex

	// Err fails every Trip call when set
	Err error

	// LegDuration is the duration assigned to every leg (default 60 s)
	LegDuration float64

	// VisitOrder optionally remaps input indices to visit positions:
	// VisitOrder[visitPos] = inputIdx. Identity when nil.
	VisitOrder []int

	// Geometry returned on every plan
	Geometry []routing.GeoPoint

	// Calls records the point sets submitted
	Calls [][]routing.GeoPoint

	// OnTrip, when set, runs before the plan is synthesized; tests use it
	// to interleave writes between a caller's load and save
	OnTrip func(points []routing.GeoPoint)
}

// Trip synthesizes a plan without any network round-trip
func (m *MockTripPlanner) Trip(ctx context.Context, points []routing.GeoPoint) (*routing.TripPlan, error) {
	m.mu.Lock()
	recorded := make([]routing.GeoPoint, len(points))
	copy(recorded, points)
	m.Calls = append(m.Calls, recorded)
	m.mu.Unlock()

	if m.OnTrip != nil {
		m.OnTrip(recorded)
	}
	if m.Err != nil {
		return nil, m.Err
	}

	legDuration := m.LegDuration
	if legDuration == 0 {
		legDuration = 60
	}

	order := m.VisitOrder
	if order == nil {
		order = make([]int, len(points))
		for i := range points {
			order[i] = i
		}
	}

	waypoints := make([]routing.TripWaypoint, len(points))
	for visitPos, inputIdx := range order {
		waypoints[visitPos] = routing.TripWaypoint{
			InputIndex: inputIdx,
			VisitIndex: visitPos,
			Snapped:    points[inputIdx],
		}
	}

	legs := make([]routing.TripLeg, len(points))
	for i := range legs {
		legs[i] = routing.TripLeg{DurationS: legDuration, DistanceM: legDuration * 10}
	}

	geometry := m.Geometry
	if geometry == nil {
		geometry = points
	}

	return &routing.TripPlan{Waypoints: waypoints, Legs: legs, Geometry: geometry}, nil
}

// LastCall returns the most recently submitted point set
func (m *MockTripPlanner) LastCall() []routing.GeoPoint {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Calls) == 0 {
		return nil
	}
	return m.Calls[len(m.Calls)-1]
}

// CallCount returns how many trips were requested
func (m *MockTripPlanner) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
