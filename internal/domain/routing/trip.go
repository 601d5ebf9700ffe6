package routing

import (
	"encoding/json"
	"fmt"
)

// GeoPoint is a (lon,lat) pair. It marshals as the two-element array the
// routing engine and the map clients exchange.
type GeoPoint struct {
	Lon float64
	Lat float64
}

func (p GeoPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{p.Lon, p.Lat})
}

func (p *GeoPoint) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("geo point: expected [lon,lat], got %d elements", len(pair))
	}
	p.Lon, p.Lat = pair[0], pair[1]
	return nil
}

// TripWaypoint is one optimized stop. InputIndex points back at the position
// the caller submitted; the engine's raw waypoint array is NOT visit-ordered,
// so the client re-keys before returning and VisitIndex here is the final
// visit position.
type TripWaypoint struct {
	InputIndex int
	VisitIndex int
	Snapped    GeoPoint
}

// TripLeg spans visit[i] → visit[i+1]; the last leg closes the loop back to
// the start when the trip is a roundtrip.
type TripLeg struct {
	DurationS float64
	DistanceM float64
	Steps     json.RawMessage
}

// TripPlan is the optimized loop over the submitted points
type TripPlan struct {
	// Waypoints in visit order (Waypoints[0] is the fixed start)
	Waypoints []TripWaypoint

	// Legs[i] is the inbound leg of Waypoints[i+1]; Legs[last] returns to start
	Legs []TripLeg

	// Geometry is the full loop polyline, passed through verbatim for
	// client-side rendering
	Geometry []GeoPoint
}

// InboundDuration returns the duration of the leg arriving at the given visit
// position (0 for the fixed start)
func (t *TripPlan) InboundDuration(visitPos int) float64 {
	if visitPos <= 0 || visitPos-1 >= len(t.Legs) {
		return 0
	}
	return t.Legs[visitPos-1].DurationS
}

// ClosingLeg returns the loop-closing leg, or nil for degenerate single-point
// trips
func (t *TripPlan) ClosingLeg() *TripLeg {
	if len(t.Legs) == 0 {
		return nil
	}
	return &t.Legs[len(t.Legs)-1]
}
