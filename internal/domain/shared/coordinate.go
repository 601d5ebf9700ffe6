package shared

import (
	"fmt"
	"math"
)

const earthRadiusKm = 6371.0

// Coordinate is a WGS84 point value object
type Coordinate struct {
	Lat float64
	Lon float64
}

// NewCoordinate creates a validated coordinate
func NewCoordinate(lat, lon float64) (Coordinate, error) {
	if lat < -90 || lat > 90 {
		return Coordinate{}, NewValidationError("latitude", fmt.Sprintf("%.6f out of range [-90,90]", lat))
	}
	if lon < -180 || lon > 180 {
		return Coordinate{}, NewValidationError("longitude", fmt.Sprintf("%.6f out of range [-180,180]", lon))
	}
	return Coordinate{Lat: lat, Lon: lon}, nil
}

// DistanceKm returns the great-circle (haversine) distance to another point
func (c Coordinate) DistanceKm(other Coordinate) float64 {
	lat1 := c.Lat * math.Pi / 180
	lat2 := other.Lat * math.Pi / 180
	dLat := (other.Lat - c.Lat) * math.Pi / 180
	dLon := (other.Lon - c.Lon) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return earthRadiusKm * 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}

func (c Coordinate) String() string {
	return fmt.Sprintf("(%.6f,%.6f)", c.Lat, c.Lon)
}
