package osrm

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/waypointhq/waypoint-go/internal/domain/routing"
)

const (
	defaultTimeout = 20 * time.Second
	defaultProfile = "driving"
)

// Client calls the OSRM Trip service to optimize delivery loops.
//
// The trip starts at the first submitted point and returns to it
// (source=first, roundtrip=true). OSRM returns waypoints in *input* order;
// each carries waypoint_index (visit position) and trips_index. Legs live in
// trips[0].legs where legs[i] spans visit[i] → visit[i+1] and the last leg
// closes the loop. Trip re-keys to visit order before returning; callers
// never see the raw input-ordered array.
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	baseURL     string
	profile     string
	log         *logrus.Entry
}

// NewClient creates an OSRM trip client.
// A zero timeout falls back to the 20 s default; zero rate limit values fall
// back to 5 requests per second with a burst of 5.
func NewClient(baseURL, profile string, timeout time.Duration, requestsPerSecond, burst int, log *logrus.Logger) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if profile == "" {
		profile = defaultProfile
	}
	if requestsPerSecond <= 0 {
		requestsPerSecond = 5
	}
	if burst <= 0 {
		burst = 5
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Client{
		httpClient:  &http.Client{Timeout: timeout},
		rateLimiter: rate.NewLimiter(rate.Limit(requestsPerSecond), burst),
		baseURL:     strings.TrimRight(baseURL, "/"),
		profile:     profile,
		log:         log.WithField("component", "osrm"),
	}
}

type tripResponse struct {
	Code  string `json:"code"`
	Trips []struct {
		Geometry struct {
			Coordinates []routing.GeoPoint `json:"coordinates"`
		} `json:"geometry"`
		Legs []struct {
			Duration float64         `json:"duration"`
			Distance float64         `json:"distance"`
			Steps    json.RawMessage `json:"steps"`
		} `json:"legs"`
	} `json:"trips"`
	Waypoints []struct {
		WaypointIndex int       `json:"waypoint_index"`
		TripsIndex    int       `json:"trips_index"`
		Location      []float64 `json:"location"`
	} `json:"waypoints"`
}

// Trip optimizes a loop over the given points. A single-point input bypasses
// the engine and synthesizes a one-stop plan at zero duration.
func (c *Client) Trip(ctx context.Context, points []routing.GeoPoint) (*routing.TripPlan, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("%w: no points submitted", routing.ErrDecode)
	}
	if len(points) == 1 {
		return &routing.TripPlan{
			Waypoints: []routing.TripWaypoint{{InputIndex: 0, VisitIndex: 0, Snapped: points[0]}},
		}, nil
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", routing.ErrUnavailable, err)
	}

	url := c.tripURL(points)
	c.log.WithField("points", len(points)).Debug("requesting trip optimization")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", routing.ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", routing.ErrUnavailable, err)
	}

	if resp.StatusCode != http.StatusOK {
		sample := string(body)
		if len(sample) > 500 {
			sample = sample[:500]
		}
		c.log.WithField("status", resp.StatusCode).Warn("trip request returned non-200")
		return nil, &routing.NonOkStatusError{StatusCode: resp.StatusCode, BodySample: sample}
	}

	var decoded tripResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return nil, fmt.Errorf("%w: %v", routing.ErrDecode, err)
	}

	if decoded.Code != "Ok" {
		return nil, &routing.EngineCodeError{Code: decoded.Code}
	}
	if len(decoded.Trips) == 0 || len(decoded.Waypoints) == 0 {
		return nil, fmt.Errorf("%w: response carries no trips or waypoints", routing.ErrDecode)
	}

	return c.toPlan(&decoded)
}

func (c *Client) tripURL(points []routing.GeoPoint) string {
	coords := make([]string, len(points))
	for i, p := range points {
		coords[i] = fmt.Sprintf("%f,%f", p.Lon, p.Lat)
	}
	return fmt.Sprintf(
		"%s/trip/v1/%s/%s?source=first&roundtrip=true&steps=true&geometries=geojson&annotations=false&overview=full",
		c.baseURL, c.profile, strings.Join(coords, ";"),
	)
}

// toPlan re-keys the input-ordered waypoint array to visit order
func (c *Client) toPlan(resp *tripResponse) (*routing.TripPlan, error) {
	trip := resp.Trips[0]

	waypoints := make([]routing.TripWaypoint, 0, len(resp.Waypoints))
	for inputIdx, wp := range resp.Waypoints {
		snapped := routing.GeoPoint{}
		if len(wp.Location) == 2 {
			snapped = routing.GeoPoint{Lon: wp.Location[0], Lat: wp.Location[1]}
		}
		if wp.TripsIndex != 0 {
			// Split trips never happen for roundtrip=true loops; treat as
			// a malformed response rather than silently merging sub-trips.
			return nil, fmt.Errorf("%w: unexpected trips_index %d", routing.ErrDecode, wp.TripsIndex)
		}
		waypoints = append(waypoints, routing.TripWaypoint{
			InputIndex: inputIdx,
			VisitIndex: wp.WaypointIndex,
			Snapped:    snapped,
		})
	}
	sort.Slice(waypoints, func(i, j int) bool {
		return waypoints[i].VisitIndex < waypoints[j].VisitIndex
	})

	legs := make([]routing.TripLeg, len(trip.Legs))
	for i, leg := range trip.Legs {
		legs[i] = routing.TripLeg{DurationS: leg.Duration, DistanceM: leg.Distance, Steps: leg.Steps}
	}

	return &routing.TripPlan{
		Waypoints: waypoints,
		Legs:      legs,
		Geometry:  trip.Geometry.Coordinates,
	}, nil
}
