package osrm_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waypointhq/waypoint-go/internal/adapters/osrm"
	"github.com/waypointhq/waypoint-go/internal/domain/routing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *osrm.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return osrm.NewClient(server.URL, "driving", 5*time.Second, 100, 100, nil)
}

var testPoints = []routing.GeoPoint{
	{Lon: 23.3800, Lat: 42.6500}, // depot
	{Lon: 23.3200, Lat: 42.7000},
	{Lon: 23.4000, Lat: 42.6800},
}

// tripFixture visits the inputs in order depot → 2 → 1: waypoints stay
// input-ordered and carry waypoint_index as the visit position.
const tripFixture = `{
  "code": "Ok",
  "trips": [{
    "geometry": {"coordinates": [[23.38,42.65],[23.40,42.68],[23.32,42.70],[23.38,42.65]]},
    "legs": [
      {"duration": 300, "distance": 4000, "steps": []},
      {"duration": 450, "distance": 6000, "steps": []},
      {"duration": 500, "distance": 7000, "steps": []}
    ]
  }],
  "waypoints": [
    {"waypoint_index": 0, "trips_index": 0, "location": [23.3801, 42.6501]},
    {"waypoint_index": 2, "trips_index": 0, "location": [23.3201, 42.7001]},
    {"waypoint_index": 1, "trips_index": 0, "location": [23.4001, 42.6801]}
  ]
}`

func TestClient_Trip_ReKeysWaypointsToVisitOrder(t *testing.T) {
	// Arrange
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(tripFixture))
	})

	// Act
	plan, err := client.Trip(context.Background(), testPoints)

	// Assert
	require.NoError(t, err)
	require.Len(t, plan.Waypoints, 3)

	// Visit order is depot, input 2, input 1
	assert.Equal(t, 0, plan.Waypoints[0].InputIndex)
	assert.Equal(t, 2, plan.Waypoints[1].InputIndex)
	assert.Equal(t, 1, plan.Waypoints[2].InputIndex)
	for visitPos, wp := range plan.Waypoints {
		assert.Equal(t, visitPos, wp.VisitIndex)
	}
	assert.InDelta(t, 42.6801, plan.Waypoints[1].Snapped.Lat, 1e-9)
	assert.InDelta(t, 42.7001, plan.Waypoints[2].Snapped.Lat, 1e-9)

	// Legs stay visit-keyed; the last one closes the loop
	require.Len(t, plan.Legs, 3)
	assert.Equal(t, 450.0, plan.InboundDuration(2))
	assert.Equal(t, 500.0, plan.ClosingLeg().DurationS)

	require.Len(t, plan.Geometry, 4)
	assert.Equal(t, plan.Geometry[0], plan.Geometry[3])
}

func TestClient_Trip_BuildsRoundtripURL(t *testing.T) {
	// Arrange
	var gotPath, gotQuery string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		_, _ = w.Write([]byte(tripFixture))
	})

	// Act
	_, err := client.Trip(context.Background(), testPoints)

	// Assert
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(gotPath, "/trip/v1/driving/"), gotPath)
	assert.Contains(t, gotPath, "23.380000,42.650000;23.320000,42.700000;23.400000,42.680000")
	assert.Contains(t, gotQuery, "source=first")
	assert.Contains(t, gotQuery, "roundtrip=true")
	assert.Contains(t, gotQuery, "geometries=geojson")
}

func TestClient_Trip_SinglePointBypassesTheEngine(t *testing.T) {
	// Arrange
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	// Act
	plan, err := client.Trip(context.Background(), testPoints[:1])

	// Assert
	require.NoError(t, err)
	assert.False(t, called)
	require.Len(t, plan.Waypoints, 1)
	assert.Equal(t, testPoints[0], plan.Waypoints[0].Snapped)
	assert.Nil(t, plan.ClosingLeg())
}

func TestClient_Trip_EmptyInputFailsFast(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	_, err := client.Trip(context.Background(), nil)

	assert.ErrorIs(t, err, routing.ErrDecode)
}

func TestClient_Trip_Non200CarriesStatusAndBodySample(t *testing.T) {
	// Arrange
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"code":"InvalidQuery","message":"..."}`))
	})

	// Act
	_, err := client.Trip(context.Background(), testPoints)

	// Assert
	var statusErr *routing.NonOkStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadRequest, statusErr.StatusCode)
	assert.Contains(t, statusErr.BodySample, "InvalidQuery")
}

func TestClient_Trip_EngineCodeErrorOnNonOkCode(t *testing.T) {
	// Arrange
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code": "NoTrips", "trips": [], "waypoints": []}`))
	})

	// Act
	_, err := client.Trip(context.Background(), testPoints)

	// Assert
	var codeErr *routing.EngineCodeError
	require.ErrorAs(t, err, &codeErr)
	assert.Equal(t, "NoTrips", codeErr.Code)
}

func TestClient_Trip_MalformedBodyIsADecodeError(t *testing.T) {
	// Arrange
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"code": "Ok", "trips": "not-an-array"`))
	})

	// Act
	_, err := client.Trip(context.Background(), testPoints)

	// Assert
	assert.ErrorIs(t, err, routing.ErrDecode)
}

func TestClient_Trip_UnreachableEngineIsUnavailable(t *testing.T) {
	// Arrange - a closed server
	server := httptest.NewServer(http.NotFoundHandler())
	server.Close()
	client := osrm.NewClient(server.URL, "driving", time.Second, 100, 100, nil)

	// Act
	_, err := client.Trip(context.Background(), testPoints)

	// Assert
	assert.ErrorIs(t, err, routing.ErrUnavailable)
}
