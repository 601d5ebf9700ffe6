package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waypointhq/waypoint-go/internal/application/common"
	executionCommands "github.com/waypointhq/waypoint-go/internal/application/execution/commands"
	executionQueries "github.com/waypointhq/waypoint-go/internal/application/execution/queries"
	"github.com/waypointhq/waypoint-go/internal/infrastructure/config"
)

// stubMediator records the dispatched request and answers with a canned
// response, keeping binding tests free of the application layer.
type stubMediator struct {
	got  common.Request
	resp common.Response
}

func (s *stubMediator) Send(ctx context.Context, request common.Request) (common.Response, error) {
	s.got = request
	return s.resp, nil
}

func (s *stubMediator) Register(requestType reflect.Type, handler common.RequestHandler) error {
	return nil
}

func (s *stubMediator) Use(mw common.Middleware) {}

func serveJSON(t *testing.T, m common.Mediator, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	srv := NewServer(config.ServerConfig{Mode: gin.TestMode}, config.MetricsConfig{}, m, nil, nil)
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	srv.httpSrv.Handler.ServeHTTP(rec, req)
	return rec
}

func TestRecalculateRouteBindsZeroCoordinates(t *testing.T) {
	// Arrange - 0/0 is a position on the globe, not a missing field
	stub := &stubMediator{resp: &executionCommands.RecalculateRouteResponse{}}

	// Act
	rec := serveJSON(t, stub, http.MethodPost, "/route/recalculate/",
		`{"username":"alice","currentLat":0,"currentLng":0}`)

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
	cmd, ok := stub.got.(*executionCommands.RecalculateRouteCommand)
	require.True(t, ok)
	assert.Equal(t, 0.0, cmd.Current.Lat)
	assert.Equal(t, 0.0, cmd.Current.Lon)
}

func TestRecalculateRouteRejectsAbsentCoordinates(t *testing.T) {
	// Arrange
	stub := &stubMediator{resp: &executionCommands.RecalculateRouteResponse{}}

	// Act
	rec := serveJSON(t, stub, http.MethodPost, "/route/recalculate/",
		`{"username":"alice"}`)

	// Assert
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, stub.got)
}

func TestReturnRouteBindsZeroCoordinates(t *testing.T) {
	// Arrange
	stub := &stubMediator{resp: &executionCommands.ReturnRouteResponse{}}

	// Act
	rec := serveJSON(t, stub, http.MethodPost, "/route/return/",
		`{"username":"alice","currentLat":0,"currentLng":0,"defaultLat":42.65,"defaultLng":23.38}`)

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
	cmd, ok := stub.got.(*executionCommands.ReturnRouteCommand)
	require.True(t, ok)
	assert.Equal(t, 0.0, cmd.Current.Lat)
	assert.Equal(t, 42.65, cmd.Depot.Lat)
}

func TestOptimizeOfficeRouteBindsZeroCoordinates(t *testing.T) {
	// Arrange
	stub := &stubMediator{resp: &executionQueries.OptimizeOfficeRouteResponse{}}

	// Act
	rec := serveJSON(t, stub, http.MethodPost, "/route/optimize-office/",
		`{"currentLat":0,"currentLng":0,"office_ids":[1,2]}`)

	// Assert
	assert.Equal(t, http.StatusOK, rec.Code)
	query, ok := stub.got.(*executionQueries.OptimizeOfficeRouteQuery)
	require.True(t, ok)
	assert.Equal(t, 0.0, query.Current.Lat)
	assert.Equal(t, []uint{1, 2}, query.OfficeIDs)
}
