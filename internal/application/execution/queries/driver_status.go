package queries

import (
	"context"
	"errors"
	"fmt"

	"github.com/waypointhq/waypoint-go/internal/application/common"
	"github.com/waypointhq/waypoint-go/internal/domain/assignment"
	"github.com/waypointhq/waypoint-go/internal/domain/delivery"
	"github.com/waypointhq/waypoint-go/internal/domain/shared"
)

// Driver availability states derived from route and parcel statuses
const (
	DriverAvailable      = "available"
	DriverActive         = "active"
	DriverCompletedToday = "completed_today"
)

// DriverStatusQuery asks what a driver is doing right now
type DriverStatusQuery struct {
	Username string
}

// DriverStatusResponse is the derived availability projection
type DriverStatusResponse struct {
	Status           string `json:"status"`
	RouteID          string `json:"routeID,omitempty"`
	PendingCount     int    `json:"pendingCount"`
	InTransitCount   int    `json:"inTransitCount"`
	DeliveredCount   int    `json:"deliveredCount"`
	UndeliveredCount int    `json:"undeliveredCount"`
}

// DriverStatusHandler derives availability from the route store: an active
// route means active, an inactive route created today means completed_today,
// anything else means available.
type DriverStatusHandler struct {
	routes assignment.RouteRepository
	clock  shared.Clock
}

// NewDriverStatusHandler creates the driver status handler
func NewDriverStatusHandler(routes assignment.RouteRepository, clock shared.Clock) *DriverStatusHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &DriverStatusHandler{routes: routes, clock: clock}
}

// Handle executes the driver status query
func (h *DriverStatusHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	q, ok := request.(*DriverStatusQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	route, err := h.routes.ActiveForDriver(ctx, q.Username)
	if err == nil {
		resp := &DriverStatusResponse{Status: DriverActive, RouteID: route.RouteID}
		for _, v := range route.Sequence {
			if v.IsDepot() {
				continue
			}
			switch v.Status {
			case delivery.StatusPending:
				resp.PendingCount++
			case delivery.StatusInTransit:
				resp.InTransitCount++
			case delivery.StatusDelivered:
				resp.DeliveredCount++
			case delivery.StatusUndelivered:
				resp.UndeliveredCount++
			}
		}
		return resp, nil
	}
	if !errors.Is(err, assignment.ErrNoActiveRoute) {
		return nil, err
	}

	// No active route: the latest route decides between completed_today and
	// plain availability.
	latest, err := h.routes.ByDriver(ctx, q.Username)
	if err != nil {
		if errors.Is(err, assignment.ErrRouteNotFound) {
			return &DriverStatusResponse{Status: DriverAvailable}, nil
		}
		return nil, err
	}
	if latest.CreationDate.Equal(shared.DateOf(h.clock.Now())) {
		return &DriverStatusResponse{Status: DriverCompletedToday, RouteID: latest.RouteID}, nil
	}
	return &DriverStatusResponse{Status: DriverAvailable}, nil
}
