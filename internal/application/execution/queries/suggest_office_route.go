package queries

import (
	"context"
	"fmt"

	"github.com/waypointhq/waypoint-go/internal/application/common"
	"github.com/waypointhq/waypoint-go/internal/application/execution/services"
)

// SuggestOfficeRouteQuery asks where to drop the driver's undelivered parcels
type SuggestOfficeRouteQuery struct {
	Username string
}

// SuggestOfficeRouteResponse lists office stops nearest-first
type SuggestOfficeRouteResponse struct {
	Stops []services.OfficeStop
}

// SuggestOfficeRouteHandler delegates to the office dispatcher
type SuggestOfficeRouteHandler struct {
	dispatcher *services.OfficeDispatcher
}

// NewSuggestOfficeRouteHandler creates the office route suggestion handler
func NewSuggestOfficeRouteHandler(dispatcher *services.OfficeDispatcher) *SuggestOfficeRouteHandler {
	return &SuggestOfficeRouteHandler{dispatcher: dispatcher}
}

// Handle executes the suggest office route query
func (h *SuggestOfficeRouteHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	q, ok := request.(*SuggestOfficeRouteQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	stops, err := h.dispatcher.SuggestOfficeRoute(ctx, q.Username)
	if err != nil {
		return nil, err
	}
	return &SuggestOfficeRouteResponse{Stops: stops}, nil
}
