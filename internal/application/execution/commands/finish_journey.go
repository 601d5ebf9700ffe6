package commands

import (
	"context"
	"fmt"

	"github.com/waypointhq/waypoint-go/internal/application/common"
	"github.com/waypointhq/waypoint-go/internal/application/execution/services"
	"github.com/waypointhq/waypoint-go/internal/domain/history"
)

// FinishJourneyCommand closes the driver's active route
type FinishJourneyCommand struct {
	DriverUsername string
	DurationHours  float64
}

// FinishJourneyResponse carries the materialized day aggregate
type FinishJourneyResponse struct {
	History *history.DeliveryHistory
}

// FinishJourneyHandler delegates to the journey supervisor
type FinishJourneyHandler struct {
	supervisor *services.JourneySupervisor
}

// NewFinishJourneyHandler creates the finish journey handler
func NewFinishJourneyHandler(supervisor *services.JourneySupervisor) *FinishJourneyHandler {
	return &FinishJourneyHandler{supervisor: supervisor}
}

// Handle executes the finish journey command
func (h *FinishJourneyHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*FinishJourneyCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	row, err := h.supervisor.FinishJourney(ctx, cmd.DriverUsername, cmd.DurationHours)
	if err != nil {
		return nil, err
	}
	return &FinishJourneyResponse{History: row}, nil
}
