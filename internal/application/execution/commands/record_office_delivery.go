package commands

import (
	"context"
	"fmt"

	"github.com/waypointhq/waypoint-go/internal/application/common"
	"github.com/waypointhq/waypoint-go/internal/application/execution/services"
	"github.com/waypointhq/waypoint-go/internal/domain/history"
)

// RecordOfficeDeliveryCommand confirms a drop-off batch at a pickup office
type RecordOfficeDeliveryCommand struct {
	DriverUsername string
	OfficeID       uint
	ParcelIDs      []string
}

// RecordOfficeDeliveryResponse carries the appended record; nil when the
// identical batch was already recorded today
type RecordOfficeDeliveryResponse struct {
	Record *history.OfficeDelivery
}

// RecordOfficeDeliveryHandler delegates to the office dispatcher
type RecordOfficeDeliveryHandler struct {
	dispatcher *services.OfficeDispatcher
}

// NewRecordOfficeDeliveryHandler creates the drop-off confirmation handler
func NewRecordOfficeDeliveryHandler(dispatcher *services.OfficeDispatcher) *RecordOfficeDeliveryHandler {
	return &RecordOfficeDeliveryHandler{dispatcher: dispatcher}
}

// Handle executes the record office delivery command
func (h *RecordOfficeDeliveryHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*RecordOfficeDeliveryCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	if len(cmd.ParcelIDs) == 0 {
		return nil, fmt.Errorf("no parcels in drop-off batch")
	}

	record, err := h.dispatcher.RecordOfficeDelivery(ctx, cmd.DriverUsername, cmd.OfficeID, cmd.ParcelIDs)
	if err != nil {
		return nil, err
	}
	return &RecordOfficeDeliveryResponse{Record: record}, nil
}
