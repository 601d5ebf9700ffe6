package commands

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/waypointhq/waypoint-go/internal/application/common"
	"github.com/waypointhq/waypoint-go/internal/application/execution/services"
	"github.com/waypointhq/waypoint-go/internal/domain/delivery"
)

// MarkUndeliveredCommand reports a failed delivery attempt
type MarkUndeliveredCommand struct {
	ParcelID string
}

// MarkUndeliveredResponse carries the parcel and its fallback office, if any
type MarkUndeliveredResponse struct {
	Parcel *delivery.Parcel
	Office *delivery.Office
}

// MarkUndeliveredHandler applies in_transit → undelivered and immediately
// assigns the nearest pickup office. A missing office set degrades to an
// unassigned parcel rather than a failed event.
type MarkUndeliveredHandler struct {
	transitioner *services.ParcelTransitioner
	dispatcher   *services.OfficeDispatcher
	log          *logrus.Entry
}

// NewMarkUndeliveredHandler creates the failed-delivery event handler
func NewMarkUndeliveredHandler(transitioner *services.ParcelTransitioner, dispatcher *services.OfficeDispatcher, log *logrus.Logger) *MarkUndeliveredHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &MarkUndeliveredHandler{
		transitioner: transitioner,
		dispatcher:   dispatcher,
		log:          log.WithField("component", "mark-undelivered"),
	}
}

// Handle executes the mark undelivered command
func (h *MarkUndeliveredHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*MarkUndeliveredCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	parcel, err := h.transitioner.MarkUndelivered(ctx, cmd.ParcelID)
	if err != nil {
		return nil, err
	}

	office, err := h.dispatcher.AssignNearestOffice(ctx, parcel)
	if err != nil {
		return nil, err
	}
	if office != nil {
		officeID := office.ID
		parcel.OfficeID = &officeID
	}

	return &MarkUndeliveredResponse{Parcel: parcel, Office: office}, nil
}
