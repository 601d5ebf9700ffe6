package commands

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/waypointhq/waypoint-go/internal/application/common"
	"github.com/waypointhq/waypoint-go/internal/application/execution/services"
	"github.com/waypointhq/waypoint-go/internal/domain/delivery"
)

// MarkDeliveredCommand reports a successful hand-over
type MarkDeliveredCommand struct {
	ParcelID       string
	Signature      string
	DriverUsername string
}

// MarkDeliveredResponse carries the transitioned parcel
type MarkDeliveredResponse struct {
	Parcel *delivery.Parcel
}

// MarkDeliveredHandler applies in_transit → delivered and notifies the
// recipient. The notification is best-effort: a failed send is logged and
// never fails the event.
type MarkDeliveredHandler struct {
	transitioner *services.ParcelTransitioner
	notifier     delivery.Notifier
	log          *logrus.Entry
}

// NewMarkDeliveredHandler creates the delivery event handler
func NewMarkDeliveredHandler(transitioner *services.ParcelTransitioner, notifier delivery.Notifier, log *logrus.Logger) *MarkDeliveredHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &MarkDeliveredHandler{
		transitioner: transitioner,
		notifier:     notifier,
		log:          log.WithField("component", "mark-delivered"),
	}
}

// Handle executes the mark delivered command
func (h *MarkDeliveredHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*MarkDeliveredCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	parcel, err := h.transitioner.MarkDelivered(ctx, cmd.ParcelID, cmd.Signature)
	if err != nil {
		return nil, err
	}

	if err := h.notifier.NotifyDelivered(ctx, parcel, cmd.DriverUsername); err != nil {
		h.log.WithError(err).WithField("parcel", parcel.ID).Warn("delivery notification failed")
	}

	return &MarkDeliveredResponse{Parcel: parcel}, nil
}
