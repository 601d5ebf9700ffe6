package commands

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/waypointhq/waypoint-go/internal/application/common"
	"github.com/waypointhq/waypoint-go/internal/domain/assignment"
	"github.com/waypointhq/waypoint-go/internal/domain/delivery"
)

// DropRoutesCommand wipes every route assignment. Administrative and
// destructive: parcels return to pending and trucks are released.
type DropRoutesCommand struct{}

// DropRoutesResponse reports how many assignments were removed
type DropRoutesResponse struct {
	Dropped int64
}

// DropRoutesHandler resets the execution state in one transaction
type DropRoutesHandler struct {
	routes  assignment.RouteRepository
	parcels delivery.ParcelRepository
	trucks  delivery.TruckRepository
	tx      common.Transactor
	log     *logrus.Entry
}

// NewDropRoutesHandler creates the administrative reset handler
func NewDropRoutesHandler(
	routes assignment.RouteRepository,
	parcels delivery.ParcelRepository,
	trucks delivery.TruckRepository,
	tx common.Transactor,
	log *logrus.Logger,
) *DropRoutesHandler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &DropRoutesHandler{
		routes:  routes,
		parcels: parcels,
		trucks:  trucks,
		tx:      tx,
		log:     log.WithField("component", "drop-routes"),
	}
}

// Handle executes the drop routes command
func (h *DropRoutesHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	if _, ok := request.(*DropRoutesCommand); !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	var dropped int64
	err := h.tx.WithinTx(ctx, func(ctx context.Context) error {
		n, err := h.routes.DropAll(ctx)
		if err != nil {
			return err
		}
		dropped = n

		if err := h.parcels.ResetAllToPending(ctx); err != nil {
			return err
		}

		trucks, err := h.trucks.All(ctx)
		if err != nil {
			return err
		}
		for _, truck := range trucks {
			if !truck.InUse {
				continue
			}
			truck.InUse = false
			if err := h.trucks.Save(ctx, truck); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	h.log.WithField("dropped", dropped).Warn("all route assignments dropped")
	return &DropRoutesResponse{Dropped: dropped}, nil
}
