package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/waypointhq/waypoint-go/internal/application/common"
	historyservices "github.com/waypointhq/waypoint-go/internal/application/history/services"
	"github.com/waypointhq/waypoint-go/internal/domain/assignment"
	"github.com/waypointhq/waypoint-go/internal/domain/delivery"
	"github.com/waypointhq/waypoint-go/internal/domain/history"
)

// JourneySupervisor owns the journey lifecycle. It is the sole writer of
// truck.in_use and route.is_active: starting a journey claims the truck and
// activates the route, finishing it releases both and materializes the day's
// history row inside the same transaction.
type JourneySupervisor struct {
	parcels      delivery.ParcelRepository
	trucks       delivery.TruckRepository
	routes       assignment.RouteRepository
	materializer *historyservices.Materializer
	tx           common.Transactor
	log          *logrus.Entry
}

// NewJourneySupervisor creates the journey lifecycle writer
func NewJourneySupervisor(
	parcels delivery.ParcelRepository,
	trucks delivery.TruckRepository,
	routes assignment.RouteRepository,
	materializer *historyservices.Materializer,
	tx common.Transactor,
	log *logrus.Logger,
) *JourneySupervisor {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &JourneySupervisor{
		parcels:      parcels,
		trucks:       trucks,
		routes:       routes,
		materializer: materializer,
		tx:           tx,
		log:          log.WithField("component", "journey-supervisor"),
	}
}

// StartJourney activates a freshly assembled route: the route row is created
// (the storage layer enforces one active route per driver), the truck is
// claimed and every pending parcel on the route moves to in_transit. All of
// it commits or none of it does.
func (s *JourneySupervisor) StartJourney(ctx context.Context, route *assignment.RouteAssignment) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		truck, err := s.trucks.FindByPlate(ctx, route.TruckPlate)
		if err != nil {
			return err
		}
		if truck.InUse {
			return delivery.ErrTruckInUse
		}

		if err := s.routes.Create(ctx, route); err != nil {
			return err
		}

		truck.InUse = true
		if err := s.trucks.Save(ctx, truck); err != nil {
			return fmt.Errorf("claiming truck %s: %w", truck.LicensePlate, err)
		}

		return s.transitionParcels(ctx, route)
	})
	if err != nil {
		return err
	}

	s.log.WithFields(logrus.Fields{
		"route":  route.RouteID,
		"driver": route.DriverUsername,
		"truck":  route.TruckPlate,
	}).Info("journey started")
	return nil
}

// FinishJourney deactivates the driver's active route, releases the truck and
// upserts the (today, driver) history row. DurationHours is caller-supplied;
// zero is recorded as zero.
func (s *JourneySupervisor) FinishJourney(ctx context.Context, driverUsername string, durationHours float64) (*history.DeliveryHistory, error) {
	var row *history.DeliveryHistory
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		// Resolve the active route directly: creation dates are truncated to
		// the day, so a finished morning route and a fresh afternoon route
		// would tie on any date ordering.
		route, err := s.routes.ActiveForDriver(ctx, driverUsername)
		if err != nil {
			if !errors.Is(err, assignment.ErrNoActiveRoute) {
				return err
			}
			// No active route: a past route means the journey was already
			// finished, which keeps the operation idempotent for retrying
			// clients; no route at all is a different failure.
			if _, byErr := s.routes.ByDriver(ctx, driverUsername); byErr != nil {
				return byErr
			}
			return assignment.ErrRouteInactive
		}

		if err := route.Deactivate(); err != nil {
			return err
		}
		if err := s.routes.Save(ctx, route); err != nil {
			return fmt.Errorf("deactivating route %s: %w", route.RouteID, err)
		}

		truck, err := s.trucks.FindByPlate(ctx, route.TruckPlate)
		if err != nil {
			return err
		}
		truck.InUse = false
		if err := s.trucks.Save(ctx, truck); err != nil {
			return fmt.Errorf("releasing truck %s: %w", truck.LicensePlate, err)
		}

		row, err = s.materializer.MaterializeForRoute(ctx, route, durationHours)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"driver":      driverUsername,
		"delivered":   row.DeliveredCount,
		"undelivered": row.UndeliveredCount,
	}).Info("journey finished")
	return row, nil
}

// transitionParcels moves every pending parcel on the route to in_transit and
// mirrors the new status into the route's own sequence.
func (s *JourneySupervisor) transitionParcels(ctx context.Context, route *assignment.RouteAssignment) error {
	parcels, err := s.parcels.FindByIDs(ctx, route.ParcelIDs())
	if err != nil {
		return fmt.Errorf("loading route parcels: %w", err)
	}

	changed := false
	for _, p := range parcels {
		if p.Status != delivery.StatusPending {
			continue
		}
		if err := p.MarkInTransit(); err != nil {
			return err
		}
		if err := s.parcels.Save(ctx, p); err != nil {
			return fmt.Errorf("saving parcel %s: %w", p.ID, err)
		}
		if route.UpdateParcelStatus(p.ID, p.Status) {
			changed = true
		}
	}
	if changed {
		return s.routes.Save(ctx, route)
	}
	return nil
}
