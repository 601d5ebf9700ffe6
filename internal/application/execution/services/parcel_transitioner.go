package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/waypointhq/waypoint-go/internal/application/common"
	"github.com/waypointhq/waypoint-go/internal/domain/assignment"
	"github.com/waypointhq/waypoint-go/internal/domain/delivery"
)

// ParcelTransitioner is the sole writer of parcel lifecycle state.
//
// Every transition runs inside a per-parcel critical section and a single
// storage transaction that updates the parcel row together with the matching
// visit record in every active route citing the parcel. Events for the same
// parcel are linearized; events for different parcels on one route commute.
type ParcelTransitioner struct {
	parcels delivery.ParcelRepository
	routes  assignment.RouteRepository
	tx      common.Transactor
	locks   *keyedMutex
	log     *logrus.Entry
}

// NewParcelTransitioner creates the lifecycle writer
func NewParcelTransitioner(parcels delivery.ParcelRepository, routes assignment.RouteRepository, tx common.Transactor, log *logrus.Logger) *ParcelTransitioner {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &ParcelTransitioner{
		parcels: parcels,
		routes:  routes,
		tx:      tx,
		locks:   newKeyedMutex(),
		log:     log.WithField("component", "parcel-transitioner"),
	}
}

// MarkDelivered applies in_transit → delivered with an optional signature
func (t *ParcelTransitioner) MarkDelivered(ctx context.Context, parcelID, signature string) (*delivery.Parcel, error) {
	return t.apply(ctx, parcelID, func(p *delivery.Parcel) error {
		return p.MarkDelivered(signature)
	})
}

// MarkUndelivered applies in_transit → undelivered
func (t *ParcelTransitioner) MarkUndelivered(ctx context.Context, parcelID string) (*delivery.Parcel, error) {
	return t.apply(ctx, parcelID, func(p *delivery.Parcel) error {
		return p.MarkUndelivered()
	})
}

// DeliverAtOffice applies the office drop-off edge undelivered → delivered
func (t *ParcelTransitioner) DeliverAtOffice(ctx context.Context, parcelID string) (*delivery.Parcel, error) {
	return t.apply(ctx, parcelID, func(p *delivery.Parcel) error {
		return p.DeliverAtOffice()
	})
}

// AssignOffice records the fallback office on an undelivered parcel and
// mirrors nothing into routes (the office is not part of the visit sequence)
func (t *ParcelTransitioner) AssignOffice(ctx context.Context, parcelID string, officeID uint) error {
	unlock := t.locks.Lock(parcelID)
	defer unlock()

	return t.tx.WithinTx(ctx, func(ctx context.Context) error {
		parcel, err := t.parcels.FindByID(ctx, parcelID)
		if err != nil {
			return err
		}
		parcel.AssignOffice(officeID)
		return t.parcels.Save(ctx, parcel)
	})
}

func (t *ParcelTransitioner) apply(ctx context.Context, parcelID string, mutate func(*delivery.Parcel) error) (*delivery.Parcel, error) {
	unlock := t.locks.Lock(parcelID)
	defer unlock()

	var parcel *delivery.Parcel
	err := t.tx.WithinTx(ctx, func(ctx context.Context) error {
		p, err := t.parcels.FindByID(ctx, parcelID)
		if err != nil {
			return err
		}
		if err := mutate(p); err != nil {
			return err
		}
		if err := t.parcels.Save(ctx, p); err != nil {
			return fmt.Errorf("saving parcel %s: %w", parcelID, err)
		}

		// Mirror into every active route citing the parcel. A parcel with no
		// matching visit record is tolerated: the route predates it.
		activeRoutes, err := t.routes.ListActiveReferencing(ctx, parcelID)
		if err != nil {
			return fmt.Errorf("loading routes for parcel %s: %w", parcelID, err)
		}
		for _, route := range activeRoutes {
			if route.UpdateParcelStatus(parcelID, p.Status) {
				if err := t.routes.Save(ctx, route); err != nil {
					return fmt.Errorf("saving route %s: %w", route.RouteID, err)
				}
			}
		}

		parcel = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	t.log.WithFields(logrus.Fields{"parcel": parcelID, "status": parcel.Status}).Info("parcel transitioned")
	return parcel, nil
}
