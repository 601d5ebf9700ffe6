package services

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/waypointhq/waypoint-go/internal/domain/assignment"
	"github.com/waypointhq/waypoint-go/internal/domain/delivery"
	"github.com/waypointhq/waypoint-go/internal/domain/history"
	"github.com/waypointhq/waypoint-go/internal/domain/shared"
)

// Materializer produces the end-of-day aggregate for a finished route.
//
// Aggregates are functions of the parcels the route's sequence cites (depot
// excluded) and the row is upserted on (date, driver), so finishing twice on
// one day converges instead of duplicating.
type Materializer struct {
	parcels   delivery.ParcelRepository
	histories history.HistoryRepository
	clock     shared.Clock
	log       *logrus.Entry
}

// NewMaterializer creates a history materializer
func NewMaterializer(parcels delivery.ParcelRepository, histories history.HistoryRepository, clock shared.Clock, log *logrus.Logger) *Materializer {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Materializer{
		parcels:   parcels,
		histories: histories,
		clock:     clock,
		log:       log.WithField("component", "history-materializer"),
	}
}

// MaterializeForRoute upserts the (today, driver) history row from the
// current statuses of the route's parcels. Duration is caller-supplied and
// defaults to zero.
func (m *Materializer) MaterializeForRoute(ctx context.Context, route *assignment.RouteAssignment, durationHours float64) (*history.DeliveryHistory, error) {
	parcels, err := m.parcels.FindByIDs(ctx, route.ParcelIDs())
	if err != nil {
		return nil, fmt.Errorf("loading route parcels: %w", err)
	}

	row := history.NewDeliveryHistory(m.clock.Now(), route.DriverUsername)
	row.TruckPlate = route.TruckPlate
	row.RouteID = route.RouteID
	row.DurationHours = durationHours

	for _, p := range parcels {
		switch p.Status {
		case delivery.StatusDelivered:
			row.DeliveredCount++
			row.DeliveredKilos += p.WeightKg
		case delivery.StatusUndelivered:
			row.UndeliveredCount++
			row.UndeliveredKilos += p.WeightKg
		}
	}

	if err := m.histories.Upsert(ctx, row); err != nil {
		return nil, fmt.Errorf("upserting history: %w", err)
	}

	m.log.WithFields(logrus.Fields{
		"driver":      route.DriverUsername,
		"delivered":   row.DeliveredCount,
		"undelivered": row.UndeliveredCount,
	}).Info("materialized delivery history")
	return row, nil
}
