package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/waypointhq/waypoint-go/internal/application/common"
	"github.com/waypointhq/waypoint-go/internal/domain/delivery"
	"github.com/waypointhq/waypoint-go/internal/domain/history"
	"github.com/waypointhq/waypoint-go/internal/domain/shared"
)

const defaultHistoryDays = 7

// RecentHistoryQuery aggregates the last N days of deliveries per day
type RecentHistoryQuery struct {
	Days int
}

// RecentHistoryResponse lists day summaries newest-first
type RecentHistoryResponse struct {
	Days []*history.DaySummary
}

// RecentHistoryHandler merges materialized history rows with a fallback scan
// over parcels due on days without any row, so a day whose journeys are still
// open is not reported empty.
type RecentHistoryHandler struct {
	histories history.HistoryRepository
	parcels   delivery.ParcelRepository
	clock     shared.Clock
}

// NewRecentHistoryHandler creates the recent history handler
func NewRecentHistoryHandler(histories history.HistoryRepository, parcels delivery.ParcelRepository, clock shared.Clock) *RecentHistoryHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	return &RecentHistoryHandler{histories: histories, parcels: parcels, clock: clock}
}

// Handle executes the recent history query
func (h *RecentHistoryHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	q, ok := request.(*RecentHistoryQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}
	days := q.Days
	if days <= 0 {
		days = defaultHistoryDays
	}

	today := shared.DateOf(h.clock.Now())
	from := today.AddDate(0, 0, -(days - 1))
	rows, err := h.histories.ListSince(ctx, from)
	if err != nil {
		return nil, err
	}

	byDay := make(map[time.Time][]*history.DeliveryHistory)
	for _, row := range rows {
		key := shared.DateOf(row.Date)
		byDay[key] = append(byDay[key], row)
	}

	summaries := make([]*history.DaySummary, 0, days)
	for i := 0; i < days; i++ {
		day := today.AddDate(0, 0, -i)
		if dayRows, ok := byDay[day]; ok {
			summaries = append(summaries, summarize(day, dayRows))
			continue
		}
		summary, err := h.scanParcels(ctx, day)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}
	return &RecentHistoryResponse{Days: summaries}, nil
}

func summarize(day time.Time, rows []*history.DeliveryHistory) *history.DaySummary {
	summary := &history.DaySummary{Date: day}
	trucks := make(map[string]bool)
	for _, row := range rows {
		summary.DeliveredCount += row.DeliveredCount
		summary.DeliveredKilos += row.DeliveredKilos
		summary.UndeliveredCount += row.UndeliveredCount
		summary.UndeliveredKilos += row.UndeliveredKilos
		summary.DurationHours += row.DurationHours
		summary.Drivers = append(summary.Drivers, row.DriverUsername)
		if row.TruckPlate != "" {
			trucks[row.TruckPlate] = true
		}
	}
	summary.TruckCount = len(trucks)
	return summary
}

// scanParcels covers days with journeys not yet finished: parcels due that
// day already in a terminal status are counted directly.
func (h *RecentHistoryHandler) scanParcels(ctx context.Context, day time.Time) (*history.DaySummary, error) {
	summary := &history.DaySummary{Date: day}

	delivered, err := h.parcels.ByDueDateAndStatus(ctx, day, delivery.StatusDelivered)
	if err != nil {
		return nil, err
	}
	for _, p := range delivered {
		summary.DeliveredCount++
		summary.DeliveredKilos += p.WeightKg
	}

	undelivered, err := h.parcels.ByDueDateAndStatus(ctx, day, delivery.StatusUndelivered)
	if err != nil {
		return nil, err
	}
	for _, p := range undelivered {
		summary.UndeliveredCount++
		summary.UndeliveredKilos += p.WeightKg
	}
	return summary, nil
}
