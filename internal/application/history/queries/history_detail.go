package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/waypointhq/waypoint-go/internal/application/common"
	"github.com/waypointhq/waypoint-go/internal/domain/history"
	"github.com/waypointhq/waypoint-go/internal/domain/shared"
)

// HistoryDetailQuery fetches one day's per-driver rows
type HistoryDetailQuery struct {
	Date time.Time
}

// HistoryDetailResponse lists the day's rows, one per driver
type HistoryDetailResponse struct {
	Rows []*history.DeliveryHistory
}

// HistoryDetailHandler reads the per-date detail projection
type HistoryDetailHandler struct {
	histories history.HistoryRepository
}

// NewHistoryDetailHandler creates the history detail handler
func NewHistoryDetailHandler(histories history.HistoryRepository) *HistoryDetailHandler {
	return &HistoryDetailHandler{histories: histories}
}

// Handle executes the history detail query
func (h *HistoryDetailHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	q, ok := request.(*HistoryDetailQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type")
	}

	rows, err := h.histories.ListByDate(ctx, shared.DateOf(q.Date))
	if err != nil {
		return nil, err
	}
	return &HistoryDetailResponse{Rows: rows}, nil
}
