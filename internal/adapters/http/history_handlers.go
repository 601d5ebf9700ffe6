package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	historyQueries "github.com/waypointhq/waypoint-go/internal/application/history/queries"
)

func (s *Server) recentHistory(ctx *gin.Context) {
	days := 0
	if raw := ctx.Query("days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			ctx.JSON(http.StatusBadRequest, errorBody{Code: "invalid_input", Message: "days must be a positive integer"})
			return
		}
		days = parsed
	}

	resp, err := s.mediator.Send(ctx.Request.Context(), &historyQueries.RecentHistoryQuery{Days: days})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp.(*historyQueries.RecentHistoryResponse))
}

func (s *Server) historyDetail(ctx *gin.Context) {
	raw := ctx.Query("date")
	date, err := time.Parse("2006-01-02", raw)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, errorBody{Code: "invalid_input", Message: "date must be YYYY-MM-DD"})
		return
	}

	resp, err := s.mediator.Send(ctx.Request.Context(), &historyQueries.HistoryDetailQuery{Date: date})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp.(*historyQueries.HistoryDetailResponse))
}

func (s *Server) statistics(ctx *gin.Context) {
	resp, err := s.mediator.Send(ctx.Request.Context(), &historyQueries.StatisticsQuery{})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp.(*historyQueries.StatisticsResponse))
}
