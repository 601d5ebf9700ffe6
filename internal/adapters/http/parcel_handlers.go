package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	executionCommands "github.com/waypointhq/waypoint-go/internal/application/execution/commands"
	executionQueries "github.com/waypointhq/waypoint-go/internal/application/execution/queries"
	"github.com/waypointhq/waypoint-go/internal/domain/shared"
)

type markDeliveredRequest struct {
	PackageID      string `json:"packageID" binding:"required"`
	Signature      string `json:"signature"`
	DriverUsername string `json:"driver_username"`
}

func (s *Server) markDelivered(ctx *gin.Context) {
	var req markDeliveredRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorBody{Code: "invalid_input", Message: err.Error()})
		return
	}

	resp, err := s.mediator.Send(ctx.Request.Context(), &executionCommands.MarkDeliveredCommand{
		ParcelID:       req.PackageID,
		Signature:      req.Signature,
		DriverUsername: req.DriverUsername,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp.(*executionCommands.MarkDeliveredResponse))
}

type markUndeliveredRequest struct {
	PackageID string `json:"packageID" binding:"required"`
}

func (s *Server) markUndelivered(ctx *gin.Context) {
	var req markUndeliveredRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorBody{Code: "invalid_input", Message: err.Error()})
		return
	}

	resp, err := s.mediator.Send(ctx.Request.Context(), &executionCommands.MarkUndeliveredCommand{
		ParcelID: req.PackageID,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp.(*executionCommands.MarkUndeliveredResponse))
}

type officeDeliveryRequest struct {
	DriverUsername string   `json:"driver_username" binding:"required"`
	OfficeID       uint     `json:"office_id" binding:"required"`
	PackageIDs     []string `json:"package_ids" binding:"required,min=1"`
}

func (s *Server) recordOfficeDelivery(ctx *gin.Context) {
	var req officeDeliveryRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorBody{Code: "invalid_input", Message: err.Error()})
		return
	}

	resp, err := s.mediator.Send(ctx.Request.Context(), &executionCommands.RecordOfficeDeliveryCommand{
		DriverUsername: req.DriverUsername,
		OfficeID:       req.OfficeID,
		ParcelIDs:      req.PackageIDs,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp.(*executionCommands.RecordOfficeDeliveryResponse))
}

func (s *Server) suggestOfficeRoute(ctx *gin.Context) {
	var req usernameRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorBody{Code: "invalid_input", Message: err.Error()})
		return
	}

	resp, err := s.mediator.Send(ctx.Request.Context(), &executionQueries.SuggestOfficeRouteQuery{Username: req.Username})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp.(*executionQueries.SuggestOfficeRouteResponse))
}

// Pointer coordinates keep zero values bindable; "required" only rejects
// absent fields.
type optimizeOfficeRequest struct {
	CurrentLat *float64 `json:"currentLat" binding:"required"`
	CurrentLng *float64 `json:"currentLng" binding:"required"`
	OfficeIDs  []uint   `json:"office_ids" binding:"required,min=1"`
}

func (s *Server) optimizeOfficeRoute(ctx *gin.Context) {
	var req optimizeOfficeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorBody{Code: "invalid_input", Message: err.Error()})
		return
	}

	resp, err := s.mediator.Send(ctx.Request.Context(), &executionQueries.OptimizeOfficeRouteQuery{
		Current:   shared.Coordinate{Lat: *req.CurrentLat, Lon: *req.CurrentLng},
		OfficeIDs: req.OfficeIDs,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp.(*executionQueries.OptimizeOfficeRouteResponse))
}
