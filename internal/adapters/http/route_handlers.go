package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	executionCommands "github.com/waypointhq/waypoint-go/internal/application/execution/commands"
	executionQueries "github.com/waypointhq/waypoint-go/internal/application/execution/queries"
	planningCommands "github.com/waypointhq/waypoint-go/internal/application/planning/commands"
	"github.com/waypointhq/waypoint-go/internal/domain/assignment"
	"github.com/waypointhq/waypoint-go/internal/domain/routing"
	"github.com/waypointhq/waypoint-go/internal/domain/shared"
)

type planRoutesRequest struct {
	Drivers []string `json:"drivers" binding:"required,min=1"`
}

func (s *Server) planRoutes(ctx *gin.Context) {
	var req planRoutesRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorBody{Code: "invalid_input", Message: err.Error()})
		return
	}

	resp, err := s.mediator.Send(ctx.Request.Context(), &planningCommands.PlanRoutesCommand{
		DriverUsernames: req.Drivers,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp.(*planningCommands.PlanRoutesResponse))
}

type assignRouteRequest struct {
	DriverUsername  string                   `json:"driverUsername" binding:"required"`
	TruckPlate      string                   `json:"truckLicensePlate" binding:"required"`
	PackageSequence []assignment.VisitRecord `json:"packageSequence" binding:"required"`
	MapRoute        []routing.GeoPoint       `json:"mapRoute"`
}

func (s *Server) assignRoute(ctx *gin.Context) {
	var req assignRouteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorBody{Code: "invalid_input", Message: err.Error()})
		return
	}

	resp, err := s.mediator.Send(ctx.Request.Context(), &planningCommands.AssignRouteCommand{
		DriverUsername: req.DriverUsername,
		TruckPlate:     req.TruckPlate,
		Sequence:       req.PackageSequence,
		Geometry:       req.MapRoute,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, resp.(*planningCommands.AssignRouteResponse))
}

type usernameRequest struct {
	Username string `json:"username" binding:"required"`
}

func (s *Server) routeByDriver(ctx *gin.Context) {
	var req usernameRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorBody{Code: "invalid_input", Message: err.Error()})
		return
	}

	resp, err := s.mediator.Send(ctx.Request.Context(), &executionQueries.DriverRouteQuery{Username: req.Username})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp.(*executionQueries.DriverRouteResponse))
}

type finishJourneyRequest struct {
	Username      string  `json:"username" binding:"required"`
	DurationHours float64 `json:"duration_hours"`
}

func (s *Server) finishJourney(ctx *gin.Context) {
	var req finishJourneyRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorBody{Code: "invalid_input", Message: err.Error()})
		return
	}

	resp, err := s.mediator.Send(ctx.Request.Context(), &executionCommands.FinishJourneyCommand{
		DriverUsername: req.Username,
		DurationHours:  req.DurationHours,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp.(*executionCommands.FinishJourneyResponse))
}

// Coordinates bind through pointers: 0 is a legitimate latitude or
// longitude, so "required" must only reject absent fields.
type returnRouteRequest struct {
	Username      string   `json:"username"`
	CurrentLat    *float64 `json:"currentLat" binding:"required"`
	CurrentLng    *float64 `json:"currentLng" binding:"required"`
	DefaultLat    *float64 `json:"defaultLat" binding:"required"`
	DefaultLng    *float64 `json:"defaultLng" binding:"required"`
	DurationHours float64  `json:"duration_hours"`
}

func (s *Server) returnRoute(ctx *gin.Context) {
	var req returnRouteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorBody{Code: "invalid_input", Message: err.Error()})
		return
	}

	resp, err := s.mediator.Send(ctx.Request.Context(), &executionCommands.ReturnRouteCommand{
		DriverUsername: req.Username,
		Current:        shared.Coordinate{Lat: *req.CurrentLat, Lon: *req.CurrentLng},
		Depot:          shared.Coordinate{Lat: *req.DefaultLat, Lon: *req.DefaultLng},
		DurationHours:  req.DurationHours,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp.(*executionCommands.ReturnRouteResponse))
}

type recalculateRequest struct {
	Username   string   `json:"username" binding:"required"`
	CurrentLat *float64 `json:"currentLat" binding:"required"`
	CurrentLng *float64 `json:"currentLng" binding:"required"`
}

func (s *Server) recalculateRoute(ctx *gin.Context) {
	var req recalculateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorBody{Code: "invalid_input", Message: err.Error()})
		return
	}

	resp, err := s.mediator.Send(ctx.Request.Context(), &executionCommands.RecalculateRouteCommand{
		DriverUsername: req.Username,
		Current:        shared.Coordinate{Lat: *req.CurrentLat, Lon: *req.CurrentLng},
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp.(*executionCommands.RecalculateRouteResponse))
}

func (s *Server) checkDriverStatus(ctx *gin.Context) {
	var req usernameRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, errorBody{Code: "invalid_input", Message: err.Error()})
		return
	}

	resp, err := s.mediator.Send(ctx.Request.Context(), &executionQueries.DriverStatusQuery{Username: req.Username})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp.(*executionQueries.DriverStatusResponse))
}

func (s *Server) activeRoutes(ctx *gin.Context) {
	resp, err := s.mediator.Send(ctx.Request.Context(), &executionQueries.ActiveRoutesQuery{})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp.(*executionQueries.ActiveRoutesResponse))
}

func (s *Server) dropAllRoutes(ctx *gin.Context) {
	resp, err := s.mediator.Send(ctx.Request.Context(), &executionCommands.DropRoutesCommand{})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, resp.(*executionCommands.DropRoutesResponse))
}
