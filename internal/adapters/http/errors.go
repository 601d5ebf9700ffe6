package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/waypointhq/waypoint-go/internal/domain/assignment"
	"github.com/waypointhq/waypoint-go/internal/domain/delivery"
	"github.com/waypointhq/waypoint-go/internal/domain/planning"
	"github.com/waypointhq/waypoint-go/internal/domain/routing"
	"github.com/waypointhq/waypoint-go/internal/domain/shared"
)

// errorBody is the stable error envelope of the REST surface
type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeError maps domain errors to HTTP statuses with stable codes.
// Unknown entities are 404, state conflicts 409, capacity problems 422 and
// routing engine trouble 502; anything unclassified is a 500.
func writeError(ctx *gin.Context, err error) {
	var (
		validationErr *shared.ValidationError
		transitionErr *delivery.IllegalTransitionError
		capacityErr   *planning.InsufficientCapacityError
		nonOkErr      *routing.NonOkStatusError
		engineCodeErr *routing.EngineCodeError
	)

	switch {
	case errors.As(err, &validationErr):
		ctx.JSON(http.StatusBadRequest, errorBody{Code: "invalid_input", Message: err.Error()})

	case errors.Is(err, delivery.ErrUnknownParcel),
		errors.Is(err, delivery.ErrUnknownTruck),
		errors.Is(err, delivery.ErrUnknownDriver),
		errors.Is(err, delivery.ErrUnknownOffice):
		ctx.JSON(http.StatusNotFound, errorBody{Code: "not_found", Message: err.Error()})

	case errors.Is(err, assignment.ErrNoActiveRoute),
		errors.Is(err, assignment.ErrRouteNotFound):
		ctx.JSON(http.StatusNotFound, errorBody{Code: "no_route", Message: err.Error()})

	case errors.Is(err, delivery.ErrAlreadyDelivered):
		ctx.JSON(http.StatusConflict, errorBody{Code: "already_delivered", Message: err.Error()})

	case errors.As(err, &transitionErr):
		ctx.JSON(http.StatusConflict, errorBody{Code: "illegal_transition", Message: err.Error()})

	case errors.Is(err, assignment.ErrActiveRouteExists):
		ctx.JSON(http.StatusConflict, errorBody{Code: "active_route_exists", Message: err.Error()})

	case errors.Is(err, assignment.ErrRouteInactive):
		ctx.JSON(http.StatusConflict, errorBody{Code: "already_inactive", Message: err.Error()})

	case errors.Is(err, delivery.ErrTruckInUse):
		ctx.JSON(http.StatusConflict, errorBody{Code: "truck_in_use", Message: err.Error()})

	case errors.Is(err, delivery.ErrDriverUnverified):
		ctx.JSON(http.StatusForbidden, errorBody{Code: "driver_unverified", Message: err.Error()})

	case errors.As(err, &capacityErr):
		ctx.JSON(http.StatusUnprocessableEntity, errorBody{Code: "insufficient_capacity", Message: err.Error()})

	case errors.Is(err, planning.ErrNoEligibleParcels):
		ctx.JSON(http.StatusUnprocessableEntity, errorBody{Code: "no_eligible_parcels", Message: err.Error()})

	case errors.Is(err, planning.ErrNoDrivers):
		ctx.JSON(http.StatusBadRequest, errorBody{Code: "no_drivers", Message: err.Error()})

	case errors.Is(err, routing.ErrUnavailable),
		errors.Is(err, routing.ErrDecode),
		errors.As(err, &nonOkErr),
		errors.As(err, &engineCodeErr):
		ctx.JSON(http.StatusBadGateway, errorBody{Code: "routing_engine", Message: err.Error()})

	default:
		ctx.JSON(http.StatusInternalServerError, errorBody{Code: "internal", Message: err.Error()})
	}
}
