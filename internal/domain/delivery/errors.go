package delivery

import (
	"errors"
	"fmt"

	"github.com/waypointhq/waypoint-go/internal/domain/shared"
)

var (
	ErrAlreadyDelivered = errors.New("parcel already delivered")
	ErrUnknownParcel    = errors.New("parcel not found")
	ErrUnknownTruck     = errors.New("truck not found")
	ErrUnknownDriver    = errors.New("driver not found")
	ErrUnknownOffice    = errors.New("office not found")
	ErrTruckInUse       = errors.New("truck is already in use")
	ErrDriverUnverified = errors.New("driver is not verified")
)

// IllegalTransitionError reports a rejected parcel lifecycle edge
type IllegalTransitionError struct {
	*shared.DomainError
	From ParcelStatus
	To   ParcelStatus
}

func NewIllegalTransitionError(from, to ParcelStatus) *IllegalTransitionError {
	return &IllegalTransitionError{
		DomainError: shared.NewDomainError(fmt.Sprintf("illegal parcel transition %s → %s", from, to)),
		From:        from,
		To:          to,
	}
}
