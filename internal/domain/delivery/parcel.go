package delivery

import (
	"time"

	"github.com/waypointhq/waypoint-go/internal/domain/shared"
)

// ParcelStatus represents where a parcel sits in its delivery lifecycle
type ParcelStatus string

const (
	StatusPending     ParcelStatus = "pending"
	StatusInTransit   ParcelStatus = "in_transit"
	StatusDelivered   ParcelStatus = "delivered"
	StatusUndelivered ParcelStatus = "undelivered"
)

// allowedTransitions encodes the lifecycle:
//
//	pending → in_transit → {delivered, undelivered}
//	undelivered → delivered (office drop-off only, see DeliverAtOffice)
var allowedTransitions = map[ParcelStatus][]ParcelStatus{
	StatusPending:   {StatusInTransit},
	StatusInTransit: {StatusDelivered, StatusUndelivered},
}

// Parcel aggregate root.
//
// Invariants:
// - Status moves monotonically along the allowed transitions
// - OfficeID is set only while the parcel is undelivered and an office exists
// - The Parcel row is the source of truth; VisitRecord status in any route
//   sequence is a cached projection updated by the same writer
type Parcel struct {
	ID        string
	Address   string
	Location  shared.Coordinate
	Recipient string
	Phone     string
	Email     string
	DueDate   time.Time
	WeightKg  float64
	Status    ParcelStatus
	CompanyID string

	// OfficeID references the fallback office while the parcel is undelivered
	OfficeID *uint

	// Signature is the base64 proof-of-delivery payload, stored verbatim
	Signature string
}

// NewParcel creates a pending parcel with a validated location
func NewParcel(id, address string, lat, lon float64, recipient, phone, email string, dueDate time.Time, weightKg float64) (*Parcel, error) {
	if id == "" {
		return nil, shared.NewValidationError("id", "parcel id is required")
	}
	loc, err := shared.NewCoordinate(lat, lon)
	if err != nil {
		return nil, err
	}
	if weightKg < 0 {
		return nil, shared.NewValidationError("weight", "must not be negative")
	}
	return &Parcel{
		ID:        id,
		Address:   address,
		Location:  loc,
		Recipient: recipient,
		Phone:     phone,
		Email:     email,
		DueDate:   shared.DateOf(dueDate),
		WeightKg:  weightKg,
		Status:    StatusPending,
	}, nil
}

// CanTransition reports whether the direct lifecycle edge from → to exists
func CanTransition(from, to ParcelStatus) bool {
	for _, next := range allowedTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the status accepts no further driver events
func (s ParcelStatus) IsTerminal() bool {
	return s == StatusDelivered || s == StatusUndelivered
}

// MarkInTransit advances pending → in_transit when the parcel joins a route
func (p *Parcel) MarkInTransit() error {
	return p.transition(StatusInTransit)
}

// MarkDelivered advances in_transit → delivered.
// An optional signature payload is stored verbatim.
func (p *Parcel) MarkDelivered(signature string) error {
	if p.Status == StatusDelivered {
		return ErrAlreadyDelivered
	}
	if err := p.transition(StatusDelivered); err != nil {
		return err
	}
	if signature != "" {
		p.Signature = signature
	}
	return nil
}

// MarkUndelivered advances in_transit → undelivered after a failed attempt
func (p *Parcel) MarkUndelivered() error {
	return p.transition(StatusUndelivered)
}

// DeliverAtOffice completes the office-fallback path: undelivered → delivered.
// This edge exists only here; drivers cannot reach it through MarkDelivered.
func (p *Parcel) DeliverAtOffice() error {
	if p.Status == StatusDelivered {
		return ErrAlreadyDelivered
	}
	if p.Status != StatusUndelivered {
		return NewIllegalTransitionError(p.Status, StatusDelivered)
	}
	p.Status = StatusDelivered
	return nil
}

// AssignOffice records the fallback office holding the parcel
func (p *Parcel) AssignOffice(officeID uint) {
	p.OfficeID = &officeID
}

func (p *Parcel) transition(to ParcelStatus) error {
	if !CanTransition(p.Status, to) {
		return NewIllegalTransitionError(p.Status, to)
	}
	p.Status = to
	return nil
}
