package assignment

import (
	"github.com/waypointhq/waypoint-go/internal/domain/delivery"
	"github.com/waypointhq/waypoint-go/internal/domain/routing"
)

// DepotID is the sentinel parcel id carried by depot stops
const DepotID = "DEPOT"

// VisitKind tags a visit record as the depot or a real parcel stop
type VisitKind string

const (
	VisitDepot  VisitKind = "depot"
	VisitParcel VisitKind = "parcel"
)

// ParcelSnapshot is the fixed-schema copy of a parcel embedded in a route
// sequence. Depot stops carry the DepotID sentinel and zero weight.
type ParcelSnapshot struct {
	ParcelID  string  `json:"parcelID"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Recipient string  `json:"recipient"`
	Phone     string  `json:"phone,omitempty"`
	DueDate   string  `json:"dueDate,omitempty"`
	WeightKg  float64 `json:"weightKg"`
}

// SnapshotOf copies the routing-relevant parcel fields
func SnapshotOf(p *delivery.Parcel) ParcelSnapshot {
	return ParcelSnapshot{
		ParcelID:  p.ID,
		Address:   p.Address,
		Latitude:  p.Location.Lat,
		Longitude: p.Location.Lon,
		Recipient: p.Recipient,
		Phone:     p.Phone,
		DueDate:   p.DueDate.Format("2006-01-02"),
		WeightKg:  p.WeightKg,
	}
}

// DepotSnapshot builds the sentinel snapshot for a company depot
func DepotSnapshot(address string, lat, lon float64) ParcelSnapshot {
	return ParcelSnapshot{
		ParcelID:  DepotID,
		Address:   address,
		Latitude:  lat,
		Longitude: lon,
		Recipient: "Depot",
	}
}

// VisitRecord is one stop in an optimized route.
//
// Invariants:
// - VisitOrder runs 0..N over the sequence
// - Exactly one record has IsReturnLeg=true: the tail, carrying the depot
//   snapshot and the loop-closing leg duration
// - Status mirrors the parcel row; the parcel lifecycle writer updates both
type VisitRecord struct {
	VisitOrder       int                   `json:"visitOrder"`
	Kind             VisitKind             `json:"kind"`
	Snapshot         ParcelSnapshot        `json:"snapshot"`
	Snapped          routing.GeoPoint      `json:"snapped"`
	InboundDurationS float64               `json:"inboundDurationS"`
	Status           delivery.ParcelStatus `json:"status,omitempty"`
	IsReturnLeg      bool                  `json:"isReturnLeg"`
}

// IsDepot reports whether the record is a depot stop (leading or return)
func (v *VisitRecord) IsDepot() bool {
	return v.Kind == VisitDepot || v.Snapshot.ParcelID == DepotID
}
