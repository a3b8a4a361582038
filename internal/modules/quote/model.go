// README: Quote aggregate: priced trip(s) persisted for checkout and email.
package quote

import (
	"time"

	"blackcar/internal/modules/pricing"
	"blackcar/internal/types"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusFinalized Status = "finalized"
	StatusExpired   Status = "expired"
)

// Leg is one priced trip segment. A one-way booking has a single leg; a round
// trip with a scheduled return has two.
type Leg struct {
	Origin             string
	Destination        string
	OriginPlaceID      string
	DestinationPlaceID string
	OriginPoint        types.Point
	DestinationPoint   types.Point
	DistanceKm         float64
	DurationHours      float64
	LocationID         string
	PickupAt           time.Time
}

type Quote struct {
	ID             types.ID
	ContactName    string
	ContactEmail   string
	ContactPhone   string
	VehicleClassID int
	ServiceTypeID  int
	RoundTrip      bool
	Legs           []Leg
	// Items/Display/Totals are the engine output frozen at creation time; a
	// quote is never re-priced after it is issued.
	Items     []pricing.LineItem
	Display   []pricing.LineItem
	Totals    pricing.Totals
	TaxName   string
	Priceable bool
	Status    Status
	// RetrievalCode is the short code customers use to pull the quote back up.
	RetrievalCode string
	CreatedAt     time.Time
	FinalizedAt   *time.Time
}
