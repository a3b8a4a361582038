// README: Quote service: directions estimate, pricing run, persistence, notification.
package quote

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"log"
	"strings"
	"time"

	"blackcar/internal/maps"
	"blackcar/internal/modules/pricing"
	"blackcar/internal/types"
)

var (
	ErrBadRequest   = errors.New("bad request")
	ErrNotFound     = errors.New("quote not found")
	ErrConflict     = errors.New("quote state conflict")
	ErrNotPriceable = errors.New("quote not priceable")
)

// Pricer runs the fare engine. Implemented by pricing.Service.
type Pricer interface {
	Quote(ctx context.Context, cmd pricing.QuoteCommand) (pricing.TripQuote, error)
	QuoteLegs(ctx context.Context, vehicleClassID, serviceTypeID int, legs []pricing.TripParams) ([]pricing.TripQuote, pricing.TripQuote, error)
}

// RouteEstimator fetches distance and duration for a trip. Implemented by
// maps.RouteService.
type RouteEstimator interface {
	EstimateRoute(ctx context.Context, origin, destination string) (maps.RouteEstimate, error)
}

// Notifier delivers the quote summary after creation. nil disables delivery.
type Notifier interface {
	QuoteCreated(ctx context.Context, q *Quote) error
}

type Service struct {
	store    *Store
	pricer   Pricer
	routes   RouteEstimator
	notifier Notifier
}

func NewService(store *Store, pricer Pricer, routes RouteEstimator, notifier Notifier) *Service {
	return &Service{store: store, pricer: pricer, routes: routes, notifier: notifier}
}

type CreateCommand struct {
	ContactName    string
	ContactEmail   string
	ContactPhone   string
	VehicleClassID int
	ServiceTypeID  int
	Origin         string
	Destination    string
	PickupAt       time.Time
	// DurationHours is the booked duration for hourly charters.
	DurationHours float64
	RoundTrip     bool
	// ReturnPickupAt schedules the return as a separate leg with its own line
	// items. A round trip without it is priced as one doubled trip.
	ReturnPickupAt *time.Time
	// LocationID overrides the derived surcharge scope (admin/testing use).
	LocationID string
}

// Create fetches the route, prices the trip, and persists the quote. The
// quote is stored even when unpriceable (so the request is not lost), but it
// cannot be finalized until the configuration resolves.
func (s *Service) Create(ctx context.Context, cmd CreateCommand) (*Quote, error) {
	if cmd.ContactEmail == "" || cmd.Origin == "" || cmd.Destination == "" {
		return nil, ErrBadRequest
	}
	if cmd.VehicleClassID == 0 || cmd.ServiceTypeID == 0 {
		return nil, ErrBadRequest
	}

	route, err := s.routes.EstimateRoute(ctx, cmd.Origin, cmd.Destination)
	if err != nil {
		return nil, err
	}

	locationID := cmd.LocationID
	if locationID == "" {
		locationID = maps.LocationCode(route.OriginPlaceID, route.DestinationPlaceID)
	}
	duration := cmd.DurationHours
	if duration == 0 {
		duration = route.DurationHours
	}

	outbound := Leg{
		Origin:             cmd.Origin,
		Destination:        cmd.Destination,
		OriginPlaceID:      route.OriginPlaceID,
		DestinationPlaceID: route.DestinationPlaceID,
		OriginPoint:        route.OriginPoint,
		DestinationPoint:   route.DestinationPoint,
		DistanceKm:         route.DistanceKm,
		DurationHours:      duration,
		LocationID:         locationID,
		PickupAt:           cmd.PickupAt,
	}

	q := &Quote{
		ID:             newID(),
		ContactName:    cmd.ContactName,
		ContactEmail:   cmd.ContactEmail,
		ContactPhone:   cmd.ContactPhone,
		VehicleClassID: cmd.VehicleClassID,
		ServiceTypeID:  cmd.ServiceTypeID,
		RoundTrip:      cmd.RoundTrip,
		Status:         StatusDraft,
		RetrievalCode:  newRetrievalCode(),
		CreatedAt:      time.Now(),
	}

	switch {
	case cmd.RoundTrip && cmd.ReturnPickupAt != nil:
		// Scheduled return: two distinct trips, line items merged by label.
		inbound := outbound
		inbound.Origin, inbound.Destination = outbound.Destination, outbound.Origin
		inbound.OriginPlaceID, inbound.DestinationPlaceID = outbound.DestinationPlaceID, outbound.OriginPlaceID
		inbound.OriginPoint, inbound.DestinationPoint = outbound.DestinationPoint, outbound.OriginPoint
		inbound.PickupAt = *cmd.ReturnPickupAt
		q.Legs = []Leg{outbound, inbound}

		_, summary, err := s.pricer.QuoteLegs(ctx, cmd.VehicleClassID, cmd.ServiceTypeID, []pricing.TripParams{
			{DistanceKm: outbound.DistanceKm, DurationHours: outbound.DurationHours, LocationID: outbound.LocationID},
			{DistanceKm: inbound.DistanceKm, DurationHours: inbound.DurationHours, LocationID: inbound.LocationID},
		})
		if err != nil {
			return nil, err
		}
		applyResult(q, summary)
	default:
		// One-way, or a same-day round trip priced as one doubled trip so the
		// minimum fare is evaluated once against the full distance.
		q.Legs = []Leg{outbound}
		result, err := s.pricer.Quote(ctx, pricing.QuoteCommand{
			VehicleClassID: cmd.VehicleClassID,
			ServiceTypeID:  cmd.ServiceTypeID,
			Trip: pricing.TripParams{
				DistanceKm:    outbound.DistanceKm,
				DurationHours: outbound.DurationHours,
				RoundTrip:     cmd.RoundTrip,
				LocationID:    outbound.LocationID,
			},
		})
		if err != nil {
			return nil, err
		}
		applyResult(q, result)
	}

	if err := s.store.Create(ctx, q); err != nil {
		return nil, err
	}

	if s.notifier != nil && q.Priceable {
		if err := s.notifier.QuoteCreated(ctx, q); err != nil {
			log.Printf("quote %s: notify failed: %v", q.ID, err)
		}
	}
	return q, nil
}

func (s *Service) Get(ctx context.Context, id types.ID) (*Quote, error) {
	return s.store.Get(ctx, id)
}

func (s *Service) GetByCode(ctx context.Context, code string) (*Quote, error) {
	id, err := s.store.ResolveCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	return s.store.Get(ctx, id)
}

// Finalize locks a quote for checkout. Unpriceable quotes and zero totals are
// refused here: the engine degrades to zero instead of failing, so this is
// where "is the quote valid" gets decided.
func (s *Service) Finalize(ctx context.Context, id types.ID) (*Quote, error) {
	q, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !q.Priceable || q.Totals.GrandTotal <= 0 {
		return nil, ErrNotPriceable
	}
	now := time.Now()
	if err := s.store.SetStatus(ctx, id, StatusDraft, StatusFinalized, now); err != nil {
		return nil, err
	}
	q.Status = StatusFinalized
	q.FinalizedAt = &now
	return q, nil
}

func applyResult(q *Quote, result pricing.TripQuote) {
	q.Items = result.Items
	q.Display = result.Display
	q.Totals = result.Totals
	q.TaxName = result.TaxName
	q.Priceable = result.Priceable
}

func newID() types.ID {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return types.ID(hex.EncodeToString(b[:]))
}

// newRetrievalCode returns a short customer-facing code (8 hex chars,
// uppercased for readability on receipts).
func newRetrievalCode() string {
	var b [4]byte
	_, _ = rand.Read(b[:])
	return strings.ToUpper(hex.EncodeToString(b[:]))
}
