// README: Pricing service: loads the rate book and runs the fare engine.
package pricing

import (
	"context"
	"fmt"
)

// BookSource supplies the current pricing configuration. *Store implements it;
// tests and the quotecheck runner substitute fixtures.
type BookSource interface {
	RateBook(ctx context.Context) (RateBook, error)
}

type Service struct {
	source BookSource
}

func NewService(source BookSource) *Service {
	return &Service{source: source}
}

// QuoteCommand carries everything one pricing run needs. All configuration is
// loaded per call; the service keeps no per-request state.
type QuoteCommand struct {
	VehicleClassID int
	ServiceTypeID  int
	Trip           TripParams
}

// Quote prices a single trip against the current rate book.
func (s *Service) Quote(ctx context.Context, cmd QuoteCommand) (TripQuote, error) {
	book, err := s.source.RateBook(ctx)
	if err != nil {
		return TripQuote{}, fmt.Errorf("load rate book: %w", err)
	}
	return QuoteTrip(book, cmd.VehicleClassID, cmd.ServiceTypeID, cmd.Trip), nil
}

// QuoteLegs prices several trip legs under one rate book and returns the
// per-leg quotes plus a combined summary (line items merged by label, one
// trailing tax/Total pair). Used for round trips quoted leg by leg, e.g. when
// the return leg touches a different surcharge scope than the outbound.
func (s *Service) QuoteLegs(ctx context.Context, vehicleClassID, serviceTypeID int, legs []TripParams) ([]TripQuote, TripQuote, error) {
	book, err := s.source.RateBook(ctx)
	if err != nil {
		return nil, TripQuote{}, fmt.Errorf("load rate book: %w", err)
	}

	quotes := make([]TripQuote, len(legs))
	itemLists := make([][]LineItem, len(legs))
	priceable := len(legs) > 0
	for i, leg := range legs {
		quotes[i] = QuoteTrip(book, vehicleClassID, serviceTypeID, leg)
		itemLists[i] = quotes[i].Items
		priceable = priceable && quotes[i].Priceable
	}

	tax, _ := ActiveTaxRate(book.TaxRates)
	combined := CombineTrips(itemLists...)
	totals, display := Aggregate(combined, tax.Region)

	summary := TripQuote{
		Items:     combined,
		Display:   display,
		Totals:    totals,
		TaxName:   tax.Region,
		TaxRate:   tax.Percent,
		Priceable: priceable,
	}
	for _, q := range quotes {
		summary.BaseFare = round2(summary.BaseFare + q.BaseFare)
	}
	return quotes, summary, nil
}
