package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"blackcar/internal/ai"
	"blackcar/internal/maps"
	"blackcar/internal/modules/pricing"
)

// QuoteAssistant orchestrates AI intent parsing, address resolution, routing,
// and the fare engine into a conversational quote.
type QuoteAssistant struct {
	provider ai.LLMProvider
	routes   *maps.RouteService
	places   *maps.PlacesService
	rates    pricing.BookSource
	loc      *time.Location
}

// NewQuoteAssistant creates a QuoteAssistant with initialized dependencies.
func NewQuoteAssistant(provider ai.LLMProvider, routes *maps.RouteService, places *maps.PlacesService, rates pricing.BookSource) (*QuoteAssistant, error) {
	loc, err := time.LoadLocation("America/Toronto")
	if err != nil {
		return nil, fmt.Errorf("failed to load America/Toronto location: %w", err)
	}
	return &QuoteAssistant{
		provider: provider,
		routes:   routes,
		places:   places,
		rates:    rates,
		loc:      loc,
	}, nil
}

// HandleMessage processes a customer message and returns a conversational
// response, itemized when enough detail was present to price the trip.
func (a *QuoteAssistant) HandleMessage(ctx context.Context, message string) (string, error) {
	now := time.Now().In(a.loc)
	intent, err := a.provider.ParseTripIntent(ctx, message, map[string]string{
		"current_time": now.Format(time.RFC3339),
	})
	if err != nil {
		log.Printf("assistant: intent parse failed: %v", err)
		return "Sorry, I didn't catch that. Where would you like to be picked up?", nil
	}

	if intent.Intent != "quote" || intent.Origin == nil || intent.Destination == nil {
		return intent.Reply, nil
	}

	origin, err := a.places.ResolveAddress(ctx, *intent.Origin)
	if err != nil || origin.Address == "" {
		return fmt.Sprintf("I couldn't place %q — could you give me a street address?", *intent.Origin), nil
	}
	destination, err := a.places.ResolveAddress(ctx, *intent.Destination)
	if err != nil || destination.Address == "" {
		return fmt.Sprintf("I couldn't place %q — could you give me a street address?", *intent.Destination), nil
	}

	route, err := a.routes.EstimateRoute(ctx, origin.Address, destination.Address)
	if err != nil {
		return "I couldn't find a driving route for that trip. Could you double-check the addresses?", nil
	}

	book, err := a.rates.RateBook(ctx)
	if err != nil {
		return "", fmt.Errorf("load rate book: %w", err)
	}

	vehicle := matchVehicleClass(book.VehicleClasses, intent.VehicleHint)
	serviceType := matchServiceType(book.ServiceTypes, intent.DurationHours > 0)
	trip := pricing.TripParams{
		DistanceKm:    route.DistanceKm,
		DurationHours: route.DurationHours,
		RoundTrip:     intent.RoundTrip,
		LocationID:    maps.LocationCode(origin.PlaceID, destination.PlaceID, route.OriginPlaceID, route.DestinationPlaceID),
	}
	if intent.DurationHours > 0 {
		trip.DurationHours = intent.DurationHours
	}

	result := pricing.QuoteTrip(book, vehicle.ID, serviceType.ID, trip)
	if !result.Priceable {
		return "I don't have rates configured for that vehicle yet — our dispatch team will follow up with a custom quote.", nil
	}

	return composeQuoteReply(intent, origin, destination, vehicle, result), nil
}

// matchVehicleClass picks the class whose name contains the customer's
// wording, falling back to the first active class.
func matchVehicleClass(classes []pricing.VehicleClass, hint string) pricing.VehicleClass {
	hint = strings.ToLower(strings.TrimSpace(hint))
	var fallback pricing.VehicleClass
	for _, c := range classes {
		if !c.Active {
			continue
		}
		if fallback.ID == 0 {
			fallback = c
		}
		if hint != "" && strings.Contains(strings.ToLower(c.Name), hint) {
			return c
		}
	}
	return fallback
}

func matchServiceType(serviceTypes []pricing.ServiceType, hourly bool) pricing.ServiceType {
	var fallback pricing.ServiceType
	for _, s := range serviceTypes {
		if !s.Active {
			continue
		}
		if fallback.ID == 0 {
			fallback = s
		}
		if s.Hourly == hourly {
			return s
		}
	}
	return fallback
}

func composeQuoteReply(intent *ai.TripIntent, origin, destination maps.Place, vehicle pricing.VehicleClass, result pricing.TripQuote) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Here is your estimate for the %s:\n", vehicle.Name)
	fmt.Fprintf(&b, "%s -> %s", origin.Name, destination.Name)
	if intent.RoundTrip {
		b.WriteString(" (round trip)")
	}
	b.WriteString("\n\n")

	for _, item := range result.Display {
		fmt.Fprintf(&b, "%s: $%.2f\n", item.Label, item.Total)
	}
	b.WriteString("\nShall I hold this for you?")
	return b.String()
}
