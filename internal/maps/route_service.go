package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"

	"blackcar/internal/types"
)

// RouteEstimate is the trip measurement the pricing engine consumes, plus the
// terminal place ids used for surcharge location scoping.
type RouteEstimate struct {
	DistanceKm         float64
	DurationHours      float64
	OriginPlaceID      string
	DestinationPlaceID string
	OriginPoint        types.Point
	DestinationPoint   types.Point
}

// RouteService handles interactions with Google Maps API.
type RouteService struct {
	client *maps.Client
}

// NewRouteService creates a new RouteService with the given API Key.
func NewRouteService(apiKey string) (*RouteService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &RouteService{client: client}, nil
}

// EstimateRoute returns the driving distance and duration from origin to
// destination, with the geocoded terminal place ids. Results are biased to
// the Greater Toronto service area.
func (s *RouteService) EstimateRoute(ctx context.Context, origin, destination string) (RouteEstimate, error) {
	r := &maps.DirectionsRequest{
		Origin:      origin,
		Destination: destination,
		Mode:        maps.TravelModeDriving,
		Region:      "CA",
	}

	routes, waypoints, err := s.client.Directions(ctx, r)
	if err != nil {
		return RouteEstimate{}, fmt.Errorf("maps api error: %w", err)
	}

	if len(routes) == 0 || len(routes[0].Legs) == 0 {
		return RouteEstimate{}, fmt.Errorf("no route found")
	}

	leg := routes[0].Legs[0]
	est := RouteEstimate{
		DistanceKm:       float64(leg.Distance.Meters) / 1000.0,
		DurationHours:    leg.Duration.Hours(),
		OriginPoint:      types.Point{Lat: leg.StartLocation.Lat, Lng: leg.StartLocation.Lng},
		DestinationPoint: types.Point{Lat: leg.EndLocation.Lat, Lng: leg.EndLocation.Lng},
	}
	if len(waypoints) > 0 {
		est.OriginPlaceID = waypoints[0].PlaceID
		est.DestinationPlaceID = waypoints[len(waypoints)-1].PlaceID
	}
	return est, nil
}
