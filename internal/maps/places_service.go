package maps

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"
)

// Place represents a simplified location result.
type Place struct {
	Name    string
	Address string
	PlaceID string
}

// PlacesService handles interactions with Google Places API, used by the
// concierge assistant to resolve loose address text ("the Ritz downtown")
// into a concrete place before routing.
type PlacesService struct {
	client *maps.Client
}

// NewPlacesService creates a new PlacesService with the given API Key.
func NewPlacesService(apiKey string) (*PlacesService, error) {
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &PlacesService{client: client}, nil
}

// ResolveAddress finds the best match for a free-text location within the
// service area. Returns the zero Place when nothing matched.
func (s *PlacesService) ResolveAddress(ctx context.Context, query string) (Place, error) {
	r := &maps.TextSearchRequest{
		Query:  query + " Toronto",
		Region: "CA",
	}
	resp, err := s.client.TextSearch(ctx, r)
	if err != nil {
		return Place{}, fmt.Errorf("places api error: %w", err)
	}
	if len(resp.Results) == 0 {
		return Place{}, nil
	}
	best := resp.Results[0]
	return Place{
		Name:    best.Name,
		Address: best.FormattedAddress,
		PlaceID: best.PlaceID,
	}, nil
}
