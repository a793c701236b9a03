package services

import (
	"context"
	"fmt"

	"googlemaps.github.io/maps"
)

// Geocoder converts a free-text address into coordinates and a canonical
// formatted address.
type Geocoder interface {
	Geocode(ctx context.Context, address string) (*GeocodeResult, error)
}

type GeocodeResult struct {
	Lat              float64 `json:"lat"`
	Lng              float64 `json:"lng"`
	FormattedAddress string  `json:"formatted_address"`
}

type GoogleGeocoder struct {
	client *maps.Client
}

// NewGoogleGeocoder builds a geocoder for the Google Geocoding API. Extra
// options are applied after the key, e.g. maps.WithBaseURL.
func NewGoogleGeocoder(apiKey string, opts ...maps.ClientOption) (*GoogleGeocoder, error) {
	client, err := maps.NewClient(append([]maps.ClientOption{maps.WithAPIKey(apiKey)}, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize geocoder: %w", err)
	}
	return &GoogleGeocoder{client: client}, nil
}

// Geocode returns the first result. Zero results is ErrInvalidAddress.
func (g *GoogleGeocoder) Geocode(ctx context.Context, address string) (*GeocodeResult, error) {
	results, err := g.client.Geocode(ctx, &maps.GeocodingRequest{Address: address})
	if err != nil {
		return nil, &GeocodeError{Address: address, Err: err}
	}
	if len(results) == 0 {
		return nil, ErrInvalidAddress
	}

	first := results[0]
	return &GeocodeResult{
		Lat:              first.Geometry.Location.Lat,
		Lng:              first.Geometry.Location.Lng,
		FormattedAddress: first.FormattedAddress,
	}, nil
}
