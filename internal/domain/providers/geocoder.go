package providers

import (
	"context"
)

// GeocodedAddress is the result of resolving a postal code.
type GeocodedAddress struct {
	Latitude         float64 `json:"latitude"`
	Longitude        float64 `json:"longitude"`
	FormattedAddress string  `json:"formatted_address"`
}

// Geocoder resolves postal codes to coordinates. Implementations make a single
// attempt; there are no retries.
type Geocoder interface {
	// PostalLookup resolves a postal/pin code with an optional ISO country code.
	PostalLookup(ctx context.Context, postalCode, country string) (*GeocodedAddress, error)
}
