package geocoding

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/caremap/medifinder/internal/domain/providers"
	apperrors "github.com/caremap/medifinder/pkg/errors"
)

const (
	googleGeocodeURL   = "https://maps.googleapis.com/maps/api/geocode/json"
	defaultHTTPTimeout = 8 * time.Second
	minPostalCodeLen   = 4
)

// GoogleGeocoder implements the Geocoder against the Google Geocoding API.
type GoogleGeocoder struct {
	apiKey         string
	defaultCountry string
	httpClient     *http.Client
	baseURL        string
}

// NewGoogleGeocoder creates a new Google geocoder.
func NewGoogleGeocoder(apiKey, defaultCountry string) providers.Geocoder {
	return NewGoogleGeocoderWithOptions(apiKey, defaultCountry, googleGeocodeURL, nil)
}

// NewGoogleGeocoderWithOptions allows overriding base URL and HTTP client (used for tests).
func NewGoogleGeocoderWithOptions(apiKey, defaultCountry, baseURL string, httpClient *http.Client) providers.Geocoder {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = googleGeocodeURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &GoogleGeocoder{
		apiKey:         apiKey,
		defaultCountry: defaultCountry,
		httpClient:     httpClient,
		baseURL:        baseURL,
	}
}

// PostalLookup resolves a postal code to coordinates. Validation happens
// before any network call; the upstream lookup is a single attempt.
func (g *GoogleGeocoder) PostalLookup(ctx context.Context, postalCode, country string) (*providers.GeocodedAddress, error) {
	trimmed := strings.TrimSpace(postalCode)
	if trimmed == "" {
		return nil, apperrors.NewValidationError("postal code is required")
	}
	if len(trimmed) < minPostalCodeLen {
		return nil, apperrors.NewValidationError(fmt.Sprintf("postal code must be at least %d characters", minPostalCodeLen))
	}

	if country == "" {
		country = g.defaultCountry
	}

	components := "postal_code:" + trimmed
	if country != "" {
		components += "|country:" + country
	}

	params := url.Values{}
	params.Set("components", components)
	params.Set("key", g.apiKey)

	reqURL := fmt.Sprintf("%s?%s", g.baseURL, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to build geocode request", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewExternalError("geocode request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.NewExternalError(fmt.Sprintf("geocode request returned status %d", resp.StatusCode), nil)
	}

	var payload geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperrors.NewExternalError("failed to decode geocode response", err)
	}

	if payload.Status == "ZERO_RESULTS" || (payload.Status == "OK" && len(payload.Results) == 0) {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("no location found for postal code %s", trimmed))
	}
	if payload.Status != "OK" {
		if payload.ErrorMessage != "" {
			return nil, apperrors.NewExternalError(fmt.Sprintf("geocode request failed: %s - %s", payload.Status, payload.ErrorMessage), nil)
		}
		return nil, apperrors.NewExternalError(fmt.Sprintf("geocode request failed: %s", payload.Status), nil)
	}

	result := payload.Results[0]
	return &providers.GeocodedAddress{
		Latitude:         result.Geometry.Location.Lat,
		Longitude:        result.Geometry.Location.Lng,
		FormattedAddress: result.FormattedAddress,
	}, nil
}

type geocodeResponse struct {
	Status       string          `json:"status"`
	ErrorMessage string          `json:"error_message,omitempty"`
	Results      []geocodeResult `json:"results"`
}

type geocodeResult struct {
	FormattedAddress string          `json:"formatted_address"`
	Geometry         geocodeGeometry `json:"geometry"`
}

type geocodeGeometry struct {
	Location geocodeLocation `json:"location"`
}

type geocodeLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}
