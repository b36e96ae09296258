package places

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/caremap/medifinder/internal/domain/entities"
	"github.com/caremap/medifinder/internal/domain/providers"
	apperrors "github.com/caremap/medifinder/pkg/errors"
)

const (
	googlePlacesTextURL   = "https://maps.googleapis.com/maps/api/place/textsearch/json"
	googlePlacesNearbyURL = "https://maps.googleapis.com/maps/api/place/nearbysearch/json"
	defaultHTTPTimeout    = 8 * time.Second
	defaultRadiusM        = 5000
)

// healthcareKeywords bias free-text queries toward medical facilities. When
// the effective keyword already contains one of these, no bias is appended.
var healthcareKeywords = []string{"healthcare", "medical", "hospital", "clinic", "doctor"}

// recognizedTypes are the place types accepted as a hard upstream category
// filter. Anything else is post-filtered locally against the raw type tags.
var recognizedTypes = []string{"hospital", "doctor", "health", "dentist", "pharmacy", "physiotherapist", "medical_office"}

// GooglePlacesSearcher implements the PlaceSearcher against the Google Places API.
type GooglePlacesSearcher struct {
	apiKey     string
	httpClient *http.Client
	textURL    string
	nearbyURL  string
	formatter  *Formatter
}

// NewGooglePlacesSearcher creates a new Google Places searcher.
func NewGooglePlacesSearcher(apiKey string, formatter *Formatter) providers.PlaceSearcher {
	return NewGooglePlacesSearcherWithOptions(apiKey, formatter, googlePlacesTextURL, googlePlacesNearbyURL, nil)
}

// NewGooglePlacesSearcherWithOptions allows overriding endpoints and HTTP client (used for tests).
func NewGooglePlacesSearcherWithOptions(apiKey string, formatter *Formatter, textURL, nearbyURL string, httpClient *http.Client) providers.PlaceSearcher {
	if strings.TrimSpace(textURL) == "" {
		textURL = googlePlacesTextURL
	}
	if strings.TrimSpace(nearbyURL) == "" {
		nearbyURL = googlePlacesNearbyURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultHTTPTimeout}
	}
	if formatter == nil {
		formatter = NewFormatter(nil)
	}
	return &GooglePlacesSearcher{
		apiKey:     apiKey,
		httpClient: httpClient,
		textURL:    textURL,
		nearbyURL:  nearbyURL,
		formatter:  formatter,
	}
}

// Search runs a text or nearby search depending on whether coordinates were
// supplied, and returns normalized providers in upstream order. An empty
// result list is success.
func (g *GooglePlacesSearcher) Search(ctx context.Context, query providers.PlaceQuery) ([]*entities.Provider, error) {
	keyword := effectiveKeyword(query)

	hardType := matchRecognizedType(query.Type)

	params := url.Values{}
	var endpoint string
	if query.HasCoords {
		radius := query.RadiusM
		if radius <= 0 {
			radius = defaultRadiusM
		}
		endpoint = g.nearbyURL
		params.Set("location", fmt.Sprintf("%f,%f", query.Latitude, query.Longitude))
		params.Set("radius", strconv.Itoa(radius))
		params.Set("keyword", keyword)
	} else {
		endpoint = g.textURL
		params.Set("query", keyword)
	}
	if hardType != "" {
		params.Set("type", hardType)
	}

	resp, err := g.doRequest(ctx, endpoint, params)
	if err != nil {
		return nil, err
	}

	raw := resp.Results
	if hardType == "" {
		raw = filterByRecognizedTypes(raw)
	}

	results := make([]*entities.Provider, 0, len(raw))
	for _, record := range raw {
		results = append(results, g.formatter.Format(record))
	}
	return results, nil
}

// effectiveKeyword concatenates the query with type and specialty, then
// appends a healthcare bias term when none is already present.
func effectiveKeyword(query providers.PlaceQuery) string {
	parts := []string{strings.TrimSpace(query.Query)}
	if query.Type != "" {
		parts = append(parts, query.Type)
	}
	if query.Specialty != "" {
		parts = append(parts, query.Specialty)
	}
	keyword := strings.TrimSpace(strings.Join(parts, " "))

	lowered := strings.ToLower(keyword)
	for _, indicator := range healthcareKeywords {
		if strings.Contains(lowered, indicator) {
			return keyword
		}
	}
	return strings.TrimSpace(keyword + " healthcare")
}

func matchRecognizedType(placeType string) string {
	for _, recognized := range recognizedTypes {
		if strings.EqualFold(placeType, recognized) {
			return recognized
		}
	}
	return ""
}

func filterByRecognizedTypes(raw []RawPlace) []RawPlace {
	kept := make([]RawPlace, 0, len(raw))
	for _, record := range raw {
		if typesIntersect(record.Types) {
			kept = append(kept, record)
		}
	}
	return kept
}

func typesIntersect(types []string) bool {
	for _, t := range types {
		for _, recognized := range recognizedTypes {
			if strings.EqualFold(t, recognized) {
				return true
			}
		}
	}
	return false
}

func (g *GooglePlacesSearcher) doRequest(ctx context.Context, endpoint string, params url.Values) (*placesResponse, error) {
	if g.apiKey == "" {
		return nil, apperrors.NewExternalError("maps api key is not configured", nil)
	}

	params.Set("key", g.apiKey)
	reqURL := fmt.Sprintf("%s?%s", endpoint, params.Encode())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, apperrors.NewExternalError("failed to build places request", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.NewExternalError("places request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, apperrors.NewExternalError(fmt.Sprintf("places request returned status %d", resp.StatusCode), nil)
	}

	var payload placesResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, apperrors.NewExternalError("failed to decode places response", err)
	}

	// ZERO_RESULTS is success with no providers.
	if payload.Status != "OK" && payload.Status != "ZERO_RESULTS" {
		if payload.ErrorMessage != "" {
			return nil, apperrors.NewExternalError(fmt.Sprintf("places request failed: %s - %s", payload.Status, payload.ErrorMessage), nil)
		}
		return nil, apperrors.NewExternalError(fmt.Sprintf("places request failed: %s", payload.Status), nil)
	}

	return &payload, nil
}

type placesResponse struct {
	Status       string     `json:"status"`
	ErrorMessage string     `json:"error_message,omitempty"`
	Results      []RawPlace `json:"results"`
}

// RawPlace is one raw result record from the Places API.
type RawPlace struct {
	PlaceID          string        `json:"place_id"`
	Name             string        `json:"name"`
	FormattedAddress string        `json:"formatted_address"`
	Vicinity         string        `json:"vicinity"`
	Geometry         placeGeometry `json:"geometry"`
	Types            []string      `json:"types"`
	Rating           *float64      `json:"rating"`
	PriceLevel       *int          `json:"price_level"`
	UserRatingsTotal *int          `json:"user_ratings_total"`
	OpeningHours     *openingHours `json:"opening_hours"`
	PhoneNumber      string        `json:"formatted_phone_number"`
	Website          string        `json:"website"`
	Photos           []placePhoto  `json:"photos"`
}

type placeGeometry struct {
	Location placeLocation `json:"location"`
}

type placeLocation struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type openingHours struct {
	OpenNow bool `json:"open_now"`
}

type placePhoto struct {
	PhotoReference string `json:"photo_reference"`
}
