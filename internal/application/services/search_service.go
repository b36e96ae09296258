package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/caremap/medifinder/internal/adapters/providers/maps"
	"github.com/caremap/medifinder/internal/domain/entities"
	"github.com/caremap/medifinder/internal/domain/providers"
	"github.com/caremap/medifinder/internal/domain/repositories"
	"github.com/caremap/medifinder/internal/infrastructure/observability"
	apperrors "github.com/caremap/medifinder/pkg/errors"
)

const (
	mapZoom      = 14
	mapWidth     = 600
	mapHeight    = 400
	defaultQuery = "medical healthcare"
)

// fallbackCenter anchors the map when a pure-text search returns nothing.
var fallbackCenter = entities.MapCenter{Latitude: 39.8283, Longitude: -98.5795}

// SearchMode is the disambiguated shape of a search request.
type SearchMode int

const (
	ModeInvalid SearchMode = iota
	ModeTextOnly
	ModeCoordinates
	ModePostalCode
)

// SearchRequest is one parsed unified search request.
type SearchRequest struct {
	Query      string
	Latitude   float64
	Longitude  float64
	HasCoords  bool
	PostalCode string
	Country    string
	Type       string
	Specialty  string
	PriceRange string
	RadiusKm   float64
	Insurance  string
	UserID     string
}

// Mode classifies the request. Precedence: postal code, then coordinates,
// then free text.
func (r SearchRequest) Mode() SearchMode {
	switch {
	case strings.TrimSpace(r.PostalCode) != "":
		return ModePostalCode
	case r.HasCoords:
		return ModeCoordinates
	case strings.TrimSpace(r.Query) != "":
		return ModeTextOnly
	default:
		return ModeInvalid
	}
}

// SearchResponse is the unified search payload.
type SearchResponse struct {
	Providers        []*entities.Provider `json:"providers"`
	MapURL           string               `json:"mapUrl"`
	Center           entities.MapCenter   `json:"center"`
	FormattedAddress string               `json:"formattedAddress,omitempty"`
}

// NearbyQuery is one coordinate-bounded facility lookup, shared by the
// unified search, the facilities endpoint and history replay.
type NearbyQuery struct {
	Latitude   float64
	Longitude  float64
	Type       string
	Specialty  string
	PriceRange string
	RadiusKm   float64
	Insurance  string
	UserID     string
}

// SearchService selects a search strategy per request and merges local-store
// and external results.
type SearchService struct {
	geocoder   providers.Geocoder
	places     providers.PlaceSearcher
	store      repositories.ProviderRepository
	history    repositories.SearchHistoryRepository
	mapsAPIKey string
}

// NewSearchService creates a new search service.
func NewSearchService(
	geocoder providers.Geocoder,
	places providers.PlaceSearcher,
	store repositories.ProviderRepository,
	history repositories.SearchHistoryRepository,
	mapsAPIKey string,
) *SearchService {
	return &SearchService{
		geocoder:   geocoder,
		places:     places,
		store:      store,
		history:    history,
		mapsAPIKey: mapsAPIKey,
	}
}

// UnifiedSearch resolves the request location, picks a search strategy,
// merges results and synthesizes the static map URL.
func (s *SearchService) UnifiedSearch(ctx context.Context, req SearchRequest) (*SearchResponse, error) {
	mode := req.Mode()
	if mode == ModeInvalid {
		return nil, apperrors.NewInvalidRequestError("one of query, coordinates or pincode is required")
	}

	var (
		center           entities.MapCenter
		formattedAddress string
		results          []*entities.Provider
	)

	switch mode {
	case ModePostalCode:
		resolved, err := s.geocoder.PostalLookup(ctx, req.PostalCode, req.Country)
		if err != nil {
			// Postal-code failures are client errors regardless of the
			// upstream reason; the reason rides along in the message.
			if apperrors.TypeOf(err) == apperrors.ErrorTypeValidation {
				return nil, err
			}
			return nil, apperrors.NewValidationError(fmt.Sprintf("failed to resolve pincode: %v", err))
		}
		center = entities.MapCenter{Latitude: resolved.Latitude, Longitude: resolved.Longitude, IsUserLocation: true}
		formattedAddress = resolved.FormattedAddress

	case ModeCoordinates:
		center = entities.MapCenter{Latitude: req.Latitude, Longitude: req.Longitude, IsUserLocation: true}

	case ModeTextOnly:
		found, err := s.places.Search(ctx, providers.PlaceQuery{
			Query:     req.Query,
			Type:      req.Type,
			Specialty: req.Specialty,
		})
		if err != nil {
			return nil, err
		}
		results = found
		center = fallbackCenter
		if len(found) > 0 {
			center = entities.MapCenter{
				Latitude:  found[0].Location.Latitude,
				Longitude: found[0].Location.Longitude,
			}
		}
	}

	if mode == ModePostalCode || mode == ModeCoordinates {
		found, err := s.NearbyFacilities(ctx, NearbyQuery{
			Latitude:   center.Latitude,
			Longitude:  center.Longitude,
			Type:       req.Type,
			Specialty:  req.Specialty,
			PriceRange: req.PriceRange,
			RadiusKm:   req.RadiusKm,
			Insurance:  req.Insurance,
		})
		if err != nil {
			return nil, err
		}
		results = found
	}

	if req.UserID != "" {
		// Record the resolved coordinates, not the raw request fields, so a
		// postal-code search replays the same area.
		recorded := req
		recorded.Latitude = center.Latitude
		recorded.Longitude = center.Longitude
		s.saveHistory(ctx, recorded, len(results))
	}

	mapURL := maps.BuildStaticMapURL(entities.MapDescriptor{
		Center:    center,
		Zoom:      mapZoom,
		Width:     mapWidth,
		Height:    mapHeight,
		Providers: results,
	}, s.mapsAPIKey)

	if results == nil {
		results = []*entities.Provider{}
	}

	return &SearchResponse{
		Providers:        results,
		MapURL:           mapURL,
		Center:           center,
		FormattedAddress: formattedAddress,
	}, nil
}

// NearbyFacilities looks up the local provider store first and falls back to
// the external search when the store has nothing. An empty external result is
// success with zero providers.
func (s *SearchService) NearbyFacilities(ctx context.Context, query NearbyQuery) ([]*entities.Provider, error) {
	stored, err := s.store.FindNearby(ctx, repositories.ProviderFilter{
		Latitude:   query.Latitude,
		Longitude:  query.Longitude,
		RadiusKm:   query.RadiusKm,
		Type:       query.Type,
		Specialty:  query.Specialty,
		PriceRange: query.PriceRange,
		Insurance:  query.Insurance,
	})
	if err != nil {
		return nil, err
	}

	var results []*entities.Provider
	if len(stored) > 0 {
		results = stored
	} else {
		placeType := query.Type
		if placeType == "" && query.Specialty == "" {
			placeType = "hospital"
		}
		keyword := query.Type
		if keyword == "" {
			keyword = query.Specialty
		}
		if keyword == "" {
			keyword = defaultQuery
		}

		found, err := s.places.Search(ctx, providers.PlaceQuery{
			Query:     keyword,
			Type:      placeType,
			Specialty: query.Specialty,
			Latitude:  query.Latitude,
			Longitude: query.Longitude,
			HasCoords: true,
			RadiusM:   int(query.RadiusKm * 1000),
		})
		if err != nil {
			return nil, err
		}
		results = found
	}

	if query.UserID != "" {
		s.saveHistory(ctx, SearchRequest{
			Latitude:   query.Latitude,
			Longitude:  query.Longitude,
			HasCoords:  true,
			Type:       query.Type,
			Specialty:  query.Specialty,
			PriceRange: query.PriceRange,
			RadiusKm:   query.RadiusKm,
			Insurance:  query.Insurance,
			UserID:     query.UserID,
		}, len(results))
	}

	return results, nil
}

// saveHistory records the search for later replay. Failures never abort an
// otherwise-successful search; they are logged and swallowed.
func (s *SearchService) saveHistory(ctx context.Context, req SearchRequest, resultCount int) {
	record := &entities.SearchHistory{
		UserID: req.UserID,
		Params: entities.SearchParams{
			Latitude:   req.Latitude,
			Longitude:  req.Longitude,
			Type:       req.Type,
			Specialty:  req.Specialty,
			PriceRange: req.PriceRange,
			RadiusKm:   req.RadiusKm,
			Insurance:  req.Insurance,
		},
		ResultCount: resultCount,
	}

	if err := s.history.Create(ctx, record); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).
			Str("user_id", req.UserID).
			Msg("failed to save search history")
	}
}
