package services

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caremap/medifinder/internal/domain/entities"
	"github.com/caremap/medifinder/internal/domain/providers"
	"github.com/caremap/medifinder/internal/domain/repositories"
	apperrors "github.com/caremap/medifinder/pkg/errors"
)

type stubGeocoder struct {
	resolved *providers.GeocodedAddress
	err      error
	calls    int
}

func (s *stubGeocoder) PostalLookup(ctx context.Context, postalCode, country string) (*providers.GeocodedAddress, error) {
	s.calls++
	return s.resolved, s.err
}

type stubPlaceSearcher struct {
	results   []*entities.Provider
	err       error
	calls     int
	lastQuery providers.PlaceQuery
}

func (s *stubPlaceSearcher) Search(ctx context.Context, query providers.PlaceQuery) ([]*entities.Provider, error) {
	s.calls++
	s.lastQuery = query
	return s.results, s.err
}

type stubProviderStore struct {
	nearby     []*entities.Provider
	nearbyErr  error
	calls      int
	lastFilter repositories.ProviderFilter
}

func (s *stubProviderStore) FindNearby(ctx context.Context, filter repositories.ProviderFilter) ([]*entities.Provider, error) {
	s.calls++
	s.lastFilter = filter
	return s.nearby, s.nearbyErr
}

func (s *stubProviderStore) GetByPlaceID(ctx context.Context, placeID string) (*entities.Provider, error) {
	return nil, apperrors.NewNotFoundError("not found")
}

func (s *stubProviderStore) Save(ctx context.Context, provider *entities.Provider) error {
	return nil
}

type stubHistoryRepo struct {
	created   []*entities.SearchHistory
	createErr error
	records   []*entities.SearchHistory
	getErr    error
	deleteErr error
}

func (s *stubHistoryRepo) Create(ctx context.Context, record *entities.SearchHistory) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, record)
	return nil
}

func (s *stubHistoryRepo) ListByUser(ctx context.Context, userID string) ([]*entities.SearchHistory, error) {
	return s.records, nil
}

func (s *stubHistoryRepo) GetByID(ctx context.Context, id string) (*entities.SearchHistory, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	for _, r := range s.records {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, apperrors.NewNotFoundError("search record not found")
}

func (s *stubHistoryRepo) DeleteByUser(ctx context.Context, userID string) error {
	return s.deleteErr
}

func sampleProvider(placeID string, lat, lng float64) *entities.Provider {
	return &entities.Provider{
		ID:      placeID,
		PlaceID: placeID,
		Name:    "General Hospital",
		Location: entities.Location{
			Latitude:  lat,
			Longitude: lng,
		},
		Category: entities.CategoryHospital,
	}
}

func newService(geocoder *stubGeocoder, places *stubPlaceSearcher, store *stubProviderStore, history *stubHistoryRepo) *SearchService {
	return NewSearchService(geocoder, places, store, history, "map-key")
}

func TestSearchRequest_Mode(t *testing.T) {
	tests := []struct {
		name     string
		req      SearchRequest
		expected SearchMode
	}{
		{name: "empty request is invalid", req: SearchRequest{}, expected: ModeInvalid},
		{name: "whitespace query is invalid", req: SearchRequest{Query: "  "}, expected: ModeInvalid},
		{name: "query only", req: SearchRequest{Query: "clinic"}, expected: ModeTextOnly},
		{name: "coordinates", req: SearchRequest{HasCoords: true}, expected: ModeCoordinates},
		{name: "postal code wins over coordinates", req: SearchRequest{PostalCode: "100271", HasCoords: true}, expected: ModePostalCode},
		{name: "coordinates win over query", req: SearchRequest{Query: "clinic", HasCoords: true}, expected: ModeCoordinates},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.req.Mode())
		})
	}
}

func TestUnifiedSearch_InvalidRequest(t *testing.T) {
	svc := newService(&stubGeocoder{}, &stubPlaceSearcher{}, &stubProviderStore{}, &stubHistoryRepo{})

	_, err := svc.UnifiedSearch(context.Background(), SearchRequest{})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeInvalidRequest, apperrors.TypeOf(err))
}

func TestUnifiedSearch_CoordinatesUseStoreFirst(t *testing.T) {
	store := &stubProviderStore{nearby: []*entities.Provider{sampleProvider("stored", 6.52, 3.37)}}
	placesStub := &stubPlaceSearcher{results: []*entities.Provider{sampleProvider("external", 6.53, 3.38)}}
	svc := newService(&stubGeocoder{}, placesStub, store, &stubHistoryRepo{})

	resp, err := svc.UnifiedSearch(context.Background(), SearchRequest{
		Latitude:  6.5244,
		Longitude: 3.3792,
		HasCoords: true,
	})
	require.NoError(t, err)

	assert.Zero(t, placesStub.calls, "store hit must suppress the external search")
	require.Len(t, resp.Providers, 1)
	assert.Equal(t, "stored", resp.Providers[0].PlaceID)
	assert.True(t, resp.Center.IsUserLocation)
	assert.Equal(t, 6.5244, resp.Center.Latitude)
	assert.Empty(t, resp.FormattedAddress)
}

func TestUnifiedSearch_CoordinatesFallBackToExternal(t *testing.T) {
	store := &stubProviderStore{}
	placesStub := &stubPlaceSearcher{results: []*entities.Provider{sampleProvider("external", 6.53, 3.38)}}
	svc := newService(&stubGeocoder{}, placesStub, store, &stubHistoryRepo{})

	resp, err := svc.UnifiedSearch(context.Background(), SearchRequest{
		Latitude:  6.5244,
		Longitude: 3.3792,
		HasCoords: true,
		RadiusKm:  8,
	})
	require.NoError(t, err)

	assert.Equal(t, 1, placesStub.calls)
	assert.True(t, placesStub.lastQuery.HasCoords)
	assert.Equal(t, 8000, placesStub.lastQuery.RadiusM)
	require.Len(t, resp.Providers, 1)
	assert.Equal(t, "external", resp.Providers[0].PlaceID)
}

func TestUnifiedSearch_PostalCode(t *testing.T) {
	geocoder := &stubGeocoder{resolved: &providers.GeocodedAddress{
		Latitude:         6.6018,
		Longitude:        3.3515,
		FormattedAddress: "Ikeja, Lagos, Nigeria",
	}}
	store := &stubProviderStore{nearby: []*entities.Provider{sampleProvider("stored", 6.6, 3.35)}}
	history := &stubHistoryRepo{}
	svc := newService(geocoder, &stubPlaceSearcher{}, store, history)

	resp, err := svc.UnifiedSearch(context.Background(), SearchRequest{
		PostalCode: "100271",
		UserID:     "user-1",
	})
	require.NoError(t, err)

	assert.Equal(t, "Ikeja, Lagos, Nigeria", resp.FormattedAddress)
	assert.True(t, resp.Center.IsUserLocation)
	assert.Equal(t, 6.6018, resp.Center.Latitude)
	assert.Equal(t, 6.6018, store.lastFilter.Latitude)

	// History records the resolved coordinates, not the raw postal code fields.
	require.Len(t, history.created, 1)
	assert.Equal(t, "user-1", history.created[0].UserID)
	assert.Equal(t, 6.6018, history.created[0].Params.Latitude)
	assert.Equal(t, 3.3515, history.created[0].Params.Longitude)
	assert.Equal(t, 1, history.created[0].ResultCount)
}

func TestUnifiedSearch_PostalCodeFailureBecomesValidation(t *testing.T) {
	tests := []struct {
		name       string
		geocodeErr error
		wantInMsg  string
	}{
		{
			name:       "not found",
			geocodeErr: apperrors.NewNotFoundError("no location found for postal code 99999"),
			wantInMsg:  "no location found",
		},
		{
			name:       "upstream failure",
			geocodeErr: apperrors.NewExternalError("geocode request failed: REQUEST_DENIED", nil),
			wantInMsg:  "REQUEST_DENIED",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newService(&stubGeocoder{err: tt.geocodeErr}, &stubPlaceSearcher{}, &stubProviderStore{}, &stubHistoryRepo{})

			_, err := svc.UnifiedSearch(context.Background(), SearchRequest{PostalCode: "99999"})
			require.Error(t, err)
			assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
			assert.Contains(t, err.Error(), "failed to resolve pincode")
			assert.Contains(t, err.Error(), tt.wantInMsg)
		})
	}
}

func TestUnifiedSearch_PostalCodeValidationPassesThrough(t *testing.T) {
	original := apperrors.NewValidationError("postal code must be at least 4 characters")
	svc := newService(&stubGeocoder{err: original}, &stubPlaceSearcher{}, &stubProviderStore{}, &stubHistoryRepo{})

	_, err := svc.UnifiedSearch(context.Background(), SearchRequest{PostalCode: "12"})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeValidation, apperrors.TypeOf(err))
	assert.NotContains(t, err.Error(), "failed to resolve pincode")
}

func TestUnifiedSearch_TextOnlyRecentersOnFirstResult(t *testing.T) {
	placesStub := &stubPlaceSearcher{results: []*entities.Provider{
		sampleProvider("a", 6.52, 3.37),
		sampleProvider("b", 6.60, 3.40),
	}}
	store := &stubProviderStore{}
	svc := newService(&stubGeocoder{}, placesStub, store, &stubHistoryRepo{})

	resp, err := svc.UnifiedSearch(context.Background(), SearchRequest{Query: "lagos clinics"})
	require.NoError(t, err)

	assert.Zero(t, store.calls, "text-only search never touches the store")
	assert.Equal(t, 6.52, resp.Center.Latitude)
	assert.Equal(t, 3.37, resp.Center.Longitude)
	assert.False(t, resp.Center.IsUserLocation)
	assert.Empty(t, resp.FormattedAddress)
}

func TestUnifiedSearch_TextOnlyEmptyResultUsesFallbackCenter(t *testing.T) {
	svc := newService(&stubGeocoder{}, &stubPlaceSearcher{}, &stubProviderStore{}, &stubHistoryRepo{})

	resp, err := svc.UnifiedSearch(context.Background(), SearchRequest{Query: "nowhere"})
	require.NoError(t, err)

	assert.NotNil(t, resp.Providers)
	assert.Empty(t, resp.Providers)
	assert.Equal(t, fallbackCenter, resp.Center)
	assert.NotEmpty(t, resp.MapURL)
}

func TestUnifiedSearch_MapURLMarkersAndUserCenter(t *testing.T) {
	stored := make([]*entities.Provider, 0, 12)
	for i := 0; i < 12; i++ {
		stored = append(stored, sampleProvider("p", 6.5+float64(i)*0.01, 3.3))
	}
	svc := newService(&stubGeocoder{}, &stubPlaceSearcher{}, &stubProviderStore{nearby: stored}, &stubHistoryRepo{})

	resp, err := svc.UnifiedSearch(context.Background(), SearchRequest{
		Latitude:  6.5244,
		Longitude: 3.3792,
		HasCoords: true,
	})
	require.NoError(t, err)

	u, err := url.Parse(resp.MapURL)
	require.NoError(t, err)
	markers := u.Query()["markers"]

	// 10 numbered provider markers plus one blue user-center marker.
	assert.Len(t, markers, 11)
	blue := 0
	for _, m := range markers {
		if strings.HasPrefix(m, "color:blue|") {
			blue++
		}
	}
	assert.Equal(t, 1, blue)
}

func TestUnifiedSearch_HistoryFailureIsSwallowed(t *testing.T) {
	history := &stubHistoryRepo{createErr: errors.New("db down")}
	store := &stubProviderStore{nearby: []*entities.Provider{sampleProvider("stored", 6.52, 3.37)}}
	svc := newService(&stubGeocoder{}, &stubPlaceSearcher{}, store, history)

	resp, err := svc.UnifiedSearch(context.Background(), SearchRequest{
		Latitude:  6.5244,
		Longitude: 3.3792,
		HasCoords: true,
		UserID:    "user-1",
	})
	require.NoError(t, err)
	assert.Len(t, resp.Providers, 1)
}

func TestUnifiedSearch_NoUserIDSkipsHistory(t *testing.T) {
	history := &stubHistoryRepo{}
	store := &stubProviderStore{nearby: []*entities.Provider{sampleProvider("stored", 6.52, 3.37)}}
	svc := newService(&stubGeocoder{}, &stubPlaceSearcher{}, store, history)

	_, err := svc.UnifiedSearch(context.Background(), SearchRequest{
		Latitude:  6.5244,
		Longitude: 3.3792,
		HasCoords: true,
	})
	require.NoError(t, err)
	assert.Empty(t, history.created)
}

func TestNearbyFacilities_ExternalDefaults(t *testing.T) {
	placesStub := &stubPlaceSearcher{}
	svc := newService(&stubGeocoder{}, placesStub, &stubProviderStore{}, &stubHistoryRepo{})

	tests := []struct {
		name          string
		query         NearbyQuery
		wantType      string
		wantKeyword   string
		wantSpecialty string
	}{
		{
			name:        "no filters defaults to hospital",
			query:       NearbyQuery{Latitude: 6.52, Longitude: 3.37},
			wantType:    "hospital",
			wantKeyword: defaultQuery,
		},
		{
			name:        "type drives keyword",
			query:       NearbyQuery{Latitude: 6.52, Longitude: 3.37, Type: "pharmacy"},
			wantType:    "pharmacy",
			wantKeyword: "pharmacy",
		},
		{
			name:          "specialty alone suppresses hospital default",
			query:         NearbyQuery{Latitude: 6.52, Longitude: 3.37, Specialty: "cardiology"},
			wantType:      "",
			wantKeyword:   "cardiology",
			wantSpecialty: "cardiology",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.NearbyFacilities(context.Background(), tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.wantType, placesStub.lastQuery.Type)
			assert.Equal(t, tt.wantKeyword, placesStub.lastQuery.Query)
			assert.Equal(t, tt.wantSpecialty, placesStub.lastQuery.Specialty)
			assert.True(t, placesStub.lastQuery.HasCoords)
		})
	}
}

func TestNearbyFacilities_EmptyExternalResultIsSuccess(t *testing.T) {
	svc := newService(&stubGeocoder{}, &stubPlaceSearcher{}, &stubProviderStore{}, &stubHistoryRepo{})

	got, err := svc.NearbyFacilities(context.Background(), NearbyQuery{Latitude: 6.52, Longitude: 3.37})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNearbyFacilities_StoreErrorPropagates(t *testing.T) {
	store := &stubProviderStore{nearbyErr: apperrors.NewInternalError("query failed", errors.New("boom"))}
	svc := newService(&stubGeocoder{}, &stubPlaceSearcher{}, store, &stubHistoryRepo{})

	_, err := svc.NearbyFacilities(context.Background(), NearbyQuery{Latitude: 6.52, Longitude: 3.37})
	require.Error(t, err)
	assert.Equal(t, apperrors.ErrorTypeInternal, apperrors.TypeOf(err))
}

func TestNearbyFacilities_RecordsHistoryWithUserID(t *testing.T) {
	history := &stubHistoryRepo{}
	store := &stubProviderStore{nearby: []*entities.Provider{sampleProvider("stored", 6.52, 3.37)}}
	svc := newService(&stubGeocoder{}, &stubPlaceSearcher{}, store, history)

	_, err := svc.NearbyFacilities(context.Background(), NearbyQuery{
		Latitude:  6.52,
		Longitude: 3.37,
		Type:      "clinic",
		UserID:    "user-9",
	})
	require.NoError(t, err)

	require.Len(t, history.created, 1)
	assert.Equal(t, "user-9", history.created[0].UserID)
	assert.Equal(t, "clinic", history.created[0].Params.Type)
	assert.Equal(t, 1, history.created[0].ResultCount)
}
