package maps

import (
	"math"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/caremap/medifinder/internal/domain/entities"
)

func makeProviders(n int) []*entities.Provider {
	out := make([]*entities.Provider, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, &entities.Provider{
			PlaceID: "p",
			Location: entities.Location{
				Latitude:  6.5 + float64(i)*0.001,
				Longitude: 3.3 + float64(i)*0.001,
			},
		})
	}
	return out
}

func parseMarkers(t *testing.T, rawURL string) []string {
	t.Helper()
	u, err := url.Parse(rawURL)
	require.NoError(t, err)
	return u.Query()["markers"]
}

func TestBuildStaticMapURL_MarkerCap(t *testing.T) {
	tests := []struct {
		name         string
		providers    int
		userLocation bool
		wantMarkers  int
	}{
		{name: "no providers no user center", providers: 0, userLocation: false, wantMarkers: 0},
		{name: "three providers", providers: 3, userLocation: false, wantMarkers: 3},
		{name: "ten providers exactly", providers: 10, userLocation: false, wantMarkers: 10},
		{name: "fifteen providers capped at ten", providers: 15, userLocation: false, wantMarkers: 10},
		{name: "user center adds blue marker", providers: 15, userLocation: true, wantMarkers: 11},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			desc := entities.MapDescriptor{
				Center: entities.MapCenter{
					Latitude:       6.5244,
					Longitude:      3.3792,
					IsUserLocation: tt.userLocation,
				},
				Providers: makeProviders(tt.providers),
			}

			got := BuildStaticMapURL(desc, "test-key")
			markers := parseMarkers(t, got)
			assert.Len(t, markers, tt.wantMarkers)

			blue := 0
			for _, m := range markers {
				if strings.HasPrefix(m, "color:blue|label:C|") {
					blue++
				}
			}
			if tt.userLocation {
				assert.Equal(t, 1, blue)
			} else {
				assert.Zero(t, blue)
			}
		})
	}
}

func TestBuildStaticMapURL_LabelsFollowInputOrder(t *testing.T) {
	desc := entities.MapDescriptor{
		Center:    entities.MapCenter{Latitude: 6.5244, Longitude: 3.3792},
		Providers: makeProviders(3),
	}

	markers := parseMarkers(t, BuildStaticMapURL(desc, "test-key"))
	require.Len(t, markers, 3)
	for i, m := range markers {
		assert.True(t, strings.HasPrefix(m, "color:red|label:"), "marker %d: %s", i, m)
		assert.Contains(t, m, "|label:")
	}
	assert.Contains(t, markers[0], "label:1|")
	assert.Contains(t, markers[1], "label:2|")
	assert.Contains(t, markers[2], "label:3|")
}

func TestBuildStaticMapURL_Defaults(t *testing.T) {
	desc := entities.MapDescriptor{
		Center: entities.MapCenter{Latitude: 6.5244, Longitude: 3.3792},
	}

	got := BuildStaticMapURL(desc, "test-key")
	u, err := url.Parse(got)
	require.NoError(t, err)

	q := u.Query()
	assert.Equal(t, "14", q.Get("zoom"))
	assert.Equal(t, "600x400", q.Get("size"))
	assert.Equal(t, "test-key", q.Get("key"))

	assert.True(t, strings.HasSuffix(got, "&key=test-key"), got)
}

func TestBuildStaticMapURL_ExplicitDimensions(t *testing.T) {
	desc := entities.MapDescriptor{
		Center: entities.MapCenter{Latitude: 6.5244, Longitude: 3.3792},
		Zoom:   11,
		Width:  800,
		Height: 600,
	}

	u, err := url.Parse(BuildStaticMapURL(desc, "k"))
	require.NoError(t, err)
	assert.Equal(t, "11", u.Query().Get("zoom"))
	assert.Equal(t, "800x600", u.Query().Get("size"))
}

func TestBuildStaticMapURL_UnusableCenter(t *testing.T) {
	for _, v := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		desc := entities.MapDescriptor{
			Center: entities.MapCenter{Latitude: v, Longitude: 3.3792},
		}
		assert.Empty(t, BuildStaticMapURL(desc, "k"))
	}
}

func TestBuildStaticMapURL_SkipsUnusableProviderCoordinates(t *testing.T) {
	desc := entities.MapDescriptor{
		Center: entities.MapCenter{Latitude: 6.5244, Longitude: 3.3792},
		Providers: []*entities.Provider{
			{Location: entities.Location{Latitude: 6.5, Longitude: 3.3}},
			nil,
			{Location: entities.Location{Latitude: math.NaN(), Longitude: 3.3}},
			{Location: entities.Location{Latitude: 6.6, Longitude: 3.4}},
		},
	}

	markers := parseMarkers(t, BuildStaticMapURL(desc, "k"))
	assert.Len(t, markers, 2)
}
