package maps

import (
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/caremap/medifinder/internal/domain/entities"
)

const (
	staticMapURL = "https://maps.googleapis.com/maps/api/staticmap"

	// maxMarkers bounds URL length, independent of how many providers the
	// caller supplies.
	maxMarkers = 10

	defaultZoom   = 14
	defaultWidth  = 600
	defaultHeight = 400
)

// BuildStaticMapURL composes a static map image URL annotated with up to
// maxMarkers provider markers in input order, labeled from 1, plus a blue
// marker for the center when it is a genuine user location. It never fails;
// on an unusable center it returns an empty string.
func BuildStaticMapURL(desc entities.MapDescriptor, apiKey string) string {
	if !isFinite(desc.Center.Latitude) || !isFinite(desc.Center.Longitude) {
		return ""
	}

	zoom := desc.Zoom
	if zoom <= 0 {
		zoom = defaultZoom
	}
	width, height := desc.Width, desc.Height
	if width <= 0 || height <= 0 {
		width, height = defaultWidth, defaultHeight
	}

	var query strings.Builder
	fmt.Fprintf(&query, "center=%s", url.QueryEscape(fmt.Sprintf("%f,%f", desc.Center.Latitude, desc.Center.Longitude)))
	fmt.Fprintf(&query, "&zoom=%d", zoom)
	fmt.Fprintf(&query, "&size=%dx%d", width, height)

	count := len(desc.Providers)
	if count > maxMarkers {
		count = maxMarkers
	}
	for i := 0; i < count; i++ {
		p := desc.Providers[i]
		if p == nil || !isFinite(p.Location.Latitude) || !isFinite(p.Location.Longitude) {
			continue
		}
		marker := fmt.Sprintf("color:red|label:%d|%f,%f", i+1, p.Location.Latitude, p.Location.Longitude)
		fmt.Fprintf(&query, "&markers=%s", url.QueryEscape(marker))
	}

	if desc.Center.IsUserLocation {
		marker := fmt.Sprintf("color:blue|label:C|%f,%f", desc.Center.Latitude, desc.Center.Longitude)
		fmt.Fprintf(&query, "&markers=%s", url.QueryEscape(marker))
	}

	fmt.Fprintf(&query, "&key=%s", url.QueryEscape(apiKey))

	return staticMapURL + "?" + query.String()
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
