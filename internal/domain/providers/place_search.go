package providers

import (
	"context"

	"github.com/caremap/medifinder/internal/domain/entities"
)

// PlaceQuery describes one provider search against the external maps provider.
// When both Latitude and Longitude are set, a radius-bounded nearby search is
// performed; otherwise a free-text search with no geographic bound.
type PlaceQuery struct {
	Query     string
	Type      string
	Specialty string
	Latitude  float64
	Longitude float64
	HasCoords bool
	RadiusM   int
}

// PlaceSearcher searches the external maps provider for healthcare facilities.
// An empty result list is success, never a failure.
type PlaceSearcher interface {
	Search(ctx context.Context, query PlaceQuery) ([]*entities.Provider, error)
}
