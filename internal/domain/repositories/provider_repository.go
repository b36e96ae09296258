package repositories

import (
	"context"

	"github.com/caremap/medifinder/internal/domain/entities"
)

// ProviderFilter narrows a local provider store lookup. Latitude/Longitude and
// RadiusKm bound the search area; the remaining fields are optional predicates.
type ProviderFilter struct {
	Latitude   float64
	Longitude  float64
	RadiusKm   float64
	Type       string
	Specialty  string
	PriceRange string
	Insurance  string
	Limit      int
}

// ProviderRepository stores already-known providers keyed by their external
// place identifier. Matching semantics of FindNearby are store-defined; the
// result is an ordered list.
type ProviderRepository interface {
	FindNearby(ctx context.Context, filter ProviderFilter) ([]*entities.Provider, error)
	GetByPlaceID(ctx context.Context, placeID string) (*entities.Provider, error)
	Save(ctx context.Context, provider *entities.Provider) error
}
