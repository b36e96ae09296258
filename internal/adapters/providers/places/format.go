package places

import (
	"math/rand"
	"time"

	"github.com/caremap/medifinder/internal/domain/entities"
)

// RandSource supplies the pseudo-random placeholder defaults. *rand.Rand
// satisfies it; tests pin it to a fixed seed or a stub.
type RandSource interface {
	Intn(n int) int
}

// Formatter maps one raw place record into a normalized Provider. Upstream
// frequently omits rating, price level and review count; those fall back to
// randomized placeholder values rather than zero so downstream display code
// has something to render.
type Formatter struct {
	random RandSource
}

// NewFormatter creates a formatter. A nil source gets a time-seeded one.
func NewFormatter(random RandSource) *Formatter {
	if random == nil {
		random = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Formatter{random: random}
}

// Format converts one raw record into a Provider.
func (f *Formatter) Format(raw RawPlace) *entities.Provider {
	name := raw.Name
	if name == "" {
		name = "Unknown Provider"
	}

	address := raw.FormattedAddress
	if address == "" {
		address = raw.Vicinity
	}

	rating := float64(3 + f.random.Intn(3)) // [3,5]
	if raw.Rating != nil {
		rating = *raw.Rating
	}

	priceLevel := 1 + f.random.Intn(3) // [1,3]
	if raw.PriceLevel != nil {
		priceLevel = *raw.PriceLevel
	}

	reviewCount := 5 + f.random.Intn(20) // [5,25)
	if raw.UserRatingsTotal != nil {
		reviewCount = *raw.UserRatingsTotal
	}

	openNow := false
	if raw.OpeningHours != nil {
		openNow = raw.OpeningHours.OpenNow
	}

	photos := make([]string, 0, len(raw.Photos))
	for _, photo := range raw.Photos {
		if photo.PhotoReference != "" {
			photos = append(photos, photo.PhotoReference)
		}
	}

	return &entities.Provider{
		ID:      raw.PlaceID,
		PlaceID: raw.PlaceID,
		Name:    name,
		Address: address,
		Location: entities.Location{
			Latitude:  raw.Geometry.Location.Lat,
			Longitude: raw.Geometry.Location.Lng,
		},
		Category:    entities.DeriveCategory(raw.Types, name),
		Rating:      rating,
		PhoneNumber: raw.PhoneNumber,
		Website:     raw.Website,
		OpenNow:     openNow,
		PriceLevel:  priceLevel,
		ReviewCount: reviewCount,
		Photos:      photos,
	}
}
