package database

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/lib/pq"

	"github.com/caremap/medifinder/internal/domain/entities"
	"github.com/caremap/medifinder/internal/domain/repositories"
	"github.com/caremap/medifinder/internal/infrastructure/clients/postgres"
	apperrors "github.com/caremap/medifinder/pkg/errors"
)

const defaultNearbyLimit = 20

// ProviderAdapter implements the ProviderRepository interface
type ProviderAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewProviderAdapter creates a new provider adapter
func NewProviderAdapter(client *postgres.Client) repositories.ProviderRepository {
	return &ProviderAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

var providerColumns = []interface{}{
	"place_id", "name", "address", "latitude", "longitude", "category",
	"specialty", "rating", "phone_number", "website", "open_now",
	"price_level", "review_count", "insurance", "photos",
	"created_at", "updated_at",
}

// FindNearby returns stored providers inside a bounding box around the filter
// coordinates, narrowed by the optional predicates.
func (a *ProviderAdapter) FindNearby(ctx context.Context, filter repositories.ProviderFilter) ([]*entities.Provider, error) {
	radiusKm := filter.RadiusKm
	if radiusKm <= 0 {
		radiusKm = 5
	}
	latDelta := radiusKm / 111.0
	lngDelta := radiusKm / (111.0 * math.Max(math.Cos(filter.Latitude*math.Pi/180), 0.01))

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultNearbyLimit
	}

	ds := a.db.Select(providerColumns...).From("providers").Where(
		goqu.C("latitude").Between(goqu.Range(filter.Latitude-latDelta, filter.Latitude+latDelta)),
		goqu.C("longitude").Between(goqu.Range(filter.Longitude-lngDelta, filter.Longitude+lngDelta)),
	)

	if filter.Type != "" {
		ds = ds.Where(goqu.C("category").ILike("%" + filter.Type + "%"))
	}
	if filter.Specialty != "" {
		ds = ds.Where(goqu.C("specialty").ILike("%" + filter.Specialty + "%"))
	}
	if filter.Insurance != "" {
		ds = ds.Where(goqu.L("? = ANY(insurance)", filter.Insurance))
	}
	if minPrice, maxPrice, ok := parsePriceRange(filter.PriceRange); ok {
		ds = ds.Where(goqu.C("price_level").Between(goqu.Range(minPrice, maxPrice)))
	}

	query, args, err := ds.Order(goqu.C("name").Asc()).Limit(uint(limit)).ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build nearby providers query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to find nearby providers", err)
	}
	defer rows.Close()

	var results []*entities.Provider
	for rows.Next() {
		provider, err := scanProvider(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan provider", err)
		}
		results = append(results, provider)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read nearby providers", err)
	}

	return results, nil
}

// GetByPlaceID retrieves one stored provider by its external place identifier.
func (a *ProviderAdapter) GetByPlaceID(ctx context.Context, placeID string) (*entities.Provider, error) {
	query, args, err := a.db.Select(providerColumns...).
		From("providers").
		Where(goqu.Ex{"place_id": placeID}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build provider query", err)
	}

	row := a.client.DB().QueryRowContext(ctx, query, args...)
	provider, err := scanProvider(row)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("provider with place id %s not found", placeID))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get provider", err)
	}

	return provider, nil
}

// Save upserts one provider keyed by place_id, replacing the row wholesale.
func (a *ProviderAdapter) Save(ctx context.Context, provider *entities.Provider) error {
	if provider == nil || provider.PlaceID == "" {
		return apperrors.NewValidationError("provider place id is required")
	}

	now := time.Now().UTC()
	record := goqu.Record{
		"place_id":     provider.PlaceID,
		"name":         provider.Name,
		"address":      provider.Address,
		"latitude":     provider.Location.Latitude,
		"longitude":    provider.Location.Longitude,
		"category":     string(provider.Category),
		"specialty":    provider.Specialty,
		"rating":       provider.Rating,
		"phone_number": provider.PhoneNumber,
		"website":      provider.Website,
		"open_now":     provider.OpenNow,
		"price_level":  provider.PriceLevel,
		"review_count": provider.ReviewCount,
		"insurance":    pq.Array(provider.Insurance),
		"photos":       pq.Array(provider.Photos),
		"created_at":   now,
		"updated_at":   now,
	}

	update := goqu.Record{}
	for column, value := range record {
		if column == "place_id" || column == "created_at" {
			continue
		}
		update[column] = value
	}

	query, args, err := a.db.Insert("providers").
		Rows(record).
		OnConflict(goqu.DoUpdate("place_id", update)).
		ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build provider upsert query", err)
	}

	if _, err := a.client.DB().ExecContext(ctx, query, args...); err != nil {
		return apperrors.NewInternalError("failed to save provider", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProvider(row rowScanner) (*entities.Provider, error) {
	provider := &entities.Provider{}
	var specialty, phoneNumber, website sql.NullString
	var insurance, photos pq.StringArray
	var category string

	err := row.Scan(
		&provider.PlaceID,
		&provider.Name,
		&provider.Address,
		&provider.Location.Latitude,
		&provider.Location.Longitude,
		&category,
		&specialty,
		&provider.Rating,
		&phoneNumber,
		&website,
		&provider.OpenNow,
		&provider.PriceLevel,
		&provider.ReviewCount,
		&insurance,
		&photos,
		&provider.CreatedAt,
		&provider.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	provider.ID = provider.PlaceID
	provider.Category = entities.ProviderCategory(category)
	provider.Specialty = specialty.String
	provider.PhoneNumber = phoneNumber.String
	provider.Website = website.String
	provider.Insurance = insurance
	provider.Photos = photos

	return provider, nil
}

// parsePriceRange parses "min-max" (e.g. "1-3") or a single level ("2").
func parsePriceRange(priceRange string) (int, int, bool) {
	priceRange = strings.TrimSpace(priceRange)
	if priceRange == "" {
		return 0, 0, false
	}

	if minStr, maxStr, found := strings.Cut(priceRange, "-"); found {
		minPrice, errMin := strconv.Atoi(strings.TrimSpace(minStr))
		maxPrice, errMax := strconv.Atoi(strings.TrimSpace(maxStr))
		if errMin != nil || errMax != nil || minPrice > maxPrice {
			return 0, 0, false
		}
		return minPrice, maxPrice, true
	}

	level, err := strconv.Atoi(priceRange)
	if err != nil {
		return 0, 0, false
	}
	return level, level, true
}
