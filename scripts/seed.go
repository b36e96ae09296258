package main

import (
	"context"
	"log"
	"os"

	"github.com/caremap/medifinder/internal/adapters/database"
	"github.com/caremap/medifinder/internal/domain/entities"
	"github.com/caremap/medifinder/internal/infrastructure/clients/postgres"
	"github.com/caremap/medifinder/pkg/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS providers (
	place_id     TEXT PRIMARY KEY,
	name         TEXT NOT NULL,
	address      TEXT NOT NULL DEFAULT '',
	latitude     DOUBLE PRECISION NOT NULL,
	longitude    DOUBLE PRECISION NOT NULL,
	category     TEXT NOT NULL DEFAULT '',
	specialty    TEXT,
	rating       DOUBLE PRECISION NOT NULL DEFAULT 0,
	phone_number TEXT,
	website      TEXT,
	open_now     BOOLEAN NOT NULL DEFAULT FALSE,
	price_level  INTEGER NOT NULL DEFAULT 0,
	review_count INTEGER NOT NULL DEFAULT 0,
	insurance    TEXT[] NOT NULL DEFAULT '{}',
	photos       TEXT[] NOT NULL DEFAULT '{}',
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_providers_lat_lng ON providers (latitude, longitude);

CREATE TABLE IF NOT EXISTS search_history (
	id           TEXT PRIMARY KEY,
	user_id      TEXT NOT NULL,
	params       JSONB NOT NULL DEFAULT '{}',
	result_count INTEGER NOT NULL DEFAULT 0,
	created_at   TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_search_history_user ON search_history (user_id, created_at DESC);
`

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()

	if _, err := pgClient.DB().ExecContext(ctx, schema); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}
	log.Println("Schema applied")

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		if _, err := pgClient.DB().ExecContext(ctx, `TRUNCATE TABLE providers, search_history`); err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	providerRepo := database.NewProviderAdapter(pgClient)

	sampleProviders := []*entities.Provider{
		{
			PlaceID:     "seed-lagos-general",
			Name:        "Lagos General Hospital",
			Address:     "1 Marina Rd, Lagos Island, Lagos",
			Location:    entities.Location{Latitude: 6.4541, Longitude: 3.3947},
			Category:    entities.CategoryHospital,
			Rating:      4.3,
			PhoneNumber: "+234-800-000-0001",
			OpenNow:     true,
			PriceLevel:  2,
			ReviewCount: 215,
			Insurance:   []string{"NHIS", "AXA"},
		},
		{
			PlaceID:     "seed-ikeja-clinic",
			Name:        "Sunrise Family Clinic",
			Address:     "22 Allen Ave, Ikeja, Lagos",
			Location:    entities.Location{Latitude: 6.6018, Longitude: 3.3515},
			Category:    entities.CategoryClinic,
			Specialty:   "family medicine",
			Rating:      4.6,
			PhoneNumber: "+234-800-000-0002",
			OpenNow:     true,
			PriceLevel:  1,
			ReviewCount: 88,
			Insurance:   []string{"NHIS"},
		},
		{
			PlaceID:     "seed-vi-dental",
			Name:        "Bright Dental Care",
			Address:     "5 Adeola Odeku St, Victoria Island, Lagos",
			Location:    entities.Location{Latitude: 6.4281, Longitude: 3.4219},
			Category:    entities.CategoryDentist,
			Specialty:   "orthodontics",
			Rating:      4.8,
			PhoneNumber: "+234-800-000-0003",
			PriceLevel:  3,
			ReviewCount: 64,
		},
		{
			PlaceID:     "seed-yaba-pharmacy",
			Name:        "QuickMeds Pharmacy",
			Address:     "14 Herbert Macaulay Way, Yaba, Lagos",
			Location:    entities.Location{Latitude: 6.5095, Longitude: 3.3711},
			Category:    entities.CategoryPharmacy,
			Rating:      4.1,
			OpenNow:     true,
			PriceLevel:  1,
			ReviewCount: 142,
		},
		{
			PlaceID:     "seed-surulere-lab",
			Name:        "Pathcare Laboratory",
			Address:     "30 Adeniran Ogunsanya St, Surulere, Lagos",
			Location:    entities.Location{Latitude: 6.4969, Longitude: 3.3566},
			Category:    entities.CategoryLaboratory,
			Rating:      4.4,
			PriceLevel:  2,
			ReviewCount: 53,
			Insurance:   []string{"AXA", "Hygeia"},
		},
	}

	for _, p := range sampleProviders {
		if err := providerRepo.Save(ctx, p); err != nil {
			log.Printf("Failed to seed provider %s: %v", p.Name, err)
		}
	}

	log.Printf("Seeded %d providers", len(sampleProviders))
}
