package entities

import (
	"strings"
	"time"
)

// ProviderCategory classifies a healthcare facility.
type ProviderCategory string

const (
	CategoryHospital   ProviderCategory = "Hospital"
	CategoryDoctor     ProviderCategory = "Doctor"
	CategoryClinic     ProviderCategory = "Clinic"
	CategoryPharmacy   ProviderCategory = "Pharmacy"
	CategoryDentist    ProviderCategory = "Dentist"
	CategoryLaboratory ProviderCategory = "Laboratory"
	CategoryGeneric    ProviderCategory = "Healthcare Provider"
)

// categoryRule pairs a category with the keywords that select it.
// Rules are evaluated in order; the first match wins.
type categoryRule struct {
	category ProviderCategory
	keywords []string
}

var categoryRules = []categoryRule{
	{CategoryHospital, []string{"hospital"}},
	{CategoryDoctor, []string{"doctor", "physician"}},
	{CategoryClinic, []string{"clinic"}},
	{CategoryPharmacy, []string{"pharmacy", "drugstore"}},
	{CategoryDentist, []string{"dentist", "dental"}},
	{CategoryLaboratory, []string{"laboratory", "lab"}},
}

// DeriveCategory derives a provider category from upstream type tags and the
// facility name. Priority follows the order of categoryRules.
func DeriveCategory(types []string, name string) ProviderCategory {
	haystack := strings.ToLower(strings.Join(types, " ") + " " + name)
	for _, rule := range categoryRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(haystack, keyword) {
				return rule.category
			}
		}
	}
	return CategoryGeneric
}

// Location represents geographical coordinates
type Location struct {
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
}

// Provider represents a normalized healthcare facility record, regardless of
// whether it came from the local store or an external search. Providers are
// built once per request and replaced wholesale on save, never mutated.
type Provider struct {
	ID          string           `json:"id" db:"id"`
	PlaceID     string           `json:"place_id" db:"place_id"`
	Name        string           `json:"name" db:"name"`
	Address     string           `json:"address" db:"address"`
	Location    Location         `json:"location" db:"-"`
	Category    ProviderCategory `json:"category" db:"category"`
	Specialty   string           `json:"specialty,omitempty" db:"specialty"`
	Rating      float64          `json:"rating" db:"rating"`
	PhoneNumber string           `json:"phone_number,omitempty" db:"phone_number"`
	Website     string           `json:"website,omitempty" db:"website"`
	OpenNow     bool             `json:"open_now" db:"open_now"`
	PriceLevel  int              `json:"price_level" db:"price_level"`
	ReviewCount int              `json:"review_count" db:"review_count"`
	Insurance   []string         `json:"insurance,omitempty" db:"-"`
	Photos      []string         `json:"photos,omitempty" db:"-"`
	CreatedAt   time.Time        `json:"created_at,omitempty" db:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at,omitempty" db:"updated_at"`
}
