package entities

import (
	"time"
)

// SearchParams captures the filters of one facility search. Stored with each
// history record so a past search can be replayed verbatim.
type SearchParams struct {
	Latitude   float64 `json:"latitude,omitempty"`
	Longitude  float64 `json:"longitude,omitempty"`
	Type       string  `json:"type,omitempty"`
	Specialty  string  `json:"specialty,omitempty"`
	PriceRange string  `json:"price_range,omitempty"`
	RadiusKm   float64 `json:"radius_km,omitempty"`
	Insurance  string  `json:"insurance,omitempty"`
}

// SearchHistory records one facility search made by a user. ResultCount always
// reflects the count at the time of the original search; replaying a record
// never overwrites it.
type SearchHistory struct {
	ID          string       `json:"id" db:"id"`
	UserID      string       `json:"user_id" db:"user_id"`
	Params      SearchParams `json:"search_params" db:"-"`
	ResultCount int          `json:"result_count" db:"result_count"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
}
