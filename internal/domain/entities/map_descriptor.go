package entities

// MapCenter is the focal point of a static map. IsUserLocation distinguishes a
// genuine user-supplied location from a fallback center.
type MapCenter struct {
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	IsUserLocation bool    `json:"is_user_location"`
}

// MapDescriptor describes a static map image request. It is ephemeral and
// never persisted.
type MapDescriptor struct {
	Center    MapCenter
	Zoom      int
	Width     int
	Height    int
	Providers []*Provider
}

// FacilitySummary is an AI-generated free-text summary of a facility.
type FacilitySummary struct {
	FacilityName string `json:"facility_name"`
	Summary      string `json:"summary"`
	GeneratedAt  string `json:"generated_at"`
}
