package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/caremap/medifinder/internal/application/services"
	"github.com/caremap/medifinder/internal/domain/entities"
	apperrors "github.com/caremap/medifinder/pkg/errors"
)

// SearchHandler handles provider search endpoints.
type SearchHandler struct {
	search *services.SearchService
}

// NewSearchHandler creates a new search handler.
func NewSearchHandler(search *services.SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

// UnifiedSearch handles GET /api/providers
func (h *SearchHandler) UnifiedSearch(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	req := services.SearchRequest{
		Query:      strings.TrimSpace(query.Get("query")),
		PostalCode: strings.TrimSpace(query.Get("pincode")),
		Country:    strings.TrimSpace(query.Get("country")),
		Type:       strings.TrimSpace(query.Get("type")),
		Specialty:  strings.TrimSpace(query.Get("specialty")),
		PriceRange: strings.TrimSpace(query.Get("priceRange")),
		Insurance:  strings.TrimSpace(query.Get("insurance")),
		UserID:     strings.TrimSpace(query.Get("userId")),
	}

	lat, latErr := strconv.ParseFloat(query.Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(query.Get("lng"), 64)
	if latErr == nil && lngErr == nil {
		req.Latitude = lat
		req.Longitude = lng
		req.HasCoords = true
	}
	if radius, err := strconv.ParseFloat(query.Get("radius"), 64); err == nil && radius > 0 {
		req.RadiusKm = radius
	}

	response, err := h.search.UnifiedSearch(r.Context(), req)
	if err != nil {
		h.respondSearchError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, response)
}

// NearbyFacilities handles GET /api/facilities
func (h *SearchHandler) NearbyFacilities(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	lat, latErr := strconv.ParseFloat(query.Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(query.Get("lng"), 64)
	if latErr != nil || lngErr != nil {
		respondWithError(w, http.StatusBadRequest, "lat and lng parameters are required")
		return
	}

	nearby := services.NearbyQuery{
		Latitude:   lat,
		Longitude:  lng,
		Type:       strings.TrimSpace(query.Get("type")),
		Specialty:  strings.TrimSpace(query.Get("speciality")),
		PriceRange: strings.TrimSpace(query.Get("priceRange")),
		UserID:     strings.TrimSpace(query.Get("userId")),
	}
	if radius, err := strconv.ParseFloat(query.Get("radius"), 64); err == nil && radius > 0 {
		nearby.RadiusKm = radius
	}

	facilities, err := h.search.NearbyFacilities(r.Context(), nearby)
	if err != nil {
		respondWithAppError(w, err, "failed to search facilities")
		return
	}
	if facilities == nil {
		facilities = []*entities.Provider{}
	}

	respondWithJSON(w, http.StatusOK, facilities)
}

// respondSearchError keeps the unified search response shape on failure:
// an empty provider list and a null map URL alongside the error.
func (h *SearchHandler) respondSearchError(w http.ResponseWriter, err error) {
	body := map[string]interface{}{
		"error":     errorMessage(err, "search failed"),
		"providers": []*entities.Provider{},
		"mapUrl":    nil,
	}
	if appErr, ok := err.(*apperrors.AppError); ok && appErr.Err != nil {
		body["details"] = appErr.Err.Error()
	}
	respondWithJSON(w, statusForError(err), body)
}
