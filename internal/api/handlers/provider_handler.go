package handlers

import (
	"net/http"

	"github.com/caremap/medifinder/internal/domain/repositories"
)

// ProviderHandler handles stored provider lookups.
type ProviderHandler struct {
	repo repositories.ProviderRepository
}

// NewProviderHandler creates a new provider handler.
func NewProviderHandler(repo repositories.ProviderRepository) *ProviderHandler {
	return &ProviderHandler{repo: repo}
}

// GetByPlaceID handles GET /api/providers/{placeId}
func (h *ProviderHandler) GetByPlaceID(w http.ResponseWriter, r *http.Request) {
	placeID := r.PathValue("placeId")
	if placeID == "" {
		respondWithError(w, http.StatusBadRequest, "place ID is required")
		return
	}

	provider, err := h.repo.GetByPlaceID(r.Context(), placeID)
	if err != nil {
		respondWithAppError(w, err, "failed to get provider")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"provider": provider,
	})
}
