package handlers

import (
	"net/http"

	"github.com/caremap/medifinder/internal/application/services"
	"github.com/caremap/medifinder/internal/domain/entities"
)

// HistoryHandler handles search history endpoints.
type HistoryHandler struct {
	history *services.HistoryService
}

// NewHistoryHandler creates a new history handler.
func NewHistoryHandler(history *services.HistoryService) *HistoryHandler {
	return &HistoryHandler{history: history}
}

// ListHistory handles GET /api/history/{userId}
func (h *HistoryHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	if userID == "" {
		respondWithError(w, http.StatusBadRequest, "user ID is required")
		return
	}

	records, err := h.history.List(r.Context(), userID)
	if err != nil {
		respondWithAppError(w, err, "failed to list search history")
		return
	}
	if records == nil {
		records = []*entities.SearchHistory{}
	}

	respondWithJSON(w, http.StatusOK, records)
}

// GetHistoryResult handles GET /api/history/{searchId}/results
func (h *HistoryHandler) GetHistoryResult(w http.ResponseWriter, r *http.Request) {
	searchID := r.PathValue("searchId")
	if searchID == "" {
		respondWithError(w, http.StatusBadRequest, "search ID is required")
		return
	}

	result, err := h.history.Replay(r.Context(), searchID)
	if err != nil {
		respondWithAppError(w, err, "failed to replay search")
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}

// DeleteHistory handles DELETE /api/history/{userId}
func (h *HistoryHandler) DeleteHistory(w http.ResponseWriter, r *http.Request) {
	userID := r.PathValue("userId")
	if userID == "" {
		respondWithError(w, http.StatusBadRequest, "user ID is required")
		return
	}

	if err := h.history.Delete(r.Context(), userID); err != nil {
		respondWithAppError(w, err, "failed to delete search history")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "search history deleted",
	})
}
