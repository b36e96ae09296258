package handlers

import (
	"net/http"
	"strings"

	"github.com/caremap/medifinder/internal/domain/providers"
)

// FeedbackHandler serves AI-generated facility feedback summaries.
type FeedbackHandler struct {
	summarizer providers.FacilitySummarizer
}

// NewFeedbackHandler creates a new feedback handler.
func NewFeedbackHandler(summarizer providers.FacilitySummarizer) *FeedbackHandler {
	return &FeedbackHandler{summarizer: summarizer}
}

// GetFacilityFeedback handles GET /api/facility/feedback/{facilityName}
func (h *FeedbackHandler) GetFacilityFeedback(w http.ResponseWriter, r *http.Request) {
	facilityName := strings.TrimSpace(r.PathValue("facilityName"))
	if facilityName == "" {
		respondWithError(w, http.StatusBadRequest, "facility name is required")
		return
	}

	if h.summarizer == nil {
		respondWithError(w, http.StatusServiceUnavailable, "feedback summaries are not configured")
		return
	}

	summary, err := h.summarizer.SummarizeFacility(r.Context(), facilityName)
	if err != nil {
		respondWithAppError(w, err, "failed to generate feedback summary")
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]string{
		"summary":     summary.Summary,
		"generatedAt": summary.GeneratedAt,
	})
}
