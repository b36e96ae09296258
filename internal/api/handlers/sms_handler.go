package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/caremap/medifinder/internal/application/services"
)

// SMSHandler handles facility-details SMS sends.
type SMSHandler struct {
	notifications *services.NotificationService
}

// NewSMSHandler creates a new SMS handler.
func NewSMSHandler(notifications *services.NotificationService) *SMSHandler {
	return &SMSHandler{notifications: notifications}
}

type sendSMSRequest struct {
	PhoneNumber  string                `json:"phoneNumber"`
	FacilityInfo services.FacilityInfo `json:"facilityInfo"`
}

// SendSMS handles POST /api/send-sms
func (h *SMSHandler) SendSMS(w http.ResponseWriter, r *http.Request) {
	var payload sendSMSRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}

	if _, err := h.notifications.SendFacilityDetails(r.Context(), payload.PhoneNumber, payload.FacilityInfo); err != nil {
		respondWithJSON(w, statusForError(err), map[string]interface{}{
			"success": false,
			"message": errorMessage(err, "failed to send SMS"),
		})
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "facility details sent",
	})
}
