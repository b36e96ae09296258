package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/caremap/medifinder/internal/domain/providers"
	"github.com/caremap/medifinder/internal/infrastructure/observability"
	apperrors "github.com/caremap/medifinder/pkg/errors"
)

// FacilityInfo is the facility detail included in an SMS.
type FacilityInfo struct {
	Name    string   `json:"name"`
	Address string   `json:"address"`
	Phone   string   `json:"phone,omitempty"`
	Rating  *float64 `json:"rating,omitempty"`
}

// NotificationService sends facility details over SMS. A nil sender means the
// SMS provider is not configured and every send reports unavailable.
type NotificationService struct {
	sender providers.SMSSender
}

// NewNotificationService creates a new notification service.
func NewNotificationService(sender providers.SMSSender) *NotificationService {
	return &NotificationService{sender: sender}
}

// SendFacilityDetails formats and sends one facility SMS.
func (n *NotificationService) SendFacilityDetails(ctx context.Context, phoneNumber string, info FacilityInfo) (string, error) {
	if n.sender == nil {
		return "", apperrors.NewUnavailableError("SMS service is not configured")
	}
	if strings.TrimSpace(phoneNumber) == "" {
		return "", apperrors.NewValidationError("phone number is required")
	}
	if strings.TrimSpace(info.Name) == "" {
		return "", apperrors.NewValidationError("facility name is required")
	}

	messageID, err := n.sender.SendText(ctx, phoneNumber, formatFacilityMessage(info))
	if err != nil {
		observability.LoggerFromContext(ctx).Error().Err(err).
			Str("facility", info.Name).
			Msg("failed to send facility SMS")
		return "", apperrors.NewExternalError("failed to send SMS", err)
	}

	return messageID, nil
}

func formatFacilityMessage(info FacilityInfo) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Facility: %s", info.Name)
	if info.Address != "" {
		fmt.Fprintf(&b, "\nAddress: %s", info.Address)
	}
	if info.Phone != "" {
		fmt.Fprintf(&b, "\nPhone: %s", info.Phone)
	}
	if info.Rating != nil {
		fmt.Fprintf(&b, "\nRating: %.1f/5", *info.Rating)
	}
	return b.String()
}
