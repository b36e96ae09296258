package providers

import (
	"context"

	"github.com/caremap/medifinder/internal/domain/entities"
)

// FacilitySummarizer generates a free-text reputation summary for a facility.
type FacilitySummarizer interface {
	SummarizeFacility(ctx context.Context, facilityName string) (*entities.FacilitySummary, error)
}
