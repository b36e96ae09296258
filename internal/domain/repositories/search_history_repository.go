package repositories

import (
	"context"

	"github.com/caremap/medifinder/internal/domain/entities"
)

// SearchHistoryRepository persists past facility searches per user.
type SearchHistoryRepository interface {
	Create(ctx context.Context, record *entities.SearchHistory) error

	// ListByUser returns all records for a user, newest first.
	ListByUser(ctx context.Context, userID string) ([]*entities.SearchHistory, error)

	// GetByID returns one record or a not found error.
	GetByID(ctx context.Context, id string) (*entities.SearchHistory, error)

	// DeleteByUser removes all records for a user. Deleting zero rows is not
	// an error.
	DeleteByUser(ctx context.Context, userID string) error
}
