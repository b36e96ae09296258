package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/caremap/medifinder/internal/domain/entities"
	"github.com/caremap/medifinder/internal/domain/repositories"
	"github.com/caremap/medifinder/internal/infrastructure/clients/postgres"
	apperrors "github.com/caremap/medifinder/pkg/errors"
)

// SearchHistoryAdapter implements search history persistence in Postgres.
type SearchHistoryAdapter struct {
	client *postgres.Client
	db     *sqlx.DB
}

// NewSearchHistoryAdapter creates a new search history adapter.
func NewSearchHistoryAdapter(client *postgres.Client) repositories.SearchHistoryRepository {
	return &SearchHistoryAdapter{
		client: client,
		db:     sqlx.NewDb(client.DB(), "postgres"),
	}
}

type searchHistoryRow struct {
	ID          string    `db:"id"`
	UserID      string    `db:"user_id"`
	Params      []byte    `db:"params"`
	ResultCount int       `db:"result_count"`
	CreatedAt   time.Time `db:"created_at"`
}

// Create inserts a search history record.
func (a *SearchHistoryAdapter) Create(ctx context.Context, record *entities.SearchHistory) error {
	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}

	params, err := json.Marshal(record.Params)
	if err != nil {
		return apperrors.NewInternalError("failed to encode search params", err)
	}

	query := `
		INSERT INTO search_history (id, user_id, params, result_count, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	if _, err := a.db.ExecContext(ctx, query,
		record.ID,
		record.UserID,
		params,
		record.ResultCount,
		record.CreatedAt,
	); err != nil {
		return apperrors.NewInternalError("failed to create search history record", err)
	}

	return nil
}

// ListByUser returns all history records for a user, newest first.
func (a *SearchHistoryAdapter) ListByUser(ctx context.Context, userID string) ([]*entities.SearchHistory, error) {
	query := `
		SELECT id, user_id, params, result_count, created_at
		FROM search_history
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	var historyRows []searchHistoryRow
	if err := a.db.SelectContext(ctx, &historyRows, query, userID); err != nil {
		return nil, apperrors.NewInternalError("failed to list search history", err)
	}

	records := make([]*entities.SearchHistory, 0, len(historyRows))
	for _, row := range historyRows {
		record, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	return records, nil
}

// GetByID returns one history record or a not found error.
func (a *SearchHistoryAdapter) GetByID(ctx context.Context, id string) (*entities.SearchHistory, error) {
	query := `
		SELECT id, user_id, params, result_count, created_at
		FROM search_history
		WHERE id = $1
	`

	var row searchHistoryRow
	err := a.db.GetContext(ctx, &row, query, id)
	if err == sql.ErrNoRows {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("search with id %s not found", id))
	}
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get search history record", err)
	}

	return row.toEntity()
}

// DeleteByUser removes all history records for a user. Zero deleted rows is
// still success.
func (a *SearchHistoryAdapter) DeleteByUser(ctx context.Context, userID string) error {
	query := `DELETE FROM search_history WHERE user_id = $1`

	if _, err := a.db.ExecContext(ctx, query, userID); err != nil {
		return apperrors.NewInternalError("failed to delete search history", err)
	}

	return nil
}

func (r searchHistoryRow) toEntity() (*entities.SearchHistory, error) {
	record := &entities.SearchHistory{
		ID:          r.ID,
		UserID:      r.UserID,
		ResultCount: r.ResultCount,
		CreatedAt:   r.CreatedAt,
	}
	if len(r.Params) > 0 {
		if err := json.Unmarshal(r.Params, &record.Params); err != nil {
			return nil, apperrors.NewInternalError("failed to decode search params", err)
		}
	}
	return record, nil
}
