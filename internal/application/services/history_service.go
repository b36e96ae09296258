package services

import (
	"context"
	"time"

	"github.com/caremap/medifinder/internal/domain/entities"
	"github.com/caremap/medifinder/internal/domain/repositories"
)

// HistoryService exposes past searches and their replay.
type HistoryService struct {
	repo   repositories.SearchHistoryRepository
	search *SearchService
}

// NewHistoryService creates a new history service.
func NewHistoryService(repo repositories.SearchHistoryRepository, search *SearchService) *HistoryService {
	return &HistoryService{repo: repo, search: search}
}

// ReplayResult is the outcome of re-issuing a stored search. Results come
// from a fresh lookup and may diverge from the originally recorded count;
// the stored record is never updated.
type ReplayResult struct {
	SearchParams entities.SearchParams `json:"searchParams"`
	Results      []*entities.Provider  `json:"results"`
	Timestamp    time.Time             `json:"timestamp"`
}

// List returns all history records for a user, newest first.
func (s *HistoryService) List(ctx context.Context, userID string) ([]*entities.SearchHistory, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Delete removes all history records for a user. Zero existing records is
// still success.
func (s *HistoryService) Delete(ctx context.Context, userID string) error {
	return s.repo.DeleteByUser(ctx, userID)
}

// Replay loads one history record and re-issues its stored parameters through
// the nearby search path.
func (s *HistoryService) Replay(ctx context.Context, searchID string) (*ReplayResult, error) {
	record, err := s.repo.GetByID(ctx, searchID)
	if err != nil {
		return nil, err
	}

	results, err := s.search.NearbyFacilities(ctx, NearbyQuery{
		Latitude:   record.Params.Latitude,
		Longitude:  record.Params.Longitude,
		Type:       record.Params.Type,
		Specialty:  record.Params.Specialty,
		PriceRange: record.Params.PriceRange,
		RadiusKm:   record.Params.RadiusKm,
		Insurance:  record.Params.Insurance,
	})
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []*entities.Provider{}
	}

	return &ReplayResult{
		SearchParams: record.Params,
		Results:      results,
		Timestamp:    record.CreatedAt,
	}, nil
}
