package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/secureqr/secureqr/internal/models"
)

// HistoryRepository defines the persistence operations needed by the
// HistoryService.
type HistoryRepository interface {
	// Insert appends a scan record for the user.
	Insert(ctx context.Context, userID, url string, result models.ScanStatus) (*models.HistoryRecord, error)
	// ListByUser returns the user's scan records, newest first.
	ListByUser(ctx context.Context, userID string) ([]models.HistoryRecord, error)
	// DeleteByID removes a single record owned by the user, or returns
	// models.ErrNotFound.
	DeleteByID(ctx context.Context, userID, id string) error
	// DeleteAllForUser removes every record owned by the user and returns
	// the number removed.
	DeleteAllForUser(ctx context.Context, userID string) (int64, error)
}

// HistoryService implements scan-history management for authenticated users.
type HistoryService struct {
	// repo is the underlying persistence repository.
	repo HistoryRepository
}

// NewHistoryService constructs a HistoryService with the provided repository.
func NewHistoryService(repo HistoryRepository) *HistoryService {
	return &HistoryService{repo: repo}
}

// List returns the user's scan history, newest first.
func (s *HistoryService) List(ctx context.Context, userID string) ([]models.HistoryRecord, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Add records a scan manually. Only reached verdicts may be stored: an error
// status is not a verdict and is rejected.
func (s *HistoryService) Add(ctx context.Context, userID, url string, result models.ScanStatus) (*models.HistoryRecord, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("%w: url is required", models.ErrInvalidInput)
	}
	switch result {
	case models.StatusSafe, models.StatusTrusted, models.StatusUnsafe:
	default:
		return nil, fmt.Errorf("%w: result must be safe, trusted, or unsafe", models.ErrInvalidInput)
	}
	return s.repo.Insert(ctx, userID, url, result)
}

// Delete removes a single record owned by the user.
func (s *HistoryService) Delete(ctx context.Context, userID, id string) error {
	return s.repo.DeleteByID(ctx, userID, id)
}

// Clear removes the user's entire scan history and returns the number of
// records removed.
func (s *HistoryService) Clear(ctx context.Context, userID string) (int64, error) {
	return s.repo.DeleteAllForUser(ctx, userID)
}
