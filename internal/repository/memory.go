package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/secureqr/secureqr/internal/models"
)

// MemoryRepository is an in-memory implementation of the user and history
// repositories, used in tests and for running without a database.
type MemoryRepository struct {
	mu      sync.Mutex
	users   map[string]models.User // keyed by ID
	history []models.HistoryRecord
}

// NewMemoryRepository creates an empty in-memory repository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{users: make(map[string]models.User)}
}

// Create stores a new user, enforcing email uniqueness under the lock the
// same way the database enforces it with a unique index.
func (m *MemoryRepository) Create(ctx context.Context, name, email, passwordHash string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			return nil, models.ErrDuplicateEmail
		}
	}
	user := models.User{
		ID:           uuid.NewString(),
		Name:         name,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now(),
	}
	m.users[user.ID] = user
	return &user, nil
}

// FindByEmail returns the user with the given email or models.ErrNotFound.
func (m *MemoryRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, models.ErrNotFound
}

// FindByID returns the user with the given ID or models.ErrNotFound.
func (m *MemoryRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	u, ok := m.users[id]
	if !ok {
		return nil, models.ErrNotFound
	}
	user := u
	return &user, nil
}

// Insert appends a scan record for the given user.
func (m *MemoryRepository) Insert(ctx context.Context, userID, url string, result models.ScanStatus) (*models.HistoryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record := models.HistoryRecord{
		ID:        uuid.NewString(),
		UserID:    userID,
		URL:       url,
		Result:    result,
		CreatedAt: time.Now(),
	}
	m.history = append(m.history, record)
	return &record, nil
}

// ListByUser returns the user's scan records, newest first.
func (m *MemoryRepository) ListByUser(ctx context.Context, userID string) ([]models.HistoryRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	records := []models.HistoryRecord{}
	for i := len(m.history) - 1; i >= 0; i-- {
		if m.history[i].UserID == userID {
			records = append(records, m.history[i])
		}
	}
	return records, nil
}

// DeleteByID removes a single record owned by the user.
func (m *MemoryRepository) DeleteByID(ctx context.Context, userID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i, rec := range m.history {
		if rec.ID == id && rec.UserID == userID {
			m.history = append(m.history[:i], m.history[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

// DeleteAllForUser removes every record owned by the user.
func (m *MemoryRepository) DeleteAllForUser(ctx context.Context, userID string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	kept := m.history[:0]
	var removed int64
	for _, rec := range m.history {
		if rec.UserID == userID {
			removed++
			continue
		}
		kept = append(kept, rec)
	}
	m.history = kept
	return removed, nil
}
