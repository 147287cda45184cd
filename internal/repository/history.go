package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/secureqr/secureqr/internal/models"
)

// PostgresHistoryRepository implements scan-history persistence using a
// PostgreSQL database.
type PostgresHistoryRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresHistoryRepository creates a new PostgresHistoryRepository with
// the given database connection.
func NewPostgresHistoryRepository(db *sql.DB) *PostgresHistoryRepository {
	return &PostgresHistoryRepository{DB: db}
}

// Insert appends a scan record for the given user and returns it with the
// store-assigned identifier and timestamp.
func (r *PostgresHistoryRepository) Insert(ctx context.Context, userID, url string, result models.ScanStatus) (*models.HistoryRecord, error) {
	record := &models.HistoryRecord{
		ID:     uuid.NewString(),
		UserID: userID,
		URL:    url,
		Result: result,
	}

	err := r.DB.QueryRowContext(
		ctx,
		`INSERT INTO history (id, user_id, url, result)
		 VALUES ($1, $2, $3, $4)
		 RETURNING created_at`,
		record.ID, record.UserID, record.URL, record.Result,
	).Scan(&record.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert history record: %w", err)
	}

	return record, nil
}

// ListByUser returns all scan records for the given user, newest first.
func (r *PostgresHistoryRepository) ListByUser(ctx context.Context, userID string) ([]models.HistoryRecord, error) {
	rows, err := r.DB.QueryContext(
		ctx,
		`SELECT id, user_id, url, result, created_at FROM history
		 WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("select history: %w", err)
	}
	defer rows.Close()

	records := []models.HistoryRecord{}
	for rows.Next() {
		var rec models.HistoryRecord
		if err := rows.Scan(&rec.ID, &rec.UserID, &rec.URL, &rec.Result, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}

	return records, nil
}

// DeleteByID removes a single record owned by the given user. Deleting a
// record that does not exist or belongs to another user yields
// models.ErrNotFound.
func (r *PostgresHistoryRepository) DeleteByID(ctx context.Context, userID, id string) error {
	res, err := r.DB.ExecContext(
		ctx,
		`DELETE FROM history WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("delete history record: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete history record: %w", err)
	}
	if affected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// DeleteAllForUser removes every record owned by the given user and returns
// the number of records removed.
func (r *PostgresHistoryRepository) DeleteAllForUser(ctx context.Context, userID string) (int64, error) {
	res, err := r.DB.ExecContext(
		ctx,
		`DELETE FROM history WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("clear history: %w", err)
	}
	return affected, nil
}
