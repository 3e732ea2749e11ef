package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"cquiz/internal/domain"
	"cquiz/internal/repository/models"
)

const (
	upsertProgressQuery = `MERGE INTO STUDENT_PROGRESS t
	USING (SELECT :PROGRESS_KEY AS PROGRESS_KEY, :PAYLOAD AS PAYLOAD, :UPDATED_AT AS UPDATED_AT FROM DUAL) s
	ON (t.PROGRESS_KEY = s.PROGRESS_KEY)
	WHEN MATCHED THEN UPDATE SET t.PAYLOAD = s.PAYLOAD, t.UPDATED_AT = s.UPDATED_AT
	WHEN NOT MATCHED THEN INSERT (PROGRESS_KEY, PAYLOAD, UPDATED_AT) VALUES (s.PROGRESS_KEY, s.PAYLOAD, s.UPDATED_AT)`

	selectProgressQuery = `SELECT PROGRESS_KEY, PAYLOAD, UPDATED_AT FROM STUDENT_PROGRESS WHERE PROGRESS_KEY = :1`
)

// ProgressRepository implements domain.Storage on the STUDENT_PROGRESS table.
type ProgressRepository struct {
	db  DBTX
	now func() time.Time
}

// NewSQLXProgressRepository creates a new ProgressRepository.
func NewSQLXProgressRepository(db DBTX) *ProgressRepository {
	return &ProgressRepository{db: db, now: time.Now}
}

// Save upserts the row for key.
func (r *ProgressRepository) Save(ctx context.Context, key string, value string) error {
	record := models.ProgressRecord{
		ProgressKey: key,
		Payload:     value,
		UpdatedAt:   r.now(),
	}
	if _, err := r.db.NamedExecContext(ctx, upsertProgressQuery, record); err != nil {
		return fmt.Errorf("failed to save progress %s: %w", key, err)
	}
	return nil
}

// Load reads the row for key. A missing row is domain.ErrStorageMiss.
func (r *ProgressRepository) Load(ctx context.Context, key string) (string, error) {
	var record models.ProgressRecord
	if err := r.db.GetContext(ctx, &record, selectProgressQuery, key); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", domain.ErrStorageMiss
		}
		return "", fmt.Errorf("failed to load progress %s: %w", key, err)
	}
	return record.Payload, nil
}
