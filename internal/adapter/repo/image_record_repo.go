package repo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"crayon/internal/domain"
	"crayon/internal/infra"
	"crayon/internal/sqlinline"
)

// ImageRecordRepositoryPG implements domain.ImageRecordRepository on PostgreSQL.
type ImageRecordRepositoryPG struct {
	db infra.SQLExecutor
}

// NewImageRecordRepository wraps db, normally an *infra.SQLRunner.
func NewImageRecordRepository(db infra.SQLExecutor) *ImageRecordRepositoryPG {
	return &ImageRecordRepositoryPG{db: db}
}

// EnsureSchema creates the records table and its index when missing.
func (r *ImageRecordRepositoryPG) EnsureSchema(ctx context.Context) error {
	for _, q := range []string{sqlinline.QCreateImageRecordsTable, sqlinline.QCreateImageRecordsCreatedAtIndex} {
		if _, err := r.db.Exec(ctx, q); err != nil {
			return fmt.Errorf("ensure image_records schema: %w", err)
		}
	}
	return nil
}

// Create appends rec and fills in its ID and CreatedAt.
func (r *ImageRecordRepositoryPG) Create(ctx context.Context, rec *domain.ImageRecord) (*domain.ImageRecord, error) {
	if rec == nil || strings.TrimSpace(rec.ImageName) == "" {
		return nil, fmt.Errorf("%w: image name is required", domain.ErrValidation)
	}
	out := *rec
	if err := r.db.QueryRow(ctx, sqlinline.QInsertImageRecord, out.ImageName, out.AdditionalText).
		Scan(&out.ID, &out.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert image record: %w", err)
	}
	return &out, nil
}

// ListBetween returns records created in [from, to), newest first.
func (r *ImageRecordRepositoryPG) ListBetween(ctx context.Context, from, to time.Time) ([]domain.ImageRecord, error) {
	if !to.After(from) {
		return nil, errors.New("list image records: empty time range")
	}
	rows, err := r.db.Query(ctx, sqlinline.QListImageRecordsBetween, from, to)
	if err != nil {
		return nil, fmt.Errorf("list image records: %w", err)
	}
	defer rows.Close()

	records := []domain.ImageRecord{}
	for rows.Next() {
		var rec domain.ImageRecord
		if err := rows.Scan(&rec.ID, &rec.CreatedAt, &rec.ImageName, &rec.AdditionalText); err != nil {
			return nil, fmt.Errorf("scan image record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list image records: %w", err)
	}
	return records, nil
}

var _ domain.ImageRecordRepository = (*ImageRecordRepositoryPG)(nil)
