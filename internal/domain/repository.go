package domain

import (
	"context"
	"time"
)

// ImageRecordRepository appends generation records and looks them up by time window.
type ImageRecordRepository interface {
	Create(ctx context.Context, rec *ImageRecord) (*ImageRecord, error)
	// ListBetween returns records with from <= created_at < to, newest first.
	ListBetween(ctx context.Context, from, to time.Time) ([]ImageRecord, error)
}
