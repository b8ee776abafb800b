package repo

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"crayon/internal/domain"
	"crayon/internal/sqlinline"
)

type scanRow func(dest ...any) error

func (f scanRow) Scan(dest ...any) error { return f(dest...) }

type recordRow struct {
	id        int64
	createdAt time.Time
	name      string
	text      *string
}

type recordRows struct {
	rows []recordRow
	idx  int
}

func (r *recordRows) Next() bool {
	if r.idx >= len(r.rows) {
		return false
	}
	r.idx++
	return true
}

func (r *recordRows) Scan(dest ...any) error {
	if len(dest) != 4 {
		return fmt.Errorf("unexpected scan args: %d", len(dest))
	}
	row := r.rows[r.idx-1]
	*dest[0].(*int64) = row.id
	*dest[1].(*time.Time) = row.createdAt
	*dest[2].(*string) = row.name
	*dest[3].(**string) = row.text
	return nil
}

func (r *recordRows) Close()                                       {}
func (r *recordRows) Err() error                                   { return nil }
func (r *recordRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *recordRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *recordRows) Values() ([]any, error)                       { return nil, errors.New("not supported") }
func (r *recordRows) RawValues() [][]byte                          { return nil }
func (r *recordRows) Conn() *pgx.Conn                              { return nil }

type stubSQL struct {
	execs    []string
	lastArgs []any
	rows     []recordRow
	rowErr   error
}

func (s *stubSQL) Exec(_ context.Context, query string, _ ...any) (pgconn.CommandTag, error) {
	s.execs = append(s.execs, query)
	return pgconn.CommandTag{}, nil
}

func (s *stubSQL) QueryRow(_ context.Context, query string, args ...any) pgx.Row {
	s.lastArgs = args
	return scanRow(func(dest ...any) error {
		if query != sqlinline.QInsertImageRecord {
			return fmt.Errorf("unexpected query: %s", query)
		}
		if s.rowErr != nil {
			return s.rowErr
		}
		*dest[0].(*int64) = 42
		*dest[1].(*time.Time) = time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)
		return nil
	})
}

func (s *stubSQL) Query(_ context.Context, query string, args ...any) (pgx.Rows, error) {
	if query != sqlinline.QListImageRecordsBetween {
		return nil, fmt.Errorf("unexpected query: %s", query)
	}
	s.lastArgs = args
	return &recordRows{rows: s.rows}, nil
}

func TestImageRecordCreate(t *testing.T) {
	db := &stubSQL{}
	repo := NewImageRecordRepository(db)
	note := "birthday"

	rec, err := repo.Create(context.Background(), &domain.ImageRecord{ImageName: "abc.png", AdditionalText: &note})
	if err != nil {
		t.Fatalf("Create returned error: %v", err)
	}
	if rec.ID != 42 || rec.CreatedAt.IsZero() || rec.ImageName != "abc.png" {
		t.Fatalf("unexpected record: %+v", rec)
	}
	if len(db.lastArgs) != 2 || db.lastArgs[0] != "abc.png" {
		t.Fatalf("unexpected args: %#v", db.lastArgs)
	}

	if _, err := repo.Create(context.Background(), &domain.ImageRecord{}); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("empty name err = %v, want ErrValidation", err)
	}

	db.rowErr = errors.New("connection reset")
	if _, err := repo.Create(context.Background(), &domain.ImageRecord{ImageName: "x.png"}); err == nil {
		t.Fatalf("Create returned nil error on scan failure")
	}
}

func TestImageRecordListBetween(t *testing.T) {
	day := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	db := &stubSQL{rows: []recordRow{
		{id: 2, createdAt: day.Add(3 * time.Hour), name: "b.png"},
		{id: 1, createdAt: day.Add(time.Hour), name: "a.png"},
	}}
	repo := NewImageRecordRepository(db)

	got, err := repo.ListBetween(context.Background(), day, day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("ListBetween returned error: %v", err)
	}
	if len(got) != 2 || got[0].ImageName != "b.png" || got[1].ID != 1 {
		t.Fatalf("unexpected records: %+v", got)
	}
	if got[0].AdditionalText != nil {
		t.Fatalf("AdditionalText = %v, want nil", *got[0].AdditionalText)
	}

	if _, err := repo.ListBetween(context.Background(), day, day); err == nil {
		t.Fatalf("ListBetween with empty range returned nil error")
	}
}

func TestEnsureSchema(t *testing.T) {
	db := &stubSQL{}
	if err := NewImageRecordRepository(db).EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema returned error: %v", err)
	}
	if len(db.execs) != 2 || db.execs[0] != sqlinline.QCreateImageRecordsTable {
		t.Fatalf("unexpected statements: %q", db.execs)
	}
}
