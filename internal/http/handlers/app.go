package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"crayon/internal/domain"
	"crayon/internal/pipeline"
	"crayon/internal/storage"
)

// Runner executes one generation run.
type Runner interface {
	Run(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
}

type App struct {
	Logger   zerolog.Logger
	Pipeline Runner
	Records  domain.ImageRecordRepository
	Uploads  *storage.FileStore
	Outputs  *storage.FileStore

	MaxUploadBytes int64
	MaxFiles       int
	// Location decides which calendar day a record belongs to; nil means time.Local.
	Location *time.Location
	Now      func() time.Time
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (a *App) error(w http.ResponseWriter, code int, msg string) {
	a.json(w, code, map[string]string{"error": msg})
}

// fail maps err onto a status code. Internal details of 5xx errors other
// than upstream failures are logged, not returned.
func (a *App) fail(w http.ResponseWriter, r *http.Request, err error) {
	code := statusFor(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = "internal error"
	}
	event := a.Logger.Warn()
	if code >= 500 {
		event = a.Logger.Error()
	}
	event.Err(err).Str("path", r.URL.Path).Int("status", code).Msg("request failed")
	a.error(w, code, msg)
}

func statusFor(err error) int {
	var tooLarge *http.MaxBytesError
	switch {
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDecode):
		return http.StatusUnprocessableEntity
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrUpstreamCall):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (a *App) location() *time.Location {
	if a.Location != nil {
		return a.Location
	}
	return time.Local
}

func (a *App) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now()
}
