package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"crayon/internal/domain"
	"crayon/internal/pipeline"
	"crayon/pkg/zip"
)

type analyzeRequest struct {
	Files          []string `json:"files"`
	Size           string   `json:"size"`
	AdditionalText string   `json:"additional_text"`
}

type analyzeResponse struct {
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	RecordID   int64     `json:"record_id"`
	CreatedAt  time.Time `json:"created_at"`
	Size       string    `json:"size"`
	Prompt     string    `json:"prompt"`
	Captions   []string  `json:"captions"`
	Required   []string  `json:"required"`
	GlobalMust []string  `json:"global_must"`
	ElapsedMS  int64     `json:"elapsed_ms"`
}

// AnalyzeImages runs the pipeline over previously uploaded files and records
// the generated image.
func (a *App) AnalyzeImages(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.fail(w, r, fmt.Errorf("%w: body must be a JSON object with a \"files\" list", domain.ErrValidation))
		return
	}
	if len(req.Files) == 0 {
		a.fail(w, r, fmt.Errorf("%w: no files provided", domain.ErrValidation))
		return
	}
	if len(req.Files) > a.MaxFiles {
		a.Logger.Debug().Int("files", len(req.Files)).Int("max", a.MaxFiles).Msg("analyze: extra files ignored")
		req.Files = req.Files[:a.MaxFiles]
	}

	paths := make([]string, 0, len(req.Files))
	for _, name := range req.Files {
		path, err := a.Uploads.Path(name)
		if err != nil {
			a.fail(w, r, err)
			return
		}
		paths = append(paths, path)
	}

	res, err := a.Pipeline.Run(r.Context(), pipeline.Request{Images: paths, Size: req.Size})
	if err != nil {
		a.fail(w, r, err)
		return
	}

	rec := &domain.ImageRecord{ImageName: res.Name}
	if text := strings.TrimSpace(req.AdditionalText); text != "" {
		rec.AdditionalText = &text
	}
	saved, err := a.Records.Create(r.Context(), rec)
	if err != nil {
		a.fail(w, r, fmt.Errorf("record %s: %w", res.Name, err))
		return
	}

	a.json(w, http.StatusOK, analyzeResponse{
		Name:       res.Name,
		URL:        "/outputs/" + res.Name,
		RecordID:   saved.ID,
		CreatedAt:  saved.CreatedAt,
		Size:       res.Size,
		Prompt:     res.Prompt,
		Captions:   res.Captions,
		Required:   res.Selection.Required,
		GlobalMust: res.Selection.GlobalMust,
		ElapsedMS:  res.Elapsed.Milliseconds(),
	})
}

// DailyImages lists records created on ?date=YYYY-MM-DD, today by default.
func (a *App) DailyImages(w http.ResponseWriter, r *http.Request) {
	day, records, ok := a.recordsForDay(w, r)
	if !ok {
		return
	}
	a.json(w, http.StatusOK, map[string]any{
		"date":  day.Format(time.DateOnly),
		"items": records,
	})
}

// DailyArchive streams the generated images of one day as a zip file.
func (a *App) DailyArchive(w http.ResponseWriter, r *http.Request) {
	day, records, ok := a.recordsForDay(w, r)
	if !ok {
		return
	}
	entries := make([]zip.Entry, 0, len(records))
	for _, rec := range records {
		path, err := a.Outputs.Path(rec.ImageName)
		if err != nil {
			a.Logger.Warn().Err(err).Str("image", rec.ImageName).Msg("archive: skipping missing output")
			continue
		}
		entries = append(entries, zip.Entry{Name: rec.ImageName, Path: path, Modified: rec.CreatedAt})
	}

	w.Header().Set("Content-Type", "application/zip")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="images-%s.zip"`, day.Format(time.DateOnly)))
	w.WriteHeader(http.StatusOK)
	if err := zip.WriteFiles(w, entries); err != nil {
		// headers are gone; the client sees a truncated archive
		a.Logger.Error().Err(err).Str("date", day.Format(time.DateOnly)).Msg("archive: write failed")
	}
}

func (a *App) recordsForDay(w http.ResponseWriter, r *http.Request) (time.Time, []domain.ImageRecord, bool) {
	loc := a.location()
	var day time.Time
	if raw := strings.TrimSpace(r.URL.Query().Get("date")); raw != "" {
		parsed, err := time.ParseInLocation(time.DateOnly, raw, loc)
		if err != nil {
			a.fail(w, r, fmt.Errorf("%w: date must be YYYY-MM-DD", domain.ErrValidation))
			return time.Time{}, nil, false
		}
		day = parsed
	} else {
		now := a.now().In(loc)
		day = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	}

	records, err := a.Records.ListBetween(r.Context(), day, day.AddDate(0, 0, 1))
	if err != nil {
		a.fail(w, r, err)
		return time.Time{}, nil, false
	}
	if records == nil {
		records = []domain.ImageRecord{}
	}
	return day, records, true
}

// ServeOutput streams a generated image.
func (a *App) ServeOutput(w http.ResponseWriter, r *http.Request) {
	path, err := a.Outputs.Path(chi.URLParam(r, "name"))
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			err = fmt.Errorf("%w: %v", domain.ErrNotFound, err)
		}
		a.fail(w, r, err)
		return
	}
	w.Header().Set("Cache-Control", "public, max-age=31536000, immutable")
	http.ServeFile(w, r, path)
}
