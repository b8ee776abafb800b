package handlers

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"crayon/internal/domain"
)

var uploadExtensions = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".webp": {},
	".gif":  {},
}

// multipartOverhead leaves room for boundaries and headers around the file part.
const multipartOverhead = 1 << 20

// UploadImage stores the multipart "image" file under a random name.
func (a *App) UploadImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, a.MaxUploadBytes+multipartOverhead)
	file, header, err := r.FormFile("image")
	if err != nil {
		if statusFor(err) == http.StatusRequestEntityTooLarge {
			a.fail(w, r, err)
			return
		}
		a.fail(w, r, fmt.Errorf("%w: no image file provided", domain.ErrValidation))
		return
	}
	defer file.Close()

	ext := strings.ToLower(filepath.Ext(header.Filename))
	if _, ok := uploadExtensions[ext]; !ok {
		a.fail(w, r, fmt.Errorf("%w: unsupported file type %q", domain.ErrValidation, ext))
		return
	}

	data, err := io.ReadAll(io.LimitReader(file, a.MaxUploadBytes+1))
	if err != nil {
		a.fail(w, r, err)
		return
	}
	if int64(len(data)) > a.MaxUploadBytes {
		a.fail(w, r, &http.MaxBytesError{Limit: a.MaxUploadBytes})
		return
	}
	if len(data) == 0 {
		a.fail(w, r, fmt.Errorf("%w: empty file", domain.ErrValidation))
		return
	}

	name, err := a.Uploads.WriteNew(r.Context(), ext, data)
	if err != nil {
		a.fail(w, r, err)
		return
	}
	a.Logger.Info().Str("name", name).Int("bytes", len(data)).Msg("upload stored")
	a.json(w, http.StatusCreated, map[string]string{"name": name})
}
