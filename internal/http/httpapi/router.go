package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"crayon/internal/http/handlers"
	"crayon/internal/middleware"
)

// Options configures the cross-cutting middleware.
type Options struct {
	Logger         zerolog.Logger
	Country        middleware.CountryLookup
	AllowedOrigins []string
}

func NewRouter(app *handlers.App, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(
		chimw.RequestID,
		chimw.RealIP,
		middleware.Logger(opts.Logger, opts.Country),
		chimw.Recoverer,
		middleware.CORS(opts.AllowedOrigins),
	)

	r.Get("/", app.Health)
	r.Get("/v1/healthz", app.Health)

	r.Post("/upload-image", app.UploadImage)
	r.Post("/analyze-images", app.AnalyzeImages)
	r.Get("/images/daily", app.DailyImages)
	r.Get("/images/daily/archive", app.DailyArchive)
	r.Get("/outputs/{name}", app.ServeOutput)

	return r
}
