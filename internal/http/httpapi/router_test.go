package httpapi

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"

	"crayon/internal/http/handlers"
)

func TestRouterHealthAndCORS(t *testing.T) {
	app := &handlers.App{Logger: zerolog.New(io.Discard)}
	router := NewRouter(app, Options{Logger: zerolog.New(io.Discard), AllowedOrigins: []string{"https://app.example"}})

	req := httptest.NewRequest(http.MethodGet, "/v1/healthz", nil)
	req.Header.Set("Origin", "https://app.example")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	var payload map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["status"] != "ok" {
		t.Fatalf("status = %q, want ok", payload["status"])
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example" {
		t.Fatalf("Allow-Origin = %q", got)
	}

	preflight := httptest.NewRequest(http.MethodOptions, "/analyze-images", nil)
	preflight.Header.Set("Origin", "https://app.example")
	preflight.Header.Set("Access-Control-Request-Method", "POST")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, preflight)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want 204", rr.Code)
	}
}

func TestRouterUnknownRoute(t *testing.T) {
	app := &handlers.App{Logger: zerolog.New(io.Discard)}
	router := NewRouter(app, Options{Logger: zerolog.New(io.Discard)})
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/nope", nil))
	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rr.Code)
	}
}
