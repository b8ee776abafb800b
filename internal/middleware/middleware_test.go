package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func TestCORS(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	tests := []struct {
		name       string
		allowed    []string
		origin     string
		preflight  bool
		wantOrigin string
		wantStatus int
	}{
		{name: "allowlisted", allowed: []string{"https://app.example"}, origin: "https://app.example", wantOrigin: "https://app.example", wantStatus: http.StatusTeapot},
		{name: "not allowlisted", allowed: []string{"https://app.example"}, origin: "https://evil.example", wantStatus: http.StatusTeapot},
		{name: "wildcard", allowed: []string{"*"}, origin: "https://any.example", wantOrigin: "https://any.example", wantStatus: http.StatusTeapot},
		{name: "preflight", allowed: []string{"*"}, origin: "https://any.example", preflight: true, wantOrigin: "https://any.example", wantStatus: http.StatusNoContent},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			method := http.MethodPost
			if tc.preflight {
				method = http.MethodOptions
			}
			req := httptest.NewRequest(method, "/analyze-images", nil)
			req.Header.Set("Origin", tc.origin)
			if tc.preflight {
				req.Header.Set("Access-Control-Request-Method", "POST")
			}
			rr := httptest.NewRecorder()
			CORS(tc.allowed)(next).ServeHTTP(rr, req)
			if rr.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", rr.Code, tc.wantStatus)
			}
			if got := rr.Header().Get("Access-Control-Allow-Origin"); got != tc.wantOrigin {
				t.Fatalf("Allow-Origin = %q, want %q", got, tc.wantOrigin)
			}
		})
	}
}

func TestLoggerRecordsStatusAndCountry(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	lookup := func(ip string) string {
		if ip == "203.0.113.7" {
			return "ID"
		}
		return ""
	}
	h := Logger(logger, lookup)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("missing"))
	}))
	req := httptest.NewRequest(http.MethodGet, "/outputs/x.png", nil)
	req.RemoteAddr = "203.0.113.7:51234"
	h.ServeHTTP(httptest.NewRecorder(), req)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line: %v", err)
	}
	if entry["status"] != float64(404) || entry["level"] != "warn" {
		t.Fatalf("unexpected entry: %#v", entry)
	}
	if entry["country"] != "ID" || entry["bytes"] != float64(7) {
		t.Fatalf("unexpected entry: %#v", entry)
	}
}
