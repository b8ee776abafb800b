package geoip

import (
	"path/filepath"
	"testing"
)

func TestNilResolverResolvesNothing(t *testing.T) {
	r, err := Open("  ")
	if err != nil {
		t.Fatalf("Open(empty) returned error: %v", err)
	}
	if r != nil {
		t.Fatalf("Open(empty) = %v, want nil", r)
	}
	if got := r.Country("8.8.8.8"); got != "" {
		t.Fatalf("Country = %q, want empty", got)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
}

func TestOpenMissingDatabase(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing.mmdb")); err == nil {
		t.Fatalf("Open(missing) returned nil error")
	}
}
