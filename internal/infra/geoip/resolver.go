package geoip

import (
	"fmt"
	"net"
	"strings"

	"github.com/oschwald/geoip2-golang"
)

// Resolver maps client IPs to ISO country codes using a MaxMind database.
// A nil *Resolver is valid and resolves nothing.
type Resolver struct {
	reader *geoip2.Reader
}

// Open loads the database at path. An empty path returns a nil Resolver.
func Open(path string) (*Resolver, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil
	}
	reader, err := geoip2.Open(path)
	if err != nil {
		return nil, fmt.Errorf("geoip: open database: %w", err)
	}
	return &Resolver{reader: reader}, nil
}

// Country returns the ISO code for ip, or "" when unknown. Lookup failures
// are treated as unknown since the result only annotates access logs.
func (r *Resolver) Country(ip string) string {
	if r == nil || r.reader == nil {
		return ""
	}
	parsed := net.ParseIP(strings.TrimSpace(ip))
	if parsed == nil || parsed.IsLoopback() || parsed.IsPrivate() {
		return ""
	}
	record, err := r.reader.Country(parsed)
	if err != nil || record == nil {
		return ""
	}
	return strings.ToUpper(record.Country.IsoCode)
}

// Close closes the underlying database reader.
func (r *Resolver) Close() error {
	if r == nil || r.reader == nil {
		return nil
	}
	return r.reader.Close()
}
