//
//  internal/requestinfo/requestinfo.go
//
//  Per-request client metadata (user-agent fingerprint, IP, optional
//  geolocation, and timestamp) attached to the request context by Enrich.
//  The structs are inert, so they are safe to log.
//
//  Dependencies
//  • github.com/avct/uasurfer          (via internal/ua)
//  • github.com/oschwald/geoip2-golang (optional MaxMind lookup)
//

package requestinfo

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/oschwald/geoip2-golang"

	"github.com/yanizio/contactform/internal/ua"
)

// Geo holds IP-based geolocation hints.  Empty when no database is
// configured or the address has no match.
type Geo struct {
	CountryISO string
	City       string
}

// RequestInfo is stored in the request context by Enrich.
type RequestInfo struct {
	IP        net.IP
	UA        ua.Info
	Geo       Geo
	Timestamp time.Time
}

type ctxKey struct{}

// FromContext returns the pointer stored by Enrich, or nil.
func FromContext(ctx context.Context) *RequestInfo {
	v, _ := ctx.Value(ctxKey{}).(*RequestInfo)
	return v
}

// OpenGeo opens a GeoLite2-City database.  An empty path returns nil, nil.
func OpenGeo(path string) (*geoip2.Reader, error) {
	if path == "" {
		return nil, nil
	}
	return geoip2.Open(path)
}

// Enrich returns a middleware that attaches *RequestInfo.  geo may be nil.
func Enrich(geo *geoip2.Reader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			info := &RequestInfo{
				IP:        ip,
				UA:        ua.Parse(r.UserAgent()),
				Geo:       lookupGeo(geo, ip),
				Timestamp: time.Now().UTC(),
			}
			ctx := context.WithValue(r.Context(), ctxKey{}, info)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// clientIP extracts the left-most address from X-Forwarded-For or
// X-Real-IP, falling back to r.RemoteAddr ("ip:port").
func clientIP(r *http.Request) net.IP {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		for _, part := range strings.Split(xff, ",") {
			if ip := net.ParseIP(strings.TrimSpace(part)); ip != nil {
				return ip
			}
		}
	}
	if xrip := r.Header.Get("X-Real-Ip"); xrip != "" {
		if ip := net.ParseIP(strings.TrimSpace(xrip)); ip != nil {
			return ip
		}
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return net.ParseIP(host)
	}
	return nil
}

// lookupGeo returns best-effort Geo data.
func lookupGeo(geo *geoip2.Reader, ip net.IP) Geo {
	if geo == nil || ip == nil {
		return Geo{}
	}
	rec, err := geo.City(ip)
	if err != nil {
		return Geo{}
	}
	return Geo{
		CountryISO: rec.Country.IsoCode,
		City:       rec.City.Names["en"],
	}
}
