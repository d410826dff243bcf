// internal/middleware/accesslog.go
//
// Access-log middleware.
//
// One INFO entry per request with method, path, status, bytes, duration,
// and the parsed client attached by requestinfo.Enrich (browser, device,
// bot flag, and country when a GeoLite2 database is configured).
// Websocket upgrades are logged when the handler returns, i.e. when the
// socket closes.

package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/yanizio/contactform/internal/requestinfo"
)

// AccessLog returns a middleware that logs each request to log.
func AccessLog(log *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			fields := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"dur", time.Since(start),
				"req_id", middleware.GetReqID(r.Context()),
			}
			if ri := requestinfo.FromContext(r.Context()); ri != nil {
				fields = append(fields,
					"ip", ri.IP.String(),
					"browser", ri.UA.Browser,
					"device", ri.UA.Device,
					"bot", ri.UA.IsBot,
					"country", ri.Geo.CountryISO,
				)
			}
			log.Infow("http request", fields...)
		})
	}
}
