// internal/middleware/middleware_test.go

package middleware

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/yanizio/contactform/internal/requestinfo"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusTeapot)
	_, _ = w.Write([]byte("hi"))
})

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	Security(false)(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	h := rec.Result().Header
	for _, k := range []string{"Content-Security-Policy", "X-Frame-Options", "X-Content-Type-Options", "Referrer-Policy", "Permissions-Policy"} {
		if h.Get(k) == "" {
			t.Errorf("missing %s", k)
		}
	}
	if h.Get("Strict-Transport-Security") != "" {
		t.Error("HSTS set without https enforcement")
	}

	rec = httptest.NewRecorder()
	Security(true)(ok).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Result().Header.Get("Strict-Transport-Security") == "" {
		t.Error("HSTS missing with https enforcement")
	}
}

func TestForceHTTPS(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		host    string
		tls     bool
		proto   string
		want    int
	}{
		{"disabled", false, "example.com", false, "", http.StatusTeapot},
		{"plain http", true, "example.com", false, "", http.StatusPermanentRedirect},
		{"tls", true, "example.com", true, "", http.StatusTeapot},
		{"proxy https", true, "example.com", false, "https", http.StatusTeapot},
		{"localhost", true, "localhost:8080", false, "", http.StatusTeapot},
		{"ipv6 loopback", true, "[::1]:8080", false, "", http.StatusTeapot},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/?sent=1", nil)
			req.Host = tc.host
			if tc.tls {
				req.TLS = &tls.ConnectionState{}
			}
			if tc.proto != "" {
				req.Header.Set("X-Forwarded-Proto", tc.proto)
			}
			rec := httptest.NewRecorder()
			ForceHTTPS(tc.enabled)(ok).ServeHTTP(rec, req)
			if rec.Code != tc.want {
				t.Fatalf("status = %d, want %d", rec.Code, tc.want)
			}
			if tc.want == http.StatusPermanentRedirect {
				if loc := rec.Header().Get("Location"); loc != "https://example.com/?sent=1" {
					t.Fatalf("Location = %q", loc)
				}
			}
		})
	}
}

func TestAccessLog(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	h := requestinfo.Enrich(nil)(AccessLog(zap.New(core).Sugar())(ok))

	req := httptest.NewRequest(http.MethodPost, "/field", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/125.0.0.0 Safari/537.36")
	h.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("http request").All()
	if len(entries) != 1 {
		t.Fatalf("entries = %d", len(entries))
	}
	f := entries[0].ContextMap()
	if f["method"] != "POST" || f["path"] != "/field" || f["status"] != int64(http.StatusTeapot) {
		t.Fatalf("fields = %v", f)
	}
	if f["browser"] != "Chrome" {
		t.Fatalf("browser = %v", f["browser"])
	}
}
