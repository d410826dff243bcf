// internal/form/csrf_test.go
//
// Unit-tests for CSRF token signing and verification.

package form

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"
)

func TestCSRFRoundTrip(t *testing.T) {
	c, ephemeral, err := NewCSRF("")
	if err != nil {
		t.Fatal(err)
	}
	if !ephemeral {
		t.Fatal("empty key should yield an ephemeral secret")
	}
	tok, err := c.Generate()
	if err != nil {
		t.Fatal(err)
	}
	if !c.Verify(tok) {
		t.Fatal("fresh token rejected")
	}
	if c.Verify("") || c.Verify("garbage") || c.Verify(tok[:len(tok)-2]) {
		t.Fatal("malformed token accepted")
	}
}

func TestCSRFWrongSecret(t *testing.T) {
	key := base64.RawURLEncoding.EncodeToString([]byte(strings.Repeat("k", 32)))
	a, ephemeral, err := NewCSRF(key)
	if err != nil || ephemeral {
		t.Fatalf("NewCSRF: %v ephemeral=%v", err, ephemeral)
	}
	b, _, _ := NewCSRF("")
	tok, _ := a.Generate()
	if b.Verify(tok) {
		t.Fatal("token verified under a different secret")
	}
}

func TestCSRFExpiry(t *testing.T) {
	c, _, _ := NewCSRF("")
	issued := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return issued }
	tok, _ := c.Generate()

	c.now = func() time.Time { return issued.Add(c.MaxAge - time.Second) }
	if !c.Verify(tok) {
		t.Fatal("token rejected inside MaxAge")
	}
	c.now = func() time.Time { return issued.Add(c.MaxAge + time.Second) }
	if c.Verify(tok) {
		t.Fatal("expired token accepted")
	}
	c.now = func() time.Time { return issued.Add(-2 * time.Minute) }
	if c.Verify(tok) {
		t.Fatal("future token accepted")
	}
}

func TestNewCSRFBadKey(t *testing.T) {
	if _, _, err := NewCSRF("!!!"); err == nil {
		t.Fatal("non-base64 key accepted")
	}
	short := base64.RawURLEncoding.EncodeToString([]byte("short"))
	if _, _, err := NewCSRF(short); err == nil {
		t.Fatal("short key accepted")
	}
}
