// internal/form/csrf.go
//
// Contact form – stateless CSRF tokens.
//
// Context
//   Every rendered form embeds a hidden csrf_token.  POST handlers and the
//   websocket submit path verify it before touching the visitor's State.
//   Tokens are stateless:
//
//      base64url( nonce | unixMicro | HMAC_SHA256(secret, nonce+unixMicro) )
//
//   •  nonce – 16 random bytes.
//   •  unixMicro – issue time, 8 bytes, big-endian.
//   •  HMAC – keyed with the configured secret.
//
//   Verification checks the signature and that the token is younger than
//   the signer's MaxAge.
//
//------------------------------------------------------------------------------

package form

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"time"
)

const (
	nonceBytes    = 16
	tokenBytes    = nonceBytes + 8 + sha256.Size // nonce + ts + sig
	defaultMaxAge = 2 * time.Hour
)

// CSRF signs and verifies tokens with one secret.
type CSRF struct {
	secret []byte
	MaxAge time.Duration
	now    func() time.Time
}

// NewCSRF returns a signer for key, a base64url (unpadded) string of at
// least 32 bytes.  An empty key yields a random, process-local secret and
// ephemeral reports true.
func NewCSRF(key string) (c *CSRF, ephemeral bool, err error) {
	c = &CSRF{MaxAge: defaultMaxAge, now: time.Now}
	if key != "" {
		b, err := base64.RawURLEncoding.DecodeString(key)
		if err != nil {
			return nil, false, errors.New("csrf key is not base64url")
		}
		if len(b) < 32 {
			return nil, false, errors.New("csrf key shorter than 32 bytes")
		}
		c.secret = b
		return c, false, nil
	}
	c.secret = make([]byte, 32)
	if _, err := rand.Read(c.secret); err != nil {
		return nil, false, err
	}
	return c, true, nil
}

// Generate creates a new token.  Call once per render.
func (c *CSRF) Generate() (string, error) {
	nonce := make([]byte, nonceBytes)
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	ts := make([]byte, 8)
	binary.BigEndian.PutUint64(ts, uint64(c.now().UnixMicro()))

	buf := make([]byte, 0, tokenBytes)
	buf = append(buf, nonce...)
	buf = append(buf, ts...)
	buf = append(buf, c.sign(nonce, ts)...)

	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Verify reports whether tok passes HMAC and age checks.
func (c *CSRF) Verify(tok string) bool {
	if tok == "" {
		return false
	}
	raw, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil || len(raw) != tokenBytes {
		return false
	}

	nonce := raw[:nonceBytes]
	tsBytes := raw[nonceBytes : nonceBytes+8]
	sig := raw[nonceBytes+8:]

	issued := time.UnixMicro(int64(binary.BigEndian.Uint64(tsBytes)))
	now := c.now()
	if now.Sub(issued) > c.MaxAge || issued.Sub(now) > time.Minute {
		// Expired, or issued in the future beyond clock skew.
		return false
	}

	return hmac.Equal(sig, c.sign(nonce, tsBytes))
}

func (c *CSRF) sign(nonce, ts []byte) []byte {
	mac := hmac.New(sha256.New, c.secret)
	mac.Write(nonce)
	mac.Write(ts)
	return mac.Sum(nil)
}
