// internal/session/cookie.go
//
// Session cookie helpers.
//
// Context
//   The cookie carries only a random UUID.  Form values never leave the
//   process, so the cookie needs no signing or encryption; an unknown or
//   forged ID simply gets a fresh, empty form.
//
//------------------------------------------------------------------------------

package session

import (
	"net/http"

	"github.com/google/uuid"
)

// CookieName is the session cookie name.
const CookieName = "contactform_session"

// ID returns the visitor's session ID, issuing a new cookie when the
// request carries none or carries a malformed one.
func ID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(CookieName); err == nil {
		if _, err := uuid.Parse(c.Value); err == nil {
			return c.Value
		}
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   r.TLS != nil, // only send over HTTPS
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

// Lookup returns the session ID carried by r without issuing a cookie.
// The websocket upgrade uses it because the handshake response cannot be
// given a cookie through the ResponseWriter.
func Lookup(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil {
		return "", false
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return "", false
	}
	return c.Value, true
}
