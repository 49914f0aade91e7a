// Package session manages server-side login sessions: an opaque random
// token, delivered to the browser in a cookie, mapped to a user id with a
// fixed TTL. The store object is passed explicitly to whoever needs it;
// there is no process-wide session state.
package session

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"time"
)

// DefaultTTL is how long a session lives without an explicit logout.
const DefaultTTL = 24 * time.Hour

// CookieName is the name of the session cookie.
const CookieName = "session_token"

// Store maps opaque session tokens to user ids.
//
// Establish creates a fresh token bound to userID; it never invalidates
// other sessions, so a user may be logged in from several browsers at
// once. Resolve returns ("", nil) for absent or expired tokens. Destroy
// is idempotent.
type Store interface {
	Establish(ctx context.Context, userID string) (token string, err error)
	Resolve(ctx context.Context, token string) (userID string, err error)
	Destroy(ctx context.Context, token string) error
}

// newToken returns an unguessable session token: 32 bytes from
// crypto/rand, base64url without padding.
func newToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
