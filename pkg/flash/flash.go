// Package flash carries a one-time notice across a redirect. The notice
// is an explicit value written to the response as a short-lived cookie and
// consumed (cleared) by the next page load; no server-side session state
// is involved.
package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
)

const cookieName = "flash"

// maxAge bounds how long an unconsumed notice survives.
const maxAge = 300

// Kind tags a Result for rendering.
type Kind string

const (
	KindSuccess Kind = "success"
	KindError   Kind = "error"
)

// Result is the per-response outcome shown on the next rendered page.
type Result struct {
	Kind    Kind   `json:"kind"`
	Message string `json:"message"`
}

// Success builds a success Result.
func Success(message string) Result {
	return Result{Kind: KindSuccess, Message: message}
}

// Error builds an error Result.
func Error(message string) Result {
	return Result{Kind: KindError, Message: message}
}

// Set attaches the Result to the response so the page after the redirect
// can render it.
func Set(c *gin.Context, r Result) {
	b, err := json.Marshal(r)
	if err != nil {
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookieName, base64.RawURLEncoding.EncodeToString(b), maxAge, "/", "", false, true)
}

// Take returns the pending Result, if any, and clears it.
func Take(c *gin.Context) (Result, bool) {
	raw, err := c.Cookie(cookieName)
	if err != nil || raw == "" {
		return Result{}, false
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookieName, "", -1, "/", "", false, true)

	b, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return Result{}, false
	}
	var r Result
	if err := json.Unmarshal(b, &r); err != nil {
		return Result{}, false
	}
	return r, true
}
