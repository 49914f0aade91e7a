package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/gatherly/gatherly/internal/session"
)

// CtxUserIDKey is the gin context key holding the authenticated user id.
const CtxUserIDKey = "userID"

// RequireAuth resolves the session cookie against the store and aborts
// with a redirect to the login page when no identity can be established.
// It does nothing beyond the session lookup; handlers load the user
// themselves if they need more than the id.
func RequireAuth(store session.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(session.CookieName)
		if err != nil || token == "" {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		userID, err := store.Resolve(c.Request.Context(), token)
		if err != nil || userID == "" {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Set(CtxUserIDKey, userID)
		c.Next()
	}
}
