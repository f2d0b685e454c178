package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireAuth redirects anonymous sessions to the login page. It relies
// on InjectUser having run earlier in the chain, so a stale session for
// a deleted user counts as anonymous.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if CurrentUser(c) == nil {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}
		c.Next()
	}
}
