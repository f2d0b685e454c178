package middleware

import (
	"roleadmin/internal/identity"
	"roleadmin/internal/models"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const currentUserKey = "CurrentUser"

// InjectUser loads the session user (roles included) into the request
// context for handlers and templates.
func InjectUser(svc identity.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess := sessions.Default(c)

		if uidRaw := sess.Get("user_id"); uidRaw != nil {
			if uid, ok := uidRaw.(uint); ok && uid > 0 {
				if user, err := svc.UserByID(uid); err == nil {
					c.Set(currentUserKey, user)
				}
			}
		}

		c.Next()
	}
}

// CurrentUser returns the user injected by InjectUser, or nil for an
// anonymous session.
func CurrentUser(c *gin.Context) *models.User {
	if v, ok := c.Get(currentUserKey); ok {
		if u, ok := v.(*models.User); ok {
			return u
		}
	}
	return nil
}
