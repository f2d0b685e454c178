package admin

import (
	"roleadmin/internal/middleware"

	"github.com/gin-gonic/gin"
)

func render(c *gin.Context, status int, tmpl string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if u := middleware.CurrentUser(c); u != nil {
		data["CurrentUser"] = u
	}
	c.HTML(status, tmpl, data)
}
