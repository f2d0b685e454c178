package handlers

import (
	"errors"
	"net/http"
	"strings"

	"roleadmin/internal/identity"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

const invalidCredentialsMsg = "Invalid identifier or password"

type Auth struct {
	identity identity.Service
}

func NewAuth(svc identity.Service) *Auth {
	return &Auth{identity: svc}
}

func (h *Auth) ShowLogin(c *gin.Context) {
	render(c, http.StatusOK, "login.html", gin.H{"error": ""})
}

type loginForm struct {
	Identifier string `form:"identifier" binding:"required"`
	Password   string `form:"password" binding:"required"`
}

// Login accepts either a username or an email as the identifier. Any
// failure renders the same generic message.
func (h *Auth) Login(c *gin.Context) {
	var form loginForm
	if err := c.ShouldBind(&form); err != nil {
		render(c, http.StatusBadRequest, "login.html", gin.H{"error": "Identifier and password are required"})
		return
	}

	form.Identifier = strings.TrimSpace(form.Identifier)

	user, err := h.identity.Authenticate(form.Identifier, form.Password)
	if err != nil {
		if errors.Is(err, identity.ErrInvalidCredentials) {
			render(c, http.StatusBadRequest, "login.html", gin.H{"error": invalidCredentialsMsg})
			return
		}
		render(c, http.StatusInternalServerError, "login.html", gin.H{"error": "Login failed, try again"})
		return
	}

	sess := sessions.Default(c)
	sess.Set("user_id", user.ID)
	_ = sess.Save()

	c.Redirect(http.StatusFound, "/")
}

func (h *Auth) Logout(c *gin.Context) {
	sess := sessions.Default(c)
	sess.Clear()
	_ = sess.Save()
	c.Redirect(http.StatusFound, "/login")
}
