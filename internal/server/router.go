package server

import (
	"net/http"

	"roleadmin/internal/admin"
	"roleadmin/internal/config"
	"roleadmin/internal/handlers"
	"roleadmin/internal/identity"
	"roleadmin/internal/middleware"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func NewRouter(cfg *config.Config, db *gorm.DB, svc identity.Service) *gin.Engine {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.Default()

	r.Static("/static", cfg.StaticDir)
	r.LoadHTMLGlob(cfg.TemplateGlob)

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	r.Use(sessions.Sessions("roleadmin_session", store))

	r.Use(middleware.InjectUser(svc))

	// AUTH
	auth := handlers.NewAuth(svc)
	r.GET("/login", auth.ShowLogin)
	r.POST("/login", auth.Login)
	r.GET("/logout", auth.Logout)

	// HOME
	protected := r.Group("/")
	protected.Use(middleware.RequireAuth())
	protected.GET("/", handlers.Index)

	// ADMIN
	adm := admin.New()
	adm.Register(admin.NewUserView(db, svc))
	adm.Register(admin.NewRoleView(db))
	adm.Mount(r.Group("/admin"))

	// HEALTHCHECK
	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})

	return r
}
