// Package admin provides generic CRUD views over managed entities.
// Each entity is described by a View value: a slug, a title, an access
// predicate and a handler set. Views are registered on an Admin and
// mounted behind a guard that denies any session failing the predicate,
// regardless of whether the target record exists.
package admin

import (
	"net/http"

	"roleadmin/internal/middleware"
	"roleadmin/internal/models"

	"github.com/gin-gonic/gin"
)

type View struct {
	Slug   string
	Title  string
	Access func(u *models.User) bool

	List   gin.HandlerFunc
	New    gin.HandlerFunc
	Create gin.HandlerFunc
	Edit   gin.HandlerFunc
	Update gin.HandlerFunc
	Delete gin.HandlerFunc
}

type Admin struct {
	views []View
}

func New() *Admin {
	return &Admin{}
}

func (a *Admin) Register(v View) {
	a.views = append(a.views, v)
}

// Mount attaches the admin index and all registered views under rg.
func (a *Admin) Mount(rg *gin.RouterGroup) {
	rg.GET("", middleware.RequireAuth(), a.index)

	for _, v := range a.views {
		g := rg.Group("/"+v.Slug, guard(v))
		g.GET("", v.List)
		g.GET("/new", v.New)
		g.POST("/new", v.Create)
		g.GET("/:id/edit", v.Edit)
		g.POST("/:id/edit", v.Update)
		g.POST("/:id/delete", v.Delete)
	}
}

// guard denies the whole view to sessions failing its access predicate.
// Anonymous sessions are denied too, not redirected.
func guard(v View) gin.HandlerFunc {
	return func(c *gin.Context) {
		u := middleware.CurrentUser(c)
		if u == nil || !v.Access(u) {
			c.String(http.StatusForbidden, "access denied")
			c.Abort()
			return
		}
		c.Next()
	}
}

// index lists the views the current user may access.
func (a *Admin) index(c *gin.Context) {
	u := middleware.CurrentUser(c)

	var accessible []View
	for _, v := range a.views {
		if u != nil && v.Access(u) {
			accessible = append(accessible, v)
		}
	}

	render(c, http.StatusOK, "admin_index.html", gin.H{"views": accessible})
}

// adminOnly is the access predicate shared by the built-in views.
func adminOnly(u *models.User) bool {
	return u.HasRole(models.RoleAdmin)
}
