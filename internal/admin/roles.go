package admin

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"roleadmin/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type roleView struct {
	db *gorm.DB
}

func NewRoleView(db *gorm.DB) View {
	h := &roleView{db: db}
	return View{
		Slug:   "roles",
		Title:  "Roles",
		Access: adminOnly,
		List:   h.list,
		New:    h.showNew,
		Create: h.create,
		Edit:   h.showEdit,
		Update: h.update,
		Delete: h.delete,
	}
}

func (h *roleView) list(c *gin.Context) {
	var roles []models.Role
	if err := h.db.Order("name asc").Find(&roles).Error; err != nil {
		c.String(http.StatusInternalServerError, "failed to list roles")
		return
	}
	render(c, http.StatusOK, "admin_roles_list.html", gin.H{"roles": roles})
}

func (h *roleView) showNew(c *gin.Context) {
	h.renderForm(c, http.StatusOK, &models.Role{}, "")
}

func (h *roleView) create(c *gin.Context) {
	role := models.Role{
		Name:        strings.TrimSpace(c.PostForm("name")),
		Description: strings.TrimSpace(c.PostForm("description")),
	}

	if role.Name == "" {
		h.renderForm(c, http.StatusBadRequest, &role, "Name is required")
		return
	}

	if err := h.db.Create(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			h.renderForm(c, http.StatusBadRequest, &role, "A role with this name already exists")
			return
		}
		h.renderForm(c, http.StatusInternalServerError, &role, "Failed to save role")
		return
	}

	c.Redirect(http.StatusFound, "/admin/roles")
}

func (h *roleView) showEdit(c *gin.Context) {
	role, ok := h.fetch(c)
	if !ok {
		return
	}
	h.renderForm(c, http.StatusOK, role, "")
}

func (h *roleView) update(c *gin.Context) {
	role, ok := h.fetch(c)
	if !ok {
		return
	}

	name := strings.TrimSpace(c.PostForm("name"))
	description := strings.TrimSpace(c.PostForm("description"))
	if name == "" {
		h.renderForm(c, http.StatusBadRequest, role, "Name is required")
		return
	}

	err := h.db.Model(role).Updates(map[string]interface{}{
		"name":        name,
		"description": description,
	}).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			h.renderForm(c, http.StatusBadRequest, role, "A role with this name already exists")
			return
		}
		h.renderForm(c, http.StatusInternalServerError, role, "Failed to save role")
		return
	}

	c.Redirect(http.StatusFound, "/admin/roles")
}

func (h *roleView) delete(c *gin.Context) {
	role, ok := h.fetch(c)
	if !ok {
		return
	}

	// Detach members first; sqlite does not enforce the cascade.
	if err := h.db.Model(role).Association("Users").Clear(); err != nil {
		c.String(http.StatusInternalServerError, "failed to delete role")
		return
	}
	if err := h.db.Delete(role).Error; err != nil {
		c.String(http.StatusInternalServerError, "failed to delete role")
		return
	}

	c.Redirect(http.StatusFound, "/admin/roles")
}

func (h *roleView) fetch(c *gin.Context) (*models.Role, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.String(http.StatusBadRequest, "invalid role id")
		return nil, false
	}

	var role models.Role
	if err := h.db.First(&role, id).Error; err != nil {
		c.String(http.StatusNotFound, "role not found")
		return nil, false
	}
	return &role, true
}

func (h *roleView) renderForm(c *gin.Context, status int, role *models.Role, errMsg string) {
	action := "/admin/roles/new"
	title := "New Role"
	if role.ID != 0 {
		action = "/admin/roles/" + strconv.Itoa(int(role.ID)) + "/edit"
		title = "Edit Role"
	}

	render(c, status, "admin_role_form.html", gin.H{
		"title":  title,
		"action": action,
		"role":   role,
		"error":  errMsg,
	})
}
