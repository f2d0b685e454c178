package admin

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"roleadmin/internal/identity"
	"roleadmin/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// userView manages User records. The stored password hash is never
// shown; the form offers a separate "new password" field instead, and a
// blank value on edit leaves the stored hash untouched.
type userView struct {
	db       *gorm.DB
	identity identity.Service
}

func NewUserView(db *gorm.DB, svc identity.Service) View {
	h := &userView{db: db, identity: svc}
	return View{
		Slug:   "users",
		Title:  "Users",
		Access: adminOnly,
		List:   h.list,
		New:    h.showNew,
		Create: h.create,
		Edit:   h.showEdit,
		Update: h.update,
		Delete: h.delete,
	}
}

type userForm struct {
	Username    string
	Email       string
	Active      bool
	RoleNames   []string
	NewPassword string
}

func bindUserForm(c *gin.Context) userForm {
	return userForm{
		Username:    strings.TrimSpace(c.PostForm("username")),
		Email:       strings.TrimSpace(c.PostForm("email")),
		Active:      c.PostForm("active") == "on",
		RoleNames:   c.PostFormArray("roles"),
		NewPassword: c.PostForm("password2"),
	}
}

func (h *userView) list(c *gin.Context) {
	var users []models.User
	if err := h.db.Preload("Roles").Order("id asc").Find(&users).Error; err != nil {
		c.String(http.StatusInternalServerError, "failed to list users")
		return
	}
	render(c, http.StatusOK, "admin_users_list.html", gin.H{"users": users})
}

func (h *userView) showNew(c *gin.Context) {
	h.renderForm(c, http.StatusOK, &models.User{}, nil, "")
}

func (h *userView) create(c *gin.Context) {
	form := bindUserForm(c)

	user := models.User{
		Username: form.Username,
		Email:    form.Email,
		Active:   form.Active,
	}

	if form.Username == "" || form.Email == "" {
		h.renderForm(c, http.StatusBadRequest, &user, form.RoleNames, "Username and email are required")
		return
	}

	if form.NewPassword != "" {
		hash, err := h.identity.HashPassword(form.NewPassword)
		if err != nil {
			h.renderForm(c, http.StatusInternalServerError, &user, form.RoleNames, "Failed to hash password")
			return
		}
		user.PasswordHash = hash
	}

	roles, err := h.rolesByName(form.RoleNames)
	if err != nil {
		h.renderForm(c, http.StatusInternalServerError, &user, form.RoleNames, "Failed to load roles")
		return
	}
	user.Roles = roles
	user.ConfirmedAt = time.Now()

	if err := h.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			h.renderForm(c, http.StatusBadRequest, &user, form.RoleNames, "Username or email already in use")
			return
		}
		h.renderForm(c, http.StatusInternalServerError, &user, form.RoleNames, "Failed to save user")
		return
	}

	c.Redirect(http.StatusFound, "/admin/users")
}

func (h *userView) showEdit(c *gin.Context) {
	user, ok := h.fetch(c)
	if !ok {
		return
	}
	h.renderForm(c, http.StatusOK, user, user.RoleNames(), "")
}

func (h *userView) update(c *gin.Context) {
	user, ok := h.fetch(c)
	if !ok {
		return
	}

	form := bindUserForm(c)
	if form.Username == "" || form.Email == "" {
		h.renderForm(c, http.StatusBadRequest, user, form.RoleNames, "Username and email are required")
		return
	}

	// Blank new-password keeps the stored hash.
	password := user.PasswordHash
	if form.NewPassword != "" {
		hash, err := h.identity.HashPassword(form.NewPassword)
		if err != nil {
			h.renderForm(c, http.StatusInternalServerError, user, form.RoleNames, "Failed to hash password")
			return
		}
		password = hash
	}

	err := h.db.Model(user).Updates(map[string]interface{}{
		"username": form.Username,
		"email":    form.Email,
		"active":   form.Active,
		"password": password,
	}).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			h.renderForm(c, http.StatusBadRequest, user, form.RoleNames, "Username or email already in use")
			return
		}
		h.renderForm(c, http.StatusInternalServerError, user, form.RoleNames, "Failed to save user")
		return
	}

	roles, err := h.rolesByName(form.RoleNames)
	if err != nil {
		h.renderForm(c, http.StatusInternalServerError, user, form.RoleNames, "Failed to load roles")
		return
	}
	if err := h.db.Model(user).Association("Roles").Replace(&roles); err != nil {
		h.renderForm(c, http.StatusInternalServerError, user, form.RoleNames, "Failed to save roles")
		return
	}

	c.Redirect(http.StatusFound, "/admin/users")
}

func (h *userView) delete(c *gin.Context) {
	user, ok := h.fetch(c)
	if !ok {
		return
	}

	// Drop join rows first; sqlite does not enforce the cascade.
	if err := h.db.Model(user).Association("Roles").Clear(); err != nil {
		c.String(http.StatusInternalServerError, "failed to delete user")
		return
	}
	if err := h.db.Delete(user).Error; err != nil {
		c.String(http.StatusInternalServerError, "failed to delete user")
		return
	}

	c.Redirect(http.StatusFound, "/admin/users")
}

func (h *userView) fetch(c *gin.Context) (*models.User, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.String(http.StatusBadRequest, "invalid user id")
		return nil, false
	}

	var user models.User
	if err := h.db.Preload("Roles").First(&user, id).Error; err != nil {
		c.String(http.StatusNotFound, "user not found")
		return nil, false
	}
	return &user, true
}

func (h *userView) rolesByName(names []string) ([]models.Role, error) {
	if len(names) == 0 {
		return nil, nil
	}
	var roles []models.Role
	if err := h.db.Where("name IN ?", names).Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (h *userView) renderForm(c *gin.Context, status int, user *models.User, selected []string, errMsg string) {
	var allRoles []models.Role
	_ = h.db.Order("name asc").Find(&allRoles).Error

	selectedSet := make(map[string]bool, len(selected))
	for _, name := range selected {
		selectedSet[name] = true
	}

	action := "/admin/users/new"
	title := "New User"
	if user.ID != 0 {
		action = "/admin/users/" + strconv.Itoa(int(user.ID)) + "/edit"
		title = "Edit User"
	}

	render(c, status, "admin_user_form.html", gin.H{
		"title":    title,
		"action":   action,
		"user":     user,
		"roles":    allRoles,
		"selected": selectedSet,
		"error":    errMsg,
	})
}
