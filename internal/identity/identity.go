package identity

import (
	"errors"
	"fmt"
	"time"

	"roleadmin/internal/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	// ErrInvalidCredentials is returned for any authentication failure.
	// It never says whether the identifier or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrRoleNotFound       = errors.New("role not found")
)

// Service is the identity capability set: user and role lookup/creation,
// password hashing and credential verification. Session state lives in
// the web layer, not here.
type Service interface {
	FindOrCreateRole(name, description string) (*models.Role, error)
	GetUser(identifier string) (*models.User, error)
	UserByID(id uint) (*models.User, error)
	CreateUser(username, email, passwordHash string) (*models.User, error)
	AddRoleToUser(user *models.User, roleName string) error
	HashPassword(plain string) (string, error)
	VerifyPassword(plain, hash string) bool
	Authenticate(identifier, password string) (*models.User, error)
}

type service struct {
	db   *gorm.DB
	cost int
}

// New creates a gorm-backed identity service. cost is the bcrypt cost
// used for HashPassword.
func New(db *gorm.DB, cost int) Service {
	return &service{db: db, cost: cost}
}

// FindOrCreateRole returns the role named name, creating it if absent.
// A duplicate-key failure means another caller created it concurrently;
// the winner's row is returned.
func (s *service) FindOrCreateRole(name, description string) (*models.Role, error) {
	var role models.Role
	err := s.db.Where("name = ?", name).First(&role).Error
	if err == nil {
		return &role, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to look up role %s: %w", name, err)
	}

	role = models.Role{Name: name, Description: description}
	if err := s.db.Create(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			if err := s.db.Where("name = ?", name).First(&role).Error; err != nil {
				return nil, fmt.Errorf("failed to refetch role %s: %w", name, err)
			}
			return &role, nil
		}
		return nil, fmt.Errorf("failed to create role %s: %w", name, err)
	}
	return &role, nil
}

// GetUser looks up a user by username or email, roles preloaded.
func (s *service) GetUser(identifier string) (*models.User, error) {
	var user models.User
	err := s.db.Preload("Roles").
		Where("username = ? OR email = ?", identifier, identifier).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user %s: %w", identifier, err)
	}
	return &user, nil
}

func (s *service) UserByID(id uint) (*models.User, error) {
	var user models.User
	err := s.db.Preload("Roles").First(&user, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to look up user %d: %w", id, err)
	}
	return &user, nil
}

// CreateUser inserts an active, confirmed user. A taken username or
// email surfaces as gorm.ErrDuplicatedKey.
func (s *service) CreateUser(username, email, passwordHash string) (*models.User, error) {
	user := models.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Active:       true,
		ConfirmedAt:  time.Now(),
	}
	if err := s.db.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user %s: %w", username, err)
	}
	return &user, nil
}

// AddRoleToUser attaches the named role to the user. Already-attached
// is a no-op, an absent role is ErrRoleNotFound.
func (s *service) AddRoleToUser(user *models.User, roleName string) error {
	if user == nil || user.ID == 0 {
		return ErrUserNotFound
	}
	if user.HasRole(roleName) {
		return nil
	}

	var role models.Role
	err := s.db.Where("name = ?", roleName).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrRoleNotFound
		}
		return fmt.Errorf("failed to look up role %s: %w", roleName, err)
	}

	if err := s.db.Model(user).Association("Roles").Append(&role); err != nil {
		return fmt.Errorf("failed to add role %s to user %s: %w", roleName, user.Username, err)
	}
	return nil
}

func (s *service) HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), s.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

func (s *service) VerifyPassword(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// Authenticate checks identifier (username or email) and password.
// Unknown identifier, wrong password and inactive account all collapse
// into ErrInvalidCredentials.
func (s *service) Authenticate(identifier, password string) (*models.User, error) {
	user, err := s.GetUser(identifier)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.Active {
		return nil, ErrInvalidCredentials
	}
	if !s.VerifyPassword(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
