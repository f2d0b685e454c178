package bootstrap

import (
	"errors"
	"fmt"
	"log"
	"os"

	"roleadmin/internal/identity"
	"roleadmin/internal/models"

	"gorm.io/gorm"
)

// Run creates the schema and seed data: the "admin" and "end-user"
// roles, a test account and an admin account, and their role
// assignments. Every step is idempotent and tolerates a concurrent
// first boot, so calling Run again after a crash is safe. Any error is
// fatal to startup; the caller should not serve requests after a
// failure.
func Run(db *gorm.DB, svc identity.Service) error {
	if err := db.AutoMigrate(&models.User{}, &models.Role{}); err != nil {
		return fmt.Errorf("failed to migrate: %w", err)
	}

	if _, err := svc.FindOrCreateRole(models.RoleAdmin, "Administrator"); err != nil {
		return err
	}
	if _, err := svc.FindOrCreateRole(models.RoleEndUser, "End user"); err != nil {
		return err
	}

	if err := ensureUser(svc, "test", "test@example.com", envOr("SEED_TEST_PASSWORD", "test")); err != nil {
		return err
	}
	if err := ensureUser(svc, "admin", "admin@example.com", envOr("SEED_ADMIN_PASSWORD", "admin")); err != nil {
		return err
	}

	if err := assignRole(svc, "test", models.RoleEndUser); err != nil {
		return err
	}
	if err := assignRole(svc, "admin", models.RoleAdmin); err != nil {
		return err
	}

	return nil
}

// ensureUser creates the account unless the username is already taken.
// A duplicate-key failure means a concurrent boot created it first.
func ensureUser(svc identity.Service, username, email, password string) error {
	_, err := svc.GetUser(username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, identity.ErrUserNotFound) {
		return err
	}

	hash, err := svc.HashPassword(password)
	if err != nil {
		return err
	}
	if _, err := svc.CreateUser(username, email, hash); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}

	log.Printf("created seed user: %s", username)
	return nil
}

func assignRole(svc identity.Service, username, roleName string) error {
	user, err := svc.GetUser(username)
	if err != nil {
		return err
	}
	return svc.AddRoleToUser(user, roleName)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
