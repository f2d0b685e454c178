package bootstrap

import (
	"path/filepath"
	"testing"

	"roleadmin/internal/database"
	"roleadmin/internal/identity"
	"roleadmin/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) (*gorm.DB, identity.Service) {
	t.Helper()

	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)

	return db, identity.New(db, bcrypt.MinCost)
}

func countWhere(t *testing.T, db *gorm.DB, model interface{}, query string, args ...interface{}) int64 {
	t.Helper()

	var count int64
	require.NoError(t, db.Model(model).Where(query, args...).Count(&count).Error)
	return count
}

func TestRunIsIdempotent(t *testing.T) {
	db, svc := newTestDB(t)

	require.NoError(t, Run(db, svc))
	require.NoError(t, Run(db, svc))

	assert.Equal(t, int64(1), countWhere(t, db, &models.Role{}, "name = ?", models.RoleAdmin))
	assert.Equal(t, int64(1), countWhere(t, db, &models.Role{}, "name = ?", models.RoleEndUser))
	assert.Equal(t, int64(1), countWhere(t, db, &models.User{}, "username = ?", "test"))
	assert.Equal(t, int64(1), countWhere(t, db, &models.User{}, "username = ?", "admin"))

	var joinRows int64
	require.NoError(t, db.Table("roles_users").Count(&joinRows).Error)
	assert.Equal(t, int64(2), joinRows)
}

func TestRunSeedsRoleAssignments(t *testing.T) {
	db, svc := newTestDB(t)
	require.NoError(t, Run(db, svc))

	testUser, err := svc.GetUser("test")
	require.NoError(t, err)
	assert.True(t, testUser.HasRole(models.RoleEndUser))
	assert.False(t, testUser.HasRole(models.RoleAdmin))
	assert.Equal(t, "test@example.com", testUser.Email)
	assert.True(t, testUser.Active)

	adminUser, err := svc.GetUser("admin")
	require.NoError(t, err)
	assert.True(t, adminUser.HasRole(models.RoleAdmin))
	assert.False(t, adminUser.HasRole(models.RoleEndUser))
	assert.Equal(t, "admin@example.com", adminUser.Email)
}

func TestRunSeedsWorkingCredentials(t *testing.T) {
	db, svc := newTestDB(t)
	require.NoError(t, Run(db, svc))

	_, err := svc.Authenticate("test", "test")
	require.NoError(t, err)

	_, err = svc.Authenticate("test@example.com", "test")
	require.NoError(t, err)

	_, err = svc.Authenticate("admin", "admin")
	require.NoError(t, err)

	_, err = svc.Authenticate("test", "wrong")
	require.ErrorIs(t, err, identity.ErrInvalidCredentials)
}

func TestRunKeepsExistingRecords(t *testing.T) {
	db, svc := newTestDB(t)
	require.NoError(t, Run(db, svc))

	// A changed seed password must not be re-applied to an existing
	// account on the next boot.
	hash, err := svc.HashPassword("changed")
	require.NoError(t, err)
	user, err := svc.GetUser("test")
	require.NoError(t, err)
	require.NoError(t, db.Model(user).Update("password", hash).Error)

	require.NoError(t, Run(db, svc))

	_, err = svc.Authenticate("test", "changed")
	require.NoError(t, err)
	_, err = svc.Authenticate("test", "test")
	require.ErrorIs(t, err, identity.ErrInvalidCredentials)
}
