package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUserHasRole(t *testing.T) {
	u := &User{
		Username: "alice",
		Roles: []Role{
			{Name: RoleAdmin, Description: "Administrator"},
		},
	}

	assert.True(t, u.HasRole(RoleAdmin))
	assert.False(t, u.HasRole(RoleEndUser))
	assert.False(t, (&User{}).HasRole(RoleAdmin))
}

func TestUserRoleNames(t *testing.T) {
	u := &User{
		Roles: []Role{{Name: RoleAdmin}, {Name: RoleEndUser}},
	}

	assert.Equal(t, []string{RoleAdmin, RoleEndUser}, u.RoleNames())
	assert.Empty(t, (&User{}).RoleNames())
}

func TestRoleString(t *testing.T) {
	assert.Equal(t, "admin", Role{Name: "admin"}.String())
}
