package models

import "time"

type User struct {
	ID           uint      `gorm:"primaryKey"`
	Email        string    `gorm:"uniqueIndex;size:255;not null"`
	Username     string    `gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `gorm:"column:password;size:255"`
	Active       bool      `gorm:"not null;default:true"`
	ConfirmedAt  time.Time
	Roles        []Role    `gorm:"many2many:roles_users;"`
}

// HasRole reports whether the user holds the role with the given name.
func (u *User) HasRole(name string) bool {
	for _, r := range u.Roles {
		if r.Name == name {
			return true
		}
	}
	return false
}

// RoleNames returns the names of all roles held by the user.
func (u *User) RoleNames() []string {
	names := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		names[i] = r.Name
	}
	return names
}
