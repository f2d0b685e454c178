package models

const (
	RoleAdmin   = "admin"
	RoleEndUser = "end-user"
)

// Role is a named permission grouping. Name is the natural key: every
// lookup, seed and membership check goes through it, never the ID.
type Role struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"uniqueIndex;size:80;not null"`
	Description string `gorm:"size:255"`
	Users       []User `gorm:"many2many:roles_users;"`
}

func (r Role) String() string {
	return r.Name
}
