package user

import "time"

type Role string

const (
	RoleSuperAdmin Role = "super_admin" // Salon owner - full access
	RoleAdmin      Role = "admin"       // Front desk / manager
	RoleEmployee   Role = "employee"    // Staff member
)

var validRoles = []Role{RoleSuperAdmin, RoleAdmin, RoleEmployee}

// IsValid reports whether r is a known role.
func (r Role) IsValid() bool {
	for _, v := range validRoles {
		if r == v {
			return true
		}
	}
	return false
}

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsSuperAdmin checks if user is the salon owner
func (u *User) IsSuperAdmin() bool {
	return u.Role == RoleSuperAdmin
}

// IsAdmin checks if user is admin or super admin
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin || u.Role == RoleSuperAdmin
}
