package user

import "time"

type Role string

const (
	RoleAdmin    Role = "admin"
	RoleOperator Role = "operator"
	RoleGuru     Role = "guru"
	RoleKaryawan Role = "karyawan"
)

var ValidRoles = []string{string(RoleAdmin), string(RoleOperator), string(RoleGuru), string(RoleKaryawan)}

type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin checks if user has the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Can checks the role permission table for the user's role.
func (u *User) Can(p Permission) bool {
	return HasPermission(u.Role, p)
}
