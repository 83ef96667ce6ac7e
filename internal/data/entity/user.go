package entity

type UserRole string

const (
	RoleAdmin  UserRole = "ADMIN"
	RoleSeller UserRole = "SELLER"
	RoleClient UserRole = "CLIENT"
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleAdmin, RoleSeller, RoleClient:
		return true
	}
	return false
}

// User is the identity record. RefreshTokenHash is nil while no session is active.
type User struct {
	Base
	Email            string   `db:"email"`
	Name             string   `db:"name"`
	PasswordHash     string   `db:"password"`
	RefreshTokenHash *string  `db:"refresh_token"`
	Role             UserRole `db:"role"`
}
