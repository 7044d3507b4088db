package models

// Role is the coarse role flag cached next to the session token.
type Role string

const (
	RoleAdmin Role = "0"
	RoleUser  Role = "1"
)

// RoleFromAdmin maps the backend's is_admin field onto a Role.
func RoleFromAdmin(isAdmin bool) Role {
	if isAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// ParseRole accepts the persisted representation of a Role.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleAdmin, RoleUser:
		return Role(s), true
	default:
		return "", false
	}
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "administrator"
	case RoleUser:
		return "user"
	default:
		return "unknown"
	}
}
