package models

import "strconv"

// User captures the account fields the catalog backend exposes at /users/me.
type User struct {
	ID      int64  `json:"id"`
	Email   string `json:"email"`
	Address string `json:"address"`
	IsAdmin *bool  `json:"is_admin,omitempty"`
	// Role is the numeric role indicator some login responses carry instead of is_admin.
	Role *int `json:"role,omitempty"`
}

// RoleFlag derives the cached role flag from whichever indicator the response carried.
func (u User) RoleFlag() (Role, bool) {
	switch {
	case u.IsAdmin != nil:
		return RoleFromAdmin(*u.IsAdmin), true
	case u.Role != nil:
		return ParseRole(strconv.Itoa(*u.Role))
	default:
		return "", false
	}
}
