package dto

import "github.com/hongminglow/rentalctl/internal/models"

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Address  string `json:"address"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// ChangeRequest updates profile fields; empty fields are left untouched.
type ChangeRequest struct {
	Address  string `json:"address,omitempty"`
	Password string `json:"password,omitempty"`
}

// Empty reports whether the request would change nothing.
func (r ChangeRequest) Empty() bool {
	return r.Address == "" && r.Password == ""
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
