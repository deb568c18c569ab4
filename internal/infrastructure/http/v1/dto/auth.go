package dto

import (
	"time"

	"tokopos/internal/domain/identity"
)

// LoginRequest is the credential pair for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the access token and the account.
type LoginResponse struct {
	AccessToken string       `json:"access_token"`
	ExpiresAt   time.Time    `json:"expires_at"`
	User        UserResponse `json:"user"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// FromUser maps an account to its public view.
func FromUser(u *identity.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Role:     u.Role,
	}
}

// CreateUserRequest adds an account.
type CreateUserRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// ChangePasswordRequest replaces an account password.
type ChangePasswordRequest struct {
	Password string `json:"password" binding:"required"`
}

// RenameUserRequest changes an account username.
type RenameUserRequest struct {
	Username string `json:"username" binding:"required"`
}

// SetRoleRequest changes an account role.
type SetRoleRequest struct {
	Role string `json:"role" binding:"required"`
}
