// Package identity provides user accounts, credential verification and
// role management.
package identity

import (
	"context"

	"tokopos/internal/core/session"
)

// User is an operator account. PasswordHash is a bcrypt digest and is
// never serialized.
type User struct {
	ID           int64  `db:"id" json:"id"`
	Username     string `db:"username" json:"username"`
	PasswordHash string `db:"password" json:"-"`
	Role         string `db:"role" json:"role"`
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == session.RoleAdmin
}

// Repository defines persistence operations for user accounts.
type Repository interface {
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	Delete(ctx context.Context, id int64) error

	// GetByID fails with NOT_FOUND when no row matches.
	GetByID(ctx context.Context, id int64) (*User, error)

	// GetByUsername returns (nil, nil) on a miss so the caller can keep
	// verification timing independent of account existence.
	GetByUsername(ctx context.Context, username string) (*User, error)

	List(ctx context.Context) ([]User, error)
	Count(ctx context.Context) (int, error)
	CountByRole(ctx context.Context, role string) (int, error)
}
