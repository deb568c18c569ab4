// Package session provides request-scoped actor propagation.
//
// Every mutating operation reads the acting username from the context
// instead of a process-global "current user".
package session

import (
	"context"
)

// Roles known to the system.
const (
	RoleAdmin   = "admin"
	RoleCashier = "kasir"
)

// Actor is the authenticated user performing an operation.
type Actor struct {
	Username string
	Role     string
}

// IsAdmin reports whether the actor holds the admin role.
func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

type actorKey struct{}

// WithActor adds the acting user to the context.
func WithActor(ctx context.Context, actor *Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// GetActor returns the acting user from the context, or nil.
func GetActor(ctx context.Context) *Actor {
	if v, ok := ctx.Value(actorKey{}).(*Actor); ok {
		return v
	}
	return nil
}

// Username returns the acting username from the context or empty string.
func Username(ctx context.Context) string {
	if a := GetActor(ctx); a != nil {
		return a.Username
	}
	return ""
}

// HasRole checks whether the context actor holds the given role.
func HasRole(ctx context.Context, role string) bool {
	a := GetActor(ctx)
	return a != nil && a.Role == role
}
