package auth

import (
	"context"

	"github.com/solarepc/epc-api/internal/domain"
)

// UserContext holds authenticated user information
type UserContext struct {
	UserID   uint
	Username string
	Role     domain.UserRole
	// AuthType is "jwt" or "api_key"
	AuthType string
}

type contextKey string

const userContextKey contextKey = "userContext"

// WithUserContext adds user context to the context
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts user context from the context
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok && user != nil
}

// HasAnyRole checks if user has any of the specified roles. Admins pass every check.
func (u *UserContext) HasAnyRole(roles ...domain.UserRole) bool {
	if u.Role == domain.RoleAdmin {
		return true
	}
	for _, role := range roles {
		if u.Role == role {
			return true
		}
	}
	return false
}

// PerformedBy resolves the user credited with a write: the authenticated user,
// else the first non-nil fallback, else the placeholder user.
func PerformedBy(ctx context.Context, fallbacks ...*uint) uint {
	if user, ok := FromContext(ctx); ok && user.UserID != 0 {
		return user.UserID
	}
	for _, id := range fallbacks {
		if id != nil && *id != 0 {
			return *id
		}
	}
	return domain.PlaceholderUserID
}

// UserIDPtr returns the authenticated user id, or nil for anonymous callers
func UserIDPtr(ctx context.Context) *uint {
	if user, ok := FromContext(ctx); ok && user.UserID != 0 {
		id := user.UserID
		return &id
	}
	return nil
}
