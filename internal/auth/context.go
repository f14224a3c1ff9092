package auth

import (
	"context"
)

// Role grants access to parts of the API
type Role string

const (
	// RoleOwner runs the workshop and may change anything
	RoleOwner Role = "owner"
	// RoleStaff records costs, revenues and projects
	RoleStaff Role = "staff"
	// RoleViewer only reads, e.g. the accountant
	RoleViewer Role = "viewer"
	// RoleService is assigned to API key callers such as the backup runner
	RoleService Role = "service"
)

// UserContext holds authenticated user information
type UserContext struct {
	Subject     string
	DisplayName string
	Email       string
	Roles       []Role
	// AuthType is "api_key", "jwt" or "disabled"
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
	return user, ok
}

// Actor names the caller for log lines, "anonymous" when unauthenticated
func Actor(ctx context.Context) string {
	if u, ok := FromContext(ctx); ok {
		if u.Email != "" {
			return u.Email
		}
		return u.Subject
	}
	return "anonymous"
}

// HasRole checks if user has a specific role
func (u *UserContext) HasRole(role Role) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole checks if user has any of the specified roles
func (u *UserContext) HasAnyRole(roles ...Role) bool {
	for _, role := range roles {
		if u.HasRole(role) {
			return true
		}
	}
	return false
}

// CanWrite reports whether the user may mutate entities
func (u *UserContext) CanWrite() bool {
	return u.HasAnyRole(RoleOwner, RoleStaff, RoleService)
}

// RolesAsStrings returns roles as a slice of strings
func (u *UserContext) RolesAsStrings() []string {
	result := make([]string, len(u.Roles))
	for i, role := range u.Roles {
		result[i] = string(role)
	}
	return result
}

// ParseRoles keeps the known roles of a claim value and drops the rest
func ParseRoles(values []string) []Role {
	var roles []Role
	for _, v := range values {
		switch r := Role(v); r {
		case RoleOwner, RoleStaff, RoleViewer, RoleService:
			roles = append(roles, r)
		}
	}
	return roles
}
