// Copyright (c) 2026 WeVote. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # User Roles

// UserRole represents the authorization level stored on an account.
type UserRole string

const (
	// May moderate polls, users, suggestions and comments
	RoleAdmin UserRole = "admin"

	// Default role for registered users
	RoleMember UserRole = "member"
)

// ParseRole maps a stored value onto a known role. Unknown values are members.
func ParseRole(value string) UserRole {
	if UserRole(value) == RoleAdmin {
		return RoleAdmin
	}
	return RoleMember
}

// IsAdmin reports whether the role grants administration.
func (r UserRole) IsAdmin() bool {
	return r == RoleAdmin
}
