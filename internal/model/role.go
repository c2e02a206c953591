package model

import "time"

// Role is a named bundle of admin permissions. Candidates never have
// roles; they authenticate with opaque session tokens instead.
type Role struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// RoleWithPermissions extends Role with its resolved permission codes.
type RoleWithPermissions struct {
	*Role
	Permissions []string `json:"permissions"`
}
