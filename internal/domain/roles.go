// Package domain defines shared domain constants and types.
package domain

const (
	// RoleAdmin marks a user allowed to manage the doctor roster and promote
	// other users. Any other role value (including empty) carries no
	// privileges.
	RoleAdmin = "admin"
)
