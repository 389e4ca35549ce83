// Package models defines the data structures persisted by the record store
// and provides the core types used throughout the application.
package models

import (
	"time"
)

// Role represents a user's permission level in the system.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// User represents a registered account. PasswordHash is stored in the
// record store but must never leave the process — every read path returns
// the result of Sanitized instead.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	ProfileImage string    `json:"profileImage,omitempty"`
	Role         Role      `json:"role"`
	Verified     bool      `json:"isVerified"`
	CreatedAt    time.Time `json:"createdAt"`
	PasswordHash string    `json:"passwordHash,omitempty"`
}

// IsAdmin returns true if the user has the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// FullName returns the user's display name.
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

// Sanitized returns a copy of the user with the password hash stripped.
func (u *User) Sanitized() User {
	c := *u
	c.PasswordHash = ""
	return c
}
