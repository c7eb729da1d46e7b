// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is a back-office permission level. Both roles manage all content.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleEditor Role = "editor"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleEditor
}

// User is a back-office account. TOTPSecret is set when enrollment starts
// and TOTPEnabled once the first code has been verified.
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"display_name"`
	Role         Role      `json:"role"`
	TOTPSecret   *string   `json:"-"`
	TOTPEnabled  bool      `json:"totp_enabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Needs2FASetup reports whether the user still has to enroll an
// authenticator. Every account must before reaching the back office.
func (u *User) Needs2FASetup() bool {
	return !u.TOTPEnabled
}

// EnrollmentPending reports whether a secret was issued but no code has
// confirmed it yet.
func (u *User) EnrollmentPending() bool {
	return u.TOTPSecret != nil && !u.TOTPEnabled
}
