// Package models defines the domain entities persisted by the
// application along with the request payloads accepted by the API.
package models

import (
	"time"
)

// User represents a registered account. Reset credential fields are
// populated only while a password reset is pending; they are always
// set and cleared together.
type User struct {
	ID           int64      `json:"id" db:"user_id"`
	Name         string     `json:"name" db:"name" validate:"required,min=1,max=100"`
	Email        string     `json:"email" db:"email" validate:"required,email"`
	PasswordHash string     `json:"-" db:"password_hash"`
	ResetToken   *string    `json:"-" db:"reset_token"`
	ResetExpiry  *time.Time `json:"-" db:"reset_expiry"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// NewUser creates a new User instance with the given name and email.
// The password hash is populated during registration.
func NewUser(name, email string) *User {
	now := time.Now()
	return &User{
		Name:      name,
		Email:     email,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TableName returns the database table name for the User model.
func (u *User) TableName() string {
	return "users"
}

// Sanitize removes sensitive information from the User object when
// sending it to clients.
func (u *User) Sanitize() *User {
	sanitized := *u
	sanitized.PasswordHash = ""
	sanitized.ResetToken = nil
	sanitized.ResetExpiry = nil
	return &sanitized
}

// HasPendingReset reports whether a reset credential is currently
// stored on the account.
func (u *User) HasPendingReset() bool {
	return u.ResetToken != nil && u.ResetExpiry != nil
}

// UserRegistration represents the data required to create an account.
type UserRegistration struct {
	Name     string `json:"name" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// UserCredentials represents the login payload.
type UserCredentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// ForgotPasswordRequest represents the payload that starts the
// password reset flow.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest represents the payload that completes the
// password reset flow. The expiry and reset ID are the values embedded
// in the emailed link.
type ResetPasswordRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=6"`
	ResetID     string `json:"resetId" validate:"required"`
	ExpiryEpoch int64  `json:"expiry" validate:"required"`
}

// AuthResponse is returned from register and login.
type AuthResponse struct {
	Token string `json:"token"`
}
