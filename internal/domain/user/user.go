package user

import (
	"strings"
	"time"
)

// Role names known to the permission policy.
const (
	RoleAnonymous = "anonymous"
	RoleReadonly  = "readonly"
	RoleRegular   = "regular"
	RoleAdmin     = "admin"
)

// User is one record in the user table, keyed by email.
type User struct {
	Email         string    `json:"email" dynamodbav:"email"`
	FullName      string    `json:"full_name" dynamodbav:"full_name"`
	RoleID        string    `json:"role_id" dynamodbav:"role_id"`
	PasswordHash  string    `json:"-" dynamodbav:"password_hash"`
	Active        bool      `json:"active" dynamodbav:"active"`
	ActivationKey string    `json:"-" dynamodbav:"activation_key,omitempty"`
	CreatedAt     time.Time `json:"created_at" dynamodbav:"created_at,unixtime"`
	UpdatedAt     time.Time `json:"updated_at" dynamodbav:"updated_at,unixtime"`
}

// ValidRole reports whether the role name is one a user record may carry.
func ValidRole(role string) bool {
	switch role {
	case RoleReadonly, RoleRegular, RoleAdmin:
		return true
	}
	return false
}

// NormalizeEmail lowercases and trims an email for use as a table key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Sanitized returns the fields of the user that are safe to put in a
// response payload. Credential material never leaves the record this way.
func (u *User) Sanitized() map[string]any {
	return map[string]any{
		"email":     u.Email,
		"full_name": u.FullName,
		"role_id":   u.RoleID,
		"active":    u.Active,
	}
}
