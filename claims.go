package credentials

import (
	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims is the JWT payload carried by bearer tokens. The signature
// covers subject and expiry so tampering with either is detectable.
type SessionClaims struct {
	jwt.RegisteredClaims
	UID      string `json:"uid,omitempty"`
	UserRole string `json:"role,omitempty"`
}

// UserID returns the user ID the token asserts
func (c *SessionClaims) UserID() string {
	if c.UID != "" {
		return c.UID
	}
	return c.RegisteredClaims.Subject
}

// Role returns the role snapshot taken at issuance. Callers that need the
// current role should re-fetch the user.
func (c *SessionClaims) Role() UserRole {
	return c.UserRole
}
