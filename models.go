package credentials

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// UserRole is the user's role
type UserRole = string

const (
	// RoleUser is the default role (i.e. browse, review)
	RoleUser UserRole = "user"
	// RolePublisher can manage its own published content
	RolePublisher UserRole = "publisher"
	// RoleAdmin can manage users and any content
	RoleAdmin UserRole = "admin"
)

// User is the user model
type User struct {
	bun.BaseModel      `bun:"table:users,alias:usr"`
	ID                 uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Name               string     `bun:"name,notnull" json:"name,omitempty"`
	Email              string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Role               UserRole   `bun:"user_role,notnull" json:"user_role,omitempty"`
	PasswordHash       string     `bun:"password_hash,notnull" json:"-"`
	IsEmailConfirmed   bool       `bun:"is_email_confirmed" json:"is_email_confirmed"`
	ConfirmTokenHash   string     `bun:"confirm_token_hash,nullzero" json:"-"`
	ResetTokenHash     string     `bun:"reset_token_hash,nullzero" json:"-"`
	ResetTokenExpireAt *time.Time `bun:"reset_token_expire_at,nullzero" json:"-"`
	CreatedAt          *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt          *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// AccountState is the confirmation half of the user lifecycle
type AccountState = string

const (
	// StateUnconfirmed means the email is pending confirmation
	StateUnconfirmed AccountState = "unconfirmed"
	// StateConfirmed means the email was confirmed
	StateConfirmed AccountState = "confirmed"
)

// ResetState is the password-reset half of the user lifecycle
type ResetState = string

const (
	// ResetNonePending means no reset token is outstanding
	ResetNonePending ResetState = "no-reset-pending"
	// ResetPending means a reset token is outstanding
	ResetPending ResetState = "reset-pending"
)

// AccountState reports the confirmation state
func (u *User) AccountState() AccountState {
	if u.IsEmailConfirmed {
		return StateConfirmed
	}
	return StateUnconfirmed
}

// ResetState reports whether a reset token is outstanding
func (u *User) ResetState() ResetState {
	if u.ResetTokenHash != "" {
		return ResetPending
	}
	return ResetNonePending
}

// SetConfirmToken marks the account unconfirmed with a fresh token hash.
// Any previous confirmation token stops verifying.
func (u *User) SetConfirmToken(hash string) {
	u.ConfirmTokenHash = hash
	u.IsEmailConfirmed = false
}

// MarkConfirmed transitions to confirmed and consumes the token
func (u *User) MarkConfirmed() {
	u.IsEmailConfirmed = true
	u.ConfirmTokenHash = ""
}

// SetResetToken replaces any outstanding reset token wholesale. Hash and
// expiry travel together; never one without the other.
func (u *User) SetResetToken(hash string, expireAt time.Time) {
	u.ResetTokenHash = hash
	u.ResetTokenExpireAt = &expireAt
}

// ClearResetToken removes the outstanding reset pair
func (u *User) ClearResetToken() {
	u.ResetTokenHash = ""
	u.ResetTokenExpireAt = nil
}

// NormalizeEmail lower-cases and trims an email for lookups and writes
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
