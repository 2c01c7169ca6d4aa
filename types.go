package credentials

import (
	"context"
	"fmt"
)

type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
}

// Config holds credential service options
type Config interface {
	GetSigningKey() string
	GetTokenTTL() int
	GetResetTokenTTL() int
	GetHashCost() int
	GetIssuer() string
	GetCookieDays() int
	GetScheme() string
	GetHost() string
	IsProduction() bool
	StrictEmail() bool
}

// UserStore is the persistence collaborator. Implementations must provide
// per-record atomicity on Update; the service performs no cross-record
// transactions.
type UserStore interface {
	FindByID(ctx context.Context, id string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByConfirmTokenHash(ctx context.Context, hash string) (*User, error)
	FindByResetTokenHash(ctx context.Context, hash string) (*User, error)
	Exists(ctx context.Context, email string) (bool, error)
	Create(ctx context.Context, user *User) (*User, error)
	Update(ctx context.Context, user *User) (*User, error)
}

// Email is an outbound message handed to the Mailer
type Email struct {
	To      string
	Subject string
	Body    string
}

// Mailer sends account emails. Send failures are logged and swallowed unless
// the service runs with strict email enabled.
type Mailer interface {
	Send(ctx context.Context, msg Email) error
}

// TokenIssuer signs and verifies bearer session tokens
type TokenIssuer interface {
	Issue(userID string, role UserRole) (string, error)
	Verify(token string) (string, error)
}

type defLogger struct{}

func (d defLogger) Error(format string, args ...any) {
	fmt.Printf("[ERR] CREDENTIALS "+newline(format), args...)
}

func (d defLogger) Warn(format string, args ...any) {
	fmt.Printf("[WRN] CREDENTIALS "+newline(format), args...)
}

func (d defLogger) Info(format string, args ...any) {
	fmt.Printf("[INF] CREDENTIALS "+newline(format), args...)
}

func (d defLogger) Debug(format string, args ...any) {
	fmt.Printf("[DBG] CREDENTIALS "+newline(format), args...)
}

func newline(s string) string {
	if len(s) > 0 && s[len(s)-1] != '\n' {
		s += "\n"
	}
	return s
}
