package credentials

import (
	"time"
)

const resetTokenBytes = 20

// DefaultResetTokenTTL is the fixed validity window for password-reset
// tokens.
const DefaultResetTokenTTL = 600 * time.Second

// ResetToken is a freshly generated password-reset token. ClientToken goes
// out in the email; Hash and ExpireAt are persisted as a pair.
type ResetToken struct {
	ClientToken string
	Hash        string
	ExpireAt    time.Time
}

// GenerateResetToken builds a reset token valid for ttl starting at now.
// A non-positive ttl uses the default 10 minute window.
func GenerateResetToken(now time.Time, ttl time.Duration) (*ResetToken, error) {
	if ttl <= 0 {
		ttl = DefaultResetTokenTTL
	}

	secret, err := RandomHex(resetTokenBytes)
	if err != nil {
		return nil, err
	}

	return &ResetToken{
		ClientToken: secret,
		Hash:        hashToken(secret),
		ExpireAt:    now.Add(ttl),
	}, nil
}

// VerifyResetToken checks the supplied token against the stored hash and
// the expiry window. The two checks are independent: a matching hash past
// its window fails ErrTokenExpired, a mismatch fails ErrInvalidToken even
// inside the window.
func VerifyResetToken(suppliedToken, storedHash string, expireAt *time.Time, now time.Time) error {
	if suppliedToken == "" || storedHash == "" || expireAt == nil {
		return ErrInvalidToken
	}

	if !constantTimeEqual(hashToken(suppliedToken), storedHash) {
		return ErrInvalidToken
	}

	if now.After(*expireAt) {
		return ErrTokenExpired
	}

	return nil
}

// HashResetToken exposes the stored-hash derivation for store lookups
func HashResetToken(suppliedToken string) string {
	return hashToken(suppliedToken)
}
