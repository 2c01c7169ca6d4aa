package credentials

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	confirmTokenBytes     = 20
	confirmExtensionBytes = 100
	confirmTokenSeparator = "."
)

// ConfirmToken is a freshly generated email-confirmation token. ClientToken
// goes out in the email; only Hash is persisted.
type ConfirmToken struct {
	ClientToken string
	Hash        string
}

// GenerateConfirmToken builds a confirmation token. The value shown to the
// client is "primary.extension" where only the primary segment is the
// secret; the extension pads the visible entropy and is never verified.
func GenerateConfirmToken() (*ConfirmToken, error) {
	primary, err := RandomHex(confirmTokenBytes)
	if err != nil {
		return nil, err
	}

	extension, err := RandomHex(confirmExtensionBytes)
	if err != nil {
		return nil, err
	}

	return &ConfirmToken{
		ClientToken: primary + confirmTokenSeparator + extension,
		Hash:        hashToken(primary),
	}, nil
}

// VerifyConfirmToken checks a supplied client token against the stored
// hash. An absent stored hash means the account was already confirmed or
// never issued a token; both fail the same way.
func VerifyConfirmToken(suppliedToken, storedHash string) error {
	if suppliedToken == "" || storedHash == "" {
		return ErrInvalidToken
	}

	primary, _, _ := strings.Cut(suppliedToken, confirmTokenSeparator)
	if primary == "" {
		return ErrInvalidToken
	}

	if !constantTimeEqual(hashToken(primary), storedHash) {
		return ErrInvalidToken
	}

	return nil
}

// HashConfirmToken exposes the stored-hash derivation for store lookups
func HashConfirmToken(suppliedToken string) (string, error) {
	primary, _, _ := strings.Cut(suppliedToken, confirmTokenSeparator)
	if primary == "" {
		return "", goerrors.New("confirmation token is empty", goerrors.CategoryBadInput)
	}
	return hashToken(primary), nil
}

func hashToken(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}

func constantTimeEqual(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
