package credentials

import (
	"errors"

	goerrors "github.com/goliatone/go-errors"
)

// Text codes attached to rich errors so the request layer can map them
// without string matching.
const (
	TextCodeInvalidCredentials  = "INVALID_CREDENTIALS"
	TextCodeAccountNotConfirmed = "ACCOUNT_NOT_CONFIRMED"
	TextCodeAccountNotFound     = "ACCOUNT_NOT_FOUND"
	TextCodeDuplicateEmail      = "DUPLICATE_EMAIL"
	TextCodeInvalidToken        = "INVALID_TOKEN"
	TextCodeTokenExpired        = "TOKEN_EXPIRED"
	TextCodeForbidden           = "FORBIDDEN"
	TextCodeValidationFailed    = "VALIDATION_FAILED"
)

// ErrInvalidCredentials is returned when the email/password pair does not
// match a stored account. It deliberately does not reveal which half failed.
var ErrInvalidCredentials = goerrors.New("invalid credentials", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidCredentials).
	WithCode(goerrors.CodeUnauthorized)

// ErrAccountNotConfirmed is returned on signin before the email was confirmed.
var ErrAccountNotConfirmed = goerrors.New("account email has not been confirmed", goerrors.CategoryAuth).
	WithTextCode(TextCodeAccountNotConfirmed).
	WithCode(goerrors.CodeUnauthorized)

// ErrAccountNotFound is returned when an operation targets an unknown account.
var ErrAccountNotFound = goerrors.New("account not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeAccountNotFound).
	WithCode(goerrors.CodeNotFound)

// ErrDuplicateEmail is returned when registration hits the store's unique
// email constraint.
var ErrDuplicateEmail = goerrors.New("email is already registered", goerrors.CategoryConflict).
	WithTextCode(TextCodeDuplicateEmail).
	WithCode(goerrors.CodeConflict)

// ErrInvalidToken covers malformed, tampered, unknown, or already consumed
// confirmation/reset/bearer tokens.
var ErrInvalidToken = goerrors.New("invalid token", goerrors.CategoryAuth).
	WithTextCode(TextCodeInvalidToken).
	WithCode(goerrors.CodeUnauthorized)

// ErrTokenExpired is returned for a token whose validity window has passed,
// even when the token itself is otherwise well formed and matching.
var ErrTokenExpired = goerrors.New("token has expired", goerrors.CategoryAuth).
	WithTextCode(TextCodeTokenExpired).
	WithCode(goerrors.CodeUnauthorized)

// ErrForbidden is returned when a role is not in the allowed set for an
// operation.
var ErrForbidden = goerrors.New("role is not authorized for this operation", goerrors.CategoryAuth).
	WithTextCode(TextCodeForbidden).
	WithCode(goerrors.CodeUnauthorized)

// ErrValidationFailed wraps payload validation failures.
var ErrValidationFailed = goerrors.New("validation failed", goerrors.CategoryValidation).
	WithTextCode(TextCodeValidationFailed).
	WithCode(goerrors.CodeBadRequest)

// ErrNoEmptyString is the error we return for empty password input
var ErrNoEmptyString = errors.New("password can not be an empty string")

// ErrMismatchedHashAndPassword is the bcrypt mismatch sentinel
var ErrMismatchedHashAndPassword = errors.New("mismatched hash and password")

func hasTextCode(err error, code string) bool {
	if err == nil {
		return false
	}
	var richErr *goerrors.Error
	if goerrors.As(err, &richErr) {
		return richErr.TextCode == code
	}
	return false
}

// IsInvalidCredentials will check for the invalid credentials kind
func IsInvalidCredentials(err error) bool {
	return hasTextCode(err, TextCodeInvalidCredentials)
}

// IsAccountNotConfirmed will check for the unconfirmed account kind
func IsAccountNotConfirmed(err error) bool {
	return hasTextCode(err, TextCodeAccountNotConfirmed)
}

// IsAccountNotFound will check for the missing account kind
func IsAccountNotFound(err error) bool {
	return hasTextCode(err, TextCodeAccountNotFound)
}

// IsDuplicateEmail will check for the duplicate email kind
func IsDuplicateEmail(err error) bool {
	return hasTextCode(err, TextCodeDuplicateEmail)
}

// IsInvalidToken will check for the invalid token kind
func IsInvalidToken(err error) bool {
	return hasTextCode(err, TextCodeInvalidToken)
}

// IsTokenExpired will check for expired tokens
func IsTokenExpired(err error) bool {
	return hasTextCode(err, TextCodeTokenExpired)
}

// IsForbidden will check for the forbidden kind
func IsForbidden(err error) bool {
	return hasTextCode(err, TextCodeForbidden)
}

// IsValidationFailed will check for payload validation failures
func IsValidationFailed(err error) bool {
	return hasTextCode(err, TextCodeValidationFailed)
}
