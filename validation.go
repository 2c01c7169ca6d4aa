package credentials

import (
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

// MinPasswordLength mirrors the record-validation rule owned by the schema
// layer; it is re-checked here because new passwords also arrive through
// reset and change flows that bypass registration.
const MinPasswordLength = 6

// RegisterPayload carries the register operation input
type RegisterPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Validate checks the payload before any hashing or persistence happens
func (p RegisterPayload) Validate() error {
	err := validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required),
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, validation.Required, validation.Length(MinPasswordLength, 0)),
		validation.Field(&p.Role, validation.Required, validation.In(toAnySlice(SelfRegisterRoles())...)),
	)
	return wrapValidation(err)
}

// SigninPayload carries the signin operation input
type SigninPayload struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (p SigninPayload) Validate() error {
	err := validation.ValidateStruct(&p,
		validation.Field(&p.Email, validation.Required, is.Email),
		validation.Field(&p.Password, validation.Required),
	)
	return wrapValidation(err)
}

// ChangePasswordPayload carries the change-password operation input
type ChangePasswordPayload struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

func (p ChangePasswordPayload) Validate() error {
	err := validation.ValidateStruct(&p,
		validation.Field(&p.OldPassword, validation.Required),
		validation.Field(&p.NewPassword, validation.Required, validation.Length(MinPasswordLength, 0)),
	)
	return wrapValidation(err)
}

// ChangeDetailsPayload carries the change-details operation input. Email is
// optional; when present and different from the stored one the confirmation
// flow restarts.
type ChangeDetailsPayload struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (p ChangeDetailsPayload) Validate() error {
	err := validation.ValidateStruct(&p,
		validation.Field(&p.Name, validation.Required),
		validation.Field(&p.Email, is.Email),
	)
	return wrapValidation(err)
}

func validatePassword(password string) error {
	err := validation.Validate(password,
		validation.Required,
		validation.Length(MinPasswordLength, 0),
	)
	return wrapValidation(err)
}

func wrapValidation(err error) error {
	if err == nil {
		return nil
	}
	clone := ErrValidationFailed.Clone()
	if clone == nil {
		return ErrValidationFailed
	}
	return clone.WithMetadata(map[string]any{
		"fields": err.Error(),
	})
}

func toAnySlice(roles []UserRole) []any {
	out := make([]any, len(roles))
	for i, r := range roles {
		out[i] = r
	}
	return out
}
