package credentials

import (
	"context"
	"fmt"
	"time"

	goerrors "github.com/goliatone/go-errors"
)

// AuthResult is returned by every operation that authenticates the caller
// going forward
type AuthResult struct {
	Token string
	User  *User
}

// ConfirmationResult is returned by operations that leave a confirmation
// outstanding. ConfirmToken and ConfirmURL are populated outside production
// so tests and dev clients can complete the flow without an inbox.
type ConfirmationResult struct {
	User         *User
	Message      string
	ConfirmToken string
	ConfirmURL   string
}

// ResetRequestResult is returned by ForgotPassword
type ResetRequestResult struct {
	Message    string
	ResetToken string
	ResetURL   string
}

// DetailsResult is returned by ChangeDetails. EmailChanged signals that the
// account flipped back to unconfirmed and a new confirmation was sent.
type DetailsResult struct {
	User         *User
	EmailChanged bool
	Message      string
	ConfirmToken string
	ConfirmURL   string
}

// Service orchestrates hashing, token managers, the store, and the mailer
// into the user-facing credential operations. It owns the account state
// transitions; collaborators stay dumb.
type Service struct {
	store  UserStore
	mailer Mailer
	tokens TokenIssuer
	cfg    Config
	logger Logger
	now    func() time.Time
}

// NewService wires a Service with its collaborators. The bearer token
// issuer is derived from the config signing key unless overridden.
func NewService(store UserStore, mailer Mailer, cfg Config) *Service {
	return &Service{
		store:  store,
		mailer: mailer,
		cfg:    cfg,
		tokens: NewTokenService([]byte(cfg.GetSigningKey()), cfg.GetTokenTTL(), cfg.GetIssuer(), defLogger{}),
		logger: defLogger{},
		now:    time.Now,
	}
}

func (s *Service) WithLogger(logger Logger) *Service {
	if logger != nil {
		s.logger = logger
	}
	return s
}

// WithTokenIssuer overrides the bearer token issuer
func (s *Service) WithTokenIssuer(issuer TokenIssuer) *Service {
	if issuer != nil {
		s.tokens = issuer
	}
	return s
}

// WithClock injects a custom clock (useful for tests). The clock also
// drives the embedded token issuer when it supports one.
func (s *Service) WithClock(clock func() time.Time) *Service {
	if clock == nil {
		return s
	}
	s.now = clock
	if ts, ok := s.tokens.(*TokenService); ok {
		ts.WithClock(clock)
	}
	return s
}

// TokenIssuer exposes the issuer so the request layer can verify bearer
// tokens on protected routes.
func (s *Service) TokenIssuer() TokenIssuer {
	return s.tokens
}

// Register creates an unconfirmed account with a fresh confirmation token
// and requests the confirmation email.
func (s *Service) Register(ctx context.Context, payload RegisterPayload) (*ConfirmationResult, error) {
	if err := guardContext(ctx, "user registration"); err != nil {
		return nil, err
	}

	if payload.Role == "" {
		payload.Role = RoleUser
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	hash, err := HashPasswordCost(payload.Password, s.cfg.GetHashCost())
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	confirm, err := GenerateConfirmToken()
	if err != nil {
		return nil, err
	}

	user := &User{
		Name:         payload.Name,
		Email:        NormalizeEmail(payload.Email),
		Role:         payload.Role,
		PasswordHash: hash,
	}
	user.SetConfirmToken(confirm.Hash)

	created, err := s.store.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("registered user id=%s role=%s", created.ID, created.Role)

	return s.dispatchConfirmation(ctx, created, confirm)
}

// ConfirmEmail consumes a confirmation token, marks the account confirmed,
// and signs the caller in. Replaying a consumed token fails InvalidToken.
func (s *Service) ConfirmEmail(ctx context.Context, suppliedToken string) (*AuthResult, error) {
	if err := guardContext(ctx, "email confirmation"); err != nil {
		return nil, err
	}

	hash, err := HashConfirmToken(suppliedToken)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := s.store.FindByConfirmTokenHash(ctx, hash)
	if err != nil {
		if IsAccountNotFound(err) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if err := VerifyConfirmToken(suppliedToken, user.ConfirmTokenHash); err != nil {
		return nil, err
	}

	user.MarkConfirmed()
	if _, err := s.store.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("confirmed email for user id=%s", user.ID)

	return s.authResult(user)
}

// Signin authenticates an email/password pair and issues a bearer token
func (s *Service) Signin(ctx context.Context, payload SigninPayload) (*AuthResult, error) {
	if err := guardContext(ctx, "signin"); err != nil {
		return nil, err
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	user, err := s.store.FindByEmail(ctx, payload.Email)
	if err != nil {
		if IsAccountNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !user.IsEmailConfirmed {
		return nil, ErrAccountNotConfirmed
	}

	if err := ComparePasswordAndHash(payload.Password, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.authResult(user)
}

// ResendConfirm regenerates the confirmation token for an unconfirmed
// account; the new token invalidates any prior one. Confirmed accounts get
// a no-op success message.
func (s *Service) ResendConfirm(ctx context.Context, email string) (*ConfirmationResult, error) {
	if err := guardContext(ctx, "confirmation resend"); err != nil {
		return nil, err
	}

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	if user.IsEmailConfirmed {
		return &ConfirmationResult{
			User:    user,
			Message: "Email has been verified. You can now login",
		}, nil
	}

	confirm, err := GenerateConfirmToken()
	if err != nil {
		return nil, err
	}

	user.SetConfirmToken(confirm.Hash)
	if user, err = s.store.Update(ctx, user); err != nil {
		return nil, err
	}

	return s.dispatchConfirmation(ctx, user, confirm)
}

// ForgotPassword issues a time-bounded reset token, replacing any
// outstanding one wholesale, and requests the reset email.
func (s *Service) ForgotPassword(ctx context.Context, email string) (*ResetRequestResult, error) {
	if err := guardContext(ctx, "password reset request"); err != nil {
		return nil, err
	}

	user, err := s.store.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}

	reset, err := GenerateResetToken(s.now(), time.Duration(s.cfg.GetResetTokenTTL())*time.Second)
	if err != nil {
		return nil, err
	}

	user.SetResetToken(reset.Hash, reset.ExpireAt)
	if user, err = s.store.Update(ctx, user); err != nil {
		return nil, err
	}

	url := s.actionURL("resetpassword", reset.ClientToken)
	if err := s.deliver(ctx, Email{
		To:      user.Email,
		Subject: resetEmailSubject,
		Body:    resetEmailBody(url),
	}); err != nil {
		return nil, err
	}

	s.logger.Info("issued reset token for user id=%s", user.ID)

	result := &ResetRequestResult{
		Message: fmt.Sprintf("Reset password token has been sent to %s", user.Email),
	}
	if !s.cfg.IsProduction() {
		result.ResetToken = reset.ClientToken
		result.ResetURL = url
	}

	return result, nil
}

// ResetPassword consumes a reset token, replaces the password, clears the
// reset pair, and signs the caller in.
func (s *Service) ResetPassword(ctx context.Context, suppliedToken, newPassword string) (*AuthResult, error) {
	if err := guardContext(ctx, "password reset"); err != nil {
		return nil, err
	}
	if err := validatePassword(newPassword); err != nil {
		return nil, err
	}

	user, err := s.store.FindByResetTokenHash(ctx, HashResetToken(suppliedToken))
	if err != nil {
		if IsAccountNotFound(err) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if err := VerifyResetToken(suppliedToken, user.ResetTokenHash, user.ResetTokenExpireAt, s.now()); err != nil {
		return nil, err
	}

	hash, err := HashPasswordCost(newPassword, s.cfg.GetHashCost())
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	user.PasswordHash = hash
	user.ClearResetToken()
	if _, err := s.store.Update(ctx, user); err != nil {
		return nil, err
	}

	s.logger.Info("reset password for user id=%s", user.ID)

	return s.authResult(user)
}

// ChangePassword replaces the password of an authenticated user after
// verifying the old one, then issues a fresh bearer token. Previously
// issued tokens stay valid until their own expiry.
func (s *Service) ChangePassword(ctx context.Context, userID string, payload ChangePasswordPayload) (*AuthResult, error) {
	if err := guardContext(ctx, "password change"); err != nil {
		return nil, err
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if err := ComparePasswordAndHash(payload.OldPassword, user.PasswordHash); err != nil {
		return nil, ErrInvalidCredentials
	}

	hash, err := HashPasswordCost(payload.NewPassword, s.cfg.GetHashCost())
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "failed to hash password")
	}

	user.PasswordHash = hash
	if _, err := s.store.Update(ctx, user); err != nil {
		return nil, err
	}

	return s.authResult(user)
}

// ChangeDetails updates name and email. A changed email flips the account
// back to unconfirmed and restarts the confirmation flow instead of
// applying silently; a name-only change applies immediately.
func (s *Service) ChangeDetails(ctx context.Context, userID string, payload ChangeDetailsPayload) (*DetailsResult, error) {
	if err := guardContext(ctx, "details change"); err != nil {
		return nil, err
	}
	if err := payload.Validate(); err != nil {
		return nil, err
	}

	user, err := s.store.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	newEmail := NormalizeEmail(payload.Email)
	if newEmail == "" || newEmail == user.Email {
		user.Name = payload.Name
		if user, err = s.store.Update(ctx, user); err != nil {
			return nil, err
		}
		return &DetailsResult{User: user}, nil
	}

	if taken, err := s.store.Exists(ctx, newEmail); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrDuplicateEmail
	}

	confirm, err := GenerateConfirmToken()
	if err != nil {
		return nil, err
	}

	user.Name = payload.Name
	user.Email = newEmail
	user.SetConfirmToken(confirm.Hash)
	if user, err = s.store.Update(ctx, user); err != nil {
		return nil, err
	}

	conf, err := s.dispatchConfirmation(ctx, user, confirm)
	if err != nil {
		return nil, err
	}

	return &DetailsResult{
		User:         user,
		EmailChanged: true,
		Message:      conf.Message,
		ConfirmToken: conf.ConfirmToken,
		ConfirmURL:   conf.ConfirmURL,
	}, nil
}

// CurrentUser resolves a bearer token to the stored account. The re-fetch
// picks up confirmation or deletion since issuance.
func (s *Service) CurrentUser(ctx context.Context, bearerToken string) (*User, error) {
	userID, err := s.tokens.Verify(bearerToken)
	if err != nil {
		return nil, err
	}
	return s.store.FindByID(ctx, userID)
}

func (s *Service) authResult(user *User) (*AuthResult, error) {
	token, err := s.tokens.Issue(user.ID.String(), user.Role)
	if err != nil {
		return nil, err
	}
	return &AuthResult{Token: token, User: user}, nil
}

func (s *Service) dispatchConfirmation(ctx context.Context, user *User, confirm *ConfirmToken) (*ConfirmationResult, error) {
	url := s.actionURL("confirmemail", confirm.ClientToken)

	if err := s.deliver(ctx, Email{
		To:      user.Email,
		Subject: confirmEmailSubject,
		Body:    confirmEmailBody(url),
	}); err != nil {
		return nil, err
	}

	result := &ConfirmationResult{
		User:    user,
		Message: "Check your email account to complete your registration.",
	}
	if !s.cfg.IsProduction() {
		result.ConfirmToken = confirm.ClientToken
		result.ConfirmURL = url
	}

	return result, nil
}

// deliver sends an email honoring the strict policy: strict deployments
// propagate send failures, everything else logs and continues. Bodies and
// addresses are never logged.
func (s *Service) deliver(ctx context.Context, msg Email) error {
	if err := s.mailer.Send(ctx, msg); err != nil {
		if s.cfg.StrictEmail() {
			return goerrors.Wrap(err, goerrors.CategoryOperation, "failed to send account email")
		}
		s.logger.Warn("email send failed, continuing: %v", err)
	}
	return nil
}

func (s *Service) actionURL(action, token string) string {
	return fmt.Sprintf("%s://%s/api/v1/auth/%s/%s", s.cfg.GetScheme(), s.cfg.GetHost(), action, token)
}

func guardContext(ctx context.Context, op string) error {
	select {
	case <-ctx.Done():
		return goerrors.Wrap(ctx.Err(), goerrors.CategoryOperation, "context cancelled during "+op)
	default:
		return nil
	}
}
