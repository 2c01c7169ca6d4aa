package credentials

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// TokenService issues and verifies bearer session tokens. Verification is
// stateless; callers typically re-fetch the user afterwards to pick up
// account changes.
type TokenService struct {
	signingKey []byte
	ttl        time.Duration
	issuer     string
	logger     Logger
	now        func() time.Time
}

var _ TokenIssuer = (*TokenService)(nil)

// NewTokenService creates a new TokenService instance
func NewTokenService(signingKey []byte, ttlSeconds int, issuer string, logger Logger) *TokenService {
	if logger == nil {
		logger = defLogger{}
	}
	return &TokenService{
		signingKey: signingKey,
		ttl:        time.Duration(ttlSeconds) * time.Second,
		issuer:     issuer,
		logger:     logger,
		now:        time.Now,
	}
}

// WithClock injects a custom clock (useful for tests)
func (ts *TokenService) WithClock(clock func() time.Time) *TokenService {
	if clock != nil {
		ts.now = clock
	}
	return ts
}

// Issue creates a signed token asserting the user identity for the
// configured TTL
func (ts *TokenService) Issue(userID string, role UserRole) (string, error) {
	return ts.IssueWithTTL(userID, role, ts.ttl)
}

// IssueWithTTL creates a signed token with an explicit TTL override
func (ts *TokenService) IssueWithTTL(userID string, role UserRole, ttl time.Duration) (string, error) {
	if userID == "" {
		return "", goerrors.New("token subject must not be empty", goerrors.CategoryBadInput)
	}
	if ttl <= 0 {
		ttl = ts.ttl
	}

	now := ts.now()
	claims := &SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		UID:      userID,
		UserRole: role,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	signed, err := token.SignedString(ts.signingKey)
	if err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryInternal, "failed to sign bearer token")
	}

	return signed, nil
}

// Verify parses and validates a token string, returning the asserted user
// ID. Expired tokens fail with ErrTokenExpired, anything else that does not
// validate fails with ErrInvalidToken.
func (ts *TokenService) Verify(tokenString string) (string, error) {
	claims, err := ts.VerifyClaims(tokenString)
	if err != nil {
		return "", err
	}
	return claims.UserID(), nil
}

// VerifyClaims is Verify but returns the full claim set
func (ts *TokenService) VerifyClaims(tokenString string) (*SessionClaims, error) {
	parserOptions := []jwt.ParserOption{
		jwt.WithTimeFunc(ts.now),
	}
	if ts.issuer != "" {
		parserOptions = append(parserOptions, jwt.WithIssuer(ts.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			ts.logger.Error("TokenService verify encountered unexpected signing method: %v", t.Header["alg"])
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return ts.signingKey, nil
	}, parserOptions...)

	if err != nil {
		if goerrors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, goerrors.Wrap(err, ErrInvalidToken.Category, ErrInvalidToken.Message).
			WithTextCode(ErrInvalidToken.TextCode)
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid || claims.UserID() == "" {
		ts.logger.Error("TokenService verify could not decode or validate claims")
		return nil, ErrInvalidToken
	}

	return claims, nil
}
