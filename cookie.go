package credentials

import (
	"net/http"
	"time"
)

// SessionCookieName is the cookie used by the cookie transport variant
const SessionCookieName = "token"

// SessionCookie wraps a bearer token for cookie transport. The cookie
// lifetime (days) is independent of the token's own embedded expiry; the
// two may diverge and that is accepted behavior.
func SessionCookie(token string, cfg Config, now time.Time) *http.Cookie {
	days := cfg.GetCookieDays()
	if days <= 0 {
		days = 1
	}

	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Expires:  now.Add(time.Duration(days) * 24 * time.Hour),
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		Path:     "/",
	}
}

// ExpiredSessionCookie returns a cookie that clears the session on logout
func ExpiredSessionCookie(cfg Config, now time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     SessionCookieName,
		Value:    "none",
		Expires:  now.Add(10 * time.Second),
		HttpOnly: true,
		Secure:   cfg.IsProduction(),
		Path:     "/",
	}
}
