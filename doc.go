// Package credentials implements the credential and token lifecycle for a
// user account system: password hashing, bearer (JWT) session tokens,
// email-confirmation tokens, time-bounded password-reset tokens, and
// role-based authorization checks.
//
// Account lifecycle:
//   - Users are created unconfirmed with an outstanding confirmation token.
//     Confirming the email clears the token (one shot) and the account can
//     sign in from then on.
//   - Password resets hold a hashed token plus an expiry window (10 minutes).
//     A new forgot-password request replaces any outstanding token; the last
//     writer wins.
//
// The service persists through the UserStore interface and notifies through
// the Mailer interface, so both can be swapped for fakes in tests. A bun
// backed UserStore is provided. Nothing in this package parses HTTP
// requests; the request layer calls the Service operations with already
// validated primitives and decides how to transport the returned bearer
// token (Authorization header or the cookie helpers).
package credentials
