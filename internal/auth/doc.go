// Package auth provides account registration, login and session tokens
// for staffgate.
//
// It implements:
//   - Argon2id password hashing (OWASP recommendation), with bcrypt as an
//     alternative; either kind of stored hash verifies
//   - HS256 session tokens carrying the account id and email, verified by
//     signature only (no database hit, no server-side revocation)
//   - A SQLite account store whose unique email constraint is the single
//     arbiter of duplicate registrations
//
// Login returns ErrInvalidCredentials for both an unknown email and a wrong
// password, and spends the same hashing work on each. Token verification
// failures all wrap ErrTokenInvalid; the reason (expired, malformed,
// signature, claims) is kept in the chain for logging only.
package auth
