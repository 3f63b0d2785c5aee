// Package profile stores employee profiles and the department and
// designation reference sets they point at.
//
// A profile belongs to exactly one account and is only ever addressed by
// that account's id, which callers take from a verified session token.
// Deleting the account removes the profile (ON DELETE CASCADE).
package profile
