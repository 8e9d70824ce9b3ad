// Package auth issues and validates bearer tokens and hashes passwords.
//
// Tokens are HMAC-SHA256 signed JWTs whose subject is the user's email;
// the numeric user id and admin flag travel as private claims.
package auth
