package domain

import (
	"errors"
	"net/mail"
	"strings"
	"time"
)

// User validation errors
var (
	ErrEmptyEmail          = errors.New("email cannot be empty")
	ErrInvalidEmail        = errors.New("invalid email format")
	ErrPasswordTooShort    = errors.New("password must be at least 8 characters long")
	ErrPasswordTooLong     = errors.New("password must be at most 72 characters long")
	ErrEmptyHashedPassword = errors.New("hashed password cannot be empty")
	ErrUnexpectedPassword  = errors.New("externally authenticated users cannot have a password")
	ErrInvalidAuthProvider = errors.New("invalid auth provider")
)

// Password length limits. 72 bytes is the most bcrypt will consider.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

// User represents a registered account. Users who sign in through an
// external provider have no password hash.
type User struct {
	ID             int64        `json:"id"`
	Email          string       `json:"email"`
	HashedPassword *string      `json:"-"`
	AuthProvider   AuthProvider `json:"auth_provider"`
	AuthID         *string      `json:"-"`
	IsActive       bool         `json:"is_active"`
	IsAdmin        bool         `json:"is_admin"`
	CreatedAt      time.Time    `json:"created_at"`
}

// NewEmailUser creates an active email/password user from an already
// hashed password. The ID is assigned by the store.
func NewEmailUser(email, hashedPassword string) (*User, error) {
	user := &User{
		Email:          NormalizeEmail(email),
		HashedPassword: &hashedPassword,
		AuthProvider:   ProviderEmail,
		IsActive:       true,
		CreatedAt:      time.Now().UTC(),
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks the user's invariants: a well formed email, a known
// provider, and a password hash exactly when the provider is email.
func (u *User) Validate() error {
	if err := ValidateEmail(u.Email); err != nil {
		return err
	}

	if !u.AuthProvider.Valid() {
		return NewValidationError("auth_provider", "is not supported", ErrInvalidAuthProvider)
	}

	hasHash := u.HashedPassword != nil && *u.HashedPassword != ""
	switch {
	case u.AuthProvider == ProviderEmail && !hasHash:
		return NewValidationError("password", "is required", ErrEmptyHashedPassword)
	case u.AuthProvider != ProviderEmail && hasHash:
		return NewValidationError("password", "must be empty", ErrUnexpectedPassword)
	}

	return nil
}

// CanUsePassword reports whether the user signs in with email and password.
func (u *User) CanUsePassword() bool {
	return u.AuthProvider == ProviderEmail && u.HashedPassword != nil && *u.HashedPassword != ""
}

// NormalizeEmail lower-cases and trims an email so uniqueness is
// case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks that email is a bare address ("a@b.c").
func ValidateEmail(email string) error {
	if email == "" {
		return NewValidationError("email", "cannot be empty", ErrEmptyEmail)
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@"):], ".") {
		return NewValidationError("email", "has invalid format", ErrInvalidEmail)
	}
	return nil
}

// ValidatePassword checks a plaintext password against the length limits.
func ValidatePassword(password string) error {
	switch {
	case len(password) < MinPasswordLength:
		return NewValidationError("password", "is too short", ErrPasswordTooShort)
	case len(password) > MaxPasswordLength:
		return NewValidationError("password", "is too long", ErrPasswordTooLong)
	}
	return nil
}
