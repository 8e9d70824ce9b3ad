package auth

import (
	"context"
	"time"

	"github.com/phrazzld/lingodrift-api/internal/domain"
)

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed access token for user.
	GenerateToken(ctx context.Context, user *domain.User) (string, error)

	// ValidateToken verifies signature and expiry and returns the claims.
	// Returns ErrExpiredToken, ErrTokenNotYetValid or ErrInvalidToken on failure.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the validated content of an access token.
type Claims struct {
	// Subject is the user's email.
	Subject   string
	UserID    int64
	IsAdmin   bool
	IssuedAt  time.Time
	ExpiresAt time.Time
	ID        string
}
