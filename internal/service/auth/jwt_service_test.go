package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/phrazzld/lingodrift-api/internal/config"
	"github.com/phrazzld/lingodrift-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-long-enough-for-testing"

func testConfig() config.AuthConfig {
	return config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 60}
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func testUser() *domain.User {
	return &domain.User{ID: 42, Email: "anna@example.de", IsAdmin: true}
}

func TestNewJWTService(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(config.AuthConfig{JWTSecret: "short", TokenLifetimeMinutes: 60})
	assert.Error(t, err)

	_, err = NewJWTService(config.AuthConfig{JWTSecret: testSecret})
	assert.Error(t, err)

	svc, err := NewJWTService(testConfig())
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestTokenRoundTrip(t *testing.T) {
	t.Parallel()

	issued := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	svc, err := newJWTService(testConfig(), fixedClock(issued))
	require.NoError(t, err)

	token, err := svc.GenerateToken(context.Background(), testUser())
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, "anna@example.de", claims.Subject)
	assert.Equal(t, int64(42), claims.UserID)
	assert.True(t, claims.IsAdmin)
	assert.Equal(t, issued.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, issued.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	issued := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	issuer, err := newJWTService(testConfig(), fixedClock(issued))
	require.NoError(t, err)
	token, err := issuer.GenerateToken(context.Background(), testUser())
	require.NoError(t, err)

	otherCfg := testConfig()
	otherCfg.JWTSecret = "another-secret-that-is-long-enough-too"
	otherKey, err := newJWTService(otherCfg, fixedClock(issued))
	require.NoError(t, err)

	noneToken, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "anna@example.de",
		ExpiresAt: jwt.NewNumericDate(issued.Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name    string
		svc     *hmacJWTService
		at      time.Time
		token   string
		wantErr error
	}{
		{"valid within lifetime", issuer, issued.Add(30 * time.Minute), token, nil},
		{"valid inside clock skew", issuer, issued.Add(61 * time.Minute), token, nil},
		{"expired", issuer, issued.Add(2 * time.Hour), token, ErrExpiredToken},
		{"issued in the future", issuer, issued.Add(-10 * time.Minute), token, ErrTokenNotYetValid},
		{"wrong key", otherKey, issued, token, ErrInvalidToken},
		{"malformed", issuer, issued, "not.a.jwt", ErrInvalidToken},
		{"unsigned", issuer, issued, noneToken, ErrInvalidToken},
		{"empty", issuer, issued, "", ErrMissingToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			svc := *tt.svc
			svc.timeFunc = fixedClock(tt.at)

			claims, err := svc.ValidateToken(context.Background(), tt.token)
			if tt.wantErr == nil {
				require.NoError(t, err)
				assert.Equal(t, "anna@example.de", claims.Subject)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, claims)
		})
	}
}
