package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/phrazzld/lingodrift-api/internal/api/shared"
	"github.com/phrazzld/lingodrift-api/internal/platform/logger"
	"github.com/phrazzld/lingodrift-api/internal/service"
	"github.com/phrazzld/lingodrift-api/internal/service/auth"
)

// unauthorizedMessage is the single message for every authentication
// failure, so clients cannot tell which check failed.
const unauthorizedMessage = "Could not validate credentials"

// AuthMiddleware authenticates bearer tokens.
type AuthMiddleware struct {
	accounts service.AccountService
}

// NewAuthMiddleware creates a new AuthMiddleware with the given dependencies.
func NewAuthMiddleware(accounts service.AccountService) *AuthMiddleware {
	return &AuthMiddleware{accounts: accounts}
}

// Authenticate resolves the bearer token in the Authorization header to an
// active user and stores it in the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			w.Header().Set("WWW-Authenticate", "Bearer")
			shared.RespondWithError(w, r, http.StatusUnauthorized, unauthorizedMessage)
			return
		}

		user, err := m.accounts.ResolveToken(r.Context(), token)
		if err != nil {
			if isAuthFailure(err) {
				w.Header().Set("WWW-Authenticate", "Bearer")
				shared.RespondWithErrorAndLog(w, r, http.StatusUnauthorized, unauthorizedMessage, err,
					shared.WithElevatedLogLevel())
				return
			}
			shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Authentication error", err)
			return
		}

		ctx := shared.WithUser(r.Context(), user)
		ctx = logger.WithLogger(ctx, logger.FromContext(ctx).With(slog.Int64("user_id", user.ID)))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin rejects authenticated users without the admin flag. It must
// run after Authenticate.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := shared.UserFromContext(r.Context())
		if !ok {
			shared.RespondWithError(w, r, http.StatusUnauthorized, unauthorizedMessage)
			return
		}
		if !user.IsAdmin {
			shared.RespondWithErrorAndLog(w, r, http.StatusForbidden, "Admin privileges required",
				service.ErrAdminRequired, shared.WithElevatedLogLevel())
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func isAuthFailure(err error) bool {
	return errors.Is(err, auth.ErrInvalidToken) ||
		errors.Is(err, auth.ErrExpiredToken) ||
		errors.Is(err, auth.ErrTokenNotYetValid) ||
		errors.Is(err, auth.ErrMissingToken) ||
		errors.Is(err, service.ErrInvalidCredentials)
}
