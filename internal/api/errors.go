package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/lingodrift-api/internal/api/shared"
	"github.com/phrazzld/lingodrift-api/internal/domain"
	"github.com/phrazzld/lingodrift-api/internal/generation"
	"github.com/phrazzld/lingodrift-api/internal/service"
	"github.com/phrazzld/lingodrift-api/internal/service/auth"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes. Anything
// unrecognized is a 500.
func MapErrorToStatusCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, service.ErrEmailExists):
		return http.StatusBadRequest

	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized

	case errors.Is(err, service.ErrAdminRequired),
		errors.Is(err, service.ErrAttemptNotOwned):
		return http.StatusForbidden

	case errors.Is(err, service.ErrExamNotFound),
		errors.Is(err, service.ErrAttemptNotFound):
		return http.StatusNotFound

	case errors.Is(err, service.ErrAttemptClosed):
		return http.StatusConflict

	case errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, generation.ErrContentBlocked),
		errors.Is(err, generation.ErrTransientFailure):
		return http.StatusBadGateway

	case errors.Is(err, generation.ErrDraftsDisabled):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a client-safe message for err. It never
// includes the error text itself, except for validation errors, whose
// field and reason are produced by this codebase.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		return ve.Error()
	case errors.Is(err, domain.ErrValidation):
		return "Validation error"

	case errors.Is(err, service.ErrEmailExists):
		return "Email already registered"

	case errors.Is(err, service.ErrInvalidCredentials):
		return "Incorrect email or password"
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrMissingToken):
		return "Could not validate credentials"

	case errors.Is(err, service.ErrAdminRequired):
		return "Admin privileges required"
	case errors.Is(err, service.ErrAttemptNotOwned):
		return "You do not own this attempt"

	case errors.Is(err, service.ErrExamNotFound):
		return "Exam not found"
	case errors.Is(err, service.ErrAttemptNotFound):
		return "Attempt not found"

	case errors.Is(err, service.ErrAttemptClosed):
		return "Attempt is already closed"

	case errors.Is(err, generation.ErrDraftsDisabled):
		return "Exam drafts are not available"
	case errors.Is(err, generation.ErrInvalidResponse),
		errors.Is(err, generation.ErrContentBlocked),
		errors.Is(err, generation.ErrTransientFailure):
		return "Draft generation failed"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError writes the error response for err. fallback replaces the
// generic message for 500s so clients learn which operation failed.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if fe, ok := shared.FirstFieldError(err); ok {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, fe.Field+" "+fe.Message, err,
			shared.WithField(fe.Field))
		return
	}

	status := MapErrorToStatusCode(err)
	message := GetSafeErrorMessage(err)
	if status == http.StatusInternalServerError && fallback != "" {
		message = fallback
	}

	var opts []shared.ResponseOption
	var ve *domain.ValidationError
	if errors.As(err, &ve) {
		opts = append(opts, shared.WithField(ve.Field))
	}
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		opts = append(opts, shared.WithElevatedLogLevel())
	}
	shared.RespondWithErrorAndLog(w, r, status, message, err, opts...)
}
