package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/lingodrift-api/internal/api/shared"
	"github.com/phrazzld/lingodrift-api/internal/domain"
	"github.com/phrazzld/lingodrift-api/internal/service"
)

// AttemptHandler handles exam attempt requests. Every route requires an
// authenticated user.
type AttemptHandler struct {
	attempts service.AttemptService
	logger   *slog.Logger
}

// NewAttemptHandler creates a new AttemptHandler.
func NewAttemptHandler(attempts service.AttemptService, logger *slog.Logger) *AttemptHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AttemptHandler{
		attempts: attempts,
		logger:   logger.With(slog.String("component", "attempt_handler")),
	}
}

// StartAttempt handles POST /api/exams/{id}/attempts.
func (h *AttemptHandler) StartAttempt(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	examID, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	attempt, err := h.attempts.StartAttempt(r.Context(), user.ID, examID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to start attempt")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusCreated, attemptToResponse(attempt))
}

// ListAttempts handles GET /api/attempts.
func (h *AttemptHandler) ListAttempts(w http.ResponseWriter, r *http.Request) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	offset, limit, err := getPage(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	attempts, err := h.attempts.ListAttempts(r.Context(), user.ID, offset, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list attempts")
		return
	}

	resp := make([]AttemptResponse, 0, len(attempts))
	for _, a := range attempts {
		resp = append(resp, attemptToResponse(a))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// GetAttempt handles GET /api/attempts/{id}.
func (h *AttemptHandler) GetAttempt(w http.ResponseWriter, r *http.Request) {
	h.withAttempt(w, r, "Failed to load attempt", func(user *domain.User, id int64) (*domain.ExamAttempt, error) {
		return h.attempts.GetAttempt(r.Context(), user.ID, id)
	})
}

// CompleteAttempt handles POST /api/attempts/{id}/complete.
func (h *AttemptHandler) CompleteAttempt(w http.ResponseWriter, r *http.Request) {
	var req CompleteAttemptRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}
	h.withAttempt(w, r, "Failed to complete attempt", func(user *domain.User, id int64) (*domain.ExamAttempt, error) {
		return h.attempts.CompleteAttempt(r.Context(), user.ID, id, *req.Score)
	})
}

// AbandonAttempt handles POST /api/attempts/{id}/abandon.
func (h *AttemptHandler) AbandonAttempt(w http.ResponseWriter, r *http.Request) {
	h.withAttempt(w, r, "Failed to abandon attempt", func(user *domain.User, id int64) (*domain.ExamAttempt, error) {
		return h.attempts.AbandonAttempt(r.Context(), user.ID, id)
	})
}

// withAttempt resolves the user and path id, runs op and writes its result.
func (h *AttemptHandler) withAttempt(
	w http.ResponseWriter,
	r *http.Request,
	fallback string,
	op func(user *domain.User, id int64) (*domain.ExamAttempt, error),
) {
	user, ok := requireUser(w, r)
	if !ok {
		return
	}
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	attempt, err := op(user, id)
	if err != nil {
		HandleAPIError(w, r, err, fallback)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, attemptToResponse(attempt))
}
