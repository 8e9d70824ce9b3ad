package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/lingodrift-api/internal/domain"
	"github.com/phrazzld/lingodrift-api/internal/platform/logger"
	"github.com/phrazzld/lingodrift-api/internal/store"
)

// AttemptService tracks users sitting exams. Every operation is scoped to
// the calling user; touching another user's attempt yields ErrAttemptNotOwned.
type AttemptService interface {
	// StartAttempt opens an in-progress attempt. Returns ErrExamNotFound
	// when the exam does not exist.
	StartAttempt(ctx context.Context, userID, examID int64) (*domain.ExamAttempt, error)

	// CompleteAttempt records score and closes the attempt. The score may not
	// exceed the exam's total points when the exam has questions.
	CompleteAttempt(ctx context.Context, userID, attemptID int64, score int) (*domain.ExamAttempt, error)

	// AbandonAttempt closes the attempt without a score.
	AbandonAttempt(ctx context.Context, userID, attemptID int64) (*domain.ExamAttempt, error)

	// ListAttempts returns the user's attempts, newest first.
	ListAttempts(ctx context.Context, userID int64, offset, limit int) ([]*domain.ExamAttempt, error)

	// GetAttempt returns one of the user's attempts.
	GetAttempt(ctx context.Context, userID, attemptID int64) (*domain.ExamAttempt, error)
}

type attemptServiceImpl struct {
	attempts store.AttemptStore
	exams    store.ExamStore
	db       store.TxBeginner
	logger   *slog.Logger
	now      func() time.Time
}

// NewAttemptService creates an AttemptService.
func NewAttemptService(
	attempts store.AttemptStore,
	exams store.ExamStore,
	db store.TxBeginner,
	logger *slog.Logger,
) (AttemptService, error) {
	if attempts == nil {
		return nil, domain.NewValidationError("attempts", "cannot be nil", domain.ErrValidation)
	}
	if exams == nil {
		return nil, domain.NewValidationError("exams", "cannot be nil", domain.ErrValidation)
	}
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &attemptServiceImpl{
		attempts: attempts,
		exams:    exams,
		db:       db,
		logger:   logger.With(slog.String("component", "attempt_service")),
		now:      time.Now,
	}, nil
}

func (s *attemptServiceImpl) StartAttempt(ctx context.Context, userID, examID int64) (*domain.ExamAttempt, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if examID <= 0 {
		return nil, ErrExamNotFound
	}

	attempt := domain.NewExamAttempt(userID, examID)
	attempt.StartedAt = s.now().UTC()

	if err := s.attempts.Create(ctx, attempt); err != nil {
		if errors.Is(err, store.ErrExamNotFound) {
			return nil, ErrExamNotFound
		}
		log.Error("failed to start attempt", "error", err, "exam_id", examID, "user_id", userID)
		return nil, NewServiceError("start_attempt", "failed to start attempt", err)
	}
	return attempt, nil
}

func (s *attemptServiceImpl) CompleteAttempt(
	ctx context.Context,
	userID, attemptID int64,
	score int,
) (*domain.ExamAttempt, error) {
	return s.close(ctx, "complete_attempt", userID, attemptID, func(tx *sql.Tx, attempt *domain.ExamAttempt) error {
		maxScore, err := s.maxScore(ctx, tx, attempt.ExamID)
		if err != nil {
			return err
		}
		return attempt.Complete(score, maxScore, s.now())
	})
}

func (s *attemptServiceImpl) AbandonAttempt(ctx context.Context, userID, attemptID int64) (*domain.ExamAttempt, error) {
	return s.close(ctx, "abandon_attempt", userID, attemptID, func(_ *sql.Tx, attempt *domain.ExamAttempt) error {
		return attempt.Abandon(s.now())
	})
}

// close locks the attempt row, checks ownership, applies transition and
// persists the result in one transaction.
func (s *attemptServiceImpl) close(
	ctx context.Context,
	operation string,
	userID, attemptID int64,
	transition func(tx *sql.Tx, attempt *domain.ExamAttempt) error,
) (*domain.ExamAttempt, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var result *domain.ExamAttempt
	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		attempts := s.attempts.WithTx(tx)

		attempt, err := attempts.GetByIDForUpdate(ctx, attemptID)
		if err != nil {
			return err
		}
		if attempt.UserID != userID {
			return ErrAttemptNotOwned
		}
		if err := transition(tx, attempt); err != nil {
			return err
		}
		if err := attempts.Update(ctx, attempt); err != nil {
			return err
		}
		result = attempt
		return nil
	})

	switch {
	case err == nil:
		log.Info("attempt closed",
			"attempt_id", result.ID,
			"status", result.Status,
			"user_id", userID)
		return result, nil
	case errors.Is(err, store.ErrAttemptNotFound):
		return nil, ErrAttemptNotFound
	case errors.Is(err, ErrAttemptNotOwned):
		log.Warn("attempt access denied", "attempt_id", attemptID, "user_id", userID)
		return nil, ErrAttemptNotOwned
	case errors.Is(err, domain.ErrAttemptClosed):
		return nil, ErrAttemptClosed
	case errors.Is(err, domain.ErrValidation):
		return nil, err
	default:
		log.Error("failed to close attempt", "error", err, "attempt_id", attemptID)
		return nil, NewServiceError(operation, "failed to update attempt", err)
	}
}

// maxScore sums the points of the exam's questions, or returns -1 when the
// exam has none so that no upper bound applies.
func (s *attemptServiceImpl) maxScore(ctx context.Context, tx *sql.Tx, examID int64) (int, error) {
	questions, err := s.exams.WithTx(tx).ListQuestionsByExam(ctx, examID)
	if err != nil {
		return 0, err
	}
	if len(questions) == 0 {
		return -1, nil
	}
	total := 0
	for _, q := range questions {
		total += q.Points
	}
	return total, nil
}

func (s *attemptServiceImpl) ListAttempts(
	ctx context.Context,
	userID int64,
	offset, limit int,
) ([]*domain.ExamAttempt, error) {
	offset, limit, err := normalizePage(offset, limit)
	if err != nil {
		return nil, err
	}
	if limit == 0 {
		return []*domain.ExamAttempt{}, nil
	}

	attempts, err := s.attempts.ListByUser(ctx, userID, offset, limit)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to list attempts", "error", err, "user_id", userID)
		return nil, NewServiceError("list_attempts", "failed to list attempts", err)
	}
	return attempts, nil
}

func (s *attemptServiceImpl) GetAttempt(ctx context.Context, userID, attemptID int64) (*domain.ExamAttempt, error) {
	attempt, err := s.attempts.GetByID(ctx, attemptID)
	if err != nil {
		if errors.Is(err, store.ErrAttemptNotFound) {
			return nil, ErrAttemptNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to load attempt", "error", err, "attempt_id", attemptID)
		return nil, NewServiceError("get_attempt", "failed to load attempt", err)
	}
	if attempt.UserID != userID {
		return nil, ErrAttemptNotOwned
	}
	return attempt, nil
}
