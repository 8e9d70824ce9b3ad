package domain

import (
	"errors"
	"time"
)

// Attempt transition errors
var (
	ErrAttemptClosed  = errors.New("attempt is no longer in progress")
	ErrNegativeScore  = errors.New("score cannot be negative")
	ErrScoreTooLarge  = errors.New("score exceeds the exam maximum")
	ErrInvalidAttempt = errors.New("invalid attempt status")
)

// ExamAttempt records one user sitting one exam.
type ExamAttempt struct {
	ID          int64         `json:"id"`
	UserID      int64         `json:"user_id"`
	ExamID      int64         `json:"exam_id"`
	StartedAt   time.Time     `json:"started_at"`
	CompletedAt *time.Time    `json:"completed_at"`
	Score       *int          `json:"score"`
	Status      AttemptStatus `json:"status"`
}

// NewExamAttempt starts an attempt now.
func NewExamAttempt(userID, examID int64) *ExamAttempt {
	return &ExamAttempt{
		UserID:    userID,
		ExamID:    examID,
		StartedAt: time.Now().UTC(),
		Status:    AttemptInProgress,
	}
}

// Validate checks the attempt's status and score.
func (a *ExamAttempt) Validate() error {
	if !a.Status.Valid() {
		return NewValidationError("status", "is not supported", ErrInvalidAttempt)
	}
	if a.Score != nil && *a.Score < 0 {
		return NewValidationError("score", "cannot be negative", ErrNegativeScore)
	}
	return nil
}

// Complete moves an in-progress attempt to completed with score.
// maxScore bounds the score; pass a negative value to skip that check.
func (a *ExamAttempt) Complete(score, maxScore int, at time.Time) error {
	if a.Status.Terminal() {
		return ErrAttemptClosed
	}
	if score < 0 {
		return NewValidationError("score", "cannot be negative", ErrNegativeScore)
	}
	if maxScore >= 0 && score > maxScore {
		return NewValidationError("score", "exceeds the exam maximum", ErrScoreTooLarge)
	}

	completedAt := at.UTC()
	a.Status = AttemptCompleted
	a.Score = &score
	a.CompletedAt = &completedAt
	return nil
}

// Abandon moves an in-progress attempt to abandoned.
func (a *ExamAttempt) Abandon(at time.Time) error {
	if a.Status.Terminal() {
		return ErrAttemptClosed
	}

	completedAt := at.UTC()
	a.Status = AttemptAbandoned
	a.CompletedAt = &completedAt
	return nil
}
