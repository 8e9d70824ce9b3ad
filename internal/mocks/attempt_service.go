package mocks

import (
	"context"

	"github.com/phrazzld/lingodrift-api/internal/domain"
	"github.com/phrazzld/lingodrift-api/internal/service"
)

// MockAttemptService implements service.AttemptService for testing
type MockAttemptService struct {
	StartAttemptFn    func(ctx context.Context, userID, examID int64) (*domain.ExamAttempt, error)
	CompleteAttemptFn func(ctx context.Context, userID, attemptID int64, score int) (*domain.ExamAttempt, error)
	AbandonAttemptFn  func(ctx context.Context, userID, attemptID int64) (*domain.ExamAttempt, error)
	ListAttemptsFn    func(ctx context.Context, userID int64, offset, limit int) ([]*domain.ExamAttempt, error)
	GetAttemptFn      func(ctx context.Context, userID, attemptID int64) (*domain.ExamAttempt, error)

	// Default return values
	Attempt      *domain.ExamAttempt
	Attempts     []*domain.ExamAttempt
	DefaultError error
}

var _ service.AttemptService = (*MockAttemptService)(nil)

// StartAttempt implements service.AttemptService.
func (m *MockAttemptService) StartAttempt(ctx context.Context, userID, examID int64) (*domain.ExamAttempt, error) {
	if m.StartAttemptFn != nil {
		return m.StartAttemptFn(ctx, userID, examID)
	}
	return m.Attempt, m.DefaultError
}

// CompleteAttempt implements service.AttemptService.
func (m *MockAttemptService) CompleteAttempt(
	ctx context.Context,
	userID, attemptID int64,
	score int,
) (*domain.ExamAttempt, error) {
	if m.CompleteAttemptFn != nil {
		return m.CompleteAttemptFn(ctx, userID, attemptID, score)
	}
	return m.Attempt, m.DefaultError
}

// AbandonAttempt implements service.AttemptService.
func (m *MockAttemptService) AbandonAttempt(ctx context.Context, userID, attemptID int64) (*domain.ExamAttempt, error) {
	if m.AbandonAttemptFn != nil {
		return m.AbandonAttemptFn(ctx, userID, attemptID)
	}
	return m.Attempt, m.DefaultError
}

// ListAttempts implements service.AttemptService.
func (m *MockAttemptService) ListAttempts(
	ctx context.Context,
	userID int64,
	offset, limit int,
) ([]*domain.ExamAttempt, error) {
	if m.ListAttemptsFn != nil {
		return m.ListAttemptsFn(ctx, userID, offset, limit)
	}
	return m.Attempts, m.DefaultError
}

// GetAttempt implements service.AttemptService.
func (m *MockAttemptService) GetAttempt(ctx context.Context, userID, attemptID int64) (*domain.ExamAttempt, error) {
	if m.GetAttemptFn != nil {
		return m.GetAttemptFn(ctx, userID, attemptID)
	}
	return m.Attempt, m.DefaultError
}
