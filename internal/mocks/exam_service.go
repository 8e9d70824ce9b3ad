package mocks

import (
	"context"

	"github.com/phrazzld/lingodrift-api/internal/domain"
	"github.com/phrazzld/lingodrift-api/internal/service"
)

// MockExamService implements service.ExamService for testing
type MockExamService struct {
	ListExamsFn  func(ctx context.Context, offset, limit int) ([]*domain.ExamSummary, error)
	GetExamFn    func(ctx context.Context, id int64) (*domain.Exam, error)
	CreateExamFn func(ctx context.Context, spec service.ExamSpec) (*domain.Exam, error)

	// Default return values
	Summaries    []*domain.ExamSummary
	Exam         *domain.Exam
	DefaultError error
}

var _ service.ExamService = (*MockExamService)(nil)

// ListExams implements service.ExamService.
func (m *MockExamService) ListExams(ctx context.Context, offset, limit int) ([]*domain.ExamSummary, error) {
	if m.ListExamsFn != nil {
		return m.ListExamsFn(ctx, offset, limit)
	}
	return m.Summaries, m.DefaultError
}

// GetExam implements service.ExamService.
func (m *MockExamService) GetExam(ctx context.Context, id int64) (*domain.Exam, error) {
	if m.GetExamFn != nil {
		return m.GetExamFn(ctx, id)
	}
	return m.Exam, m.DefaultError
}

// CreateExam implements service.ExamService.
func (m *MockExamService) CreateExam(ctx context.Context, spec service.ExamSpec) (*domain.Exam, error) {
	if m.CreateExamFn != nil {
		return m.CreateExamFn(ctx, spec)
	}
	return m.Exam, m.DefaultError
}
