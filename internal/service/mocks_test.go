package service

import (
	"context"
	"database/sql"

	"github.com/phrazzld/lingodrift-api/internal/domain"
	"github.com/phrazzld/lingodrift-api/internal/store"
	"github.com/stretchr/testify/mock"
)

// MockExamStore mocks store.ExamStore. WithTx returns the same mock so
// expectations apply inside and outside transactions.
type MockExamStore struct {
	mock.Mock
}

func (m *MockExamStore) CreateExam(ctx context.Context, exam *domain.Exam) error {
	return m.Called(ctx, exam).Error(0)
}

func (m *MockExamStore) CreateSection(ctx context.Context, section *domain.ExamSection) error {
	return m.Called(ctx, section).Error(0)
}

func (m *MockExamStore) CreateQuestion(ctx context.Context, question *domain.Question) error {
	return m.Called(ctx, question).Error(0)
}

func (m *MockExamStore) GetByID(ctx context.Context, id int64) (*domain.Exam, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Exam), args.Error(1)
}

func (m *MockExamStore) ListExams(ctx context.Context, offset, limit int) ([]*domain.Exam, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Exam), args.Error(1)
}

func (m *MockExamStore) ListSections(ctx context.Context, examID int64) ([]*domain.ExamSection, error) {
	args := m.Called(ctx, examID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ExamSection), args.Error(1)
}

func (m *MockExamStore) ListQuestionsByExam(ctx context.Context, examID int64) ([]*domain.Question, error) {
	args := m.Called(ctx, examID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Question), args.Error(1)
}

func (m *MockExamStore) WithTx(*sql.Tx) store.ExamStore {
	return m
}

// MockUserStore mocks store.UserStore.
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}

func (m *MockUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) WithTx(*sql.Tx) store.UserStore {
	return m
}

// MockAttemptStore mocks store.AttemptStore.
type MockAttemptStore struct {
	mock.Mock
}

func (m *MockAttemptStore) Create(ctx context.Context, attempt *domain.ExamAttempt) error {
	return m.Called(ctx, attempt).Error(0)
}

func (m *MockAttemptStore) GetByID(ctx context.Context, id int64) (*domain.ExamAttempt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExamAttempt), args.Error(1)
}

func (m *MockAttemptStore) GetByIDForUpdate(ctx context.Context, id int64) (*domain.ExamAttempt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExamAttempt), args.Error(1)
}

func (m *MockAttemptStore) Update(ctx context.Context, attempt *domain.ExamAttempt) error {
	return m.Called(ctx, attempt).Error(0)
}

func (m *MockAttemptStore) ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*domain.ExamAttempt, error) {
	args := m.Called(ctx, userID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ExamAttempt), args.Error(1)
}

func (m *MockAttemptStore) WithTx(*sql.Tx) store.AttemptStore {
	return m
}
