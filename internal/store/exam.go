package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/lingodrift-api/internal/domain"
)

// ExamStore defines persistence for exams and their sections and questions.
//
// The create methods insert a single row and write the database-assigned id
// back into the entity. Callers composing a full exam are expected to run
// them inside one transaction via WithTx.
type ExamStore interface {
	CreateExam(ctx context.Context, exam *domain.Exam) error
	CreateSection(ctx context.Context, section *domain.ExamSection) error
	CreateQuestion(ctx context.Context, question *domain.Question) error

	// GetByID returns the exam row without sections.
	// Returns ErrExamNotFound if it does not exist.
	GetByID(ctx context.Context, id int64) (*domain.Exam, error)

	// ListExams returns exam rows ordered by id.
	ListExams(ctx context.Context, offset, limit int) ([]*domain.Exam, error)

	// ListSections returns the sections of an exam ordered by (order, id).
	ListSections(ctx context.Context, examID int64) ([]*domain.ExamSection, error)

	// ListQuestionsByExam returns every question of every section of an exam,
	// ordered by (section_id, order, id).
	ListQuestionsByExam(ctx context.Context, examID int64) ([]*domain.Question, error)

	// WithTx returns an ExamStore bound to tx.
	WithTx(tx *sql.Tx) ExamStore
}
