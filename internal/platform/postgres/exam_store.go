package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/lingodrift-api/internal/domain"
	"github.com/phrazzld/lingodrift-api/internal/platform/logger"
	"github.com/phrazzld/lingodrift-api/internal/store"
)

const (
	examColumns     = `id, title, level, description, time_limit_minutes`
	sectionColumns  = `id, exam_id, title, type, "order"`
	questionColumns = `q.id, q.section_id, q.text, q.type, q.content, q.points, q."order"`
)

// PostgresExamStore implements store.ExamStore.
type PostgresExamStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresExamStore creates an exam store over db. A nil logger falls back to slog.Default().
func NewPostgresExamStore(db store.DBTX, logger *slog.Logger) *PostgresExamStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresExamStore{
		db:     db,
		logger: logger.With(slog.String("component", "exam_store")),
	}
}

var _ store.ExamStore = (*PostgresExamStore)(nil)

// CreateExam implements store.ExamStore.CreateExam.
func (s *PostgresExamStore) CreateExam(ctx context.Context, exam *domain.Exam) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := exam.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO exams (title, level, description, time_limit_minutes)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		exam.Title,
		string(exam.Level),
		exam.Description,
		exam.TimeLimitMinutes,
	).Scan(&exam.ID)
	if err != nil {
		log.Error("failed to insert exam", slog.String("error", err.Error()))
		return store.NewStoreError("exam", "create", "insert failed", MapError(err))
	}

	log.Debug("exam inserted", slog.Int64("exam_id", exam.ID))
	return nil
}

// CreateSection implements store.ExamStore.CreateSection.
func (s *PostgresExamStore) CreateSection(ctx context.Context, section *domain.ExamSection) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := section.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO exam_sections (exam_id, title, type, "order")
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		section.ExamID,
		section.Title,
		string(section.Type),
		section.Order,
	).Scan(&section.ID)
	if err != nil {
		log.Error("failed to insert exam section",
			slog.String("error", err.Error()),
			slog.Int64("exam_id", section.ExamID))
		return store.NewStoreError("exam section", "create", "insert failed", MapError(err))
	}
	return nil
}

// CreateQuestion implements store.ExamStore.CreateQuestion.
func (s *PostgresExamStore) CreateQuestion(ctx context.Context, question *domain.Question) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := question.Validate(); err != nil {
		return err
	}

	var content any
	if question.HasContent() {
		content = string(question.Content)
	}

	query := `
		INSERT INTO questions (section_id, text, type, content, points, "order")
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		question.SectionID,
		question.Text,
		string(question.Type),
		content,
		question.Points,
		question.Order,
	).Scan(&question.ID)
	if err != nil {
		log.Error("failed to insert question",
			slog.String("error", err.Error()),
			slog.Int64("section_id", question.SectionID))
		return store.NewStoreError("question", "create", "insert failed", MapError(err))
	}
	return nil
}

// GetByID implements store.ExamStore.GetByID.
func (s *PostgresExamStore) GetByID(ctx context.Context, id int64) (*domain.Exam, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + examColumns + ` FROM exams WHERE id = $1`
	exam, err := scanExam(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("exam not found", slog.Int64("exam_id", id))
			return nil, store.ErrExamNotFound
		}
		log.Error("failed to load exam", slog.String("error", err.Error()), slog.Int64("exam_id", id))
		return nil, fmt.Errorf("failed to load exam: %w", MapError(err))
	}
	return exam, nil
}

// ListExams implements store.ExamStore.ListExams.
func (s *PostgresExamStore) ListExams(ctx context.Context, offset, limit int) ([]*domain.Exam, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `SELECT ` + examColumns + ` FROM exams ORDER BY id LIMIT $1 OFFSET $2`
	rows, err := s.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		log.Error("failed to list exams", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list exams: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	exams := make([]*domain.Exam, 0)
	for rows.Next() {
		exam, err := scanExam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan exam: %w", err)
		}
		exams = append(exams, exam)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate exams: %w", err)
	}
	return exams, nil
}

// ListSections implements store.ExamStore.ListSections.
func (s *PostgresExamStore) ListSections(ctx context.Context, examID int64) ([]*domain.ExamSection, error) {
	query := `SELECT ` + sectionColumns + ` FROM exam_sections WHERE exam_id = $1 ORDER BY "order", id`
	rows, err := s.db.QueryContext(ctx, query, examID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sections: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	sections := make([]*domain.ExamSection, 0)
	for rows.Next() {
		var (
			section     domain.ExamSection
			sectionType string
		)
		if err := rows.Scan(&section.ID, &section.ExamID, &section.Title, &sectionType, &section.Order); err != nil {
			return nil, fmt.Errorf("failed to scan section: %w", err)
		}
		section.Type = domain.SectionType(sectionType)
		section.Questions = make([]*domain.Question, 0)
		sections = append(sections, &section)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sections: %w", err)
	}
	return sections, nil
}

// ListQuestionsByExam implements store.ExamStore.ListQuestionsByExam.
func (s *PostgresExamStore) ListQuestionsByExam(ctx context.Context, examID int64) ([]*domain.Question, error) {
	query := `
		SELECT ` + questionColumns + `
		FROM questions q
		JOIN exam_sections s ON s.id = q.section_id
		WHERE s.exam_id = $1
		ORDER BY q.section_id, q."order", q.id
	`
	rows, err := s.db.QueryContext(ctx, query, examID)
	if err != nil {
		return nil, fmt.Errorf("failed to list questions: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	questions := make([]*domain.Question, 0)
	for rows.Next() {
		var (
			question     domain.Question
			questionType string
			content      []byte
		)
		if err := rows.Scan(
			&question.ID,
			&question.SectionID,
			&question.Text,
			&questionType,
			&content,
			&question.Points,
			&question.Order,
		); err != nil {
			return nil, fmt.Errorf("failed to scan question: %w", err)
		}
		question.Type = domain.QuestionType(questionType)
		if content != nil {
			question.Content = content
		}
		questions = append(questions, &question)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate questions: %w", err)
	}
	return questions, nil
}

// WithTx implements store.ExamStore.WithTx.
func (s *PostgresExamStore) WithTx(tx *sql.Tx) store.ExamStore {
	return &PostgresExamStore{db: tx, logger: s.logger}
}

func scanExam(row interface{ Scan(dest ...any) error }) (*domain.Exam, error) {
	var (
		exam  domain.Exam
		level string
	)
	if err := row.Scan(&exam.ID, &exam.Title, &level, &exam.Description, &exam.TimeLimitMinutes); err != nil {
		return nil, err
	}
	exam.Level = domain.Level(level)
	exam.Sections = make([]*domain.ExamSection, 0)
	return &exam, nil
}
