package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/phrazzld/lingodrift-api/internal/domain"
	"github.com/phrazzld/lingodrift-api/internal/platform/logger"
	"github.com/phrazzld/lingodrift-api/internal/store"
)

// ExamService reads and authors exams.
type ExamService interface {
	// ListExams returns exam summaries ordered by id. A zero limit yields an
	// empty page; limits above MaxPageSize are capped.
	ListExams(ctx context.Context, offset, limit int) ([]*domain.ExamSummary, error)

	// GetExam returns the exam with its sections and questions sorted by
	// (order, id). Returns ErrExamNotFound when it does not exist.
	GetExam(ctx context.Context, id int64) (*domain.Exam, error)

	// CreateExam validates spec and persists the whole hierarchy in one
	// transaction. The returned exam carries ids at every level.
	CreateExam(ctx context.Context, spec ExamSpec) (*domain.Exam, error)
}

type examServiceImpl struct {
	exams  store.ExamStore
	db     store.TxBeginner
	logger *slog.Logger
}

// NewExamService creates an ExamService.
func NewExamService(exams store.ExamStore, db store.TxBeginner, logger *slog.Logger) (ExamService, error) {
	if exams == nil {
		return nil, domain.NewValidationError("exams", "cannot be nil", domain.ErrValidation)
	}
	if db == nil {
		return nil, domain.NewValidationError("db", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &examServiceImpl{
		exams:  exams,
		db:     db,
		logger: logger.With(slog.String("component", "exam_service")),
	}, nil
}

func (s *examServiceImpl) ListExams(ctx context.Context, offset, limit int) ([]*domain.ExamSummary, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	offset, limit, err := normalizePage(offset, limit)
	if err != nil {
		return nil, err
	}
	if limit == 0 {
		return []*domain.ExamSummary{}, nil
	}

	exams, err := s.exams.ListExams(ctx, offset, limit)
	if err != nil {
		log.Error("failed to list exams", "error", err, "offset", offset, "limit", limit)
		return nil, NewServiceError("list_exams", "failed to list exams", err)
	}

	summaries := make([]*domain.ExamSummary, 0, len(exams))
	for _, exam := range exams {
		summaries = append(summaries, exam.Summary())
	}
	return summaries, nil
}

func (s *examServiceImpl) GetExam(ctx context.Context, id int64) (*domain.Exam, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if id <= 0 {
		return nil, ErrExamNotFound
	}

	var exam *domain.Exam
	err := store.RunInReadOnlyTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		exams := s.exams.WithTx(tx)

		loaded, err := exams.GetByID(ctx, id)
		if err != nil {
			return err
		}
		sections, err := exams.ListSections(ctx, id)
		if err != nil {
			return err
		}
		questions, err := exams.ListQuestionsByExam(ctx, id)
		if err != nil {
			return err
		}

		exam = assemble(loaded, sections, questions)
		return nil
	})
	if err != nil {
		if errors.Is(err, store.ErrExamNotFound) {
			log.Debug("exam not found", "exam_id", id)
			return nil, ErrExamNotFound
		}
		log.Error("failed to load exam", "error", err, "exam_id", id)
		return nil, NewServiceError("get_exam", "failed to load exam", err)
	}

	return exam, nil
}

func (s *examServiceImpl) CreateExam(ctx context.Context, spec ExamSpec) (*domain.Exam, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	exam := spec.Build()
	if err := exam.Validate(); err != nil {
		log.Debug("exam validation failed", "error", err)
		return nil, err
	}

	err := store.RunInTransaction(ctx, s.db, func(ctx context.Context, tx *sql.Tx) error {
		exams := s.exams.WithTx(tx)

		if err := exams.CreateExam(ctx, exam); err != nil {
			return err
		}
		for _, section := range exam.Sections {
			section.ExamID = exam.ID
			if err := exams.CreateSection(ctx, section); err != nil {
				return err
			}
			for _, question := range section.Questions {
				question.SectionID = section.ID
				if err := exams.CreateQuestion(ctx, question); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		log.Error("failed to persist exam", "error", err, "title", exam.Title)
		return nil, NewServiceError("create_exam", "failed to persist exam", err)
	}

	exam.SortContent()
	log.Info("exam created",
		"exam_id", exam.ID,
		"level", exam.Level,
		"sections", len(exam.Sections),
		"questions", exam.QuestionCount())
	return exam, nil
}

// assemble attaches questions to their sections and sorts the tree.
func assemble(exam *domain.Exam, sections []*domain.ExamSection, questions []*domain.Question) *domain.Exam {
	bySection := make(map[int64]*domain.ExamSection, len(sections))
	for _, section := range sections {
		if section.Questions == nil {
			section.Questions = make([]*domain.Question, 0)
		}
		bySection[section.ID] = section
	}
	for _, question := range questions {
		if section, ok := bySection[question.SectionID]; ok {
			section.Questions = append(section.Questions, question)
		}
	}

	exam.Sections = sections
	exam.SortContent()
	return exam
}
