package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/phrazzld/lingodrift-api/internal/domain"
	"github.com/phrazzld/lingodrift-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newSQLMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, sqlMock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, sqlMock.ExpectationsWereMet())
		_ = db.Close()
	})
	return db, sqlMock
}

func strPtr(s string) *string { return &s }

func goetheSpec() ExamSpec {
	return ExamSpec{
		Title: "Goethe A1",
		Level: domain.LevelA1,
		Sections: []SectionSpec{{
			Title: "Lesen Teil 1",
			Type:  domain.SectionReading,
			Questions: []QuestionSpec{{
				Text:    strPtr("Wo wohnt Anna?"),
				Type:    domain.QuestionMultipleChoice,
				Content: json.RawMessage(`{"options":["Berlin","Wien","Zürich"],"answer":"Berlin"}`),
			}},
		}},
	}
}

// assignIDs makes the mock store behave like RETURNING id.
func assignIDs(exams *MockExamStore) {
	var nextSection, nextQuestion int64 = 10, 100
	exams.On("CreateExam", mock.Anything, mock.AnythingOfType("*domain.Exam")).
		Run(func(args mock.Arguments) { args.Get(1).(*domain.Exam).ID = 1 }).
		Return(nil)
	exams.On("CreateSection", mock.Anything, mock.AnythingOfType("*domain.ExamSection")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.ExamSection).ID = nextSection
			nextSection++
		}).
		Return(nil)
	exams.On("CreateQuestion", mock.Anything, mock.AnythingOfType("*domain.Question")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Question).ID = nextQuestion
			nextQuestion++
		}).
		Return(nil)
}

func newTestExamService(t *testing.T) (ExamService, *MockExamStore, sqlmock.Sqlmock) {
	t.Helper()
	db, sqlMock := newSQLMock(t)
	exams := &MockExamStore{}
	svc, err := NewExamService(exams, db, nil)
	require.NoError(t, err)
	return svc, exams, sqlMock
}

func TestNewExamServiceRequiresDependencies(t *testing.T) {
	t.Parallel()

	_, err := NewExamService(nil, &sql.DB{}, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = NewExamService(&MockExamStore{}, nil, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestCreateExam_GoetheA1(t *testing.T) {
	svc, exams, sqlMock := newTestExamService(t)
	assignIDs(exams)
	sqlMock.ExpectBegin()
	sqlMock.ExpectCommit()

	exam, err := svc.CreateExam(context.Background(), goetheSpec())
	require.NoError(t, err)

	assert.Equal(t, int64(1), exam.ID)
	assert.Equal(t, domain.DefaultTimeLimitMinutes, exam.TimeLimitMinutes)
	require.Len(t, exam.Sections, 1)

	section := exam.Sections[0]
	assert.Equal(t, int64(10), section.ID)
	assert.Equal(t, exam.ID, section.ExamID)
	assert.Equal(t, 0, section.Order)
	require.Len(t, section.Questions, 1)

	question := section.Questions[0]
	assert.Equal(t, int64(100), question.ID)
	assert.Equal(t, section.ID, question.SectionID)
	assert.Equal(t, 0, question.Order)
	assert.Equal(t, domain.DefaultQuestionPoints, question.Points)

	exams.AssertNumberOfCalls(t, "CreateQuestion", 1)
}

func TestCreateExam_ReturnsSortedTree(t *testing.T) {
	svc, exams, sqlMock := newTestExamService(t)
	assignIDs(exams)
	sqlMock.ExpectBegin()
	sqlMock.ExpectCommit()

	spec := goetheSpec()
	spec.Sections = []SectionSpec{
		{Title: "Hören", Type: domain.SectionListening, Order: 2},
		{Title: "Lesen", Type: domain.SectionReading, Order: 1, Questions: []QuestionSpec{
			{Type: domain.QuestionEssay, Order: 5},
			{Type: domain.QuestionFillInBlank, Order: 0},
		}},
	}

	exam, err := svc.CreateExam(context.Background(), spec)
	require.NoError(t, err)

	require.Len(t, exam.Sections, 2)
	assert.Equal(t, "Lesen", exam.Sections[0].Title)
	assert.Equal(t, domain.QuestionFillInBlank, exam.Sections[0].Questions[0].Type)
	assert.Equal(t, domain.QuestionEssay, exam.Sections[0].Questions[1].Type)
}

func TestCreateExam_ValidatesBeforeStorage(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*ExamSpec)
		field string
	}{
		{"empty title", func(s *ExamSpec) { s.Title = " " }, "title"},
		{"unknown level", func(s *ExamSpec) { s.Level = "D1" }, "level"},
		{"negative time limit", func(s *ExamSpec) { s.TimeLimitMinutes = -5 }, "time_limit_minutes"},
		{"unknown section type", func(s *ExamSpec) { s.Sections[0].Type = "singing" }, "sections[0].type"},
		{"unknown question type", func(s *ExamSpec) { s.Sections[0].Questions[0].Type = "riddle" }, "sections[0].questions[0].type"},
		{"negative points", func(s *ExamSpec) {
			p := -1
			s.Sections[0].Questions[0].Points = &p
		}, "sections[0].questions[0].points"},
		{"array content", func(s *ExamSpec) {
			s.Sections[0].Questions[0].Content = json.RawMessage(`[1,2]`)
		}, "sections[0].questions[0].content"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, exams, _ := newTestExamService(t)

			spec := goetheSpec()
			tt.edit(&spec)

			_, err := svc.CreateExam(context.Background(), spec)
			require.ErrorIs(t, err, domain.ErrValidation)

			var ve *domain.ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
			exams.AssertNotCalled(t, "CreateExam", mock.Anything, mock.Anything)
		})
	}
}

func TestCreateExam_RollsBackOnFailure(t *testing.T) {
	svc, exams, sqlMock := newTestExamService(t)

	exams.On("CreateExam", mock.Anything, mock.Anything).Return(nil)
	exams.On("CreateSection", mock.Anything, mock.Anything).Return(nil)
	exams.On("CreateQuestion", mock.Anything, mock.Anything).Return(nil).Once()
	exams.On("CreateQuestion", mock.Anything, mock.Anything).Return(store.ErrInvalidEntity).Once()
	sqlMock.ExpectBegin()
	sqlMock.ExpectRollback()

	spec := goetheSpec()
	spec.Sections[0].Questions = append(spec.Sections[0].Questions, QuestionSpec{Type: domain.QuestionEssay, Order: 1})

	exam, err := svc.CreateExam(context.Background(), spec)
	assert.Nil(t, exam)

	var serviceErr *ServiceError
	require.ErrorAs(t, err, &serviceErr)
	assert.Equal(t, "create_exam", serviceErr.Operation)
	assert.False(t, errors.Is(err, domain.ErrValidation))
}

func TestListExams(t *testing.T) {
	t.Run("zero limit returns empty without querying", func(t *testing.T) {
		svc, exams, _ := newTestExamService(t)

		got, err := svc.ListExams(context.Background(), 0, 0)
		require.NoError(t, err)
		assert.Empty(t, got)
		assert.NotNil(t, got)
		exams.AssertNotCalled(t, "ListExams", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("negative values are rejected", func(t *testing.T) {
		svc, _, _ := newTestExamService(t)

		_, err := svc.ListExams(context.Background(), -1, 10)
		assert.ErrorIs(t, err, domain.ErrValidation)
		_, err = svc.ListExams(context.Background(), 0, -1)
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("limit is capped and rows become summaries", func(t *testing.T) {
		svc, exams, _ := newTestExamService(t)
		exams.On("ListExams", mock.Anything, 5, MaxPageSize).Return([]*domain.Exam{
			{ID: 6, Title: "B1 Probe", Level: domain.LevelB1, TimeLimitMinutes: 90},
		}, nil)

		got, err := svc.ListExams(context.Background(), 5, 1000)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, int64(6), got[0].ID)
		exams.AssertExpectations(t)
	})

	t.Run("offset beyond the end is empty", func(t *testing.T) {
		svc, exams, _ := newTestExamService(t)
		exams.On("ListExams", mock.Anything, 500, 10).Return([]*domain.Exam{}, nil)

		got, err := svc.ListExams(context.Background(), 500, 10)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("store failure", func(t *testing.T) {
		svc, exams, _ := newTestExamService(t)
		exams.On("ListExams", mock.Anything, 0, 10).Return(nil, errors.New("connection reset"))

		_, err := svc.ListExams(context.Background(), 0, 10)
		var serviceErr *ServiceError
		assert.ErrorAs(t, err, &serviceErr)
	})
}

func TestGetExam(t *testing.T) {
	t.Run("assembles and sorts the hierarchy", func(t *testing.T) {
		svc, exams, sqlMock := newTestExamService(t)
		sqlMock.ExpectBegin()
		sqlMock.ExpectCommit()

		exams.On("GetByID", mock.Anything, int64(1)).
			Return(&domain.Exam{ID: 1, Title: "Goethe A1", Level: domain.LevelA1, TimeLimitMinutes: 60}, nil)
		exams.On("ListSections", mock.Anything, int64(1)).Return([]*domain.ExamSection{
			{ID: 11, ExamID: 1, Title: "Hören", Type: domain.SectionListening, Order: 1},
			{ID: 10, ExamID: 1, Title: "Lesen", Type: domain.SectionReading, Order: 0},
		}, nil)
		exams.On("ListQuestionsByExam", mock.Anything, int64(1)).Return([]*domain.Question{
			{ID: 101, SectionID: 10, Type: domain.QuestionEssay, Order: 1},
			{ID: 100, SectionID: 10, Type: domain.QuestionMultipleChoice, Order: 0},
			{ID: 102, SectionID: 11, Type: domain.QuestionAudioResponse, Order: 0},
		}, nil)

		exam, err := svc.GetExam(context.Background(), 1)
		require.NoError(t, err)
		require.Len(t, exam.Sections, 2)
		assert.Equal(t, int64(10), exam.Sections[0].ID)
		require.Len(t, exam.Sections[0].Questions, 2)
		assert.Equal(t, int64(100), exam.Sections[0].Questions[0].ID)
		assert.Equal(t, int64(101), exam.Sections[0].Questions[1].ID)
		require.Len(t, exam.Sections[1].Questions, 1)
	})

	t.Run("missing exam is not found", func(t *testing.T) {
		svc, exams, sqlMock := newTestExamService(t)
		sqlMock.ExpectBegin()
		sqlMock.ExpectRollback()
		exams.On("GetByID", mock.Anything, int64(404)).Return(nil, store.ErrExamNotFound)

		exam, err := svc.GetExam(context.Background(), 404)
		assert.Nil(t, exam)
		assert.ErrorIs(t, err, ErrExamNotFound)
	})

	t.Run("non-positive id is not found without a query", func(t *testing.T) {
		svc, exams, _ := newTestExamService(t)

		_, err := svc.GetExam(context.Background(), 0)
		assert.ErrorIs(t, err, ErrExamNotFound)
		exams.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("failure while reading sections never yields a partial exam", func(t *testing.T) {
		svc, exams, sqlMock := newTestExamService(t)
		sqlMock.ExpectBegin()
		sqlMock.ExpectRollback()
		exams.On("GetByID", mock.Anything, int64(1)).Return(&domain.Exam{ID: 1}, nil)
		exams.On("ListSections", mock.Anything, int64(1)).Return(nil, errors.New("connection reset"))

		exam, err := svc.GetExam(context.Background(), 1)
		assert.Nil(t, exam)
		var serviceErr *ServiceError
		assert.ErrorAs(t, err, &serviceErr)
	})
}
