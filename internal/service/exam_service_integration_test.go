//go:build integration

package service_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/phrazzld/lingodrift-api/internal/domain"
	"github.com/phrazzld/lingodrift-api/internal/platform/postgres"
	"github.com/phrazzld/lingodrift-api/internal/service"
	"github.com/phrazzld/lingodrift-api/internal/testdb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExamAndAttemptRoundTrip(t *testing.T) {
	db := testdb.GetTestDBWithT(t)
	ctx := context.Background()

	exams := postgres.NewPostgresExamStore(db, nil)
	attempts := postgres.NewPostgresAttemptStore(db, nil)
	users := postgres.NewPostgresUserStore(db, nil)

	examSvc, err := service.NewExamService(exams, db, nil)
	require.NoError(t, err)
	attemptSvc, err := service.NewAttemptService(attempts, exams, db, nil)
	require.NoError(t, err)

	title := fmt.Sprintf("Goethe A1 %d", time.Now().UnixNano())
	text := "Wo wohnt Anna?"
	points := 5
	created, err := examSvc.CreateExam(ctx, service.ExamSpec{
		Title: title,
		Level: domain.LevelA1,
		Sections: []service.SectionSpec{
			{Title: "Schreiben", Type: domain.SectionWriting, Order: 2, Questions: []service.QuestionSpec{
				{Type: domain.QuestionEssay, Points: &points},
			}},
			{Title: "Lesen", Type: domain.SectionReading, Order: 1, Questions: []service.QuestionSpec{
				{Text: &text, Type: domain.QuestionMultipleChoice, Order: 1,
					Content: json.RawMessage(`{"options":["Berlin","Wien"],"answer":"Berlin"}`)},
				{Type: domain.QuestionFillInBlank, Order: 0},
			}},
		},
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_, _ = db.ExecContext(context.Background(), "DELETE FROM exams WHERE id = $1", created.ID)
	})

	loaded, err := examSvc.GetExam(ctx, created.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Sections, 2)
	assert.Equal(t, "Lesen", loaded.Sections[0].Title)
	require.Len(t, loaded.Sections[0].Questions, 2)
	assert.Equal(t, domain.QuestionFillInBlank, loaded.Sections[0].Questions[0].Type)
	assert.JSONEq(t, `{"options":["Berlin","Wien"],"answer":"Berlin"}`,
		string(loaded.Sections[0].Questions[1].Content))

	user, err := domain.NewEmailUser(fmt.Sprintf("anna-%d@example.de", time.Now().UnixNano()), "$2a$10$abcdefghijklmnopqrstuv")
	require.NoError(t, err)
	require.NoError(t, users.Create(ctx, user))
	t.Cleanup(func() {
		_, _ = db.ExecContext(context.Background(), "DELETE FROM users WHERE id = $1", user.ID)
	})

	attempt, err := attemptSvc.StartAttempt(ctx, user.ID, created.ID)
	require.NoError(t, err)

	_, err = attemptSvc.CompleteAttempt(ctx, user.ID, attempt.ID, 8)
	assert.ErrorIs(t, err, domain.ErrValidation)

	done, err := attemptSvc.CompleteAttempt(ctx, user.ID, attempt.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, domain.AttemptCompleted, done.Status)

	_, err = attemptSvc.AbandonAttempt(ctx, user.ID, attempt.ID)
	assert.ErrorIs(t, err, service.ErrAttemptClosed)
}
