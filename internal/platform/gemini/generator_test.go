package gemini

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/phrazzld/lingodrift-api/internal/config"
	"github.com/phrazzld/lingodrift-api/internal/domain"
	"github.com/phrazzld/lingodrift-api/internal/generation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

const draftJSON = `{
  "title": "Goethe A1: Familie",
  "level": "C1",
  "time_limit_minutes": 45,
  "sections": [
    {"title": "Lesen", "type": "reading", "order": 0, "questions": [
      {"text": "Wie heißt die Schwester?", "type": "multiple_choice",
       "content": {"options": ["Anna", "Lena"], "answer": "Anna"}, "points": 2, "order": 0}
    ]},
    {"title": "Schreiben", "type": "writing", "order": 1, "questions": [
      {"text": "Schreiben Sie über Ihre Familie.", "type": "essay", "content": {"instructions": "30 Wörter"}, "order": 0}
    ]}
  ]
}`

func textResponse(text string) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content:      &genai.Content{Role: "model", Parts: []*genai.Part{{Text: text}}},
			FinishReason: genai.FinishReasonStop,
		}},
	}
}

func draftRequest() generation.DraftRequest {
	return generation.DraftRequest{
		Level:        domain.LevelA1,
		Topic:        "Familie",
		SectionTypes: []domain.SectionType{domain.SectionReading, domain.SectionWriting},
	}
}

func TestRenderPrompt(t *testing.T) {
	t.Parallel()

	prompt, err := renderPrompt(draftRequest().Normalize())
	require.NoError(t, err)

	assert.Contains(t, prompt, "CEFR level A1")
	assert.Contains(t, prompt, `"Familie"`)
	assert.Contains(t, prompt, "- reading (order 0)")
	assert.Contains(t, prompt, "- writing (order 1)")
	assert.NotContains(t, prompt, "- listening (order")
	assert.Contains(t, prompt, "- audio_response")
}

func TestGenerateDraft(t *testing.T) {
	t.Parallel()

	var gotPrompt string
	g := newGenerator(func(_ context.Context, prompt string) (*genai.GenerateContentResponse, error) {
		gotPrompt = prompt
		return textResponse("```json\n" + draftJSON + "\n```"), nil
	}, 0, time.Millisecond, slogDiscard())

	spec, err := g.GenerateDraft(context.Background(), draftRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, gotPrompt)
	assert.Equal(t, domain.LevelA1, spec.Level)
	assert.Equal(t, 45, spec.TimeLimitMinutes)
	require.Len(t, spec.Sections, 2)
	assert.Equal(t, domain.QuestionEssay, spec.Sections[1].Questions[0].Type)
	assert.Nil(t, spec.Sections[1].Questions[0].Points)
	assert.JSONEq(t, `{"options":["Anna","Lena"],"answer":"Anna"}`, string(spec.Sections[0].Questions[0].Content))
}

func TestGenerateDraftRejectsBadRequest(t *testing.T) {
	t.Parallel()

	g := newGenerator(func(context.Context, string) (*genai.GenerateContentResponse, error) {
		t.Fatal("model must not be called")
		return nil, nil
	}, 0, time.Millisecond, slogDiscard())

	_, err := g.GenerateDraft(context.Background(), generation.DraftRequest{Level: "Z9", Topic: "Familie"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestGenerateDraftInvalidAnswers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		resp *genai.GenerateContentResponse
		want error
	}{
		{"not json", textResponse("Hier ist Ihre Prüfung!"), generation.ErrInvalidResponse},
		{"no sections", textResponse(`{"title":"Leer","sections":[]}`), generation.ErrInvalidResponse},
		{"unrequested section", textResponse(
			`{"title":"X","sections":[{"title":"Sprechen","type":"speaking","questions":[]}]}`,
		), generation.ErrInvalidResponse},
		{"bad question type", textResponse(
			`{"title":"X","sections":[{"title":"Lesen","type":"reading","questions":[{"type":"true_false"}]}]}`,
		), generation.ErrInvalidResponse},
		{"content not an object", textResponse(
			`{"title":"X","sections":[{"title":"Lesen","type":"reading","questions":[{"type":"essay","content":[1]}]}]}`,
		), generation.ErrInvalidResponse},
		{"no candidates", &genai.GenerateContentResponse{}, generation.ErrInvalidResponse},
		{"safety stop", &genai.GenerateContentResponse{
			Candidates: []*genai.Candidate{{FinishReason: genai.FinishReasonSafety}},
		}, generation.ErrContentBlocked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls atomic.Int32
			g := newGenerator(func(context.Context, string) (*genai.GenerateContentResponse, error) {
				calls.Add(1)
				return tt.resp, nil
			}, 3, time.Millisecond, slogDiscard())

			_, err := g.GenerateDraft(context.Background(), draftRequest())
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, int32(1), calls.Load(), "answers are not retried")
		})
	}
}

func TestGenerateDraftRetries(t *testing.T) {
	t.Parallel()

	t.Run("recovers after transient errors", func(t *testing.T) {
		var calls atomic.Int32
		g := newGenerator(func(context.Context, string) (*genai.GenerateContentResponse, error) {
			if calls.Add(1) < 3 {
				return nil, &genai.APIError{Code: 503, Message: "overloaded"}
			}
			return textResponse(draftJSON), nil
		}, 3, time.Millisecond, slogDiscard())

		_, err := g.GenerateDraft(context.Background(), draftRequest())
		require.NoError(t, err)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("gives up after max retries", func(t *testing.T) {
		var calls atomic.Int32
		g := newGenerator(func(context.Context, string) (*genai.GenerateContentResponse, error) {
			calls.Add(1)
			return nil, errors.New("connection reset by peer")
		}, 2, time.Millisecond, slogDiscard())

		_, err := g.GenerateDraft(context.Background(), draftRequest())
		assert.ErrorIs(t, err, generation.ErrTransientFailure)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("client errors are not retried", func(t *testing.T) {
		var calls atomic.Int32
		g := newGenerator(func(context.Context, string) (*genai.GenerateContentResponse, error) {
			calls.Add(1)
			return nil, &genai.APIError{Code: 400, Message: "bad request"}
		}, 3, time.Millisecond, slogDiscard())

		_, err := g.GenerateDraft(context.Background(), draftRequest())
		assert.ErrorIs(t, err, generation.ErrInvalidResponse)
		assert.Equal(t, int32(1), calls.Load())
	})

	t.Run("cancelled context stops waiting", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		g := newGenerator(func(context.Context, string) (*genai.GenerateContentResponse, error) {
			cancel()
			return nil, &genai.APIError{Code: 429, Message: "slow down"}
		}, 3, time.Hour, slogDiscard())

		_, err := g.GenerateDraft(ctx, draftRequest())
		assert.ErrorIs(t, err, generation.ErrTransientFailure)
	})
}

func TestBackoffIsCapped(t *testing.T) {
	t.Parallel()

	g := newGenerator(nil, 3, 2*time.Second, slogDiscard())
	first := g.backoff(0)
	assert.GreaterOrEqual(t, first, time.Second)
	assert.Less(t, first, 2*time.Second)
	assert.Equal(t, maxBackoff, g.backoff(10))
}

func TestNewGeneratorWithoutKey(t *testing.T) {
	t.Parallel()

	g, err := NewGenerator(context.Background(), config.LLMConfig{ModelName: "gemini-2.0-flash"}, nil)
	require.NoError(t, err)
	assert.IsType(t, generation.Disabled{}, g)
}

func TestStripCodeFence(t *testing.T) {
	t.Parallel()

	assert.Equal(t, `{"a":1}`, string(stripCodeFence("```json\n{\"a\":1}\n```")))
	assert.Equal(t, `{"a":1}`, string(stripCodeFence("  {\"a\":1}  ")))
	assert.True(t, strings.HasPrefix(string(stripCodeFence("```\n{}\n```")), "{"))
}
