package gemini

import (
	"bytes"
	"embed"
	"fmt"
	"text/template"

	"github.com/phrazzld/lingodrift-api/internal/domain"
	"github.com/phrazzld/lingodrift-api/internal/generation"
)

//go:embed prompts/*.tmpl
var promptFS embed.FS

var draftTemplate = template.Must(template.ParseFS(promptFS, "prompts/exam_draft.tmpl"))

// promptData is the data passed to the draft prompt template.
type promptData struct {
	Level         domain.Level
	Topic         string
	SectionTypes  []domain.SectionType
	QuestionTypes []domain.QuestionType
}

// renderPrompt expects a normalized request.
func renderPrompt(req generation.DraftRequest) (string, error) {
	data := promptData{
		Level:        req.Level,
		Topic:        req.Topic,
		SectionTypes: req.SectionTypes,
		QuestionTypes: []domain.QuestionType{
			domain.QuestionMultipleChoice,
			domain.QuestionFillInBlank,
			domain.QuestionEssay,
			domain.QuestionAudioResponse,
		},
	}

	var buf bytes.Buffer
	if err := draftTemplate.ExecuteTemplate(&buf, "exam_draft.tmpl", data); err != nil {
		return "", fmt.Errorf("failed to execute prompt template: %w", err)
	}
	return buf.String(), nil
}
