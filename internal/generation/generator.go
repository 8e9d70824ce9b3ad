package generation

import (
	"context"
	"strings"

	"github.com/phrazzld/lingodrift-api/internal/domain"
	"github.com/phrazzld/lingodrift-api/internal/service"
)

// MaxTopicLength bounds the free-text topic sent to the model.
const MaxTopicLength = 200

// DraftRequest describes the exam an admin wants drafted.
type DraftRequest struct {
	Level domain.Level
	Topic string

	// SectionTypes lists the sections to include, in order. Empty means all
	// four skills.
	SectionTypes []domain.SectionType
}

// Normalize trims the topic and fills in default section types.
func (r DraftRequest) Normalize() DraftRequest {
	r.Topic = strings.TrimSpace(r.Topic)
	if len(r.SectionTypes) == 0 {
		r.SectionTypes = []domain.SectionType{
			domain.SectionReading,
			domain.SectionListening,
			domain.SectionWriting,
			domain.SectionSpeaking,
		}
	}
	return r
}

// Validate checks the request fields.
func (r DraftRequest) Validate() error {
	if !r.Level.Valid() {
		_, err := domain.ParseLevel(string(r.Level))
		return err
	}
	topic := strings.TrimSpace(r.Topic)
	if topic == "" {
		return domain.NewValidationError("topic", "cannot be empty", nil)
	}
	if len(topic) > MaxTopicLength {
		return domain.NewValidationError("topic", "is too long", nil)
	}
	for _, t := range r.SectionTypes {
		if !t.Valid() {
			_, err := domain.ParseSectionType(string(t))
			return err
		}
	}
	return nil
}

// ExamDraftGenerator drafts exams with a language model.
type ExamDraftGenerator interface {
	// GenerateDraft returns a validated exam draft. It returns
	// ErrDraftsDisabled when no model is configured, a validation error for
	// a bad request, and ErrInvalidResponse or ErrTransientFailure when the
	// model misbehaves.
	GenerateDraft(ctx context.Context, req DraftRequest) (*service.ExamSpec, error)
}

// Disabled is the generator used when no API key is configured.
type Disabled struct{}

// GenerateDraft always returns ErrDraftsDisabled.
func (Disabled) GenerateDraft(context.Context, DraftRequest) (*service.ExamSpec, error) {
	return nil, ErrDraftsDisabled
}
