package service

import (
	"encoding/json"

	"github.com/phrazzld/lingodrift-api/internal/domain"
)

// ExamSpec is the authoring input for a new exam: the full hierarchy
// without ids. Omitted optional values take the schema defaults.
type ExamSpec struct {
	Title            string        `json:"title"`
	Level            domain.Level  `json:"level"`
	Description      *string       `json:"description,omitempty"`
	TimeLimitMinutes int           `json:"time_limit_minutes,omitempty"`
	Sections         []SectionSpec `json:"sections"`
}

// SectionSpec describes one section of an ExamSpec.
type SectionSpec struct {
	Title     string             `json:"title"`
	Type      domain.SectionType `json:"type"`
	Order     int                `json:"order"`
	Questions []QuestionSpec     `json:"questions"`
}

// QuestionSpec describes one question of a SectionSpec. A nil Points means
// the default of domain.DefaultQuestionPoints.
type QuestionSpec struct {
	Text    *string             `json:"text,omitempty"`
	Type    domain.QuestionType `json:"type"`
	Content json.RawMessage     `json:"content,omitempty"`
	Points  *int                `json:"points,omitempty"`
	Order   int                 `json:"order"`
}

// Build converts s into an unsaved exam, applying defaults.
// Sections and questions keep their input order.
func (s ExamSpec) Build() *domain.Exam {
	exam := &domain.Exam{
		Title:            s.Title,
		Level:            s.Level,
		Description:      s.Description,
		TimeLimitMinutes: s.TimeLimitMinutes,
		Sections:         make([]*domain.ExamSection, 0, len(s.Sections)),
	}
	if exam.TimeLimitMinutes == 0 {
		exam.TimeLimitMinutes = domain.DefaultTimeLimitMinutes
	}

	for _, ss := range s.Sections {
		section := &domain.ExamSection{
			Title:     ss.Title,
			Type:      ss.Type,
			Order:     ss.Order,
			Questions: make([]*domain.Question, 0, len(ss.Questions)),
		}
		for _, qs := range ss.Questions {
			points := domain.DefaultQuestionPoints
			if qs.Points != nil {
				points = *qs.Points
			}
			section.Questions = append(section.Questions, &domain.Question{
				Text:    qs.Text,
				Type:    qs.Type,
				Content: qs.Content,
				Points:  points,
				Order:   qs.Order,
			})
		}
		exam.Sections = append(exam.Sections, section)
	}

	return exam
}
