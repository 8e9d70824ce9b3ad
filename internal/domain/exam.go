package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

const (
	// DefaultTimeLimitMinutes applies when an exam is created without a limit.
	DefaultTimeLimitMinutes = 60

	// DefaultQuestionPoints applies when a question is created without points.
	DefaultQuestionPoints = 1
)

// Exam is a timed test at a single proficiency level. It exclusively owns
// its sections, which in turn own their questions.
type Exam struct {
	ID               int64          `json:"id"`
	Title            string         `json:"title"`
	Level            Level          `json:"level"`
	Description      *string        `json:"description"`
	TimeLimitMinutes int            `json:"time_limit_minutes"`
	Sections         []*ExamSection `json:"sections"`
}

// ExamSummary is the exam row without its hierarchy, used for listings.
type ExamSummary struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	Level            Level   `json:"level"`
	Description      *string `json:"description"`
	TimeLimitMinutes int     `json:"time_limit_minutes"`
}

// ExamSection groups questions testing one skill, e.g. "Lesen Teil 1".
type ExamSection struct {
	ID        int64       `json:"id"`
	ExamID    int64       `json:"exam_id"`
	Title     string      `json:"title"`
	Type      SectionType `json:"type"`
	Order     int         `json:"order"`
	Questions []*Question `json:"questions"`
}

// Question is a single scored item. Content holds the type-specific payload
// (options, correct answer, audio URL, ...) and is not interpreted here.
type Question struct {
	ID        int64           `json:"id"`
	SectionID int64           `json:"section_id"`
	Text      *string         `json:"text"`
	Type      QuestionType    `json:"type"`
	Content   json.RawMessage `json:"content"`
	Points    int             `json:"points"`
	Order     int             `json:"order"`
}

// Summary returns the exam without its sections.
func (e *Exam) Summary() *ExamSummary {
	return &ExamSummary{
		ID:               e.ID,
		Title:            e.Title,
		Level:            e.Level,
		Description:      e.Description,
		TimeLimitMinutes: e.TimeLimitMinutes,
	}
}

// Validate checks the exam row and its whole hierarchy. The returned
// *ValidationError names the field by its path, e.g. "sections[0].questions[2].type".
func (e *Exam) Validate() error {
	if strings.TrimSpace(e.Title) == "" {
		return NewValidationError("title", "cannot be empty", nil)
	}
	if !e.Level.Valid() {
		_, err := ParseLevel(string(e.Level))
		return err
	}
	if e.TimeLimitMinutes <= 0 {
		return NewValidationError("time_limit_minutes", "must be greater than zero", nil)
	}

	for i, section := range e.Sections {
		if section == nil {
			return NewValidationError(fmt.Sprintf("sections[%d]", i), "cannot be null", nil)
		}
		if err := section.Validate(); err != nil {
			return withPrefix(fmt.Sprintf("sections[%d]", i), err)
		}
	}

	return nil
}

// Validate checks the section row and its questions.
func (s *ExamSection) Validate() error {
	if strings.TrimSpace(s.Title) == "" {
		return NewValidationError("title", "cannot be empty", nil)
	}
	if !s.Type.Valid() {
		_, err := ParseSectionType(string(s.Type))
		return err
	}

	for i, question := range s.Questions {
		if question == nil {
			return NewValidationError(fmt.Sprintf("questions[%d]", i), "cannot be null", nil)
		}
		if err := question.Validate(); err != nil {
			return withPrefix(fmt.Sprintf("questions[%d]", i), err)
		}
	}

	return nil
}

// Validate checks the question row.
func (q *Question) Validate() error {
	if !q.Type.Valid() {
		_, err := ParseQuestionType(string(q.Type))
		return err
	}
	if q.Points < 0 {
		return NewValidationError("points", "cannot be negative", nil)
	}
	if !isObjectOrEmpty(q.Content) {
		return NewValidationError("content", "must be a JSON object", nil)
	}
	return nil
}

// HasContent reports whether the question carries a payload.
func (q *Question) HasContent() bool {
	trimmed := bytes.TrimSpace(q.Content)
	return len(trimmed) > 0 && !bytes.Equal(trimmed, []byte("null"))
}

// SortContent orders sections and each section's questions by their order
// field. Ties keep ascending id order.
func (e *Exam) SortContent() {
	sort.SliceStable(e.Sections, func(i, j int) bool {
		a, b := e.Sections[i], e.Sections[j]
		if a.Order != b.Order {
			return a.Order < b.Order
		}
		return a.ID < b.ID
	})
	for _, section := range e.Sections {
		sort.SliceStable(section.Questions, func(i, j int) bool {
			a, b := section.Questions[i], section.Questions[j]
			if a.Order != b.Order {
				return a.Order < b.Order
			}
			return a.ID < b.ID
		})
	}
}

// QuestionCount returns the number of questions across all sections.
func (e *Exam) QuestionCount() int {
	n := 0
	for _, section := range e.Sections {
		n += len(section.Questions)
	}
	return n
}

// MaxScore returns the sum of all question points.
func (e *Exam) MaxScore() int {
	total := 0
	for _, section := range e.Sections {
		for _, question := range section.Questions {
			total += question.Points
		}
	}
	return total
}

func isObjectOrEmpty(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return true
	}
	return trimmed[0] == '{' && json.Valid(trimmed)
}
