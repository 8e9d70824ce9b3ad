package api

import (
	"encoding/json"
	"time"

	"github.com/phrazzld/lingodrift-api/internal/domain"
	"github.com/phrazzld/lingodrift-api/internal/service"
)

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// TokenRequest is the form-encoded login payload of /api/auth/token.
type TokenRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse is the OAuth2 password-flow style token response.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	IsActive     bool   `json:"is_active"`
	AuthProvider string `json:"auth_provider"`
}

// CreateExamRequest is the nested exam creation payload. It is also the
// shape returned by the draft endpoint.
type CreateExamRequest struct {
	Title            string                 `json:"title"                        validate:"required"`
	Level            string                 `json:"level"                        validate:"required,cefr_level"`
	Description      *string                `json:"description,omitempty"`
	TimeLimitMinutes *int                   `json:"time_limit_minutes,omitempty" validate:"omitempty,gt=0"`
	Sections         []CreateSectionRequest `json:"sections"                     validate:"dive"`
}

// CreateSectionRequest is one section of a CreateExamRequest.
type CreateSectionRequest struct {
	Title     string                  `json:"title"     validate:"required"`
	Type      string                  `json:"type"      validate:"required,section_type"`
	Order     int                     `json:"order"`
	Questions []CreateQuestionRequest `json:"questions" validate:"dive"`
}

// CreateQuestionRequest is one question of a CreateSectionRequest.
type CreateQuestionRequest struct {
	Text    *string         `json:"text,omitempty"`
	Type    string          `json:"type"              validate:"required,question_type"`
	Content json.RawMessage `json:"content,omitempty" validate:"omitempty,json_object"`
	Points  *int            `json:"points,omitempty"  validate:"omitempty,gte=0"`
	Order   int             `json:"order"`
}

// DraftExamRequest asks the language model for an exam draft.
type DraftExamRequest struct {
	Level        string   `json:"level"                   validate:"required,cefr_level"`
	Topic        string   `json:"topic"                   validate:"required,max=200"`
	SectionTypes []string `json:"section_types,omitempty" validate:"omitempty,max=4,dive,section_type"`
}

// ExamSummaryResponse is an exam without its sections.
type ExamSummaryResponse struct {
	ID               int64   `json:"id"`
	Title            string  `json:"title"`
	Level            string  `json:"level"`
	Description      *string `json:"description"`
	TimeLimitMinutes int     `json:"time_limit_minutes"`
}

// ExamResponse is an exam with its nested sections and questions.
type ExamResponse struct {
	ExamSummaryResponse
	Sections []SectionResponse `json:"sections"`
}

// SectionResponse is one section of an ExamResponse.
type SectionResponse struct {
	ID        int64              `json:"id"`
	ExamID    int64              `json:"exam_id"`
	Title     string             `json:"title"`
	Type      string             `json:"type"`
	Order     int                `json:"order"`
	Questions []QuestionResponse `json:"questions"`
}

// QuestionResponse is one question of a SectionResponse. Content is null
// when the question has no payload.
type QuestionResponse struct {
	ID        int64           `json:"id"`
	SectionID int64           `json:"section_id"`
	Text      *string         `json:"text"`
	Type      string          `json:"type"`
	Content   json.RawMessage `json:"content"`
	Points    int             `json:"points"`
	Order     int             `json:"order"`
}

// CompleteAttemptRequest records the score of a finished attempt.
type CompleteAttemptRequest struct {
	Score *int `json:"score" validate:"required,gte=0"`
}

// AttemptResponse is the public view of an exam attempt.
type AttemptResponse struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"user_id"`
	ExamID      int64      `json:"exam_id"`
	StartedAt   time.Time  `json:"started_at"`
	CompletedAt *time.Time `json:"completed_at"`
	Score       *int       `json:"score"`
	Status      string     `json:"status"`
}

// toSpec converts the request into the service's authoring input.
func (r CreateExamRequest) toSpec() service.ExamSpec {
	spec := service.ExamSpec{
		Title:       r.Title,
		Level:       domain.Level(r.Level),
		Description: r.Description,
		Sections:    make([]service.SectionSpec, 0, len(r.Sections)),
	}
	if r.TimeLimitMinutes != nil {
		spec.TimeLimitMinutes = *r.TimeLimitMinutes
	}
	for _, s := range r.Sections {
		section := service.SectionSpec{
			Title:     s.Title,
			Type:      domain.SectionType(s.Type),
			Order:     s.Order,
			Questions: make([]service.QuestionSpec, 0, len(s.Questions)),
		}
		for _, q := range s.Questions {
			section.Questions = append(section.Questions, service.QuestionSpec{
				Text:    q.Text,
				Type:    domain.QuestionType(q.Type),
				Content: q.Content,
				Points:  q.Points,
				Order:   q.Order,
			})
		}
		spec.Sections = append(spec.Sections, section)
	}
	return spec
}

// specToRequest converts a generated draft back into the creation payload.
func specToRequest(spec *service.ExamSpec) CreateExamRequest {
	req := CreateExamRequest{
		Title:       spec.Title,
		Level:       string(spec.Level),
		Description: spec.Description,
		Sections:    make([]CreateSectionRequest, 0, len(spec.Sections)),
	}
	if spec.TimeLimitMinutes > 0 {
		limit := spec.TimeLimitMinutes
		req.TimeLimitMinutes = &limit
	}
	for _, s := range spec.Sections {
		section := CreateSectionRequest{
			Title:     s.Title,
			Type:      string(s.Type),
			Order:     s.Order,
			Questions: make([]CreateQuestionRequest, 0, len(s.Questions)),
		}
		for _, q := range s.Questions {
			section.Questions = append(section.Questions, CreateQuestionRequest{
				Text:    q.Text,
				Type:    string(q.Type),
				Content: q.Content,
				Points:  q.Points,
				Order:   q.Order,
			})
		}
		req.Sections = append(req.Sections, section)
	}
	return req
}

func userToResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		IsActive:     u.IsActive,
		AuthProvider: string(u.AuthProvider),
	}
}

func summaryToResponse(e *domain.ExamSummary) ExamSummaryResponse {
	return ExamSummaryResponse{
		ID:               e.ID,
		Title:            e.Title,
		Level:            string(e.Level),
		Description:      e.Description,
		TimeLimitMinutes: e.TimeLimitMinutes,
	}
}

func examToResponse(e *domain.Exam) ExamResponse {
	resp := ExamResponse{
		ExamSummaryResponse: summaryToResponse(e.Summary()),
		Sections:            make([]SectionResponse, 0, len(e.Sections)),
	}
	for _, s := range e.Sections {
		section := SectionResponse{
			ID:        s.ID,
			ExamID:    s.ExamID,
			Title:     s.Title,
			Type:      string(s.Type),
			Order:     s.Order,
			Questions: make([]QuestionResponse, 0, len(s.Questions)),
		}
		for _, q := range s.Questions {
			content := q.Content
			if !q.HasContent() {
				content = json.RawMessage("null")
			}
			section.Questions = append(section.Questions, QuestionResponse{
				ID:        q.ID,
				SectionID: q.SectionID,
				Text:      q.Text,
				Type:      string(q.Type),
				Content:   content,
				Points:    q.Points,
				Order:     q.Order,
			})
		}
		resp.Sections = append(resp.Sections, section)
	}
	return resp
}

func attemptToResponse(a *domain.ExamAttempt) AttemptResponse {
	return AttemptResponse{
		ID:          a.ID,
		UserID:      a.UserID,
		ExamID:      a.ExamID,
		StartedAt:   a.StartedAt,
		CompletedAt: a.CompletedAt,
		Score:       a.Score,
		Status:      string(a.Status),
	}
}
