package api

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/lingodrift-api/internal/api/shared"
	"github.com/phrazzld/lingodrift-api/internal/domain"
	"github.com/phrazzld/lingodrift-api/internal/generation"
	"github.com/phrazzld/lingodrift-api/internal/platform/logger"
	"github.com/phrazzld/lingodrift-api/internal/service"
)

// ExamHandler handles exam catalogue and authoring requests.
type ExamHandler struct {
	exams  service.ExamService
	drafts generation.ExamDraftGenerator
	logger *slog.Logger
}

// NewExamHandler creates a new ExamHandler. A nil drafts generator disables
// the draft endpoint.
func NewExamHandler(
	exams service.ExamService,
	drafts generation.ExamDraftGenerator,
	logger *slog.Logger,
) *ExamHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if drafts == nil {
		drafts = generation.Disabled{}
	}
	return &ExamHandler{
		exams:  exams,
		drafts: drafts,
		logger: logger.With(slog.String("component", "exam_handler")),
	}
}

// ListExams handles GET /api/exams.
func (h *ExamHandler) ListExams(w http.ResponseWriter, r *http.Request) {
	offset, limit, err := getPage(r)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	summaries, err := h.exams.ListExams(r.Context(), offset, limit)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list exams")
		return
	}

	resp := make([]ExamSummaryResponse, 0, len(summaries))
	for _, s := range summaries {
		resp = append(resp, summaryToResponse(s))
	}
	shared.RespondWithJSON(w, r, http.StatusOK, resp)
}

// GetExam handles GET /api/exams/{id}.
func (h *ExamHandler) GetExam(w http.ResponseWriter, r *http.Request) {
	id, err := getPathID(r, "id")
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	exam, err := h.exams.GetExam(r.Context(), id)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load exam")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, examToResponse(exam))
}

// CreateExam handles POST /api/exams. Admin only.
func (h *ExamHandler) CreateExam(w http.ResponseWriter, r *http.Request) {
	var req CreateExamRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	exam, err := h.exams.CreateExam(r.Context(), req.toSpec())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create exam")
		return
	}

	logger.FromContextOrDefault(r.Context(), h.logger).Info("exam created via api",
		"exam_id", exam.ID,
		"sections", len(exam.Sections))
	shared.RespondWithJSON(w, r, http.StatusCreated, examToResponse(exam))
}

// DraftExam handles POST /api/exams/drafts. Admin only. The draft is
// returned for review and is not saved.
func (h *ExamHandler) DraftExam(w http.ResponseWriter, r *http.Request) {
	var req DraftExamRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	draftReq := generation.DraftRequest{
		Level: domain.Level(req.Level),
		Topic: req.Topic,
	}
	for _, t := range req.SectionTypes {
		draftReq.SectionTypes = append(draftReq.SectionTypes, domain.SectionType(t))
	}

	spec, err := h.drafts.GenerateDraft(r.Context(), draftReq)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to generate draft")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, specToRequest(spec))
}
