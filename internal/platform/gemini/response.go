package gemini

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/phrazzld/lingodrift-api/internal/generation"
	"github.com/phrazzld/lingodrift-api/internal/service"
	"google.golang.org/genai"
)

// responseText extracts the model answer from a Gemini response.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil {
		return "", fmt.Errorf("%w: nil response", generation.ErrInvalidResponse)
	}
	if resp.PromptFeedback != nil && resp.PromptFeedback.BlockReason != "" {
		return "", fmt.Errorf("%w: prompt blocked (%s)", generation.ErrContentBlocked, resp.PromptFeedback.BlockReason)
	}
	if len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: no content generated", generation.ErrInvalidResponse)
	}
	candidate := resp.Candidates[0]
	if candidate.FinishReason == genai.FinishReasonSafety {
		return "", fmt.Errorf("%w: content blocked by safety filters", generation.ErrContentBlocked)
	}
	if candidate.Content == nil {
		return "", fmt.Errorf("%w: empty content in response", generation.ErrInvalidResponse)
	}

	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	if strings.TrimSpace(sb.String()) == "" {
		return "", fmt.Errorf("%w: empty text in response", generation.ErrInvalidResponse)
	}
	return sb.String(), nil
}

// parseDraft decodes the model answer into an exam spec and validates it
// against the request. The requested level always wins over the model's.
func parseDraft(text string, req generation.DraftRequest) (*service.ExamSpec, error) {
	raw := stripCodeFence(text)

	var spec service.ExamSpec
	dec := json.NewDecoder(bytes.NewReader(raw))
	if err := dec.Decode(&spec); err != nil {
		return nil, fmt.Errorf("%w: failed to parse JSON response: %v", generation.ErrInvalidResponse, err)
	}
	spec.Level = req.Level

	if len(spec.Sections) == 0 {
		return nil, fmt.Errorf("%w: draft has no sections", generation.ErrInvalidResponse)
	}
	allowed := make(map[string]bool, len(req.SectionTypes))
	for _, t := range req.SectionTypes {
		allowed[string(t)] = true
	}
	for i, s := range spec.Sections {
		if !allowed[string(s.Type)] {
			return nil, fmt.Errorf("%w: section %d has unrequested type %q", generation.ErrInvalidResponse, i, s.Type)
		}
	}

	if err := spec.Build().Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", generation.ErrInvalidResponse, err)
	}
	return &spec, nil
}

// stripCodeFence removes a surrounding ```json fence some models add even
// when asked for raw JSON.
func stripCodeFence(text string) []byte {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return []byte(s)
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		s = s[nl+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return []byte(strings.TrimSpace(s))
}
