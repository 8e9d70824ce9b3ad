package mocks

import (
	"context"

	"github.com/phrazzld/lingodrift-api/internal/generation"
	"github.com/phrazzld/lingodrift-api/internal/service"
)

// MockDraftGenerator implements generation.ExamDraftGenerator for testing
type MockDraftGenerator struct {
	GenerateDraftFn func(ctx context.Context, req generation.DraftRequest) (*service.ExamSpec, error)

	// Default return values
	Draft        *service.ExamSpec
	DefaultError error
}

var _ generation.ExamDraftGenerator = (*MockDraftGenerator)(nil)

// GenerateDraft implements generation.ExamDraftGenerator.
func (m *MockDraftGenerator) GenerateDraft(ctx context.Context, req generation.DraftRequest) (*service.ExamSpec, error) {
	if m.GenerateDraftFn != nil {
		return m.GenerateDraftFn(ctx, req)
	}
	return m.Draft, m.DefaultError
}
