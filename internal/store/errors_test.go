package store

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClassification(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		err       error
		notFound  bool
		duplicate bool
	}{
		{"generic not found", ErrNotFound, true, false},
		{"exam not found", ErrExamNotFound, true, false},
		{"wrapped attempt not found", fmt.Errorf("load: %w", ErrAttemptNotFound), true, false},
		{"user not found", ErrUserNotFound, true, false},
		{"email exists", ErrEmailExists, false, true},
		{"generic duplicate", ErrDuplicate, false, true},
		{"invalid entity", ErrInvalidEntity, false, false},
		{"unrelated", errors.New("boom"), false, false},
		{"nil", nil, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.notFound, IsNotFoundError(tt.err))
			assert.Equal(t, tt.duplicate, IsDuplicateError(tt.err))
		})
	}
}

func TestStoreError(t *testing.T) {
	t.Parallel()

	cause := errors.New("connection reset")
	err := NewStoreError("question", "create", "insert failed", cause)
	assert.Equal(t, "create question failed: insert failed: connection reset", err.Error())
	assert.ErrorIs(t, err, cause)

	bare := NewStoreError("exam", "list", "bad pagination", nil)
	assert.Equal(t, "list exam failed: bad pagination", bare.Error())
	assert.NoError(t, bare.Unwrap())
}
