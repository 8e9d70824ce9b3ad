package shared

import (
	"context"
	"testing"

	"github.com/phrazzld/lingodrift-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestTraceID(t *testing.T) {
	t.Parallel()

	ctx := SetTraceID(context.Background())
	id := GetTraceID(ctx)
	assert.Len(t, id, TraceIDLength*2)
	assert.NotEqual(t, id, GetTraceID(SetTraceID(context.Background())))
	assert.Empty(t, GetTraceID(context.Background()))
}

func TestUserFromContext(t *testing.T) {
	t.Parallel()

	_, ok := UserFromContext(context.Background())
	assert.False(t, ok)

	_, ok = UserFromContext(WithUser(context.Background(), &domain.User{}))
	assert.False(t, ok, "unsaved user is not an identity")

	user := &domain.User{ID: 3, Email: "anna@example.de"}
	got, ok := UserFromContext(WithUser(context.Background(), user))
	assert.True(t, ok)
	assert.Same(t, user, got)
}
