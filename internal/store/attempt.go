package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/lingodrift-api/internal/domain"
)

// AttemptStore defines persistence for exam attempts.
type AttemptStore interface {
	// Create inserts attempt and sets its ID from the database.
	// Returns ErrExamNotFound when the exam does not exist and
	// ErrUserNotFound when the user does not exist.
	Create(ctx context.Context, attempt *domain.ExamAttempt) error

	// GetByID returns ErrAttemptNotFound if the attempt does not exist.
	GetByID(ctx context.Context, id int64) (*domain.ExamAttempt, error)

	// GetByIDForUpdate is GetByID with a row lock. Only meaningful inside a transaction.
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.ExamAttempt, error)

	// Update persists status, completion time and score.
	// Returns ErrAttemptNotFound if the attempt does not exist.
	Update(ctx context.Context, attempt *domain.ExamAttempt) error

	// ListByUser returns a user's attempts, newest first.
	ListByUser(ctx context.Context, userID int64, offset, limit int) ([]*domain.ExamAttempt, error)

	// WithTx returns an AttemptStore bound to tx.
	WithTx(tx *sql.Tx) AttemptStore
}
