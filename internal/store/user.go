package store

import (
	"context"
	"database/sql"

	"github.com/phrazzld/lingodrift-api/internal/domain"
)

// UserStore defines persistence for user accounts.
type UserStore interface {
	// Create inserts user and sets its ID and CreatedAt from the database.
	// Returns ErrEmailExists if the email is already registered.
	Create(ctx context.Context, user *domain.User) error

	// GetByID returns ErrUserNotFound if no user has the given id.
	GetByID(ctx context.Context, id int64) (*domain.User, error)

	// GetByEmail looks the user up by normalised email.
	// Returns ErrUserNotFound if no user has the given email.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// WithTx returns a UserStore bound to tx.
	WithTx(tx *sql.Tx) UserStore
}
