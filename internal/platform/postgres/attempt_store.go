package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/lingodrift-api/internal/domain"
	"github.com/phrazzld/lingodrift-api/internal/platform/logger"
	"github.com/phrazzld/lingodrift-api/internal/store"
)

const attemptColumns = `id, user_id, exam_id, started_at, completed_at, score, status`

// Foreign keys named by PostgreSQL's default convention.
const (
	attemptExamFK = "exam_attempts_exam_id_fkey"
	attemptUserFK = "exam_attempts_user_id_fkey"
)

// PostgresAttemptStore implements store.AttemptStore.
type PostgresAttemptStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresAttemptStore creates an attempt store over db. A nil logger falls back to slog.Default().
func NewPostgresAttemptStore(db store.DBTX, logger *slog.Logger) *PostgresAttemptStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PostgresAttemptStore{
		db:     db,
		logger: logger.With(slog.String("component", "attempt_store")),
	}
}

var _ store.AttemptStore = (*PostgresAttemptStore)(nil)

// Create implements store.AttemptStore.Create.
func (s *PostgresAttemptStore) Create(ctx context.Context, attempt *domain.ExamAttempt) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := attempt.Validate(); err != nil {
		return err
	}

	query := `
		INSERT INTO exam_attempts (user_id, exam_id, started_at, completed_at, score, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	err := s.db.QueryRowContext(ctx, query,
		attempt.UserID,
		attempt.ExamID,
		attempt.StartedAt,
		attempt.CompletedAt,
		attempt.Score,
		string(attempt.Status),
	).Scan(&attempt.ID)
	if err != nil {
		if IsForeignKeyViolation(err) {
			switch constraintName(err) {
			case attemptExamFK:
				return store.ErrExamNotFound
			case attemptUserFK:
				return store.ErrUserNotFound
			}
		}
		log.Error("failed to create attempt",
			slog.String("error", err.Error()),
			slog.Int64("exam_id", attempt.ExamID))
		return store.NewStoreError("exam attempt", "create", "insert failed", MapError(err))
	}

	log.Info("attempt started",
		slog.Int64("attempt_id", attempt.ID),
		slog.Int64("exam_id", attempt.ExamID),
		slog.Int64("user_id", attempt.UserID))
	return nil
}

// GetByID implements store.AttemptStore.GetByID.
func (s *PostgresAttemptStore) GetByID(ctx context.Context, id int64) (*domain.ExamAttempt, error) {
	return s.getOne(ctx, `SELECT `+attemptColumns+` FROM exam_attempts WHERE id = $1`, id)
}

// GetByIDForUpdate implements store.AttemptStore.GetByIDForUpdate.
func (s *PostgresAttemptStore) GetByIDForUpdate(ctx context.Context, id int64) (*domain.ExamAttempt, error) {
	return s.getOne(ctx, `SELECT `+attemptColumns+` FROM exam_attempts WHERE id = $1 FOR UPDATE`, id)
}

func (s *PostgresAttemptStore) getOne(ctx context.Context, query string, id int64) (*domain.ExamAttempt, error) {
	attempt, err := scanAttempt(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrAttemptNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to load attempt",
			slog.String("error", err.Error()),
			slog.Int64("attempt_id", id))
		return nil, fmt.Errorf("failed to load attempt: %w", MapError(err))
	}
	return attempt, nil
}

// Update implements store.AttemptStore.Update.
func (s *PostgresAttemptStore) Update(ctx context.Context, attempt *domain.ExamAttempt) error {
	if err := attempt.Validate(); err != nil {
		return err
	}

	query := `
		UPDATE exam_attempts
		SET status = $2, completed_at = $3, score = $4
		WHERE id = $1
	`
	result, err := s.db.ExecContext(ctx, query,
		attempt.ID,
		string(attempt.Status),
		attempt.CompletedAt,
		attempt.Score,
	)
	if err != nil {
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to update attempt",
			slog.String("error", err.Error()),
			slog.Int64("attempt_id", attempt.ID))
		return store.NewStoreError("exam attempt", "update", "update failed", MapError(err))
	}
	return CheckRowsAffected(result, store.ErrAttemptNotFound)
}

// ListByUser implements store.AttemptStore.ListByUser.
func (s *PostgresAttemptStore) ListByUser(
	ctx context.Context,
	userID int64,
	offset, limit int,
) ([]*domain.ExamAttempt, error) {
	query := `
		SELECT ` + attemptColumns + `
		FROM exam_attempts
		WHERE user_id = $1
		ORDER BY started_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := s.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list attempts: %w", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	attempts := make([]*domain.ExamAttempt, 0)
	for rows.Next() {
		attempt, err := scanAttempt(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attempt: %w", err)
		}
		attempts = append(attempts, attempt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate attempts: %w", err)
	}
	return attempts, nil
}

// WithTx implements store.AttemptStore.WithTx.
func (s *PostgresAttemptStore) WithTx(tx *sql.Tx) store.AttemptStore {
	return &PostgresAttemptStore{db: tx, logger: s.logger}
}

func scanAttempt(row interface{ Scan(dest ...any) error }) (*domain.ExamAttempt, error) {
	var (
		attempt domain.ExamAttempt
		status  string
	)
	err := row.Scan(
		&attempt.ID,
		&attempt.UserID,
		&attempt.ExamID,
		&attempt.StartedAt,
		&attempt.CompletedAt,
		&attempt.Score,
		&status,
	)
	if err != nil {
		return nil, err
	}
	attempt.Status = domain.AttemptStatus(status)
	return &attempt, nil
}
