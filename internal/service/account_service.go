package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/phrazzld/lingodrift-api/internal/domain"
	"github.com/phrazzld/lingodrift-api/internal/platform/logger"
	"github.com/phrazzld/lingodrift-api/internal/service/auth"
	"github.com/phrazzld/lingodrift-api/internal/store"
)

// AccountService registers users and exchanges credentials for tokens.
type AccountService interface {
	// Register creates an active email/password account.
	// Returns ErrEmailExists when the email is taken.
	Register(ctx context.Context, email, password string) (*domain.User, error)

	// Authenticate returns a signed access token whose subject is the email.
	// Every failure is reported as ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, password string) (string, error)

	// ResolveToken validates a bearer token and loads its active user.
	ResolveToken(ctx context.Context, token string) (*domain.User, error)
}

type accountServiceImpl struct {
	users  store.UserStore
	hasher auth.PasswordHasher
	tokens auth.JWTService
	logger *slog.Logger
}

// NewAccountService creates an AccountService.
func NewAccountService(
	users store.UserStore,
	hasher auth.PasswordHasher,
	tokens auth.JWTService,
	logger *slog.Logger,
) (AccountService, error) {
	if users == nil {
		return nil, domain.NewValidationError("users", "cannot be nil", domain.ErrValidation)
	}
	if hasher == nil {
		return nil, domain.NewValidationError("hasher", "cannot be nil", domain.ErrValidation)
	}
	if tokens == nil {
		return nil, domain.NewValidationError("tokens", "cannot be nil", domain.ErrValidation)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &accountServiceImpl{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		logger: logger.With(slog.String("component", "account_service")),
	}, nil
}

func (s *accountServiceImpl) Register(ctx context.Context, email, password string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	email = domain.NormalizeEmail(email)
	if err := domain.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := domain.ValidatePassword(password); err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		log.Error("failed to hash password", "error", err)
		return nil, NewServiceError("register", "failed to hash password", err)
	}

	user, err := domain.NewEmailUser(email, hashed)
	if err != nil {
		return nil, err
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, store.ErrEmailExists) {
			log.Debug("registration with existing email")
			return nil, ErrEmailExists
		}
		log.Error("failed to create user", "error", err)
		return nil, NewServiceError("register", "failed to create user", err)
	}

	log.Info("user registered", "user_id", user.ID)
	return user, nil
}

func (s *accountServiceImpl) Authenticate(ctx context.Context, email, password string) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	user, err := s.users.GetByEmail(ctx, domain.NormalizeEmail(email))
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("login for unknown email")
			return "", ErrInvalidCredentials
		}
		log.Error("failed to load user for login", "error", err)
		return "", NewServiceError("authenticate", "failed to load user", err)
	}

	if !user.IsActive || !user.CanUsePassword() {
		log.Debug("login rejected for account state",
			"user_id", user.ID,
			"is_active", user.IsActive,
			"auth_provider", user.AuthProvider)
		return "", ErrInvalidCredentials
	}

	if err := s.hasher.Compare(*user.HashedPassword, password); err != nil {
		if !errors.Is(err, auth.ErrPasswordMismatch) {
			log.Error("stored password hash is unusable", "error", err, "user_id", user.ID)
		}
		return "", ErrInvalidCredentials
	}

	token, err := s.tokens.GenerateToken(ctx, user)
	if err != nil {
		log.Error("failed to issue token", "error", err, "user_id", user.ID)
		return "", NewServiceError("authenticate", "failed to issue token", err)
	}
	return token, nil
}

func (s *accountServiceImpl) ResolveToken(ctx context.Context, token string) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	claims, err := s.tokens.ValidateToken(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, claims.Subject)
	if err != nil {
		if store.IsNotFoundError(err) {
			log.Debug("token subject no longer exists", "user_id", claims.UserID)
			return nil, ErrInvalidCredentials
		}
		log.Error("failed to load token subject", "error", err)
		return nil, NewServiceError("resolve_token", "failed to load user", err)
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
