package mocks

import (
	"context"

	"github.com/phrazzld/lingodrift-api/internal/domain"
	"github.com/phrazzld/lingodrift-api/internal/service"
)

// MockAccountService implements service.AccountService for testing
type MockAccountService struct {
	RegisterFn     func(ctx context.Context, email, password string) (*domain.User, error)
	AuthenticateFn func(ctx context.Context, email, password string) (string, error)
	ResolveTokenFn func(ctx context.Context, token string) (*domain.User, error)

	// Default return values
	User         *domain.User
	Token        string
	DefaultError error
}

var _ service.AccountService = (*MockAccountService)(nil)

// Register implements service.AccountService.
func (m *MockAccountService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	if m.RegisterFn != nil {
		return m.RegisterFn(ctx, email, password)
	}
	return m.User, m.DefaultError
}

// Authenticate implements service.AccountService.
func (m *MockAccountService) Authenticate(ctx context.Context, email, password string) (string, error) {
	if m.AuthenticateFn != nil {
		return m.AuthenticateFn(ctx, email, password)
	}
	return m.Token, m.DefaultError
}

// ResolveToken implements service.AccountService.
func (m *MockAccountService) ResolveToken(ctx context.Context, token string) (*domain.User, error) {
	if m.ResolveTokenFn != nil {
		return m.ResolveTokenFn(ctx, token)
	}
	return m.User, m.DefaultError
}

// UsersByToken returns a MockAccountService that resolves each token in
// users to its user and rejects anything else with err.
func UsersByToken(users map[string]*domain.User, err error) *MockAccountService {
	return &MockAccountService{
		ResolveTokenFn: func(_ context.Context, token string) (*domain.User, error) {
			if u, ok := users[token]; ok {
				return u, nil
			}
			return nil, err
		},
	}
}
