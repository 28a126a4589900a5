package service

import (
	"context"
	"log/slog"

	"github.com/geohome/geohome/internal/domain"
	"github.com/geohome/geohome/internal/identity"
)

// AuthService validates account payloads and hands them to the identity
// provider.
type AuthService struct {
	provider identity.Provider
	logger   *slog.Logger
}

func NewAuthService(provider identity.Provider, logger *slog.Logger) *AuthService {
	return &AuthService{provider: provider, logger: logger}
}

func (s *AuthService) Register(ctx context.Context, in *domain.RegisterInput) (*domain.Session, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	sess, err := s.provider.Register(ctx, *in)
	if err != nil {
		return nil, err
	}
	if sess.User != nil {
		s.logger.Info("user registered", "user_id", sess.User.ID)
	}
	return sess, nil
}

func (s *AuthService) Login(ctx context.Context, in *domain.LoginInput) (*domain.Session, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.provider.Login(ctx, *in)
}

func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.provider.Logout(ctx, token)
}

// Authenticate resolves a bearer token. Nothing is cached between calls.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*domain.User, error) {
	u, err := s.provider.ResolveToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrUnauthenticated
	}
	return u, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, token string, in *domain.ProfileInput) (*domain.User, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	return s.provider.UpdateProfile(ctx, token, *in)
}
