// Package identity resolves bearer tokens to users and owns the account
// lifecycle. Two backends exist: a local one (users table + JWT) and the
// hosted Supabase auth API.
package identity

import (
	"context"

	"github.com/geohome/geohome/internal/domain"
)

type Provider interface {
	// Register creates an account. The returned session may carry an empty
	// access token when the backend requires email confirmation first.
	Register(ctx context.Context, in domain.RegisterInput) (*domain.Session, error)
	Login(ctx context.Context, in domain.LoginInput) (*domain.Session, error)
	Logout(ctx context.Context, token string) error
	// ResolveToken validates token on every call; nothing is cached.
	ResolveToken(ctx context.Context, token string) (*domain.User, error)
	UpdateProfile(ctx context.Context, token string, in domain.ProfileInput) (*domain.User, error)
}

type ctxKey string

const (
	userKey  ctxKey = "user"
	tokenKey ctxKey = "token"
)

// WithUser attaches the authenticated user and the raw token to ctx.
func WithUser(ctx context.Context, u *domain.User, token string) context.Context {
	ctx = context.WithValue(ctx, userKey, u)
	return context.WithValue(ctx, tokenKey, token)
}

// UserFrom returns the user placed by WithUser, or nil.
func UserFrom(ctx context.Context) *domain.User {
	u, _ := ctx.Value(userKey).(*domain.User)
	return u
}

func TokenFrom(ctx context.Context) string {
	t, _ := ctx.Value(tokenKey).(string)
	return t
}
