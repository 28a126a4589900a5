// Package local authenticates against the application's own users table,
// issuing HS256 JWTs. Logout revokes the token id.
package local

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/geohome/geohome/internal/domain"
	"github.com/geohome/geohome/internal/store"
)

type userRepository interface {
	Create(ctx context.Context, email, name, passwordHash string) (*store.UserRecord, error)
	GetByEmail(ctx context.Context, email string) (*store.UserRecord, error)
	GetByID(ctx context.Context, id string) (*store.UserRecord, error)
	UpdateName(ctx context.Context, id, name string) (*store.UserRecord, error)
}

type revocationRepository interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Claims carries the user id next to the registered claims. The token id
// (jti) is what logout revokes.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

type Provider struct {
	users   userRepository
	revoked revocationRepository
	secret  []byte
	ttl     time.Duration
	cost    int
	now     func() time.Time
}

func New(users userRepository, revoked revocationRepository, secret string, ttl time.Duration) *Provider {
	return &Provider{
		users:   users,
		revoked: revoked,
		secret:  []byte(secret),
		ttl:     ttl,
		cost:    bcrypt.DefaultCost,
		now:     time.Now,
	}
}

// WithHashCost lowers the bcrypt cost; tests use bcrypt.MinCost.
func (p *Provider) WithHashCost(cost int) *Provider {
	p.cost = cost
	return p
}

func (p *Provider) Register(ctx context.Context, in domain.RegisterInput) (*domain.Session, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), p.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	rec, err := p.users.Create(ctx, in.Email, in.Name, string(hash))
	if err != nil {
		return nil, err
	}
	return p.issue(&rec.User)
}

func (p *Provider) Login(ctx context.Context, in domain.LoginInput) (*domain.Session, error) {
	rec, err := p.users.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("invalid login credentials: %w", domain.ErrUnauthenticated)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(in.Password)); err != nil {
		return nil, fmt.Errorf("invalid login credentials: %w", domain.ErrUnauthenticated)
	}
	return p.issue(&rec.User)
}

func (p *Provider) Logout(ctx context.Context, token string) error {
	claims, err := p.parse(token)
	if err != nil {
		return err
	}
	exp := p.now().Add(p.ttl)
	if claims.ExpiresAt != nil {
		exp = claims.ExpiresAt.Time
	}
	return p.revoked.Revoke(ctx, claims.ID, exp)
}

func (p *Provider) ResolveToken(ctx context.Context, token string) (*domain.User, error) {
	claims, err := p.parse(token)
	if err != nil {
		return nil, err
	}

	revoked, err := p.revoked.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, fmt.Errorf("token revoked: %w", domain.ErrUnauthenticated)
	}

	rec, err := p.users.GetByID(ctx, claims.UserID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("unknown user: %w", domain.ErrUnauthenticated)
	}
	return &rec.User, nil
}

func (p *Provider) UpdateProfile(ctx context.Context, token string, in domain.ProfileInput) (*domain.User, error) {
	u, err := p.ResolveToken(ctx, token)
	if err != nil {
		return nil, err
	}
	rec, err := p.users.UpdateName(ctx, u.ID, in.Name)
	if err != nil {
		return nil, err
	}
	return &rec.User, nil
}

func (p *Provider) issue(u *domain.User) (*domain.Session, error) {
	now := p.now()
	exp := now.Add(p.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   u.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
		UserID: u.ID,
	})

	signed, err := token.SignedString(p.secret)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	return &domain.Session{AccessToken: signed, TokenType: "bearer", ExpiresAt: exp.UTC(), User: u}, nil
}

func (p *Provider) parse(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return p.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(p.now))
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", errors.Join(domain.ErrUnauthenticated, err))
	}
	if !token.Valid || claims.UserID == "" || claims.ID == "" {
		return nil, fmt.Errorf("invalid token: %w", domain.ErrUnauthenticated)
	}
	return claims, nil
}
