// Package supabase delegates identity to a hosted Supabase (GoTrue) auth API.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/geohome/geohome/internal/domain"
)

type Provider struct {
	baseURL string
	anonKey string
	client  *http.Client
}

func New(baseURL, anonKey string, client *http.Client) *Provider {
	if client == nil {
		client = &http.Client{Timeout: 15 * time.Second}
	}
	return &Provider{
		baseURL: strings.TrimRight(baseURL, "/") + "/auth/v1",
		anonKey: anonKey,
		client:  client,
	}
}

type apiUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	CreatedAt    time.Time `json:"created_at"`
	UserMetadata struct {
		Name string `json:"name"`
	} `json:"user_metadata"`
}

func (u *apiUser) toDomain() *domain.User {
	return &domain.User{ID: u.ID, Email: u.Email, Name: u.UserMetadata.Name, CreatedAt: u.CreatedAt}
}

type apiSession struct {
	AccessToken string   `json:"access_token"`
	TokenType   string   `json:"token_type"`
	ExpiresIn   int64    `json:"expires_in"`
	ExpiresAt   int64    `json:"expires_at"`
	User        *apiUser `json:"user"`
}

func (s *apiSession) toDomain() *domain.Session {
	out := &domain.Session{AccessToken: s.AccessToken, TokenType: s.TokenType}
	switch {
	case s.ExpiresAt > 0:
		out.ExpiresAt = time.Unix(s.ExpiresAt, 0).UTC()
	case s.ExpiresIn > 0:
		out.ExpiresAt = time.Now().Add(time.Duration(s.ExpiresIn) * time.Second).UTC()
	}
	if s.User != nil {
		out.User = s.User.toDomain()
	}
	return out
}

// apiError covers the several error shapes GoTrue answers with.
type apiError struct {
	Status           int    `json:"-"`
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	Code             string `json:"error"`
	ErrorDescription string `json:"error_description"`
}

func (e *apiError) Error() string {
	for _, s := range []string{e.ErrorDescription, e.Msg, e.Message, e.Code} {
		if s != "" {
			return s
		}
	}
	return fmt.Sprintf("auth service returned status %d", e.Status)
}

func (p *Provider) Register(ctx context.Context, in domain.RegisterInput) (*domain.Session, error) {
	body := map[string]any{
		"email":    in.Email,
		"password": in.Password,
		"data":     map[string]string{"name": in.Name},
	}

	raw, err := p.do(ctx, http.MethodPost, "/signup", "", body)
	if err != nil {
		return nil, &domain.StoreError{Op: "register user", Err: err}
	}

	// With email confirmation on, signup answers with a bare user.
	var sess apiSession
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode signup response: %w", err)
	}
	if sess.User == nil {
		var u apiUser
		if err := json.Unmarshal(raw, &u); err != nil {
			return nil, fmt.Errorf("failed to decode signup response: %w", err)
		}
		return &domain.Session{User: u.toDomain()}, nil
	}
	return sess.toDomain(), nil
}

func (p *Provider) Login(ctx context.Context, in domain.LoginInput) (*domain.Session, error) {
	raw, err := p.do(ctx, http.MethodPost, "/token?grant_type=password", "", map[string]string{
		"email":    in.Email,
		"password": in.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrUnauthenticated)
	}

	var sess apiSession
	if err := json.Unmarshal(raw, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode token response: %w", err)
	}
	return sess.toDomain(), nil
}

func (p *Provider) Logout(ctx context.Context, token string) error {
	if _, err := p.do(ctx, http.MethodPost, "/logout", token, nil); err != nil {
		return &domain.StoreError{Op: "logout", Err: err}
	}
	return nil
}

func (p *Provider) ResolveToken(ctx context.Context, token string) (*domain.User, error) {
	raw, err := p.do(ctx, http.MethodGet, "/user", token, nil)
	if err != nil {
		return nil, fmt.Errorf("%v: %w", err, domain.ErrUnauthenticated)
	}

	var u apiUser
	if err := json.Unmarshal(raw, &u); err != nil || u.ID == "" {
		return nil, fmt.Errorf("invalid user payload: %w", domain.ErrUnauthenticated)
	}
	return u.toDomain(), nil
}

func (p *Provider) UpdateProfile(ctx context.Context, token string, in domain.ProfileInput) (*domain.User, error) {
	raw, err := p.do(ctx, http.MethodPut, "/user", token, map[string]any{
		"data": map[string]string{"name": in.Name},
	})
	if err != nil {
		var apiErr *apiError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusUnauthorized {
			return nil, fmt.Errorf("%v: %w", err, domain.ErrUnauthenticated)
		}
		return nil, &domain.StoreError{Op: "update profile", Err: err}
	}

	var u apiUser
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}
	return u.toDomain(), nil
}

// do sends one request and returns the body of a 2xx answer. Any other
// status comes back as *apiError.
func (p *Provider) do(ctx context.Context, method, path, token string, body any) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", p.anonKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to call auth service: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read auth response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &apiError{Status: resp.StatusCode}
		_ = json.Unmarshal(raw, apiErr)
		return nil, apiErr
	}
	return raw, nil
}
