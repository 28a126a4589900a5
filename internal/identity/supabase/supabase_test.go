package supabase

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geohome/geohome/internal/domain"
)

const userJSON = `{"id":"u-1","email":"ana@example.com","created_at":"2025-01-02T03:04:05Z","user_metadata":{"name":"Ana"}}`

func fakeAuth(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("POST /auth/v1/signup", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "anon", r.Header.Get("apikey"))
		var body struct {
			Email string            `json:"email"`
			Data  map[string]string `json:"data"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body.Email == "taken@example.com" {
			w.WriteHeader(http.StatusUnprocessableEntity)
			_, _ = w.Write([]byte(`{"msg":"User already registered"}`))
			return
		}
		assert.Equal(t, "Ana", body.Data["name"])
		_, _ = w.Write([]byte(userJSON))
	})

	mux.HandleFunc("POST /auth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "password", r.URL.Query().Get("grant_type"))
		var body map[string]string
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "secret1" {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Invalid login credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"access_token":"tok-1","token_type":"bearer","expires_in":3600,"user":` + userJSON + `}`))
	})

	mux.HandleFunc("GET /auth/v1/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"msg":"invalid JWT"}`))
			return
		}
		_, _ = w.Write([]byte(userJSON))
	})

	mux.HandleFunc("PUT /auth/v1/user", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-1" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_, _ = w.Write([]byte(`{"id":"u-1","email":"ana@example.com","user_metadata":{"name":"Ana Paula"}}`))
	})

	mux.HandleFunc("POST /auth/v1/logout", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-1", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusNoContent)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRegister(t *testing.T) {
	p := New(fakeAuth(t).URL, "anon", nil)

	sess, err := p.Register(context.Background(), domain.RegisterInput{Email: "ana@example.com", Password: "secret1", Name: "Ana"})
	require.NoError(t, err)
	assert.Empty(t, sess.AccessToken)
	assert.Equal(t, "u-1", sess.User.ID)
	assert.Equal(t, "Ana", sess.User.Name)

	_, err = p.Register(context.Background(), domain.RegisterInput{Email: "taken@example.com", Password: "secret1", Name: "Ana"})
	var serr *domain.StoreError
	require.ErrorAs(t, err, &serr)
	assert.Contains(t, err.Error(), "User already registered")
}

func TestLogin(t *testing.T) {
	p := New(fakeAuth(t).URL, "anon", nil)

	sess, err := p.Login(context.Background(), domain.LoginInput{Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, "tok-1", sess.AccessToken)
	assert.False(t, sess.ExpiresAt.IsZero())
	assert.Equal(t, "ana@example.com", sess.User.Email)

	_, err = p.Login(context.Background(), domain.LoginInput{Email: "ana@example.com", Password: "nope"})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
	assert.Contains(t, err.Error(), "Invalid login credentials")
}

func TestResolveToken(t *testing.T) {
	p := New(fakeAuth(t).URL, "anon", nil)

	u, err := p.ResolveToken(context.Background(), "tok-1")
	require.NoError(t, err)
	assert.Equal(t, "u-1", u.ID)
	assert.Equal(t, "Ana", u.Name)

	_, err = p.ResolveToken(context.Background(), "expired")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestResolveTokenNetworkError(t *testing.T) {
	p := New("http://localhost:99999", "anon", nil)

	_, err := p.ResolveToken(context.Background(), "tok-1")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestUpdateProfileAndLogout(t *testing.T) {
	p := New(fakeAuth(t).URL, "anon", nil)
	ctx := context.Background()

	u, err := p.UpdateProfile(ctx, "tok-1", domain.ProfileInput{Name: "Ana Paula"})
	require.NoError(t, err)
	assert.Equal(t, "Ana Paula", u.Name)

	_, err = p.UpdateProfile(ctx, "bad", domain.ProfileInput{Name: "x"})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	assert.NoError(t, p.Logout(ctx, "tok-1"))
}
