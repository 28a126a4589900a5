package local

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/geohome/geohome/internal/db"
	"github.com/geohome/geohome/internal/domain"
	"github.com/geohome/geohome/internal/store"
)

func newProvider(t *testing.T) *Provider {
	t.Helper()
	d, err := db.OpenForTesting()
	require.NoError(t, err)
	t.Cleanup(func() { _ = d.Close() })

	return New(store.NewUserStore(d), store.NewRevokedTokenStore(d), "test-secret", time.Hour).
		WithHashCost(bcrypt.MinCost)
}

func TestRegisterLoginResolve(t *testing.T) {
	p := newProvider(t)
	ctx := context.Background()

	sess, err := p.Register(ctx, domain.RegisterInput{Email: "ana@example.com", Password: "secret1", Name: "Ana"})
	require.NoError(t, err)
	assert.NotEmpty(t, sess.AccessToken)
	assert.Equal(t, "Ana", sess.User.Name)

	sess, err = p.Login(ctx, domain.LoginInput{Email: "ana@example.com", Password: "secret1"})
	require.NoError(t, err)

	u, err := p.ResolveToken(ctx, sess.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", u.Email)
}

func TestRegisterDuplicate(t *testing.T) {
	p := newProvider(t)
	ctx := context.Background()

	_, err := p.Register(ctx, domain.RegisterInput{Email: "ana@example.com", Password: "secret1", Name: "Ana"})
	require.NoError(t, err)
	_, err = p.Register(ctx, domain.RegisterInput{Email: "ana@example.com", Password: "secret2", Name: "Ana"})
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestLoginWrongPassword(t *testing.T) {
	p := newProvider(t)
	ctx := context.Background()

	_, err := p.Register(ctx, domain.RegisterInput{Email: "ana@example.com", Password: "secret1", Name: "Ana"})
	require.NoError(t, err)

	_, err = p.Login(ctx, domain.LoginInput{Email: "ana@example.com", Password: "wrong!"})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = p.Login(ctx, domain.LoginInput{Email: "nobody@example.com", Password: "secret1"})
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestLogoutRevokesToken(t *testing.T) {
	p := newProvider(t)
	ctx := context.Background()

	sess, err := p.Register(ctx, domain.RegisterInput{Email: "ana@example.com", Password: "secret1", Name: "Ana"})
	require.NoError(t, err)

	require.NoError(t, p.Logout(ctx, sess.AccessToken))

	_, err = p.ResolveToken(ctx, sess.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestResolveRejectsBadTokens(t *testing.T) {
	p := newProvider(t)
	ctx := context.Background()

	sess, err := p.Register(ctx, domain.RegisterInput{Email: "ana@example.com", Password: "secret1", Name: "Ana"})
	require.NoError(t, err)

	_, err = p.ResolveToken(ctx, "garbage")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	other := New(p.users, p.revoked, "another-secret", time.Hour)
	_, err = other.ResolveToken(ctx, sess.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	p.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = p.ResolveToken(ctx, sess.AccessToken)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestResolveRejectsNoneAlgorithm(t *testing.T) {
	p := newProvider(t)

	token := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{ID: "x", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		UserID:           "someone",
	})
	signed, err := token.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = p.ResolveToken(context.Background(), signed)
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestUpdateProfile(t *testing.T) {
	p := newProvider(t)
	ctx := context.Background()

	sess, err := p.Register(ctx, domain.RegisterInput{Email: "ana@example.com", Password: "secret1", Name: "Ana"})
	require.NoError(t, err)

	u, err := p.UpdateProfile(ctx, sess.AccessToken, domain.ProfileInput{Name: "Ana Paula"})
	require.NoError(t, err)
	assert.Equal(t, "Ana Paula", u.Name)

	resolved, err := p.ResolveToken(ctx, sess.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "Ana Paula", resolved.Name)
}
