package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/geohome/geohome/internal/domain"
)

func TestTemplateStoreCRUD(t *testing.T) {
	d := openTestDB(t)
	store := NewTemplateStore(d)
	ctx := context.Background()

	tpl, err := store.Create(ctx, &domain.Template{
		UserID: "alice", Name: "House", Description: "Two floors",
		Sections: []domain.TemplateSection{{Name: "Ground floor", Items: []string{"Kitchen", "Living"}}, {Name: "Roof"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Kitchen", "Living"}, tpl.Sections[0].Items)
	assert.Equal(t, []string{}, tpl.Sections[1].Items)

	got, err := store.GetOwned(ctx, tpl.ID, "bob")
	require.NoError(t, err)
	assert.Nil(t, got)

	tpl.Name = "Townhouse"
	updated, err := store.Update(ctx, tpl)
	require.NoError(t, err)
	assert.Equal(t, "Townhouse", updated.Name)

	list, err := store.ListByUser(ctx, "alice")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	assert.ErrorIs(t, store.Delete(ctx, tpl.ID, "bob"), domain.ErrNotFound)
	require.NoError(t, store.Delete(ctx, tpl.ID, "alice"))
}

func TestUserStore(t *testing.T) {
	d := openTestDB(t)
	store := NewUserStore(d)
	ctx := context.Background()

	u, err := store.Create(ctx, "Ana@Example.com", "Ana", "hash")
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", u.Email)

	_, err = store.Create(ctx, "ana@example.com", "Other", "hash")
	assert.ErrorIs(t, err, domain.ErrConflict)

	byEmail, err := store.GetByEmail(ctx, "ANA@example.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, u.ID, byEmail.ID)
	assert.Equal(t, "hash", byEmail.PasswordHash)

	renamed, err := store.UpdateName(ctx, u.ID, "Ana Maria")
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", renamed.Name)

	missing, err := store.GetByID(ctx, "nope")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRevokedTokenStore(t *testing.T) {
	d := openTestDB(t)
	store := NewRevokedTokenStore(d)
	ctx := context.Background()

	revoked, err := store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, store.Revoke(ctx, "jti-1", time.Now().Add(-time.Hour)))
	require.NoError(t, store.Revoke(ctx, "jti-1", time.Now().Add(-time.Hour)))
	require.NoError(t, store.Revoke(ctx, "jti-2", time.Now().Add(time.Hour)))

	revoked, err = store.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	n, err := store.PurgeExpired(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	revoked, err = store.IsRevoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.True(t, revoked)
}
