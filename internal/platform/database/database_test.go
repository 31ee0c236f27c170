package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memeshare/internal/common"
	"memeshare/internal/domain/model"
	"memeshare/internal/domain/repository"
	"memeshare/internal/platform/config"
)

func openSQLite(t *testing.T) *repository.Store {
	t.Helper()
	ctx := context.Background()
	cfg := &config.Config{DBDriver: config.DriverSQLite, SQLitePath: filepath.Join(t.TempDir(), "test.db")}
	db, err := Open(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, EnsureSchema(ctx, db))
	// a second run must be harmless
	require.NoError(t, EnsureSchema(ctx, db))
	return repository.NewSQLStore(db)
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := openSQLite(t)

	user := &model.User{Username: "alice", Email: "a@x.com", PasswordHash: "h"}
	store.Users.Create(user)
	require.NoError(t, store.Save(ctx))
	require.NotZero(t, user.ID)

	public := true
	meme := &model.Meme{UserID: user.ID, Title: "t", ImageURL: "u", IsPublic: &public}
	store.Memes.Create(meme)
	store.MemeMetadata.Create(&model.MemeMetadatum{MemeID: 0, FileSize: 1, Width: 1, Height: 1, Format: "png", MimeType: "image/png"})
	// the metadata row above names meme 0, which does not exist
	err := store.Save(ctx)
	require.Error(t, err)
	assert.True(t, common.IsStorageConstraintViolation(err), "%v", err)
	assert.Equal(t, 2, store.Pending())
}

func TestSQLiteStoreQueriesAndConstraints(t *testing.T) {
	ctx := context.Background()
	store := openSQLite(t)

	user := &model.User{Username: "alice", Email: "a@x.com", PasswordHash: "h"}
	store.Users.Create(user)
	require.NoError(t, store.Save(ctx))

	public := true
	meme := &model.Meme{UserID: user.ID, Title: "t", ImageURL: "u", IsPublic: &public}
	store.Memes.Create(meme)
	require.NoError(t, store.Save(ctx))

	found, err := store.Memes.FindByCondition(ctx, repository.Eq("is_public", true), repository.Eq("user_id", user.ID))
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, meme.ID, found[0].ID)
	require.NotNil(t, found[0].IsPublic)
	assert.True(t, *found[0].IsPublic)

	roots, err := store.Comments.FindByCondition(ctx, repository.IsNull("parent_comment_id"))
	require.NoError(t, err)
	assert.Empty(t, roots)

	store.Users.Create(&model.User{Username: "bob", Email: "a@x.com", PasswordHash: "h"})
	err = store.Save(ctx)
	require.Error(t, err)
	assert.True(t, common.IsStorageConstraintViolation(err), "%v", err)
}
