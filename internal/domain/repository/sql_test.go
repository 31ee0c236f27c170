package repository

import (
	"context"
	"errors"
	"testing"

	"memeshare/internal/domain/model"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherEqual))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewSQLStore(sqlx.NewDb(db, "pgx")), mock
}

func TestSQLGatewayFindByConditionBuildsWhereClause(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT id, user_id, name, slug, description, is_public, created_at FROM collections WHERE user_id = $1 AND name = $2 AND id <> $3 ORDER BY id").
		WithArgs(int64(1), "Favs", int64(4)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "name", "slug", "description", "is_public", "created_at"}))

	rows, err := store.Collections.FindByCondition(context.Background(), Eq("user_id", int64(1)), Eq("name", "Favs"), Ne("id", int64(4)))
	require.NoError(t, err)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLGatewayFindByConditionIsNull(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT id, meme_id, user_id, comment_text, parent_comment_id, is_edited, edited_at, created_at FROM comments WHERE meme_id = $1 AND parent_comment_id IS NULL ORDER BY id").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "meme_id", "user_id", "comment_text", "parent_comment_id", "is_edited", "edited_at", "created_at"}))

	_, err := store.Comments.FindByCondition(context.Background(), Eq("meme_id", int64(3)), IsNull("parent_comment_id"))
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSQLGatewayFindAllScansRows(t *testing.T) {
	store, mock := newMockStore(t)

	mock.ExpectQuery("SELECT id, tag_name FROM tags ORDER BY id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "tag_name"}).AddRow(1, "cats").AddRow(2, "dogs"))

	tags, err := store.Tags.FindAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.Tag{{ID: 1, TagName: "cats"}, {ID: 2, TagName: "dogs"}}, tags)
}

func TestSaveInsertsWithReturningKey(t *testing.T) {
	store, mock := newMockStore(t)

	tag := &model.Tag{TagName: "funny"}
	store.Tags.Create(tag)
	assert.Equal(t, 1, store.Pending())

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO tags (tag_name) VALUES ($1) RETURNING id").
		WithArgs("funny").
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(7))
	mock.ExpectCommit()

	require.NoError(t, store.Save(context.Background()))
	assert.Equal(t, int64(7), tag.ID)
	assert.Zero(t, store.Pending())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveInsertsNaturalKeyWithoutReturning(t *testing.T) {
	store, mock := newMockStore(t)

	store.MemeMetadata.Create(&model.MemeMetadatum{MemeID: 5, FileSize: 10, Width: 2, Height: 3, Format: "png", MimeType: "image/png"})

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO meme_metadata (meme_id, file_size, width, height, format, mime_type) VALUES ($1, $2, $3, $4, $5, $6)").
		WithArgs(int64(5), int64(10), 2, 3, "png", "image/png").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, store.Save(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveRunsStagedChangesInOneTransaction(t *testing.T) {
	store, mock := newMockStore(t)

	store.Tags.Update(&model.Tag{ID: 3, TagName: "renamed"})
	store.Comments.Delete(&model.Comment{ID: 9})

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE tags SET tag_name = $1 WHERE id = $2").
		WithArgs("renamed", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM comments WHERE id = $1").
		WithArgs(int64(9)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, store.Save(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveRollsBackAndReturnsStoreError(t *testing.T) {
	store, mock := newMockStore(t)
	storeErr := errors.New("duplicate key value violates unique constraint")

	store.Tags.Update(&model.Tag{ID: 3, TagName: "dup"})

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE tags SET tag_name = $1 WHERE id = $2").
		WithArgs("dup", int64(3)).
		WillReturnError(storeErr)
	mock.ExpectRollback()

	err := store.Save(context.Background())
	assert.Same(t, storeErr, err)
	assert.Equal(t, 1, store.Pending())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSaveWithoutChangesIsNoop(t *testing.T) {
	store, mock := newMockStore(t)

	require.NoError(t, store.Save(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
