package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"memeshare/internal/common"
	"memeshare/internal/domain/model"
)

func TestCommentThreadIsRebuiltFromParentIDs(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.user(t, "alice")
	m := f.meme(t, u.ID)
	other := f.meme(t, u.ID)

	root := &model.Comment{MemeID: m.ID, UserID: u.ID, CommentText: "root"}
	require.NoError(t, f.svc.Comments.Create(ctx, root))
	child := &model.Comment{MemeID: m.ID, UserID: u.ID, CommentText: "child", ParentCommentID: &root.ID}
	require.NoError(t, f.svc.Comments.Create(ctx, child))
	grandchild := &model.Comment{MemeID: m.ID, UserID: u.ID, CommentText: "grandchild", ParentCommentID: &child.ID}
	require.NoError(t, f.svc.Comments.Create(ctx, grandchild))
	second := &model.Comment{MemeID: m.ID, UserID: u.ID, CommentText: "second"}
	require.NoError(t, f.svc.Comments.Create(ctx, second))
	stray := &model.Comment{MemeID: other.ID, UserID: u.ID, CommentText: "stray", ParentCommentID: &root.ID}
	assert.ErrorIs(t, f.svc.Comments.Create(ctx, stray), common.ErrInvalidArgument)

	thread, err := f.svc.Comments.GetThread(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, thread, 2)
	assert.Equal(t, "root", thread[0].CommentText)
	require.Len(t, thread[0].Replies, 1)
	assert.Equal(t, "child", thread[0].Replies[0].CommentText)
	require.Len(t, thread[0].Replies[0].Replies, 1)
	assert.Equal(t, "grandchild", thread[0].Replies[0].Replies[0].CommentText)
	assert.Equal(t, "second", thread[1].CommentText)
	assert.Empty(t, thread[1].Replies)

	strayThread, err := f.svc.Comments.GetThread(ctx, other.ID)
	require.NoError(t, err)
	assert.Empty(t, strayThread)

	replies, err := f.svc.Comments.GetReplies(ctx, root.ID)
	require.NoError(t, err)
	assert.Len(t, replies, 1)

	n, err := f.svc.Comments.CountByMeme(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

func TestEditTextMarksCommentEdited(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.user(t, "alice")
	m := f.meme(t, u.ID)

	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	restore := now
	now = func() time.Time { return fixed }
	t.Cleanup(func() { now = restore })

	c := &model.Comment{MemeID: m.ID, UserID: u.ID, CommentText: "frist"}
	require.NoError(t, f.svc.Comments.Create(ctx, c))
	assert.False(t, c.IsEdited)

	_, err := f.svc.Comments.EditText(ctx, c.ID, "   ")
	assert.ErrorIs(t, err, common.ErrInvalidArgument)

	edited, err := f.svc.Comments.EditText(ctx, c.ID, "first")
	require.NoError(t, err)
	assert.True(t, edited.IsEdited)
	require.NotNil(t, edited.EditedAt)
	assert.Equal(t, fixed, *edited.EditedAt)

	stored, err := f.svc.Comments.GetByID(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "first", stored.CommentText)
	assert.True(t, stored.IsEdited)

	_, err = f.svc.Comments.EditText(ctx, 999, "x")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestCommentCannotReplyToItself(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.user(t, "alice")
	m := f.meme(t, u.ID)

	c := &model.Comment{MemeID: m.ID, UserID: u.ID, CommentText: "hi"}
	require.NoError(t, f.svc.Comments.Create(ctx, c))

	update := *c
	update.ParentCommentID = &update.ID
	assert.ErrorIs(t, f.svc.Comments.Update(ctx, &update), common.ErrInvalidArgument)
}

func TestCommentUpdateRejectsReplyLoops(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.user(t, "alice")
	m := f.meme(t, u.ID)
	other := f.meme(t, u.ID)

	a := &model.Comment{MemeID: m.ID, UserID: u.ID, CommentText: "a"}
	require.NoError(t, f.svc.Comments.Create(ctx, a))
	b := &model.Comment{MemeID: m.ID, UserID: u.ID, CommentText: "b", ParentCommentID: &a.ID}
	require.NoError(t, f.svc.Comments.Create(ctx, b))
	c := &model.Comment{MemeID: m.ID, UserID: u.ID, CommentText: "c", ParentCommentID: &b.ID}
	require.NoError(t, f.svc.Comments.Create(ctx, c))
	elsewhere := &model.Comment{MemeID: other.ID, UserID: u.ID, CommentText: "elsewhere"}
	require.NoError(t, f.svc.Comments.Create(ctx, elsewhere))
	commits := f.db.Commits()

	for name, parent := range map[string]int64{"direct": b.ID, "grandchild": c.ID, "other meme": elsewhere.ID} {
		t.Run(name, func(t *testing.T) {
			svc := f.fresh()
			update := *a
			update.ParentCommentID = &parent
			err := svc.Comments.Update(ctx, &update)

			var verr *common.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, "parent_comment_id", verr.Field)
			assert.ErrorIs(t, err, common.ErrInvalidArgument)
			assert.Zero(t, f.store.Pending())
		})
	}
	assert.Equal(t, commits, f.db.Commits())

	thread, err := f.fresh().Comments.GetThread(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, thread, 1)
	assert.Equal(t, "a", thread[0].CommentText)

	// moving a leaf under another branch is still allowed
	d := &model.Comment{MemeID: m.ID, UserID: u.ID, CommentText: "d"}
	require.NoError(t, f.svc.Comments.Create(ctx, d))
	moved := *c
	moved.ParentCommentID = &d.ID
	require.NoError(t, f.svc.Comments.Update(ctx, &moved))
}

func TestThreadShowsCommentsCaughtInStoredLoop(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	u := f.user(t, "alice")
	m := f.meme(t, u.ID)

	a := &model.Comment{MemeID: m.ID, UserID: u.ID, CommentText: "a"}
	require.NoError(t, f.svc.Comments.Create(ctx, a))
	b := &model.Comment{MemeID: m.ID, UserID: u.ID, CommentText: "b", ParentCommentID: &a.ID}
	require.NoError(t, f.svc.Comments.Create(ctx, b))

	// written past the service, as a legacy row would be
	store := f.db.Store()
	looped := *a
	looped.ParentCommentID = &b.ID
	store.Comments.Update(&looped)
	require.NoError(t, store.Save(ctx))

	thread, err := f.fresh().Comments.GetThread(ctx, m.ID)
	require.NoError(t, err)
	require.Len(t, thread, 1)
	assert.Equal(t, "a", thread[0].CommentText)
	require.Len(t, thread[0].Replies, 1)
	assert.Equal(t, "b", thread[0].Replies[0].CommentText)
	assert.Empty(t, thread[0].Replies[0].Replies)
}
