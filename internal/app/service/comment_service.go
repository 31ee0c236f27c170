package service

import (
	"context"
	"fmt"

	"memeshare/internal/common"
	"memeshare/internal/domain/model"
	"memeshare/internal/domain/repository"
)

type CommentService struct {
	store *repository.Store
}

func NewCommentService(store *repository.Store) *CommentService {
	return &CommentService{store: store}
}

func (s *CommentService) GetAll(ctx context.Context) ([]model.Comment, error) {
	return s.store.Comments.FindAll(ctx)
}

func (s *CommentService) GetByID(ctx context.Context, id int64) (*model.Comment, error) {
	return getOne(ctx, s.store.Comments, "comment", repository.Eq("id", id))
}

func (s *CommentService) GetByMemeID(ctx context.Context, memeID int64) ([]model.Comment, error) {
	if err := requireID("meme_id", memeID); err != nil {
		return nil, err
	}
	return s.store.Comments.FindByCondition(ctx, repository.Eq("meme_id", memeID))
}

func (s *CommentService) GetByUserID(ctx context.Context, userID int64) ([]model.Comment, error) {
	if err := requireID("user_id", userID); err != nil {
		return nil, err
	}
	return s.store.Comments.FindByCondition(ctx, repository.Eq("user_id", userID))
}

// GetReplies returns the direct replies of a comment.
func (s *CommentService) GetReplies(ctx context.Context, parentID int64) ([]model.Comment, error) {
	if err := requireID("parent_comment_id", parentID); err != nil {
		return nil, err
	}
	return s.store.Comments.FindByCondition(ctx, repository.Eq("parent_comment_id", parentID))
}

func (s *CommentService) CountByMeme(ctx context.Context, memeID int64) (int, error) {
	comments, err := s.GetByMemeID(ctx, memeID)
	if err != nil {
		return 0, err
	}
	return len(comments), nil
}

// GetThread returns the comments of a meme as a forest. Replies whose parent
// is not on the same meme are treated as roots, as is the first comment of
// any stored parent loop.
func (s *CommentService) GetThread(ctx context.Context, memeID int64) ([]model.CommentNode, error) {
	comments, err := s.GetByMemeID(ctx, memeID)
	if err != nil {
		return nil, err
	}
	present := make(map[int64]bool, len(comments))
	for _, c := range comments {
		present[c.ID] = true
	}
	children := make(map[int64][]model.Comment)
	var roots []model.Comment
	for _, c := range comments {
		if c.ParentCommentID != nil && present[*c.ParentCommentID] && *c.ParentCommentID != c.ID {
			children[*c.ParentCommentID] = append(children[*c.ParentCommentID], c)
			continue
		}
		roots = append(roots, c)
	}

	visited := make(map[int64]bool, len(comments))
	var build func(c model.Comment) model.CommentNode
	build = func(c model.Comment) model.CommentNode {
		visited[c.ID] = true
		node := model.CommentNode{Comment: c, Replies: []model.CommentNode{}}
		for _, child := range children[c.ID] {
			if visited[child.ID] {
				continue
			}
			node.Replies = append(node.Replies, build(child))
		}
		return node
	}

	thread := make([]model.CommentNode, 0, len(roots))
	for _, c := range roots {
		thread = append(thread, build(c))
	}
	for _, c := range comments {
		if !visited[c.ID] {
			thread = append(thread, build(c))
		}
	}
	return thread, nil
}

func (s *CommentService) Create(ctx context.Context, c *model.Comment) error {
	if err := validateModel(c, "comment"); err != nil {
		return err
	}
	if err := s.checkRefs(ctx, c); err != nil {
		return err
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now()
	}
	s.store.Comments.Create(c)
	return s.store.Save(ctx)
}

// Update replaces a comment and marks it edited.
func (s *CommentService) Update(ctx context.Context, c *model.Comment) error {
	if err := validateModel(c, "comment"); err != nil {
		return err
	}
	if err := requireID("id", c.ID); err != nil {
		return err
	}
	if c.ParentCommentID != nil && *c.ParentCommentID == c.ID {
		return common.InvalidField("parent_comment_id", "a comment cannot reply to itself")
	}
	existing, err := mustExist(ctx, s.store.Comments, "comment", repository.Eq("id", c.ID))
	if err != nil {
		return err
	}
	if err := s.checkRefs(ctx, c); err != nil {
		return err
	}
	if c.ParentCommentID != nil {
		if err := s.rejectLoop(ctx, c.ID, *c.ParentCommentID); err != nil {
			return err
		}
	}
	edited := now()
	c.IsEdited = true
	c.EditedAt = &edited
	c.CreatedAt = existing.CreatedAt
	s.store.Comments.Update(c)
	return s.store.Save(ctx)
}

func (s *CommentService) EditText(ctx context.Context, id int64, text string) (*model.Comment, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	if err := requireText("comment_text", text); err != nil {
		return nil, err
	}
	c, err := getOne(ctx, s.store.Comments, "comment", repository.Eq("id", id))
	if err != nil {
		return nil, err
	}
	edited := now()
	c.CommentText = text
	c.IsEdited = true
	c.EditedAt = &edited
	s.store.Comments.Update(c)
	if err := s.store.Save(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes a comment that has no replies.
func (s *CommentService) Delete(ctx context.Context, id int64) error {
	if err := requireID("id", id); err != nil {
		return err
	}
	existing, err := mustExist(ctx, s.store.Comments, "comment", repository.Eq("id", id))
	if err != nil {
		return err
	}
	replies, err := exists(ctx, s.store.Comments, repository.Eq("parent_comment_id", id))
	if err != nil {
		return err
	}
	if replies {
		return fmt.Errorf("comment %d has replies: %w", id, common.ErrConflict)
	}
	s.store.Comments.Delete(existing)
	return s.store.Save(ctx)
}

func (s *CommentService) checkRefs(ctx context.Context, c *model.Comment) error {
	if err := requireRef(ctx, s.store.Memes, "meme", c.MemeID); err != nil {
		return err
	}
	if err := requireRef(ctx, s.store.Users, "user", c.UserID); err != nil {
		return err
	}
	if c.ParentCommentID == nil {
		return nil
	}
	parents, err := s.store.Comments.FindByCondition(ctx, repository.Eq("id", *c.ParentCommentID))
	if err != nil {
		return err
	}
	if len(parents) == 0 {
		return fmt.Errorf("parent comment not found: %w", common.ErrConflict)
	}
	if parents[0].MemeID != c.MemeID {
		return common.InvalidField("parent_comment_id", "parent comment belongs to another meme")
	}
	return nil
}

// rejectLoop walks up from parentID and fails if the chain reaches id.
func (s *CommentService) rejectLoop(ctx context.Context, id, parentID int64) error {
	seen := make(map[int64]bool)
	for cur := parentID; !seen[cur]; {
		if cur == id {
			return common.InvalidField("parent_comment_id", "a comment cannot reply to its own reply")
		}
		seen[cur] = true
		p, err := getOne(ctx, s.store.Comments, "parent comment", repository.Eq("id", cur))
		if err != nil {
			return err
		}
		if p.ParentCommentID == nil {
			return nil
		}
		cur = *p.ParentCommentID
	}
	return nil
}
