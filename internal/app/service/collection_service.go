package service

import (
	"context"
	"fmt"

	"github.com/gosimple/slug"

	"memeshare/internal/common"
	"memeshare/internal/domain/model"
	"memeshare/internal/domain/repository"
)

// CollectionService manages user-owned meme collections. A user's
// collection names are unique; the slug follows the name.
type CollectionService struct {
	store *repository.Store
}

func NewCollectionService(store *repository.Store) *CollectionService {
	return &CollectionService{store: store}
}

func (s *CollectionService) GetAll(ctx context.Context) ([]model.Collection, error) {
	return s.store.Collections.FindAll(ctx)
}

func (s *CollectionService) GetByID(ctx context.Context, id int64) (*model.Collection, error) {
	return getOne(ctx, s.store.Collections, "collection", repository.Eq("id", id))
}

func (s *CollectionService) GetByUserID(ctx context.Context, userID int64) ([]model.Collection, error) {
	if err := requireID("user_id", userID); err != nil {
		return nil, err
	}
	return s.store.Collections.FindByCondition(ctx, repository.Eq("user_id", userID))
}

// GetByUserAndSlug returns the first of the user's collections with the slug.
// Distinct names can share a slug, so this is not a unique lookup.
func (s *CollectionService) GetByUserAndSlug(ctx context.Context, userID int64, sl string) (*model.Collection, error) {
	if err := requireID("user_id", userID); err != nil {
		return nil, err
	}
	if err := requireText("slug", sl); err != nil {
		return nil, err
	}
	rows, err := s.store.Collections.FindByCondition(ctx, repository.Eq("user_id", userID), repository.Eq("slug", sl))
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("collection not found: %w", common.ErrNotFound)
	}
	return &rows[0], nil
}

func (s *CollectionService) Create(ctx context.Context, c *model.Collection) error {
	if err := validateModel(c, "collection"); err != nil {
		return err
	}
	if err := requireRef(ctx, s.store.Users, "user", c.UserID); err != nil {
		return err
	}
	if err := s.rejectTakenName(ctx, c.UserID, c.Name, 0); err != nil {
		return err
	}
	if c.IsPublic == nil {
		c.IsPublic = boolPtr(false)
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now()
	}
	c.Slug = slug.Make(c.Name)
	s.store.Collections.Create(c)
	return s.store.Save(ctx)
}

func (s *CollectionService) Update(ctx context.Context, c *model.Collection) error {
	if err := validateModel(c, "collection"); err != nil {
		return err
	}
	if err := requireID("id", c.ID); err != nil {
		return err
	}
	existing, err := mustExist(ctx, s.store.Collections, "collection", repository.Eq("id", c.ID))
	if err != nil {
		return err
	}
	if err := requireRef(ctx, s.store.Users, "user", c.UserID); err != nil {
		return err
	}
	if err := s.rejectTakenName(ctx, c.UserID, c.Name, c.ID); err != nil {
		return err
	}
	if c.IsPublic == nil {
		c.IsPublic = existing.IsPublic
	}
	c.CreatedAt = existing.CreatedAt
	c.Slug = slug.Make(c.Name)
	s.store.Collections.Update(c)
	return s.store.Save(ctx)
}

func (s *CollectionService) Rename(ctx context.Context, id int64, name string) (*model.Collection, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	if err := requireText("name", name); err != nil {
		return nil, err
	}
	c, err := getOne(ctx, s.store.Collections, "collection", repository.Eq("id", id))
	if err != nil {
		return nil, err
	}
	if err := s.rejectTakenName(ctx, c.UserID, name, c.ID); err != nil {
		return nil, err
	}
	c.Name = name
	c.Slug = slug.Make(name)
	s.store.Collections.Update(c)
	if err := s.store.Save(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

func (s *CollectionService) SetVisibility(ctx context.Context, id int64, public bool) (*model.Collection, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	c, err := getOne(ctx, s.store.Collections, "collection", repository.Eq("id", id))
	if err != nil {
		return nil, err
	}
	c.IsPublic = boolPtr(public)
	s.store.Collections.Update(c)
	if err := s.store.Save(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes an empty collection.
func (s *CollectionService) Delete(ctx context.Context, id int64) error {
	if err := requireID("id", id); err != nil {
		return err
	}
	existing, err := mustExist(ctx, s.store.Collections, "collection", repository.Eq("id", id))
	if err != nil {
		return err
	}
	nonEmpty, err := exists(ctx, s.store.CollectionMemes, repository.Eq("collection_id", id))
	if err != nil {
		return err
	}
	if nonEmpty {
		return fmt.Errorf("collection %d still holds memes: %w", id, common.ErrConflict)
	}
	s.store.Collections.Delete(existing)
	return s.store.Save(ctx)
}

// rejectTakenName fails when the user already has a collection called name.
// A non-zero self is excluded from the check.
func (s *CollectionService) rejectTakenName(ctx context.Context, userID int64, name string, self int64) error {
	conds := []repository.Condition{repository.Eq("user_id", userID), repository.Eq("name", name)}
	if self != 0 {
		conds = append(conds, repository.Ne("id", self))
	}
	return rejectDuplicate(ctx, s.store.Collections, "collection "+name, conds...)
}
