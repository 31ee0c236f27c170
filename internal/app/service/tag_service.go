package service

import (
	"context"

	"memeshare/internal/domain/model"
	"memeshare/internal/domain/repository"
)

type TagService struct {
	store *repository.Store
}

func NewTagService(store *repository.Store) *TagService {
	return &TagService{store: store}
}

func (s *TagService) GetAll(ctx context.Context) ([]model.Tag, error) {
	return s.store.Tags.FindAll(ctx)
}

func (s *TagService) GetByID(ctx context.Context, id int64) (*model.Tag, error) {
	return getOne(ctx, s.store.Tags, "tag", repository.Eq("id", id))
}

func (s *TagService) GetByName(ctx context.Context, name string) (*model.Tag, error) {
	if err := requireText("tag_name", name); err != nil {
		return nil, err
	}
	return getOne(ctx, s.store.Tags, "tag", repository.Eq("tag_name", name))
}

func (s *TagService) Create(ctx context.Context, tag *model.Tag) error {
	if err := validateModel(tag, "tag"); err != nil {
		return err
	}
	s.store.Tags.Create(tag)
	return s.store.Save(ctx)
}

func (s *TagService) Update(ctx context.Context, tag *model.Tag) error {
	if err := validateModel(tag, "tag"); err != nil {
		return err
	}
	if err := requireID("id", tag.ID); err != nil {
		return err
	}
	if _, err := mustExist(ctx, s.store.Tags, "tag", repository.Eq("id", tag.ID)); err != nil {
		return err
	}
	s.store.Tags.Update(tag)
	return s.store.Save(ctx)
}

func (s *TagService) Rename(ctx context.Context, id int64, name string) (*model.Tag, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	if err := requireText("tag_name", name); err != nil {
		return nil, err
	}
	tag, err := getOne(ctx, s.store.Tags, "tag", repository.Eq("id", id))
	if err != nil {
		return nil, err
	}
	tag.TagName = name
	s.store.Tags.Update(tag)
	if err := s.store.Save(ctx); err != nil {
		return nil, err
	}
	return tag, nil
}

func (s *TagService) Delete(ctx context.Context, id int64) error {
	if err := requireID("id", id); err != nil {
		return err
	}
	existing, err := mustExist(ctx, s.store.Tags, "tag", repository.Eq("id", id))
	if err != nil {
		return err
	}
	s.store.Tags.Delete(existing)
	return s.store.Save(ctx)
}
