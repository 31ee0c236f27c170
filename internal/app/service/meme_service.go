package service

import (
	"context"

	"memeshare/internal/domain/model"
	"memeshare/internal/domain/repository"
)

type MemeService struct {
	store *repository.Store
}

func NewMemeService(store *repository.Store) *MemeService {
	return &MemeService{store: store}
}

func (s *MemeService) GetAll(ctx context.Context) ([]model.Meme, error) {
	return s.store.Memes.FindAll(ctx)
}

func (s *MemeService) GetByID(ctx context.Context, id int64) (*model.Meme, error) {
	return getOne(ctx, s.store.Memes, "meme", repository.Eq("id", id))
}

func (s *MemeService) GetByUserID(ctx context.Context, userID int64) ([]model.Meme, error) {
	if err := requireID("user_id", userID); err != nil {
		return nil, err
	}
	return s.store.Memes.FindByCondition(ctx, repository.Eq("user_id", userID))
}

func (s *MemeService) GetPublic(ctx context.Context) ([]model.Meme, error) {
	return s.store.Memes.FindByCondition(ctx, repository.Eq("is_public", true))
}

func (s *MemeService) CountByUser(ctx context.Context, userID int64) (int, error) {
	memes, err := s.GetByUserID(ctx, userID)
	if err != nil {
		return 0, err
	}
	return len(memes), nil
}

func (s *MemeService) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, s.store.Memes, repository.Eq("id", id))
}

// Create stores a new meme. An unset visibility flag becomes private.
func (s *MemeService) Create(ctx context.Context, meme *model.Meme) error {
	if err := validateModel(meme, "meme"); err != nil {
		return err
	}
	if err := requireRef(ctx, s.store.Users, "user", meme.UserID); err != nil {
		return err
	}
	if meme.IsPublic == nil {
		meme.IsPublic = boolPtr(false)
	}
	if meme.CreatedAt.IsZero() {
		meme.CreatedAt = now()
	}
	s.store.Memes.Create(meme)
	return s.store.Save(ctx)
}

func (s *MemeService) Update(ctx context.Context, meme *model.Meme) error {
	if err := validateModel(meme, "meme"); err != nil {
		return err
	}
	if err := requireID("id", meme.ID); err != nil {
		return err
	}
	existing, err := mustExist(ctx, s.store.Memes, "meme", repository.Eq("id", meme.ID))
	if err != nil {
		return err
	}
	if err := requireRef(ctx, s.store.Users, "user", meme.UserID); err != nil {
		return err
	}
	if meme.IsPublic == nil {
		meme.IsPublic = existing.IsPublic
	}
	meme.CreatedAt = existing.CreatedAt
	s.store.Memes.Update(meme)
	return s.store.Save(ctx)
}

func (s *MemeService) SetVisibility(ctx context.Context, id int64, public bool) (*model.Meme, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	meme, err := getOne(ctx, s.store.Memes, "meme", repository.Eq("id", id))
	if err != nil {
		return nil, err
	}
	meme.IsPublic = boolPtr(public)
	s.store.Memes.Update(meme)
	if err := s.store.Save(ctx); err != nil {
		return nil, err
	}
	return meme, nil
}

func (s *MemeService) Delete(ctx context.Context, id int64) error {
	if err := requireID("id", id); err != nil {
		return err
	}
	existing, err := mustExist(ctx, s.store.Memes, "meme", repository.Eq("id", id))
	if err != nil {
		return err
	}
	s.store.Memes.Delete(existing)
	return s.store.Save(ctx)
}
