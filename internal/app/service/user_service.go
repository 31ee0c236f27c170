package service

import (
	"context"

	"memeshare/internal/domain/model"
	"memeshare/internal/domain/repository"
)

// UserService manages user accounts. Username and email uniqueness is left
// to the storage layer.
type UserService struct {
	store *repository.Store
}

func NewUserService(store *repository.Store) *UserService {
	return &UserService{store: store}
}

func (s *UserService) GetAll(ctx context.Context) ([]model.User, error) {
	return s.store.Users.FindAll(ctx)
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*model.User, error) {
	return getOne(ctx, s.store.Users, "user", repository.Eq("id", id))
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*model.User, error) {
	if err := requireText("username", username); err != nil {
		return nil, err
	}
	return getOne(ctx, s.store.Users, "user", repository.Eq("username", username))
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if err := requireText("email", email); err != nil {
		return nil, err
	}
	return getOne(ctx, s.store.Users, "user", repository.Eq("email", email))
}

func (s *UserService) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, s.store.Users, repository.Eq("id", id))
}

func (s *UserService) Create(ctx context.Context, user *model.User) error {
	if err := validateModel(user, "user"); err != nil {
		return err
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now()
	}
	s.store.Users.Create(user)
	return s.store.Save(ctx)
}

func (s *UserService) Update(ctx context.Context, user *model.User) error {
	if err := validateModel(user, "user"); err != nil {
		return err
	}
	if err := requireID("id", user.ID); err != nil {
		return err
	}
	existing, err := mustExist(ctx, s.store.Users, "user", repository.Eq("id", user.ID))
	if err != nil {
		return err
	}
	user.CreatedAt = existing.CreatedAt
	s.store.Users.Update(user)
	return s.store.Save(ctx)
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := requireID("id", id); err != nil {
		return err
	}
	existing, err := mustExist(ctx, s.store.Users, "user", repository.Eq("id", id))
	if err != nil {
		return err
	}
	s.store.Users.Delete(existing)
	return s.store.Save(ctx)
}
