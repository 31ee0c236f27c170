package service

import (
	"context"

	"memeshare/internal/domain/model"
	"memeshare/internal/domain/repository"
)

type RoleService struct {
	store *repository.Store
}

func NewRoleService(store *repository.Store) *RoleService {
	return &RoleService{store: store}
}

func (s *RoleService) GetAll(ctx context.Context) ([]model.Role, error) {
	return s.store.Roles.FindAll(ctx)
}

func (s *RoleService) GetByID(ctx context.Context, id int64) (*model.Role, error) {
	return getOne(ctx, s.store.Roles, "role", repository.Eq("id", id))
}

func (s *RoleService) GetByName(ctx context.Context, name string) (*model.Role, error) {
	if err := requireText("role_name", name); err != nil {
		return nil, err
	}
	return getOne(ctx, s.store.Roles, "role", repository.Eq("role_name", name))
}

func (s *RoleService) Create(ctx context.Context, role *model.Role) error {
	if err := validateModel(role, "role"); err != nil {
		return err
	}
	s.store.Roles.Create(role)
	return s.store.Save(ctx)
}

func (s *RoleService) Update(ctx context.Context, role *model.Role) error {
	if err := validateModel(role, "role"); err != nil {
		return err
	}
	if err := requireID("id", role.ID); err != nil {
		return err
	}
	if _, err := mustExist(ctx, s.store.Roles, "role", repository.Eq("id", role.ID)); err != nil {
		return err
	}
	s.store.Roles.Update(role)
	return s.store.Save(ctx)
}

func (s *RoleService) Delete(ctx context.Context, id int64) error {
	if err := requireID("id", id); err != nil {
		return err
	}
	existing, err := mustExist(ctx, s.store.Roles, "role", repository.Eq("id", id))
	if err != nil {
		return err
	}
	s.store.Roles.Delete(existing)
	return s.store.Save(ctx)
}
