package service

import (
	"context"
	"errors"

	"memeshare/internal/common"
	"memeshare/internal/domain/model"
	"memeshare/internal/domain/repository"
)

type UserRoleService struct {
	store *repository.Store
}

func NewUserRoleService(store *repository.Store) *UserRoleService {
	return &UserRoleService{store: store}
}

func (s *UserRoleService) GetAll(ctx context.Context) ([]model.UserRole, error) {
	return s.store.UserRoles.FindAll(ctx)
}

func (s *UserRoleService) GetByID(ctx context.Context, id int64) (*model.UserRole, error) {
	return getOne(ctx, s.store.UserRoles, "user role", repository.Eq("id", id))
}

func (s *UserRoleService) GetByUserID(ctx context.Context, userID int64) ([]model.UserRole, error) {
	if err := requireID("user_id", userID); err != nil {
		return nil, err
	}
	return s.store.UserRoles.FindByCondition(ctx, repository.Eq("user_id", userID))
}

func (s *UserRoleService) GetRoleIDsForUser(ctx context.Context, userID int64) ([]int64, error) {
	links, err := s.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	ids := make([]int64, 0, len(links))
	for _, l := range links {
		ids = append(ids, l.RoleID)
	}
	return ids, nil
}

// UserHasRole reports whether the user holds the role named roleName.
func (s *UserRoleService) UserHasRole(ctx context.Context, userID int64, roleName string) (bool, error) {
	if err := requireID("user_id", userID); err != nil {
		return false, err
	}
	if err := requireText("role_name", roleName); err != nil {
		return false, err
	}
	role, err := getOne(ctx, s.store.Roles, "role", repository.Eq("role_name", roleName))
	if errors.Is(err, common.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return exists(ctx, s.store.UserRoles, repository.Eq("user_id", userID), repository.Eq("role_id", role.ID))
}

func (s *UserRoleService) Create(ctx context.Context, ur *model.UserRole) error {
	if err := validateModel(ur, "user role"); err != nil {
		return err
	}
	if err := s.checkRefs(ctx, ur); err != nil {
		return err
	}
	if err := rejectDuplicate(ctx, s.store.UserRoles, "role assignment",
		repository.Eq("user_id", ur.UserID), repository.Eq("role_id", ur.RoleID)); err != nil {
		return err
	}
	s.store.UserRoles.Create(ur)
	return s.store.Save(ctx)
}

func (s *UserRoleService) Update(ctx context.Context, ur *model.UserRole) error {
	if err := validateModel(ur, "user role"); err != nil {
		return err
	}
	if err := requireID("id", ur.ID); err != nil {
		return err
	}
	if _, err := mustExist(ctx, s.store.UserRoles, "user role", repository.Eq("id", ur.ID)); err != nil {
		return err
	}
	if err := s.checkRefs(ctx, ur); err != nil {
		return err
	}
	if err := rejectDuplicate(ctx, s.store.UserRoles, "role assignment",
		repository.Eq("user_id", ur.UserID), repository.Eq("role_id", ur.RoleID), repository.Ne("id", ur.ID)); err != nil {
		return err
	}
	s.store.UserRoles.Update(ur)
	return s.store.Save(ctx)
}

func (s *UserRoleService) AssignRole(ctx context.Context, userID, roleID int64) (*model.UserRole, error) {
	ur := &model.UserRole{UserID: userID, RoleID: roleID}
	if err := s.Create(ctx, ur); err != nil {
		return nil, err
	}
	return ur, nil
}

func (s *UserRoleService) RevokeRole(ctx context.Context, userID, roleID int64) error {
	if err := requireID("user_id", userID); err != nil {
		return err
	}
	if err := requireID("role_id", roleID); err != nil {
		return err
	}
	ur, err := getOne(ctx, s.store.UserRoles, "role assignment", repository.Eq("user_id", userID), repository.Eq("role_id", roleID))
	if err != nil {
		return err
	}
	s.store.UserRoles.Delete(ur)
	return s.store.Save(ctx)
}

func (s *UserRoleService) Delete(ctx context.Context, id int64) error {
	if err := requireID("id", id); err != nil {
		return err
	}
	existing, err := mustExist(ctx, s.store.UserRoles, "user role", repository.Eq("id", id))
	if err != nil {
		return err
	}
	s.store.UserRoles.Delete(existing)
	return s.store.Save(ctx)
}

func (s *UserRoleService) checkRefs(ctx context.Context, ur *model.UserRole) error {
	if err := requireRef(ctx, s.store.Users, "user", ur.UserID); err != nil {
		return err
	}
	return requireRef(ctx, s.store.Roles, "role", ur.RoleID)
}
