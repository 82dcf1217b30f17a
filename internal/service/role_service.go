package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/henningcullin/service-system/internal/apperrors"
	"github.com/henningcullin/service-system/internal/model"
	"github.com/henningcullin/service-system/internal/permission"
	"github.com/henningcullin/service-system/internal/repository"
)

// UpdateRoleInput carries a partial role update; nil fields are left
// untouched. Capability flags are updated individually so a role can be
// tightened without restating the whole set.
type UpdateRoleInput struct {
	ID          uuid.UUID
	Name        *string
	Level       *int
	HasPassword *bool
	Flags       map[string]*bool // column name -> new value
}

// RoleService handles role administration. Roles are governed by the user
// capabilities: whoever manages users manages the roles they hold.
type RoleService interface {
	Get(ctx context.Context, actor *model.User, id uuid.UUID) (*model.Role, error)
	List(ctx context.Context, actor *model.User) ([]model.Role, error)
	Create(ctx context.Context, actor *model.User, role *model.Role) (*model.Role, error)
	Update(ctx context.Context, actor *model.User, input UpdateRoleInput) error
	Delete(ctx context.Context, actor *model.User, id uuid.UUID) error
}

type roleService struct {
	roles repository.RoleRepository
}

// NewRoleService creates a new role service.
func NewRoleService(roles repository.RoleRepository) RoleService {
	return &roleService{roles: roles}
}

func (s *roleService) Get(ctx context.Context, actor *model.User, id uuid.UUID) (*model.Role, error) {
	if err := permission.Check(actor.Role.UserView); err != nil {
		return nil, err
	}
	return s.roles.FindByID(ctx, id)
}

func (s *roleService) List(ctx context.Context, actor *model.User) ([]model.Role, error) {
	if err := permission.Check(actor.Role.UserView); err != nil {
		return nil, err
	}
	return s.roles.List(ctx)
}

func (s *roleService) Create(ctx context.Context, actor *model.User, role *model.Role) (*model.Role, error) {
	if err := permission.Check(actor.Role.UserCreate); err != nil {
		return nil, err
	}

	// A new role must sit strictly below the actor's own.
	if err := permission.CanAssignLevel(actor, role.Level); err != nil {
		return nil, err
	}

	if err := s.roles.Create(ctx, role); err != nil {
		return nil, fmt.Errorf("create role: %w", err)
	}
	return role, nil
}

func (s *roleService) Update(ctx context.Context, actor *model.User, input UpdateRoleInput) error {
	if err := permission.Check(actor.Role.UserEdit); err != nil {
		return err
	}

	target, err := s.roles.FindByID(ctx, input.ID)
	if err != nil {
		return err
	}

	if err := permission.CanActOnRole(actor, target); err != nil {
		return err
	}

	if input.Level != nil {
		if err := permission.CanAssignLevel(actor, *input.Level); err != nil {
			return err
		}
	}

	fields := map[string]interface{}{}
	if input.Name != nil {
		fields["name"] = *input.Name
	}
	if input.Level != nil {
		fields["level"] = *input.Level
	}
	if input.HasPassword != nil {
		fields["has_password"] = *input.HasPassword
	}
	for column, value := range input.Flags {
		if value != nil {
			fields[column] = *value
		}
	}

	if len(fields) == 0 {
		return apperrors.ErrNoFieldsToUpdate
	}

	affected, err := s.roles.UpdateFields(ctx, input.ID, fields)
	if err != nil {
		return fmt.Errorf("update role: %w", err)
	}
	if affected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *roleService) Delete(ctx context.Context, actor *model.User, id uuid.UUID) error {
	if err := permission.Check(actor.Role.UserDelete); err != nil {
		return err
	}

	target, err := s.roles.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := permission.CanActOnRole(actor, target); err != nil {
		return err
	}

	affected, err := s.roles.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	if affected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
