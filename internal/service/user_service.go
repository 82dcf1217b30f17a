package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/henningcullin/service-system/internal/apperrors"
	"github.com/henningcullin/service-system/internal/auth"
	"github.com/henningcullin/service-system/internal/model"
	"github.com/henningcullin/service-system/internal/permission"
	"github.com/henningcullin/service-system/internal/repository"
)

// NewUserInput carries the fields for creating a user.
type NewUserInput struct {
	FirstName  string
	LastName   string
	Email      string
	Password   *string
	Phone      *string
	RoleID     uuid.UUID
	Active     *bool
	Occupation *string
	Image      *string
	FacilityID *uuid.UUID
}

// UpdateUserInput carries a partial update; nil fields are left untouched.
type UpdateUserInput struct {
	ID         uuid.UUID
	FirstName  *string
	LastName   *string
	Email      *string
	Password   *string
	Phone      *string
	RoleID     *uuid.UUID
	Active     *bool
	Occupation *string
	Image      *string
	FacilityID *uuid.UUID
}

// UserService handles user administration. All operations take the acting
// user; capability flags and the hierarchy guard are checked here, before
// any store access.
type UserService interface {
	Get(ctx context.Context, actor *model.User, id uuid.UUID) (*model.User, error)
	List(ctx context.Context, actor *model.User) ([]model.User, error)
	Create(ctx context.Context, actor *model.User, input NewUserInput) (*model.User, error)
	Update(ctx context.Context, actor *model.User, input UpdateUserInput) error
	Delete(ctx context.Context, actor *model.User, id uuid.UUID) error
}

type userService struct {
	users repository.UserRepository
	roles repository.RoleRepository
}

// NewUserService creates a new user service.
func NewUserService(users repository.UserRepository, roles repository.RoleRepository) UserService {
	return &userService{users: users, roles: roles}
}

func (s *userService) Get(ctx context.Context, actor *model.User, id uuid.UUID) (*model.User, error) {
	if err := permission.Check(actor.Role.UserView); err != nil {
		return nil, err
	}
	return s.users.FindByID(ctx, id)
}

func (s *userService) List(ctx context.Context, actor *model.User) ([]model.User, error) {
	if err := permission.Check(actor.Role.UserView); err != nil {
		return nil, err
	}
	return s.users.List(ctx)
}

func (s *userService) Create(ctx context.Context, actor *model.User, input NewUserInput) (*model.User, error) {
	if err := permission.Check(actor.Role.UserCreate); err != nil {
		return nil, err
	}

	email := strings.ToLower(input.Email)

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("check email: %w", err)
	}
	if exists {
		return nil, apperrors.ErrEmailTaken
	}

	role, err := s.roles.FindByID(ctx, input.RoleID)
	if err != nil {
		return nil, err
	}

	if err := permission.CanAssignRole(actor, role); err != nil {
		return nil, err
	}

	// Password presence must track the role: password roles require one,
	// OTP roles must store none.
	var password *string
	if role.HasPassword {
		if input.Password == nil {
			return nil, apperrors.ErrNoPasswordSupplied
		}
		hashed, err := auth.HashSecret(*input.Password)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		password = &hashed
	}

	active := true
	if input.Active != nil {
		active = *input.Active
	}

	user := &model.User{
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Email:      email,
		Password:   password,
		Phone:      input.Phone,
		RoleID:     role.ID,
		Active:     active,
		Occupation: input.Occupation,
		Image:      input.Image,
		FacilityID: input.FacilityID,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	// Reload with role and facility attached.
	return s.users.FindByID(ctx, user.ID)
}

func (s *userService) Update(ctx context.Context, actor *model.User, input UpdateUserInput) error {
	selfEdit := input.ID == actor.ID

	if !actor.Role.UserEdit && !selfEdit {
		return apperrors.ErrMissingPermission
	}

	target, err := s.users.FindByID(ctx, input.ID)
	if err != nil {
		return err
	}

	if err := permission.CanActOnUser(actor, target); err != nil {
		return err
	}

	// The role in effect after the update decides whether a password may be
	// stored.
	effectiveRole := &target.Role
	if input.RoleID != nil {
		// Self-escalation is always rejected, even to an equal or lower
		// privileged role.
		if selfEdit {
			return apperrors.ErrMissingPermission
		}
		role, err := s.roles.FindByID(ctx, *input.RoleID)
		if err != nil {
			return err
		}
		if err := permission.CanAssignRole(actor, role); err != nil {
			return err
		}
		effectiveRole = role
	}

	// Password presence must track the role, same as on create.
	if input.Password != nil && !effectiveRole.HasPassword {
		return apperrors.ErrPasswordNotAllowed
	}
	if input.RoleID != nil && effectiveRole.HasPassword && target.Password == nil && input.Password == nil {
		return apperrors.ErrNoPasswordSupplied
	}

	fields := map[string]interface{}{}
	if input.FirstName != nil {
		fields["first_name"] = *input.FirstName
	}
	if input.LastName != nil {
		fields["last_name"] = *input.LastName
	}
	if input.Email != nil {
		fields["email"] = strings.ToLower(*input.Email)
	}
	if input.Password != nil {
		hashed, err := auth.HashSecret(*input.Password)
		if err != nil {
			return fmt.Errorf("hash password: %w", err)
		}
		fields["password"] = hashed
	}
	if input.Phone != nil {
		fields["phone"] = *input.Phone
	}
	if input.RoleID != nil {
		fields["role_id"] = *input.RoleID
		// A stored hash is cleared when the account moves to an OTP role.
		if !effectiveRole.HasPassword && target.Password != nil {
			fields["password"] = nil
		}
	}
	if input.Active != nil {
		fields["active"] = *input.Active
	}
	if input.Occupation != nil {
		fields["occupation"] = *input.Occupation
	}
	if input.Image != nil {
		fields["image"] = *input.Image
	}
	if input.FacilityID != nil {
		fields["facility_id"] = *input.FacilityID
	}

	if len(fields) == 0 {
		return apperrors.ErrNoFieldsToUpdate
	}

	affected, err := s.users.UpdateFields(ctx, input.ID, fields)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if affected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *userService) Delete(ctx context.Context, actor *model.User, id uuid.UUID) error {
	if err := permission.Check(actor.Role.UserDelete); err != nil {
		return err
	}

	target, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if err := permission.CanActOnUser(actor, target); err != nil {
		return err
	}

	affected, err := s.users.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if affected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
