package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/henningcullin/service-system/internal/apperrors"
	"github.com/henningcullin/service-system/internal/cache"
	"github.com/henningcullin/service-system/internal/model"
	"github.com/henningcullin/service-system/internal/permission"
	"github.com/henningcullin/service-system/internal/repository"
)

const machineCacheTTL = 5 * time.Minute

// UpdateMachineInput carries a partial machine update. Type and status are
// referenced by vocabulary row id.
type UpdateMachineInput struct {
	ID            uuid.UUID
	Name          *string
	Make          *string
	MachineTypeID *uuid.UUID
	StatusID      *uuid.UUID
	Image         *string
	FacilityID    *uuid.UUID
}

// MachineService handles machine CRUD with a read-through cache.
type MachineService interface {
	Get(ctx context.Context, actor *model.User, id uuid.UUID) (*model.Machine, error)
	List(ctx context.Context, actor *model.User) ([]model.Machine, error)
	Create(ctx context.Context, actor *model.User, machine *model.Machine) (*model.Machine, error)
	Update(ctx context.Context, actor *model.User, input UpdateMachineInput) error
	Delete(ctx context.Context, actor *model.User, id uuid.UUID) error
}

type machineService struct {
	machines repository.MachineRepository
	cache    *cache.Client
}

// NewMachineService creates a new machine service.
func NewMachineService(machines repository.MachineRepository, cache *cache.Client) MachineService {
	return &machineService{machines: machines, cache: cache}
}

func (s *machineService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("machine:%s", id.String())
}

func (s *machineService) Get(ctx context.Context, actor *model.User, id uuid.UUID) (*model.Machine, error) {
	if err := permission.Check(actor.Role.MachineView); err != nil {
		return nil, err
	}

	// Try cache first
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Machine
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	machine, err := s.machines.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(machine); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, machineCacheTTL)
	}

	return machine, nil
}

func (s *machineService) List(ctx context.Context, actor *model.User) ([]model.Machine, error) {
	if err := permission.Check(actor.Role.MachineView); err != nil {
		return nil, err
	}
	return s.machines.List(ctx)
}

func (s *machineService) Create(ctx context.Context, actor *model.User, machine *model.Machine) (*model.Machine, error) {
	if err := permission.Check(actor.Role.MachineCreate); err != nil {
		return nil, err
	}

	if err := s.machines.Create(ctx, machine); err != nil {
		return nil, fmt.Errorf("create machine: %w", err)
	}
	return s.machines.FindByID(ctx, machine.ID)
}

func (s *machineService) Update(ctx context.Context, actor *model.User, input UpdateMachineInput) error {
	if err := permission.Check(actor.Role.MachineEdit); err != nil {
		return err
	}

	fields := map[string]interface{}{}
	if input.Name != nil {
		fields["name"] = *input.Name
	}
	if input.Make != nil {
		fields["make"] = *input.Make
	}
	if input.MachineTypeID != nil {
		fields["machine_type_id"] = *input.MachineTypeID
	}
	if input.StatusID != nil {
		fields["status_id"] = *input.StatusID
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

	affected, err := s.machines.UpdateFields(ctx, input.ID, fields)
	if err != nil {
		return fmt.Errorf("update machine: %w", err)
	}
	if affected == 0 {
		return gorm.ErrRecordNotFound
	}

	_ = s.cache.Delete(ctx, s.cacheKey(input.ID))
	return nil
}

func (s *machineService) Delete(ctx context.Context, actor *model.User, id uuid.UUID) error {
	if err := permission.Check(actor.Role.MachineDelete); err != nil {
		return err
	}

	affected, err := s.machines.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete machine: %w", err)
	}
	if affected == 0 {
		return gorm.ErrRecordNotFound
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}
