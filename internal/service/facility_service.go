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

const facilityCacheTTL = 10 * time.Minute

// UpdateFacilityInput carries a partial facility update.
type UpdateFacilityInput struct {
	ID      uuid.UUID
	Name    *string
	Address *string
}

// FacilityService handles facility CRUD with a read-through cache;
// facilities change rarely and are read on nearly every machine view.
type FacilityService interface {
	Get(ctx context.Context, actor *model.User, id uuid.UUID) (*model.Facility, error)
	List(ctx context.Context, actor *model.User) ([]model.Facility, error)
	Create(ctx context.Context, actor *model.User, facility *model.Facility) (*model.Facility, error)
	Update(ctx context.Context, actor *model.User, input UpdateFacilityInput) error
	Delete(ctx context.Context, actor *model.User, id uuid.UUID) error
}

type facilityService struct {
	facilities repository.FacilityRepository
	cache      *cache.Client
}

// NewFacilityService creates a new facility service.
func NewFacilityService(facilities repository.FacilityRepository, cache *cache.Client) FacilityService {
	return &facilityService{facilities: facilities, cache: cache}
}

func (s *facilityService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("facility:%s", id.String())
}

func (s *facilityService) Get(ctx context.Context, actor *model.User, id uuid.UUID) (*model.Facility, error) {
	if err := permission.Check(actor.Role.FacilityView); err != nil {
		return nil, err
	}

	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.Facility
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	facility, err := s.facilities.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if payload, err := json.Marshal(facility); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, facilityCacheTTL)
	}

	return facility, nil
}

func (s *facilityService) List(ctx context.Context, actor *model.User) ([]model.Facility, error) {
	if err := permission.Check(actor.Role.FacilityView); err != nil {
		return nil, err
	}
	return s.facilities.List(ctx)
}

func (s *facilityService) Create(ctx context.Context, actor *model.User, facility *model.Facility) (*model.Facility, error) {
	if err := permission.Check(actor.Role.FacilityCreate); err != nil {
		return nil, err
	}

	if err := s.facilities.Create(ctx, facility); err != nil {
		return nil, fmt.Errorf("create facility: %w", err)
	}
	return facility, nil
}

func (s *facilityService) Update(ctx context.Context, actor *model.User, input UpdateFacilityInput) error {
	if err := permission.Check(actor.Role.FacilityEdit); err != nil {
		return err
	}

	fields := map[string]interface{}{}
	if input.Name != nil {
		fields["name"] = *input.Name
	}
	if input.Address != nil {
		fields["address"] = *input.Address
	}

	if len(fields) == 0 {
		return apperrors.ErrNoFieldsToUpdate
	}

	affected, err := s.facilities.UpdateFields(ctx, input.ID, fields)
	if err != nil {
		return fmt.Errorf("update facility: %w", err)
	}
	if affected == 0 {
		return gorm.ErrRecordNotFound
	}

	_ = s.cache.Delete(ctx, s.cacheKey(input.ID))
	return nil
}

func (s *facilityService) Delete(ctx context.Context, actor *model.User, id uuid.UUID) error {
	if err := permission.Check(actor.Role.FacilityDelete); err != nil {
		return err
	}

	affected, err := s.facilities.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete facility: %w", err)
	}
	if affected == 0 {
		return gorm.ErrRecordNotFound
	}

	_ = s.cache.Delete(ctx, s.cacheKey(id))
	return nil
}
