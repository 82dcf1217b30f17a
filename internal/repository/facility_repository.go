package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/henningcullin/service-system/internal/model"
)

// FacilityRepository defines persistence operations for facilities.
type FacilityRepository interface {
	Create(ctx context.Context, facility *model.Facility) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Facility, error)
	List(ctx context.Context) ([]model.Facility, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type facilityRepository struct {
	db *gorm.DB
}

// NewFacilityRepository builds a GORM-backed repository.
func NewFacilityRepository(db *gorm.DB) FacilityRepository {
	return &facilityRepository{db: db}
}

func (r *facilityRepository) Create(ctx context.Context, facility *model.Facility) error {
	return r.db.WithContext(ctx).Create(facility).Error
}

func (r *facilityRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Facility, error) {
	var facility model.Facility
	if err := r.db.WithContext(ctx).First(&facility, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &facility, nil
}

func (r *facilityRepository) List(ctx context.Context) ([]model.Facility, error) {
	var facilities []model.Facility
	if err := r.db.WithContext(ctx).Find(&facilities).Error; err != nil {
		return nil, err
	}
	return facilities, nil
}

func (r *facilityRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Facility{}).
		Where("id = ?", id).
		Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *facilityRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.Facility{}, "id = ?", id)
	return res.RowsAffected, res.Error
}
