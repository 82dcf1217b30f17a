package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/henningcullin/service-system/internal/model"
)

// MachineRepository defines persistence operations for machines.
type MachineRepository interface {
	Create(ctx context.Context, machine *model.Machine) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Machine, error)
	List(ctx context.Context) ([]model.Machine, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type machineRepository struct {
	db *gorm.DB
}

// NewMachineRepository builds a GORM-backed repository.
func NewMachineRepository(db *gorm.DB) MachineRepository {
	return &machineRepository{db: db}
}

func (r *machineRepository) Create(ctx context.Context, machine *model.Machine) error {
	return r.db.WithContext(ctx).Create(machine).Error
}

func (r *machineRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Machine, error) {
	var machine model.Machine
	if err := r.db.WithContext(ctx).
		Preload("MachineType").
		Preload("Status").
		Preload("Facility").
		First(&machine, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &machine, nil
}

func (r *machineRepository) List(ctx context.Context) ([]model.Machine, error) {
	var machines []model.Machine
	if err := r.db.WithContext(ctx).
		Preload("MachineType").
		Preload("Status").
		Preload("Facility").
		Find(&machines).Error; err != nil {
		return nil, err
	}
	return machines, nil
}

func (r *machineRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Machine{}).
		Where("id = ?", id).
		Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *machineRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.Machine{}, "id = ?", id)
	return res.RowsAffected, res.Error
}
