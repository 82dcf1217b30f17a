package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/henningcullin/service-system/internal/model"
)

// LookupRepository defines persistence operations for the id+name vocabulary
// tables. All six share one shape, so a single generic implementation backs
// the per-table constructors.
type LookupRepository[T any] interface {
	Create(ctx context.Context, row *T) error
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)
	List(ctx context.Context) ([]T, error)
	UpdateName(ctx context.Context, id uuid.UUID, name string) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
}

type lookupRepository[T any] struct {
	db *gorm.DB
}

// NewMachineTypeRepository builds a GORM-backed repository.
func NewMachineTypeRepository(db *gorm.DB) LookupRepository[model.MachineType] {
	return &lookupRepository[model.MachineType]{db: db}
}

// NewMachineStatusRepository builds a GORM-backed repository.
func NewMachineStatusRepository(db *gorm.DB) LookupRepository[model.MachineStatus] {
	return &lookupRepository[model.MachineStatus]{db: db}
}

// NewTaskTypeRepository builds a GORM-backed repository.
func NewTaskTypeRepository(db *gorm.DB) LookupRepository[model.TaskType] {
	return &lookupRepository[model.TaskType]{db: db}
}

// NewTaskStatusRepository builds a GORM-backed repository.
func NewTaskStatusRepository(db *gorm.DB) LookupRepository[model.TaskStatus] {
	return &lookupRepository[model.TaskStatus]{db: db}
}

// NewReportTypeRepository builds a GORM-backed repository.
func NewReportTypeRepository(db *gorm.DB) LookupRepository[model.ReportType] {
	return &lookupRepository[model.ReportType]{db: db}
}

// NewReportStatusRepository builds a GORM-backed repository.
func NewReportStatusRepository(db *gorm.DB) LookupRepository[model.ReportStatus] {
	return &lookupRepository[model.ReportStatus]{db: db}
}

func (r *lookupRepository[T]) Create(ctx context.Context, row *T) error {
	return r.db.WithContext(ctx).Create(row).Error
}

func (r *lookupRepository[T]) FindByID(ctx context.Context, id uuid.UUID) (*T, error) {
	var row T
	if err := r.db.WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *lookupRepository[T]) List(ctx context.Context) ([]T, error) {
	var rows []T
	if err := r.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *lookupRepository[T]) UpdateName(ctx context.Context, id uuid.UUID, name string) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(new(T)).
		Where("id = ?", id).
		Update("name", name)
	return res.RowsAffected, res.Error
}

func (r *lookupRepository[T]) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(new(T), "id = ?", id)
	return res.RowsAffected, res.Error
}
