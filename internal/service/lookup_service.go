package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/henningcullin/service-system/internal/model"
	"github.com/henningcullin/service-system/internal/permission"
	"github.com/henningcullin/service-system/internal/repository"
)

// lookupCaps selects which of the actor's capability flags govern a
// vocabulary. Each vocabulary is guarded by the flags of the resource that
// references it: whoever manages machines manages the machine vocabularies.
type lookupCaps struct {
	view   bool
	create bool
	edit   bool
	delete bool
}

func machineCaps(r *model.Role) lookupCaps {
	return lookupCaps{r.MachineView, r.MachineCreate, r.MachineEdit, r.MachineDelete}
}

func taskCaps(r *model.Role) lookupCaps {
	return lookupCaps{r.TaskView, r.TaskCreate, r.TaskEdit, r.TaskDelete}
}

func reportCaps(r *model.Role) lookupCaps {
	return lookupCaps{r.ReportView, r.ReportCreate, r.ReportEdit, r.ReportDelete}
}

// LookupService handles CRUD for one id+name vocabulary table.
type LookupService[T any] interface {
	Get(ctx context.Context, actor *model.User, id uuid.UUID) (*T, error)
	List(ctx context.Context, actor *model.User) ([]T, error)
	Create(ctx context.Context, actor *model.User, name string) (*T, error)
	Rename(ctx context.Context, actor *model.User, id uuid.UUID, name string) error
	Delete(ctx context.Context, actor *model.User, id uuid.UUID) error
}

type lookupService[T any] struct {
	repo repository.LookupRepository[T]
	caps func(*model.Role) lookupCaps
	row  func(name string) *T
}

// NewMachineTypeService creates a service for the machine type vocabulary.
func NewMachineTypeService(repo repository.LookupRepository[model.MachineType]) LookupService[model.MachineType] {
	return &lookupService[model.MachineType]{
		repo: repo,
		caps: machineCaps,
		row:  func(name string) *model.MachineType { return &model.MachineType{Name: name} },
	}
}

// NewMachineStatusService creates a service for the machine status vocabulary.
func NewMachineStatusService(repo repository.LookupRepository[model.MachineStatus]) LookupService[model.MachineStatus] {
	return &lookupService[model.MachineStatus]{
		repo: repo,
		caps: machineCaps,
		row:  func(name string) *model.MachineStatus { return &model.MachineStatus{Name: name} },
	}
}

// NewTaskTypeService creates a service for the task type vocabulary.
func NewTaskTypeService(repo repository.LookupRepository[model.TaskType]) LookupService[model.TaskType] {
	return &lookupService[model.TaskType]{
		repo: repo,
		caps: taskCaps,
		row:  func(name string) *model.TaskType { return &model.TaskType{Name: name} },
	}
}

// NewTaskStatusService creates a service for the task status vocabulary.
func NewTaskStatusService(repo repository.LookupRepository[model.TaskStatus]) LookupService[model.TaskStatus] {
	return &lookupService[model.TaskStatus]{
		repo: repo,
		caps: taskCaps,
		row:  func(name string) *model.TaskStatus { return &model.TaskStatus{Name: name} },
	}
}

// NewReportTypeService creates a service for the report type vocabulary.
func NewReportTypeService(repo repository.LookupRepository[model.ReportType]) LookupService[model.ReportType] {
	return &lookupService[model.ReportType]{
		repo: repo,
		caps: reportCaps,
		row:  func(name string) *model.ReportType { return &model.ReportType{Name: name} },
	}
}

// NewReportStatusService creates a service for the report status vocabulary.
func NewReportStatusService(repo repository.LookupRepository[model.ReportStatus]) LookupService[model.ReportStatus] {
	return &lookupService[model.ReportStatus]{
		repo: repo,
		caps: reportCaps,
		row:  func(name string) *model.ReportStatus { return &model.ReportStatus{Name: name} },
	}
}

func (s *lookupService[T]) Get(ctx context.Context, actor *model.User, id uuid.UUID) (*T, error) {
	if err := permission.Check(s.caps(&actor.Role).view); err != nil {
		return nil, err
	}
	return s.repo.FindByID(ctx, id)
}

func (s *lookupService[T]) List(ctx context.Context, actor *model.User) ([]T, error) {
	if err := permission.Check(s.caps(&actor.Role).view); err != nil {
		return nil, err
	}
	return s.repo.List(ctx)
}

func (s *lookupService[T]) Create(ctx context.Context, actor *model.User, name string) (*T, error) {
	if err := permission.Check(s.caps(&actor.Role).create); err != nil {
		return nil, err
	}

	row := s.row(name)
	if err := s.repo.Create(ctx, row); err != nil {
		return nil, fmt.Errorf("create lookup row: %w", err)
	}
	return row, nil
}

func (s *lookupService[T]) Rename(ctx context.Context, actor *model.User, id uuid.UUID, name string) error {
	if err := permission.Check(s.caps(&actor.Role).edit); err != nil {
		return err
	}

	affected, err := s.repo.UpdateName(ctx, id, name)
	if err != nil {
		return fmt.Errorf("rename lookup row: %w", err)
	}
	if affected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (s *lookupService[T]) Delete(ctx context.Context, actor *model.User, id uuid.UUID) error {
	if err := permission.Check(s.caps(&actor.Role).delete); err != nil {
		return err
	}

	affected, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete lookup row: %w", err)
	}
	if affected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
