package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/henningcullin/service-system/internal/apperrors"
	"github.com/henningcullin/service-system/internal/events"
	"github.com/henningcullin/service-system/internal/model"
	"github.com/henningcullin/service-system/internal/permission"
	"github.com/henningcullin/service-system/internal/repository"
)

// NewTaskInput carries the fields for creating a task. Type and status are
// referenced by vocabulary row id.
type NewTaskInput struct {
	Title       string
	Description string
	TaskTypeID  uuid.UUID
	StatusID    uuid.UUID
	MachineID   *uuid.UUID
	DueAt       *time.Time
}

// UpdateTaskInput carries a partial task update.
type UpdateTaskInput struct {
	ID          uuid.UUID
	Title       *string
	Description *string
	TaskTypeID  *uuid.UUID
	StatusID    *uuid.UUID
	Archived    *bool
	MachineID   *uuid.UUID
	DueAt       *time.Time
}

// TaskService handles task CRUD and executor assignment; every mutation
// publishes a change event.
type TaskService interface {
	Get(ctx context.Context, actor *model.User, id uuid.UUID) (*model.Task, error)
	List(ctx context.Context, actor *model.User) ([]model.Task, error)
	Create(ctx context.Context, actor *model.User, input NewTaskInput) (*model.Task, error)
	Update(ctx context.Context, actor *model.User, input UpdateTaskInput) error
	Delete(ctx context.Context, actor *model.User, id uuid.UUID) error
	AssignExecutor(ctx context.Context, actor *model.User, taskID, userID uuid.UUID) error
	RemoveExecutor(ctx context.Context, actor *model.User, taskID, userID uuid.UUID) error
}

type taskService struct {
	tasks repository.TaskRepository
	bus   events.Publisher
}

// NewTaskService creates a new task service.
func NewTaskService(tasks repository.TaskRepository, bus events.Publisher) TaskService {
	return &taskService{tasks: tasks, bus: bus}
}

func (s *taskService) Get(ctx context.Context, actor *model.User, id uuid.UUID) (*model.Task, error) {
	if err := permission.Check(actor.Role.TaskView); err != nil {
		return nil, err
	}
	return s.tasks.FindByID(ctx, id)
}

func (s *taskService) List(ctx context.Context, actor *model.User) ([]model.Task, error) {
	if err := permission.Check(actor.Role.TaskView); err != nil {
		return nil, err
	}
	return s.tasks.List(ctx)
}

func (s *taskService) Create(ctx context.Context, actor *model.User, input NewTaskInput) (*model.Task, error) {
	if err := permission.Check(actor.Role.TaskCreate); err != nil {
		return nil, err
	}

	task := &model.Task{
		Title:       input.Title,
		Description: input.Description,
		TaskTypeID:  input.TaskTypeID,
		StatusID:    input.StatusID,
		CreatorID:   actor.ID,
		MachineID:   input.MachineID,
		DueAt:       input.DueAt,
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}

	s.bus.Publish(ctx, events.TaskChannel, "created", task.ID)

	return s.tasks.FindByID(ctx, task.ID)
}

func (s *taskService) Update(ctx context.Context, actor *model.User, input UpdateTaskInput) error {
	if err := permission.Check(actor.Role.TaskEdit); err != nil {
		return err
	}

	fields := map[string]interface{}{}
	if input.Title != nil {
		fields["title"] = *input.Title
	}
	if input.Description != nil {
		fields["description"] = *input.Description
	}
	if input.TaskTypeID != nil {
		fields["task_type_id"] = *input.TaskTypeID
	}
	if input.StatusID != nil {
		fields["status_id"] = *input.StatusID
	}
	if input.Archived != nil {
		fields["archived"] = *input.Archived
	}
	if input.MachineID != nil {
		fields["machine_id"] = *input.MachineID
	}
	if input.DueAt != nil {
		fields["due_at"] = *input.DueAt
	}

	if len(fields) == 0 {
		return apperrors.ErrNoFieldsToUpdate
	}

	affected, err := s.tasks.UpdateFields(ctx, input.ID, fields)
	if err != nil {
		return fmt.Errorf("update task: %w", err)
	}
	if affected == 0 {
		return gorm.ErrRecordNotFound
	}

	s.bus.Publish(ctx, events.TaskChannel, "updated", input.ID)
	return nil
}

func (s *taskService) Delete(ctx context.Context, actor *model.User, id uuid.UUID) error {
	if err := permission.Check(actor.Role.TaskDelete); err != nil {
		return err
	}

	affected, err := s.tasks.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if affected == 0 {
		return gorm.ErrRecordNotFound
	}

	s.bus.Publish(ctx, events.TaskChannel, "deleted", id)
	return nil
}

// AssignExecutor puts a user on a task. Assignment is an edit of the task,
// so it is guarded by the edit capability, not a separate flag.
func (s *taskService) AssignExecutor(ctx context.Context, actor *model.User, taskID, userID uuid.UUID) error {
	if err := permission.Check(actor.Role.TaskEdit); err != nil {
		return err
	}

	if err := s.tasks.AddExecutor(ctx, taskID, userID); err != nil {
		return fmt.Errorf("assign executor: %w", err)
	}

	s.bus.Publish(ctx, events.TaskChannel, "updated", taskID)
	return nil
}

// RemoveExecutor takes a user off a task.
func (s *taskService) RemoveExecutor(ctx context.Context, actor *model.User, taskID, userID uuid.UUID) error {
	if err := permission.Check(actor.Role.TaskEdit); err != nil {
		return err
	}

	affected, err := s.tasks.RemoveExecutor(ctx, taskID, userID)
	if err != nil {
		return fmt.Errorf("remove executor: %w", err)
	}
	if affected == 0 {
		return gorm.ErrRecordNotFound
	}

	s.bus.Publish(ctx, events.TaskChannel, "updated", taskID)
	return nil
}
