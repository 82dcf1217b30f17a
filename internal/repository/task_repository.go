package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/henningcullin/service-system/internal/model"
)

// TaskRepository defines persistence operations for tasks and their
// executor assignments. Reads return tasks with the executor list filled in.
type TaskRepository interface {
	Create(ctx context.Context, task *model.Task) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Task, error)
	List(ctx context.Context) ([]model.Task, error)
	UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (int64, error)
	Delete(ctx context.Context, id uuid.UUID) (int64, error)
	AddExecutor(ctx context.Context, taskID, userID uuid.UUID) error
	RemoveExecutor(ctx context.Context, taskID, userID uuid.UUID) (int64, error)
}

type taskRepository struct {
	db *gorm.DB
}

// NewTaskRepository builds a GORM-backed repository.
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

func (r *taskRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).
		Preload("TaskType").
		Preload("Status").
		Preload("Creator").
		Preload("Creator.Role").
		Preload("Machine").
		First(&task, "id = ?", id).Error; err != nil {
		return nil, err
	}

	executors, err := r.executors(ctx, task.ID)
	if err != nil {
		return nil, err
	}
	task.Executors = executors

	return &task, nil
}

func (r *taskRepository) List(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Preload("TaskType").
		Preload("Status").
		Preload("Creator").
		Preload("Creator.Role").
		Preload("Machine").
		Find(&tasks).Error; err != nil {
		return nil, err
	}

	for i := range tasks {
		executors, err := r.executors(ctx, tasks[i].ID)
		if err != nil {
			return nil, err
		}
		tasks[i].Executors = executors
	}

	return tasks, nil
}

func (r *taskRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]interface{}) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&model.Task{}).
		Where("id = ?", id).
		Updates(fields)
	return res.RowsAffected, res.Error
}

func (r *taskRepository) Delete(ctx context.Context, id uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
	return res.RowsAffected, res.Error
}

func (r *taskRepository) AddExecutor(ctx context.Context, taskID, userID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Create(&model.TaskExecutor{TaskID: taskID, UserID: userID}).Error
}

func (r *taskRepository) RemoveExecutor(ctx context.Context, taskID, userID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("task_id = ? AND user_id = ?", taskID, userID).
		Delete(&model.TaskExecutor{})
	return res.RowsAffected, res.Error
}

func (r *taskRepository) executors(ctx context.Context, taskID uuid.UUID) ([]model.ShortUser, error) {
	var users []model.User
	if err := r.db.WithContext(ctx).
		Joins("JOIN task_executors ON task_executors.user_id = users.id").
		Where("task_executors.task_id = ?", taskID).
		Find(&users).Error; err != nil {
		return nil, err
	}

	executors := make([]model.ShortUser, 0, len(users))
	for i := range users {
		executors = append(executors, users[i].Short())
	}
	return executors, nil
}
