package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Task is a unit of maintenance work, optionally tied to a machine. Type
// and status reference the administered vocabularies; Executors lists the
// users assigned to carry the task out.
type Task struct {
	ID          uuid.UUID   `json:"id" gorm:"type:char(36);primaryKey"`
	Title       string      `json:"title" gorm:"size:255;not null"`
	Description string      `json:"description" gorm:"type:text;not null"`
	TaskTypeID  uuid.UUID   `json:"-" gorm:"type:char(36);not null;index"`
	TaskType    TaskType    `json:"task_type" gorm:"foreignKey:TaskTypeID"`
	StatusID    uuid.UUID   `json:"-" gorm:"type:char(36);not null;index"`
	Status      TaskStatus  `json:"status" gorm:"foreignKey:StatusID"`
	Archived    bool        `json:"archived" gorm:"not null;default:false;index"`
	CreatorID   uuid.UUID   `json:"-" gorm:"type:char(36);not null;index"`
	Creator     User        `json:"creator" gorm:"foreignKey:CreatorID"`
	Executors   []ShortUser `json:"executors" gorm:"-"`
	MachineID   *uuid.UUID  `json:"-" gorm:"type:char(36);index"`
	Machine     *Machine    `json:"machine,omitempty" gorm:"foreignKey:MachineID"`
	DueAt       *time.Time  `json:"due_at,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// TaskExecutor links an assigned user to a task.
type TaskExecutor struct {
	TaskID uuid.UUID `json:"task_id" gorm:"type:char(36);primaryKey"`
	UserID uuid.UUID `json:"user_id" gorm:"type:char(36);primaryKey"`
}

// BeforeCreate sets UUID before creating the record.
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
