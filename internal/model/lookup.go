package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// The type and status vocabularies for machines, tasks and reports are
// small administered tables, not free text. Rows are referenced by id from
// the owning aggregate and managed through their own CRUD endpoints.

// MachineType names a category of machine.
type MachineType struct {
	ID   uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name string    `json:"name" gorm:"size:255;not null"`
}

// MachineStatus names an operational state of a machine.
type MachineStatus struct {
	ID   uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name string    `json:"name" gorm:"size:255;not null"`
}

// TaskType names a category of task.
type TaskType struct {
	ID   uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name string    `json:"name" gorm:"size:255;not null"`
}

// TaskStatus names a workflow state of a task.
type TaskStatus struct {
	ID   uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name string    `json:"name" gorm:"size:255;not null"`
}

// ReportType names a category of report.
type ReportType struct {
	ID   uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name string    `json:"name" gorm:"size:255;not null"`
}

// ReportStatus names a workflow state of a report.
type ReportStatus struct {
	ID   uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name string    `json:"name" gorm:"size:255;not null"`
}

// BeforeCreate sets UUID before creating the record.
func (m *MachineType) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// BeforeCreate sets UUID before creating the record.
func (m *MachineStatus) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// BeforeCreate sets UUID before creating the record.
func (t *TaskType) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// BeforeCreate sets UUID before creating the record.
func (t *TaskStatus) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// BeforeCreate sets UUID before creating the record.
func (r *ReportType) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// BeforeCreate sets UUID before creating the record.
func (r *ReportStatus) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
