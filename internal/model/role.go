package model

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role carries a privilege level and one capability flag per
// (resource, action) pair. Lower level means higher privilege.
// HasPassword selects the login path for every user holding the role:
// password roles log in with a stored credential, the rest with a
// one-time code.
type Role struct {
	ID          uuid.UUID `json:"id" gorm:"type:char(36);primaryKey"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	Level       int       `json:"level" gorm:"not null;index"`
	HasPassword bool      `json:"has_password" gorm:"not null;default:false"`

	UserView   bool `json:"user_view" gorm:"not null;default:false"`
	UserCreate bool `json:"user_create" gorm:"not null;default:false"`
	UserEdit   bool `json:"user_edit" gorm:"not null;default:false"`
	UserDelete bool `json:"user_delete" gorm:"not null;default:false"`

	MachineView   bool `json:"machine_view" gorm:"not null;default:false"`
	MachineCreate bool `json:"machine_create" gorm:"not null;default:false"`
	MachineEdit   bool `json:"machine_edit" gorm:"not null;default:false"`
	MachineDelete bool `json:"machine_delete" gorm:"not null;default:false"`

	TaskView   bool `json:"task_view" gorm:"not null;default:false"`
	TaskCreate bool `json:"task_create" gorm:"not null;default:false"`
	TaskEdit   bool `json:"task_edit" gorm:"not null;default:false"`
	TaskDelete bool `json:"task_delete" gorm:"not null;default:false"`

	ReportView   bool `json:"report_view" gorm:"not null;default:false"`
	ReportCreate bool `json:"report_create" gorm:"not null;default:false"`
	ReportEdit   bool `json:"report_edit" gorm:"not null;default:false"`
	ReportDelete bool `json:"report_delete" gorm:"not null;default:false"`

	FacilityView   bool `json:"facility_view" gorm:"not null;default:false"`
	FacilityCreate bool `json:"facility_create" gorm:"not null;default:false"`
	FacilityEdit   bool `json:"facility_edit" gorm:"not null;default:false"`
	FacilityDelete bool `json:"facility_delete" gorm:"not null;default:false"`
}

// BeforeCreate sets UUID before creating the record.
func (r *Role) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
