package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Machine is a tracked asset, optionally located at a facility. Type and
// status reference the administered vocabularies.
type Machine struct {
	ID            uuid.UUID     `json:"id" gorm:"type:char(36);primaryKey"`
	Name          string        `json:"name" gorm:"size:255;not null;index"`
	Make          *string       `json:"make,omitempty" gorm:"size:255"`
	MachineTypeID uuid.UUID     `json:"-" gorm:"type:char(36);not null;index"`
	MachineType   MachineType   `json:"machine_type" gorm:"foreignKey:MachineTypeID"`
	StatusID      uuid.UUID     `json:"-" gorm:"type:char(36);not null;index"`
	Status        MachineStatus `json:"status" gorm:"foreignKey:StatusID"`
	Image         *string       `json:"image,omitempty" gorm:"size:512"`
	FacilityID    *uuid.UUID    `json:"-" gorm:"type:char(36);index"`
	Facility      *Facility     `json:"facility,omitempty" gorm:"foreignKey:FacilityID"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (m *Machine) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
