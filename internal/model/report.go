package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Report is a filed incident or inspection record. Type and status
// reference the administered vocabularies.
type Report struct {
	ID           uuid.UUID    `json:"id" gorm:"type:char(36);primaryKey"`
	Title        string       `json:"title" gorm:"size:255;not null"`
	Description  string       `json:"description" gorm:"type:text;not null"`
	ReportTypeID uuid.UUID    `json:"-" gorm:"type:char(36);not null;index"`
	ReportType   ReportType   `json:"report_type" gorm:"foreignKey:ReportTypeID"`
	StatusID     uuid.UUID    `json:"-" gorm:"type:char(36);not null;index"`
	Status       ReportStatus `json:"status" gorm:"foreignKey:StatusID"`
	Archived     bool         `json:"archived" gorm:"not null;default:false;index"`
	CreatorID    uuid.UUID    `json:"-" gorm:"type:char(36);not null;index"`
	Creator      User         `json:"creator" gorm:"foreignKey:CreatorID"`
	CreatedAt    time.Time    `json:"created_at"`
	UpdatedAt    time.Time    `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
