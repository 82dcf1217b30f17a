package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an account in the system. Password holds an Argon2id PHC
// hash and is nil exactly when the user's role has HasPassword false.
type User struct {
	ID         uuid.UUID  `json:"id" gorm:"type:char(36);primaryKey"`
	FirstName  string     `json:"first_name" gorm:"size:255;not null"`
	LastName   string     `json:"last_name" gorm:"size:255;not null"`
	Email      string     `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Password   *string    `json:"-" gorm:"size:255"` // Never expose in JSON
	Phone      *string    `json:"phone,omitempty" gorm:"size:64"`
	RoleID     uuid.UUID  `json:"-" gorm:"type:char(36);not null;index"`
	Role       Role       `json:"role" gorm:"foreignKey:RoleID"`
	Active     bool       `json:"active" gorm:"not null;default:true;index"`
	LastLogin  time.Time  `json:"last_login"`
	Occupation *string    `json:"occupation,omitempty" gorm:"size:255"`
	Image      *string    `json:"image,omitempty" gorm:"size:512"`
	FacilityID *uuid.UUID `json:"-" gorm:"type:char(36);index"`
	Facility   *Facility  `json:"facility,omitempty" gorm:"foreignKey:FacilityID"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// BeforeCreate sets UUID before creating the record.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// ShortUser is the trimmed representation embedded in tasks and reports.
type ShortUser struct {
	ID        uuid.UUID `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Image     *string   `json:"image,omitempty"`
}

// Short returns the trimmed representation of the user.
func (u *User) Short() ShortUser {
	return ShortUser{
		ID:        u.ID,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Email:     u.Email,
		Image:     u.Image,
	}
}
