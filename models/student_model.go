package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Student carries the hours-bearing subset of the profile. HoursPaid is
// the balance still available to spend, not a historical total; it is
// decremented on completion and must never go negative.
type Student struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	FullName     string    `gorm:"size:255;not null" json:"full_name"`
	StudentEmail string    `gorm:"size:255;not null;index" json:"student_email"`
	ParentEmail  *string   `gorm:"size:255" json:"parent_email,omitempty"`

	HoursPaid     decimal.Decimal `gorm:"type:numeric(10,2);default:0" json:"hours_paid"`
	HoursConsumed decimal.Decimal `gorm:"type:numeric(10,2);default:0" json:"hours_consumed"`

	AssignedTutorID *uuid.UUID `gorm:"type:uuid;index" json:"assigned_tutor_id,omitempty"`

	AssignedTutor *Tutor `gorm:"foreignkey:AssignedTutorID" json:"-"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (s *Student) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
