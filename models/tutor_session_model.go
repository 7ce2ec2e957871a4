package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TutorSession is the append-only audit row written once per completed
// booking. Payroll tooling reads these; nothing updates or deletes them.
type TutorSession struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TutorID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"tutor_id"`
	StudentID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"student_id"`
	Duration   decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"duration"`
	HappenedAt time.Time       `gorm:"not null" json:"happened_at"`
	Note       string          `gorm:"size:255" json:"note"`

	Tutor   Tutor   `gorm:"foreignkey:TutorID" json:"-"`
	Student Student `gorm:"foreignkey:StudentID" json:"-"`

	CreatedAt time.Time `json:"-"`
}

func (s *TutorSession) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
