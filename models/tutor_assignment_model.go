package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TutorAssignment links a tutor to the students they normally serve.
// The hours ledger uses it as a fallback matcher when a booking cannot
// be tied to a student by email.
type TutorAssignment struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TutorID          uuid.UUID       `gorm:"type:uuid;not null;index" json:"tutor_id"`
	StudentID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"student_id"`
	HourlyRate       decimal.Decimal `gorm:"type:numeric(10,2);default:0" json:"hourly_rate"`
	ConsumedBaseline decimal.Decimal `gorm:"type:numeric(10,2);default:0" json:"consumed_baseline"`
	Role             string          `gorm:"size:50" json:"role"`

	Tutor   Tutor   `gorm:"foreignkey:TutorID" json:"-"`
	Student Student `gorm:"foreignkey:StudentID" json:"-"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (a *TutorAssignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}
