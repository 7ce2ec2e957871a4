package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type AvailabilityBlock struct {
	ID       uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TutorID  uuid.UUID `gorm:"type:uuid;not null;index" json:"-"`
	StartsAt time.Time `gorm:"not null" json:"starts_at"`
	EndsAt   time.Time `gorm:"not null" json:"ends_at"`

	Tutor Tutor `gorm:"foreignkey:TutorID" json:"-"`

	CreatedAt time.Time `json:"-"`
}

func (AvailabilityBlock) TableName() string {
	return "tutor_availability_blocks"
}

func (b *AvailabilityBlock) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// Covers reports whether the block fully contains [start, end).
func (b *AvailabilityBlock) Covers(start, end time.Time) bool {
	return !start.Before(b.StartsAt) && !end.After(b.EndsAt)
}
