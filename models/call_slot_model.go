package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SlotStatusFree   = "free"
	SlotStatusBooked = "booked"
)

// CallSlot is the atomic bookable unit. Slots are not pre-generated:
// a row is materialized the first time a (tutor, start time) is
// requested, so (tutor_id, starts_at) is the natural key.
type CallSlot struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	TutorID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_call_slots_tutor_start" json:"-"`
	CallTypeID  uuid.UUID `gorm:"type:uuid;not null" json:"call_type_id"`
	StartsAt    time.Time `gorm:"not null;uniqueIndex:idx_call_slots_tutor_start" json:"starts_at"`
	DurationMin int       `gorm:"not null" json:"duration_min"`
	Status      string    `gorm:"size:20;not null;default:'free'" json:"status"`

	Tutor    Tutor    `gorm:"foreignkey:TutorID" json:"-"`
	CallType CallType `gorm:"foreignkey:CallTypeID" json:"call_type,omitempty"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (s *CallSlot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

func (s *CallSlot) EndsAt() time.Time {
	return s.StartsAt.Add(time.Duration(s.DurationMin) * time.Minute)
}

// Overlaps reports whether the slot's [StartsAt, EndsAt) interval
// intersects [start, end).
func (s *CallSlot) Overlaps(start, end time.Time) bool {
	return s.StartsAt.Before(end) && start.Before(s.EndsAt())
}
