package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// Booking is the human-facing reservation bound to the slot that spawned
// it. Transitions: confirmed -> completed, confirmed -> cancelled; both
// end states are terminal. A slot may accumulate cancelled bookings over
// time, but carries at most one active (non-cancelled) booking, enforced
// in the reservation transaction.
type Booking struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	SlotID     uuid.UUID `gorm:"type:uuid;not null;index" json:"slot_id"`
	TutorID    uuid.UUID `gorm:"type:uuid;not null;index" json:"tutor_id"`
	CallTypeID uuid.UUID `gorm:"type:uuid;not null" json:"call_type_id"`
	FullName   string    `gorm:"size:255;not null" json:"full_name"`
	Email      string    `gorm:"size:255;not null" json:"email"`
	Note       *string   `gorm:"type:text" json:"note,omitempty"`
	Status     string    `gorm:"size:20;not null;default:'confirmed'" json:"status"`
	BookedAt   time.Time `gorm:"not null" json:"booked_at"`

	Slot     CallSlot `gorm:"foreignkey:SlotID" json:"slot,omitempty"`
	Tutor    Tutor    `gorm:"foreignkey:TutorID" json:"-"`
	CallType CallType `gorm:"foreignkey:CallTypeID" json:"-"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (Booking) TableName() string {
	return "call_bookings"
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}
