package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CallType struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Slug        string    `gorm:"size:50;not null;unique" json:"slug"`
	Name        string    `gorm:"size:255;not null" json:"name"`
	DurationMin int       `gorm:"not null" json:"duration_min"`
	// No column default: gorm would omit a zero-valued Active from the
	// INSERT and the row would come back active.
	Active bool `gorm:"not null" json:"active"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

func (ct *CallType) BeforeCreate(tx *gorm.DB) error {
	if ct.ID == uuid.Nil {
		ct.ID = uuid.New()
	}
	return nil
}
