package services_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ripetizioniapp/booking_engine/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Tutor{},
		&models.AvailabilityBlock{},
		&models.CallType{},
		&models.CallSlot{},
		&models.Booking{},
		&models.Student{},
		&models.TutorSession{},
		&models.TutorAssignment{},
	))
	return db
}

func createTutor(t *testing.T, db *gorm.DB, name, email string) models.Tutor {
	t.Helper()
	tutor := models.Tutor{FullName: name, Email: email}
	require.NoError(t, db.Create(&tutor).Error)
	return tutor
}

func createCallType(t *testing.T, db *gorm.DB, slug string, durationMin int, active bool) models.CallType {
	t.Helper()
	ct := models.CallType{Slug: slug, Name: slug, DurationMin: durationMin, Active: active}
	require.NoError(t, db.Create(&ct).Error)
	return ct
}

func addAvailability(t *testing.T, db *gorm.DB, tutorID uuid.UUID, start, end time.Time) models.AvailabilityBlock {
	t.Helper()
	block := models.AvailabilityBlock{TutorID: tutorID, StartsAt: start, EndsAt: end}
	require.NoError(t, db.Create(&block).Error)
	return block
}

func createStudent(t *testing.T, db *gorm.DB, student models.Student) models.Student {
	t.Helper()
	require.NoError(t, db.Create(&student).Error)
	return student
}

func reloadStudent(t *testing.T, db *gorm.DB, id uuid.UUID) models.Student {
	t.Helper()
	var student models.Student
	require.NoError(t, db.First(&student, "id = ?", id).Error)
	return student
}

func reloadTutor(t *testing.T, db *gorm.DB, id uuid.UUID) models.Tutor {
	t.Helper()
	var tutor models.Tutor
	require.NoError(t, db.First(&tutor, "id = ?", id).Error)
	return tutor
}

// tomorrowAt avoids the time-in-past guard without pinning tests to a
// wall-clock date.
func tomorrowAt(hour, min int) time.Time {
	n := time.Now().UTC().AddDate(0, 0, 1)
	return time.Date(n.Year(), n.Month(), n.Day(), hour, min, 0, 0, time.UTC)
}

func dec(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}
