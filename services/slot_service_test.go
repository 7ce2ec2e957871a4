package services_test

import (
	"testing"
	"time"

	"github.com/ripetizioniapp/booking_engine/models"
	"github.com/ripetizioniapp/booking_engine/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReserveSlot_InsideAvailability_Succeeds(t *testing.T) {
	// GIVEN: tutor available 09:00-12:00 tomorrow, 60-min call type
	// WHEN: reserving 10:00
	// THEN: slot booked 10:00-11:00

	db := newTestDB(t)
	tutor := createTutor(t, db, "Marta", "marta@example.com")
	createCallType(t, db, "ripetizione", 60, true)
	addAvailability(t, db, tutor.ID, tomorrowAt(9, 0), tomorrowAt(12, 0))

	slot, err := services.ReserveSlot(db, "marta@example.com", tomorrowAt(10, 0), "ripetizione")
	require.NoError(t, err)

	assert.Equal(t, models.SlotStatusBooked, slot.Status)
	assert.True(t, slot.StartsAt.Equal(tomorrowAt(10, 0)))
	assert.True(t, slot.EndsAt().Equal(tomorrowAt(11, 0)))
}

func TestReserveSlot_OverlappingInterval_Conflicts(t *testing.T) {
	// GIVEN: 10:00-11:00 already booked
	// WHEN: reserving 10:30 (overlaps) and 11:00 (adjacent)
	// THEN: 10:30 conflicts, 11:00 succeeds

	db := newTestDB(t)
	tutor := createTutor(t, db, "Marta", "marta@example.com")
	createCallType(t, db, "ripetizione", 60, true)
	addAvailability(t, db, tutor.ID, tomorrowAt(9, 0), tomorrowAt(12, 0))

	_, err := services.ReserveSlot(db, "marta@example.com", tomorrowAt(10, 0), "ripetizione")
	require.NoError(t, err)

	_, err = services.ReserveSlot(db, "marta@example.com", tomorrowAt(10, 30), "ripetizione")
	assert.ErrorIs(t, err, services.ErrSlotConflict)

	_, err = services.ReserveSlot(db, "marta@example.com", tomorrowAt(11, 0), "ripetizione")
	assert.NoError(t, err, "back-to-back sessions must not conflict")
}

func TestReserveSlot_SameStartTime_Conflicts(t *testing.T) {
	db := newTestDB(t)
	tutor := createTutor(t, db, "Marta", "marta@example.com")
	createCallType(t, db, "ripetizione", 60, true)
	addAvailability(t, db, tutor.ID, tomorrowAt(9, 0), tomorrowAt(12, 0))

	_, err := services.ReserveSlot(db, "marta@example.com", tomorrowAt(10, 0), "ripetizione")
	require.NoError(t, err)

	_, err = services.ReserveSlot(db, "marta@example.com", tomorrowAt(10, 0), "ripetizione")
	assert.ErrorIs(t, err, services.ErrSlotConflict)
}

func TestReserveSlot_OutsideAvailability_Rejected(t *testing.T) {
	// A 60-min session at 11:30 spills past the 12:00 window edge.

	db := newTestDB(t)
	tutor := createTutor(t, db, "Marta", "marta@example.com")
	createCallType(t, db, "ripetizione", 60, true)
	addAvailability(t, db, tutor.ID, tomorrowAt(9, 0), tomorrowAt(12, 0))

	_, err := services.ReserveSlot(db, "marta@example.com", tomorrowAt(14, 0), "ripetizione")
	assert.ErrorIs(t, err, services.ErrOutsideAvailability)

	_, err = services.ReserveSlot(db, "marta@example.com", tomorrowAt(11, 30), "ripetizione")
	assert.ErrorIs(t, err, services.ErrOutsideAvailability, "interval must be fully covered")
}

func TestReserveSlot_CoveredBySecondBlock_Succeeds(t *testing.T) {
	// Blocks need not be contiguous; any one block covering the
	// interval is enough.

	db := newTestDB(t)
	tutor := createTutor(t, db, "Marta", "marta@example.com")
	createCallType(t, db, "ripetizione", 60, true)
	addAvailability(t, db, tutor.ID, tomorrowAt(9, 0), tomorrowAt(10, 0))
	addAvailability(t, db, tutor.ID, tomorrowAt(15, 0), tomorrowAt(18, 0))

	_, err := services.ReserveSlot(db, "marta@example.com", tomorrowAt(16, 0), "ripetizione")
	assert.NoError(t, err)
}

func TestReserveSlot_UnknownTutor_NotFound(t *testing.T) {
	db := newTestDB(t)
	createCallType(t, db, "ripetizione", 60, true)

	_, err := services.ReserveSlot(db, "nobody@example.com", tomorrowAt(10, 0), "ripetizione")
	assert.ErrorIs(t, err, services.ErrTutorNotFound)
}

func TestReserveSlot_TutorEmailMatchIsCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	tutor := createTutor(t, db, "Marta", "marta@example.com")
	createCallType(t, db, "ripetizione", 60, true)
	addAvailability(t, db, tutor.ID, tomorrowAt(9, 0), tomorrowAt(12, 0))

	_, err := services.ReserveSlot(db, "Marta@Example.COM", tomorrowAt(10, 0), "ripetizione")
	assert.NoError(t, err)
}

func TestReserveSlot_InactiveCallType_Rejected(t *testing.T) {
	db := newTestDB(t)
	tutor := createTutor(t, db, "Marta", "marta@example.com")
	createCallType(t, db, "vecchio-formato", 60, false)
	addAvailability(t, db, tutor.ID, tomorrowAt(9, 0), tomorrowAt(12, 0))

	// The inactive flag must survive the insert as-is.
	var ct models.CallType
	require.NoError(t, db.First(&ct, "slug = ?", "vecchio-formato").Error)
	require.False(t, ct.Active)

	_, err := services.ReserveSlot(db, "marta@example.com", tomorrowAt(10, 0), "vecchio-formato")
	assert.ErrorIs(t, err, services.ErrCallTypeInvalid)

	_, err = services.ReserveSlot(db, "marta@example.com", tomorrowAt(10, 0), "inesistente")
	assert.ErrorIs(t, err, services.ErrCallTypeInvalid)
}

func TestReserveSlot_TimeInPast_Rejected(t *testing.T) {
	db := newTestDB(t)
	tutor := createTutor(t, db, "Marta", "marta@example.com")
	createCallType(t, db, "ripetizione", 60, true)
	yesterday := time.Now().UTC().AddDate(0, 0, -1)
	addAvailability(t, db, tutor.ID, yesterday.Add(-time.Hour), yesterday.Add(6*time.Hour))

	_, err := services.ReserveSlot(db, "marta@example.com", yesterday, "ripetizione")
	assert.ErrorIs(t, err, services.ErrTimeInPast)
}

func TestReserveSlot_FreedSlot_IsRebookedInPlace(t *testing.T) {
	// GIVEN: a slot row left free by a cancellation
	// WHEN: the same start time is reserved again with another call type
	// THEN: the existing row is rebooked, no second row appears

	db := newTestDB(t)
	tutor := createTutor(t, db, "Marta", "marta@example.com")
	createCallType(t, db, "ripetizione", 60, true)
	createCallType(t, db, "conoscitiva", 30, true)
	addAvailability(t, db, tutor.ID, tomorrowAt(9, 0), tomorrowAt(12, 0))

	first, err := services.ReserveSlot(db, "marta@example.com", tomorrowAt(10, 0), "ripetizione")
	require.NoError(t, err)
	require.NoError(t, db.Model(&models.CallSlot{}).Where("id = ?", first.ID).
		Update("status", models.SlotStatusFree).Error)

	second, err := services.ReserveSlot(db, "marta@example.com", tomorrowAt(10, 0), "conoscitiva")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 30, second.DurationMin)

	var count int64
	db.Model(&models.CallSlot{}).Where("tutor_id = ?", tutor.ID).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestReserveSlot_DifferentTutors_DoNotConflict(t *testing.T) {
	db := newTestDB(t)
	marta := createTutor(t, db, "Marta", "marta@example.com")
	luca := createTutor(t, db, "Luca", "luca@example.com")
	createCallType(t, db, "ripetizione", 60, true)
	addAvailability(t, db, marta.ID, tomorrowAt(9, 0), tomorrowAt(12, 0))
	addAvailability(t, db, luca.ID, tomorrowAt(9, 0), tomorrowAt(12, 0))

	_, err := services.ReserveSlot(db, "marta@example.com", tomorrowAt(10, 0), "ripetizione")
	require.NoError(t, err)

	_, err = services.ReserveSlot(db, "luca@example.com", tomorrowAt(10, 0), "ripetizione")
	assert.NoError(t, err)
}
