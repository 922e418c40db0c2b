package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studiobook/internal/store"
)

func TestGenerateDaySlots_CoversOperatingWindow(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	past := day.Add(-24 * time.Hour)

	slots := GenerateDaySlots(day, nil, time.Hour, DefaultOperatingHours, past)

	// 09:00–22:00 with 60-minute slots: 13 buckets, all available.
	require.Len(t, slots, 13)
	assert.Equal(t, 9, slots[0].StartTime.Hour())
	assert.Equal(t, 22, slots[len(slots)-1].EndTime.Hour())
	for _, s := range slots {
		assert.True(t, s.Available)
		assert.Equal(t, time.Hour, s.EndTime.Sub(s.StartTime))
	}
}

func TestGenerateDaySlots_MarksBookedSlot(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	past := day.Add(-24 * time.Hour)

	booked := []store.Reservation{{
		ID:        1,
		RoomID:    1,
		StartTime: day.Add(10 * time.Hour),
		EndTime:   day.Add(11 * time.Hour),
		Status:    store.StatusScheduled,
	}}

	slots := GenerateDaySlots(day, booked, time.Hour, DefaultOperatingHours, past)
	require.Len(t, slots, 13)

	assert.True(t, slots[0].Available, "09:00–10:00 is free")
	assert.False(t, slots[1].Available, "10:00–11:00 is taken")
	assert.True(t, slots[2].Available, "11:00–12:00 is free")
}

func TestGenerateDaySlots_NoPartialTrailingSlot(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	past := day.Add(-24 * time.Hour)

	// 90-minute slots in a 13-hour window: 8 full slots, the trailing 30
	// minutes are discarded.
	slots := GenerateDaySlots(day, nil, 90*time.Minute, DefaultOperatingHours, past)
	require.Len(t, slots, 8)
	last := slots[len(slots)-1]
	assert.Equal(t, day.Add(21 * time.Hour), last.EndTime)
}

func TestGenerateDaySlots_PastSlotsUnavailable(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	now := day.Add(12*time.Hour + 30*time.Minute) // 12:30

	slots := GenerateDaySlots(day, nil, time.Hour, DefaultOperatingHours, now)
	require.Len(t, slots, 13)

	for _, s := range slots {
		if s.StartTime.Before(now) {
			assert.False(t, s.Available, "slot at %s starts in the past", s.StartTime)
		} else {
			assert.True(t, s.Available, "slot at %s is in the future", s.StartTime)
		}
	}
	// 12:00–13:00 straddles "now" and its start is in the past.
	assert.False(t, slots[3].Available)
	assert.True(t, slots[4].Available)
}

func TestGenerateDaySlots_Restartable(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	now := day.Add(11 * time.Hour)
	booked := []store.Reservation{{
		ID:        7,
		StartTime: day.Add(14 * time.Hour),
		EndTime:   day.Add(16 * time.Hour),
	}}

	first := GenerateDaySlots(day, booked, time.Hour, DefaultOperatingHours, now)
	second := GenerateDaySlots(day, booked, time.Hour, DefaultOperatingHours, now)
	assert.Equal(t, first, second)
}

func TestGenerateDaySlots_AgreesWithConflictDetector(t *testing.T) {
	day := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	past := day.Add(-24 * time.Hour)

	booked := []store.Reservation{
		{ID: 1, StartTime: day.Add(9*time.Hour + 30*time.Minute), EndTime: day.Add(10 * time.Hour)},
		{ID: 2, StartTime: day.Add(13 * time.Hour), EndTime: day.Add(15 * time.Hour)},
		{ID: 3, StartTime: day.Add(21*time.Hour + 45*time.Minute), EndTime: day.Add(23 * time.Hour)},
	}

	slots := GenerateDaySlots(day, booked, 45*time.Minute, DefaultOperatingHours, past)
	require.NotEmpty(t, slots)

	for _, s := range slots {
		free := len(FindConflicts(booked, s.StartTime, s.EndTime, 0)) == 0
		assert.Equal(t, free, s.Available, "slot %s disagrees with the conflict detector", s.StartTime)
	}
}
