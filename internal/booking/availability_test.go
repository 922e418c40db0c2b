package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"studiobook/internal/store"
)

func TestAvailability_SingleDay(t *testing.T) {
	rooms := newMemRooms(testRoom())
	reservations := newMemReservations()
	svc := newTestService(rooms, reservations, testNow)

	day := startOfDay(testNow.AddDate(0, 0, 2))
	_, err := svc.Create(context.Background(), CreateRequest{
		RoomID: 1, ClientID: 10, Title: "tracking",
		StartTime: day.Add(10 * time.Hour), EndTime: day.Add(11 * time.Hour),
	})
	require.NoError(t, err)

	out, err := svc.Availability(context.Background(), 1, day, day, 0)
	require.NoError(t, err)
	require.Len(t, out, 1)

	got := out[0]
	assert.Equal(t, day.Format("2006-01-02"), got.Date)
	require.Len(t, got.Slots, 13)
	assert.True(t, got.Slots[0].Available, "09:00 slot is free")
	assert.False(t, got.Slots[1].Available, "10:00 slot is booked")
	assert.True(t, got.Slots[2].Available, "11:00 slot is free")

	require.Len(t, got.Booked, 1)
	assert.Equal(t, day.Add(10*time.Hour), got.Booked[0].StartTime)
	assert.Equal(t, day.Add(11*time.Hour), got.Booked[0].EndTime)
	assert.Equal(t, store.StatusScheduled, got.Booked[0].Status)
}

func TestAvailability_MultiDay(t *testing.T) {
	rooms := newMemRooms(testRoom())
	reservations := newMemReservations()
	svc := newTestService(rooms, reservations, testNow)

	from := startOfDay(testNow.AddDate(0, 0, 2))
	to := from.AddDate(0, 0, 6)

	secondDay := from.AddDate(0, 0, 1)
	_, err := svc.Create(context.Background(), CreateRequest{
		RoomID: 1, ClientID: 10, Title: "mixing",
		StartTime: secondDay.Add(14 * time.Hour), EndTime: secondDay.Add(16 * time.Hour),
	})
	require.NoError(t, err)

	out, err := svc.Availability(context.Background(), 1, from, to, 0)
	require.NoError(t, err)
	require.Len(t, out, 7)

	for i, day := range out {
		assert.Equal(t, from.AddDate(0, 0, i).Format("2006-01-02"), day.Date)
		assert.Len(t, day.Slots, 13)
	}

	assert.Empty(t, out[0].Booked)
	require.Len(t, out[1].Booked, 1)
	assert.False(t, out[1].Slots[5].Available, "14:00 slot on the booked day")
	assert.False(t, out[1].Slots[6].Available, "15:00 slot on the booked day")
	assert.True(t, out[2].Slots[5].Available, "14:00 slot on the next day is free")
}

func TestAvailability_RangeTooLarge(t *testing.T) {
	rooms := newMemRooms(testRoom())
	svc := newTestService(rooms, newMemReservations(), testNow)

	from := startOfDay(testNow)

	_, err := svc.Availability(context.Background(), 1, from, from.AddDate(0, 0, 29), 0)
	assert.NoError(t, err, "30 days is the inclusive maximum")

	_, err = svc.Availability(context.Background(), 1, from, from.AddDate(0, 0, 30), 0)
	assert.ErrorIs(t, err, ErrRangeTooLarge)
}

func TestAvailability_Rejections(t *testing.T) {
	inactive := testRoom()
	inactive.ID = 2
	inactive.Active = false

	rooms := newMemRooms(testRoom(), inactive)
	svc := newTestService(rooms, newMemReservations(), testNow)

	from := startOfDay(testNow)

	_, err := svc.Availability(context.Background(), 1, from.AddDate(0, 0, 3), from, 0)
	assert.ErrorIs(t, err, ErrInvalidInterval)

	_, err = svc.Availability(context.Background(), 99, from, from, 0)
	assert.ErrorIs(t, err, ErrRoomNotFound)

	_, err = svc.Availability(context.Background(), 2, from, from, 0)
	assert.ErrorIs(t, err, ErrRoomUnavailable)
}

func TestAvailability_SlotMinutesOverride(t *testing.T) {
	rooms := newMemRooms(testRoom())
	svc := newTestService(rooms, newMemReservations(), testNow)

	day := startOfDay(testNow.AddDate(0, 0, 2))
	out, err := svc.Availability(context.Background(), 1, day, day, 30)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Len(t, out[0].Slots, 26)
	assert.Equal(t, 30*time.Minute, out[0].Slots[0].EndTime.Sub(out[0].Slots[0].StartTime))
}

func TestAvailability_PastSlotsMasked(t *testing.T) {
	rooms := newMemRooms(testRoom())
	svc := newTestService(rooms, newMemReservations(), testNow) // now is 12:00

	today := startOfDay(testNow)
	out, err := svc.Availability(context.Background(), 1, today, today, 0)
	require.NoError(t, err)
	require.Len(t, out, 1)

	for _, s := range out[0].Slots {
		if s.StartTime.Before(testNow) {
			assert.False(t, s.Available, "slot at %s already started", s.StartTime)
		}
	}
	// 09:00 through 11:00 starts lie before noon.
	assert.False(t, out[0].Slots[0].Available)
	assert.True(t, out[0].Slots[3].Available, "12:00 slot starts exactly now")
}
