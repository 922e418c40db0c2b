package booking

import (
	"context"
	"errors"
	"time"

	"studiobook/internal/store"
)

// BookedInterval exposes the timing and status of an existing reservation
// for display next to the slot grid, and nothing else about it.
type BookedInterval struct {
	StartTime time.Time               `json:"start_time"`
	EndTime   time.Time               `json:"end_time"`
	Status    store.ReservationStatus `json:"status"`
}

// DayAvailability is one calendar day of slots for a room.
type DayAvailability struct {
	Date   string           `json:"date"`
	Slots  []Slot           `json:"slots"`
	Booked []BookedInterval `json:"booked"`
}

// Availability generates per-day slot sequences for a room between the
// calendar days of from and to (inclusive). Ranges longer than the
// configured maximum are rejected outright rather than truncated. A zero
// slotMinutes falls back to the configured slot duration.
func (s *Service) Availability(ctx context.Context, roomID int64, from, to time.Time, slotMinutes int) ([]DayAvailability, error) {
	from = startOfDay(from)
	to = startOfDay(to)
	if to.Before(from) {
		return nil, ErrInvalidInterval
	}

	days := int(to.Sub(from).Hours()/24) + 1
	if days > s.policy.MaxRangeDays {
		return nil, ErrRangeTooLarge
	}

	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if !room.Active || !room.Bookable {
		return nil, ErrRoomUnavailable
	}

	slotDuration := s.policy.SlotDuration
	if slotMinutes > 0 {
		slotDuration = time.Duration(slotMinutes) * time.Minute
	}

	// One overlap query covers the whole range; the per-day walk filters.
	reservations, err := s.reservations.GetForRoom(ctx, roomID, from, to.AddDate(0, 0, 1))
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	out := make([]DayAvailability, 0, days)
	for d := 0; d < days; d++ {
		day := from.AddDate(0, 0, d)
		dayEnd := day.AddDate(0, 0, 1)

		booked := make([]BookedInterval, 0)
		for _, res := range reservations {
			if Overlaps(day, dayEnd, res.StartTime, res.EndTime) {
				booked = append(booked, BookedInterval{
					StartTime: res.StartTime,
					EndTime:   res.EndTime,
					Status:    res.Status,
				})
			}
		}

		out = append(out, DayAvailability{
			Date:   day.Format("2006-01-02"),
			Slots:  GenerateDaySlots(day, reservations, slotDuration, s.policy.Hours, now),
			Booked: booked,
		})
	}
	return out, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
