package booking

import (
	"time"

	"studiobook/internal/store"
)

// Slot is a candidate booking window within operating hours. Slots are
// derived on every query and never persisted.
type Slot struct {
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Available bool      `json:"available"`
}

// OperatingHours is the daily bookable window in the room's local time.
type OperatingHours struct {
	OpenHour    int
	OpenMinute  int
	CloseHour   int
	CloseMinute int
}

var DefaultOperatingHours = OperatingHours{OpenHour: 9, CloseHour: 22}

const DefaultSlotMinutes = 60

// GenerateDaySlots walks the operating window of the given calendar day in
// slotDuration steps and stamps each slot with an availability flag. A slot
// is unavailable when it overlaps any of the reservations or starts before
// now. No partial trailing slot is emitted. The walk is pure: identical
// inputs regenerate the identical sequence.
func GenerateDaySlots(day time.Time, reservations []store.Reservation, slotDuration time.Duration, hours OperatingHours, now time.Time) []Slot {
	open := time.Date(day.Year(), day.Month(), day.Day(), hours.OpenHour, hours.OpenMinute, 0, 0, day.Location())
	close := time.Date(day.Year(), day.Month(), day.Day(), hours.CloseHour, hours.CloseMinute, 0, 0, day.Location())

	var slots []Slot
	for cursor := open; !cursor.Add(slotDuration).After(close); cursor = cursor.Add(slotDuration) {
		slotStart := cursor
		slotEnd := cursor.Add(slotDuration)

		available := !slotStart.Before(now) &&
			len(FindConflicts(reservations, slotStart, slotEnd, 0)) == 0

		slots = append(slots, Slot{
			StartTime: slotStart,
			EndTime:   slotEnd,
			Available: available,
		})
	}
	return slots
}
