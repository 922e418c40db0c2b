package booking

import (
	"time"

	"studiobook/internal/store"
)

// Overlaps reports whether the half-open intervals [s1, e1) and [s2, e2)
// overlap. Touching boundaries (e1 == s2) are not an overlap, so back-to-back
// bookings are permitted.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// FindConflicts returns every reservation in existing that overlaps
// [start, end). The caller is expected to have filtered out cancelled
// reservations already; excludeID additionally skips the reservation being
// moved during a reschedule (0 means none).
func FindConflicts(existing []store.Reservation, start, end time.Time, excludeID int64) []store.Reservation {
	var conflicts []store.Reservation
	for _, res := range existing {
		if res.ID == excludeID {
			continue
		}
		if Overlaps(start, end, res.StartTime, res.EndTime) {
			conflicts = append(conflicts, res)
		}
	}
	return conflicts
}
