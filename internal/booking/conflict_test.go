package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"studiobook/internal/store"
)

func TestOverlaps(t *testing.T) {
	base := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	h := func(n int) time.Time { return base.Add(time.Duration(n) * time.Hour) }

	tests := []struct {
		name           string
		s1, e1, s2, e2 time.Time
		want           bool
	}{
		{"identical", h(0), h(2), h(0), h(2), true},
		{"partial front", h(0), h(2), h(1), h(3), true},
		{"partial back", h(1), h(3), h(0), h(2), true},
		{"contained", h(0), h(4), h(1), h(2), true},
		{"containing", h(1), h(2), h(0), h(4), true},
		{"touching end-to-start", h(0), h(2), h(2), h(4), false},
		{"touching start-to-end", h(2), h(4), h(0), h(2), false},
		{"disjoint", h(0), h(1), h(3), h(4), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Overlaps(tc.s1, tc.e1, tc.s2, tc.e2))
		})
	}
}

func TestFindConflicts(t *testing.T) {
	base := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	h := func(n int) time.Time { return base.Add(time.Duration(n) * time.Hour) }

	existing := []store.Reservation{
		{ID: 1, StartTime: h(10), EndTime: h(11)},
		{ID: 2, StartTime: h(12), EndTime: h(14)},
		{ID: 3, StartTime: h(15), EndTime: h(16)},
	}

	conflicts := FindConflicts(existing, h(13), h(15), 0)
	if assert.Len(t, conflicts, 1) {
		assert.Equal(t, int64(2), conflicts[0].ID)
	}

	assert.Empty(t, FindConflicts(existing, h(11), h(12), 0),
		"slot between back-to-back reservations is free")

	assert.Empty(t, FindConflicts(existing, h(12), h(13), 2),
		"the reservation being moved is not its own conflict")

	wide := FindConflicts(existing, h(9), h(17), 0)
	assert.Len(t, wide, 3)
}
