package booking

import (
	"math"
	"time"

	"studiobook/internal/store"
)

// RateCard is a room's pricing schedule. HalfDay applies to bookings of 4
// hours or more, FullDay to 8 hours or more; nil tiers fall through to the
// next one down.
type RateCard struct {
	Hourly  float64
	HalfDay *float64
	FullDay *float64
}

func RateCardFor(room *store.Room) RateCard {
	return RateCard{
		Hourly:  room.HourlyRate,
		HalfDay: room.HalfDayRate,
		FullDay: room.FullDayRate,
	}
}

// Price returns the unrounded price for [start, end) against the rate card.
// Flat tiers price the whole booking regardless of how far past the
// threshold the duration runs.
func Price(card RateCard, start, end time.Time) float64 {
	hours := end.Sub(start).Hours()

	switch {
	case hours >= 8 && card.FullDay != nil:
		return *card.FullDay
	case hours >= 4 && card.HalfDay != nil:
		return *card.HalfDay
	default:
		return card.Hourly * hours
	}
}

// Deposit returns the unrounded deposit for a total at the given percentage.
func Deposit(total, percent float64) float64 {
	return total * percent / 100
}

// RoundMoney rounds to 2 decimal places. Applied once at the point of
// persistence; intermediate results stay unrounded so the deposit is derived
// from the exact total.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}
