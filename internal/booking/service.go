package booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"studiobook/internal/store"
)

// RoomStore is the resource lookup the engine needs; the handle it receives
// is already scoped to one tenant.
type RoomStore interface {
	GetByID(ctx context.Context, roomID int64) (*store.Room, error)
}

// ReservationStore is the reservation read/write surface. Create and Move
// must re-validate absence of overlap atomically with the write and return
// store.ErrOverlap when the interval was taken, so that under concurrent
// overlapping attempts exactly one commits.
type ReservationStore interface {
	GetByID(ctx context.Context, id int64) (*store.Reservation, error)
	GetForRoom(ctx context.Context, roomID int64, from, to time.Time) ([]store.Reservation, error)
	Create(ctx context.Context, res *store.Reservation) error
	Move(ctx context.Context, id int64, start, end time.Time, price, deposit float64, auditNote string) (*store.Reservation, error)
	Cancel(ctx context.Context, id int64, auditNote string) (*store.Reservation, error)
}

// CodeGenerator produces the public reference code stamped on new
// reservations.
type CodeGenerator interface {
	Reservation(roomID, clientID int64) (string, error)
}

// Policy holds the tunable booking rules. The defaults mirror the studio's
// standing policy; they are configuration, not law.
type Policy struct {
	CancelNotice   time.Duration
	DepositPercent float64
	SlotDuration   time.Duration
	Hours          OperatingHours
	MaxRangeDays   int
}

func DefaultPolicy() Policy {
	return Policy{
		CancelNotice:   24 * time.Hour,
		DepositPercent: 30,
		SlotDuration:   DefaultSlotMinutes * time.Minute,
		Hours:          DefaultOperatingHours,
		MaxRangeDays:   30,
	}
}

// Service owns the reservation lifecycle: create, cancel and reschedule.
// It composes the conflict detector and the rate calculator and delegates
// the atomic check-then-write to the store.
type Service struct {
	rooms        RoomStore
	reservations ReservationStore
	codes        CodeGenerator
	policy       Policy
	clock        Clock
}

func NewService(rooms RoomStore, reservations ReservationStore, codes CodeGenerator, policy Policy, clock Clock) *Service {
	if clock == nil {
		clock = RealClock()
	}
	return &Service{
		rooms:        rooms,
		reservations: reservations,
		codes:        codes,
		policy:       policy,
		clock:        clock,
	}
}

type CreateRequest struct {
	RoomID    int64
	ClientID  int64
	Title     string
	Notes     string
	StartTime time.Time
	EndTime   time.Time
}

// Create books a room for [StartTime, EndTime). The pre-check against loaded
// reservations gives a fast, detailed rejection; the store's conditional
// insert is the authoritative one, so a slot stolen between check and write
// still comes back as ErrConflict.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*store.Reservation, error) {
	if !req.EndTime.After(req.StartTime) {
		return nil, ErrInvalidInterval
	}
	if req.StartTime.Before(s.clock.Now()) {
		return nil, ErrPastBooking
	}

	room, err := s.rooms.GetByID(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if !room.Active || !room.Bookable {
		return nil, ErrRoomUnavailable
	}

	existing, err := s.reservations.GetForRoom(ctx, req.RoomID, req.StartTime, req.EndTime)
	if err != nil {
		return nil, err
	}
	if len(FindConflicts(existing, req.StartTime, req.EndTime, 0)) > 0 {
		return nil, ErrConflict
	}

	total := Price(RateCardFor(room), req.StartTime, req.EndTime)

	code, err := s.codes.Reservation(req.RoomID, req.ClientID)
	if err != nil {
		return nil, err
	}

	res := &store.Reservation{
		Code:          code,
		RoomID:        req.RoomID,
		ClientID:      req.ClientID,
		Title:         req.Title,
		Notes:         req.Notes,
		StartTime:     req.StartTime,
		EndTime:       req.EndTime,
		TotalPrice:    RoundMoney(total),
		DepositAmount: RoundMoney(Deposit(total, s.policy.DepositPercent)),
	}

	if err := s.reservations.Create(ctx, res); err != nil {
		if errors.Is(err, store.ErrOverlap) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return res, nil
}

// Cancel marks a scheduled reservation cancelled, provided the requester
// owns it and the advance-notice window still permits. The reason joins the
// notes trail; prior notes are never overwritten.
func (s *Service) Cancel(ctx context.Context, reservationID, requesterID int64, reason string) (*store.Reservation, error) {
	res, err := s.load(ctx, reservationID, requesterID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if res.StartTime.Sub(now) < s.policy.CancelNotice {
		return nil, ErrPolicyWindow
	}

	audit := fmt.Sprintf("cancelled %s", now.UTC().Format(time.RFC3339))
	if reason != "" {
		audit += ": " + reason
	}

	cancelled, err := s.reservations.Cancel(ctx, reservationID, audit)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// Raced with the operational workflow; the record is terminal now.
			return nil, ErrAlreadyTerminal
		}
		return nil, err
	}
	return cancelled, nil
}

// Reschedule moves a scheduled reservation to a new interval. The notice
// policy is judged against the original start time, the price is recomputed
// from the room's current rate card, and conflicts are re-checked excluding
// the reservation being moved.
func (s *Service) Reschedule(ctx context.Context, reservationID, requesterID int64, newStart, newEnd time.Time) (*store.Reservation, error) {
	res, err := s.load(ctx, reservationID, requesterID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	if res.StartTime.Sub(now) < s.policy.CancelNotice {
		return nil, ErrPolicyWindow
	}

	if !newEnd.After(newStart) {
		return nil, ErrInvalidInterval
	}
	if newStart.Before(now) {
		return nil, ErrPastBooking
	}

	room, err := s.rooms.GetByID(ctx, res.RoomID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if !room.Active || !room.Bookable {
		return nil, ErrRoomUnavailable
	}

	existing, err := s.reservations.GetForRoom(ctx, res.RoomID, newStart, newEnd)
	if err != nil {
		return nil, err
	}
	if len(FindConflicts(existing, newStart, newEnd, res.ID)) > 0 {
		return nil, ErrConflict
	}

	total := Price(RateCardFor(room), newStart, newEnd)

	audit := fmt.Sprintf("rescheduled %s: %s – %s moved to %s – %s",
		now.UTC().Format(time.RFC3339),
		res.StartTime.UTC().Format(time.RFC3339),
		res.EndTime.UTC().Format(time.RFC3339),
		newStart.UTC().Format(time.RFC3339),
		newEnd.UTC().Format(time.RFC3339),
	)

	moved, err := s.reservations.Move(ctx, res.ID, newStart, newEnd,
		RoundMoney(total), RoundMoney(Deposit(total, s.policy.DepositPercent)), audit)
	if err != nil {
		if errors.Is(err, store.ErrOverlap) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return moved, nil
}

// load fetches a reservation and runs the ownership and terminal-state
// checks shared by cancel and reschedule.
func (s *Service) load(ctx context.Context, reservationID, requesterID int64) (*store.Reservation, error) {
	res, err := s.reservations.GetByID(ctx, reservationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, err
	}
	if res.ClientID != requesterID {
		return nil, ErrNotOwner
	}
	if res.Status == store.StatusCancelled || res.Status == store.StatusCompleted {
		return nil, ErrAlreadyTerminal
	}
	return res, nil
}
