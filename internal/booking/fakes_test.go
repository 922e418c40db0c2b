package booking

import (
	"context"
	"fmt"
	"sync"
	"time"

	"studiobook/internal/store"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

type fakeCodes struct {
	mu sync.Mutex
	n  int
}

func (f *fakeCodes) Reservation(roomID, clientID int64) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n++
	return fmt.Sprintf("BK-%04d", f.n), nil
}

type memRooms struct {
	mu    sync.Mutex
	rooms map[int64]store.Room
}

func newMemRooms(rooms ...store.Room) *memRooms {
	m := &memRooms{rooms: make(map[int64]store.Room)}
	for _, r := range rooms {
		m.rooms[r.ID] = r
	}
	return m
}

func (m *memRooms) GetByID(_ context.Context, roomID int64) (*store.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	room, ok := m.rooms[roomID]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &room, nil
}

// memReservations mirrors the store contract: the overlap check and the
// write happen under one lock, so concurrent overlapping writes cannot both
// succeed.
type memReservations struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]store.Reservation
}

func newMemReservations() *memReservations {
	return &memReservations{byID: make(map[int64]store.Reservation)}
}

func (m *memReservations) GetByID(_ context.Context, id int64) (*store.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res, ok := m.byID[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &res, nil
}

func (m *memReservations) GetForRoom(_ context.Context, roomID int64, from, to time.Time) ([]store.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []store.Reservation
	for _, res := range m.byID {
		if res.RoomID == roomID && res.Status != store.StatusCancelled &&
			res.StartTime.Before(to) && res.EndTime.After(from) {
			out = append(out, res)
		}
	}
	return out, nil
}

func (m *memReservations) overlapsLocked(roomID int64, start, end time.Time, excludeID int64) bool {
	for _, res := range m.byID {
		if res.RoomID != roomID || res.ID == excludeID || res.Status == store.StatusCancelled {
			continue
		}
		if res.StartTime.Before(end) && res.EndTime.After(start) {
			return true
		}
	}
	return false
}

func (m *memReservations) Create(_ context.Context, res *store.Reservation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.overlapsLocked(res.RoomID, res.StartTime, res.EndTime, 0) {
		return store.ErrOverlap
	}
	m.nextID++
	res.ID = m.nextID
	res.Status = store.StatusScheduled
	res.PaymentStatus = store.PaymentUnpaid
	res.CreatedAt = time.Now()
	res.UpdatedAt = res.CreatedAt
	m.byID[res.ID] = *res
	return nil
}

func (m *memReservations) Move(_ context.Context, id int64, start, end time.Time, price, deposit float64, auditNote string) (*store.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res, ok := m.byID[id]
	if !ok || res.Status != store.StatusScheduled {
		return nil, store.ErrOverlap
	}
	if m.overlapsLocked(res.RoomID, start, end, id) {
		return nil, store.ErrOverlap
	}
	res.StartTime = start
	res.EndTime = end
	res.TotalPrice = price
	res.DepositAmount = deposit
	res.Notes = appendNote(res.Notes, auditNote)
	res.UpdatedAt = time.Now()
	m.byID[id] = res
	return &res, nil
}

func (m *memReservations) Cancel(_ context.Context, id int64, auditNote string) (*store.Reservation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res, ok := m.byID[id]
	if !ok || res.Status == store.StatusCancelled || res.Status == store.StatusCompleted {
		return nil, store.ErrNotFound
	}
	now := time.Now()
	res.Status = store.StatusCancelled
	res.CancelledAt = &now
	res.Notes = appendNote(res.Notes, auditNote)
	res.UpdatedAt = now
	m.byID[id] = res
	return &res, nil
}

// setStatus lets tests push a reservation into operationally-owned states.
func (m *memReservations) setStatus(id int64, status store.ReservationStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res := m.byID[id]
	res.Status = status
	m.byID[id] = res
}

func appendNote(notes, note string) string {
	if notes == "" {
		return note
	}
	return notes + "\n" + note
}

func ptr(v float64) *float64 { return &v }

func testRoom() store.Room {
	return store.Room{
		ID:          1,
		Name:        "Room A",
		Type:        store.RoomRecording,
		Capacity:    6,
		Active:      true,
		Bookable:    true,
		HourlyRate:  50,
		HalfDayRate: ptr(180),
		FullDayRate: ptr(300),
	}
}

func newTestService(rooms *memRooms, reservations *memReservations, now time.Time) *Service {
	return NewService(rooms, reservations, &fakeCodes{}, DefaultPolicy(), &fakeClock{now: now})
}
