package store

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrOverlap           = errors.New("reservation overlaps an existing one")
	QueryTimeoutDuration = time.Second * 5
)

type Storage struct {
	Rooms interface {
		GetByID(context.Context, int64) (*Room, error)
		List(context.Context) ([]Room, error)
	}
	Reservations interface {
		GetByID(context.Context, int64) (*Reservation, error)
		GetForRoom(ctx context.Context, roomID int64, from, to time.Time) ([]Reservation, error)
		Create(context.Context, *Reservation) error
		Move(ctx context.Context, id int64, start, end time.Time, price, deposit float64, auditNote string) (*Reservation, error)
		Cancel(ctx context.Context, id int64, auditNote string) (*Reservation, error)
		GetByClient(ctx context.Context, clientID int64, filter ReservationFilter) ([]Reservation, error)
		AdvanceStatuses(ctx context.Context) (int64, error)
	}
	PushTokens interface {
		Upsert(ctx context.Context, clientID int64, token string, deviceInfo json.RawMessage) error
		Remove(ctx context.Context, clientID int64, token string) error
		GetByClient(ctx context.Context, clientID int64) ([]string, error)
	}
}

func NewStorage(db *pgxpool.Pool) Storage {
	return Storage{
		Rooms:        &RoomStore{db},
		Reservations: &ReservationStore{db},
		PushTokens:   &PushTokenStore{db},
	}
}
