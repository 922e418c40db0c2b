package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RoomType string

const (
	RoomRecording RoomType = "recording"
	RoomMixing    RoomType = "mixing"
	RoomMastering RoomType = "mastering"
	RoomRehearsal RoomType = "rehearsal"
	RoomLive      RoomType = "live"
)

// Room is a bookable studio room with its rate card. HalfDayRate and
// FullDayRate are optional flat tiers; nil means the tier is not offered.
type Room struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Type        RoomType  `json:"type"`
	Capacity    int       `json:"capacity"`
	Active      bool      `json:"active"`
	Bookable    bool      `json:"bookable"`
	HourlyRate  float64   `json:"hourly_rate"`
	HalfDayRate *float64  `json:"half_day_rate,omitempty"`
	FullDayRate *float64  `json:"full_day_rate,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type RoomStore struct {
	db *pgxpool.Pool
}

func (s *RoomStore) GetByID(ctx context.Context, roomID int64) (*Room, error) {
	const q = `
      SELECT id, name, room_type, capacity, active, bookable,
             hourly_rate, half_day_rate, full_day_rate, created_at, updated_at
      FROM rooms
      WHERE id = $1
    `
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var room Room
	err := s.db.QueryRow(ctx, q, roomID).Scan(
		&room.ID,
		&room.Name,
		&room.Type,
		&room.Capacity,
		&room.Active,
		&room.Bookable,
		&room.HourlyRate,
		&room.HalfDayRate,
		&room.FullDayRate,
		&room.CreatedAt,
		&room.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (s *RoomStore) List(ctx context.Context) ([]Room, error) {
	const q = `
      SELECT id, name, room_type, capacity, active, bookable,
             hourly_rate, half_day_rate, full_day_rate, created_at, updated_at
      FROM rooms
      WHERE active = true
      ORDER BY name
    `
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Room
	for rows.Next() {
		var room Room
		if err := rows.Scan(
			&room.ID,
			&room.Name,
			&room.Type,
			&room.Capacity,
			&room.Active,
			&room.Bookable,
			&room.HourlyRate,
			&room.HalfDayRate,
			&room.FullDayRate,
			&room.CreatedAt,
			&room.UpdatedAt,
		); err != nil {
			return nil, err
		}
		out = append(out, room)
	}
	return out, rows.Err()
}
