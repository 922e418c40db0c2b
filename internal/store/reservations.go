package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ReservationStatus string

const (
	StatusScheduled  ReservationStatus = "scheduled"
	StatusInProgress ReservationStatus = "in_progress"
	StatusCompleted  ReservationStatus = "completed"
	StatusCancelled  ReservationStatus = "cancelled"
)

type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

// Reservation is a booking of a room for a half-open interval
// [StartTime, EndTime). Notes is an append-only audit trail.
type Reservation struct {
	ID            int64             `json:"id"`
	Code          string            `json:"code"`
	RoomID        int64             `json:"room_id"`
	ClientID      int64             `json:"client_id"`
	Title         string            `json:"title"`
	Notes         string            `json:"notes,omitempty"`
	StartTime     time.Time         `json:"start_time"`
	EndTime       time.Time         `json:"end_time"`
	Status        ReservationStatus `json:"status"`
	TotalPrice    float64           `json:"total_price"`
	DepositAmount float64           `json:"deposit_amount"`
	DepositPaid   bool              `json:"deposit_paid"`
	PaymentStatus PaymentStatus     `json:"payment_status"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
	CancelledAt   *time.Time        `json:"cancelled_at,omitempty"`
}

type ReservationFilter struct {
	Status *string
	Page   int
	Limit  int
}

type ReservationStore struct {
	db *pgxpool.Pool
}

const reservationColumns = `
      id, code, room_id, client_id, title, notes, start_time, end_time,
      status, total_price, deposit_amount, deposit_paid, payment_status,
      created_at, updated_at, cancelled_at`

func scanReservation(row pgx.Row, res *Reservation) error {
	return row.Scan(
		&res.ID,
		&res.Code,
		&res.RoomID,
		&res.ClientID,
		&res.Title,
		&res.Notes,
		&res.StartTime,
		&res.EndTime,
		&res.Status,
		&res.TotalPrice,
		&res.DepositAmount,
		&res.DepositPaid,
		&res.PaymentStatus,
		&res.CreatedAt,
		&res.UpdatedAt,
		&res.CancelledAt,
	)
}

// isOverlapViolation reports whether err is the exclusion constraint that
// backs the no-double-booking invariant (or the legacy unique index).
func isOverlapViolation(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return (pgErr.Code == "23P01" || pgErr.Code == "23505") &&
		pgErr.ConstraintName == "reservations_no_double_book"
}

func (s *ReservationStore) GetByID(ctx context.Context, id int64) (*Reservation, error) {
	q := `SELECT` + reservationColumns + ` FROM reservations WHERE id = $1`

	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var res Reservation
	if err := scanReservation(s.db.QueryRow(ctx, q, id), &res); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &res, nil
}

// GetForRoom returns the non-cancelled reservations for a room that overlap
// the half-open window [from, to), ordered by start time.
func (s *ReservationStore) GetForRoom(ctx context.Context, roomID int64, from, to time.Time) ([]Reservation, error) {
	q := `
      SELECT` + reservationColumns + `
      FROM reservations
      WHERE room_id = $1
        AND status <> 'cancelled'
        AND start_time < $3
        AND end_time > $2
      ORDER BY start_time
    `
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	rows, err := s.db.Query(ctx, q, roomID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Reservation
	for rows.Next() {
		var res Reservation
		if err := scanReservation(rows, &res); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}

// Create inserts the reservation only if no non-cancelled reservation for the
// same room overlaps it. The overlap re-check runs inside the INSERT itself,
// so two concurrent creates for overlapping intervals cannot both commit; the
// exclusion constraint on (room_id, time range) is the backstop. Returns
// ErrOverlap when the slot was taken.
func (s *ReservationStore) Create(ctx context.Context, res *Reservation) error {
	const q = `
      INSERT INTO reservations
        (code, room_id, client_id, title, notes, start_time, end_time,
         status, total_price, deposit_amount, payment_status)
      SELECT $1, $2, $3, $4, $5, $6, $7, 'scheduled', $8, $9, 'unpaid'
      WHERE NOT EXISTS (
        SELECT 1 FROM reservations
        WHERE room_id = $2
          AND status <> 'cancelled'
          AND start_time < $7
          AND end_time > $6
      )
      RETURNING id, status, payment_status, created_at, updated_at
    `
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	err := s.db.QueryRow(ctx, q,
		res.Code,
		res.RoomID,
		res.ClientID,
		res.Title,
		res.Notes,
		res.StartTime,
		res.EndTime,
		res.TotalPrice,
		res.DepositAmount,
	).Scan(&res.ID, &res.Status, &res.PaymentStatus, &res.CreatedAt, &res.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isOverlapViolation(err) {
			return ErrOverlap
		}
		return err
	}
	return nil
}

// Move changes a scheduled reservation's interval, re-validating absence of
// overlap against every other non-cancelled reservation for the same room as
// part of the UPDATE. The audit note is appended to the notes trail, never
// overwriting it.
func (s *ReservationStore) Move(ctx context.Context, id int64, start, end time.Time, price, deposit float64, auditNote string) (*Reservation, error) {
	q := `
      UPDATE reservations r
      SET start_time = $2,
          end_time = $3,
          total_price = $4,
          deposit_amount = $5,
          notes = CASE WHEN r.notes = '' THEN $6 ELSE r.notes || E'\n' || $6 END,
          updated_at = NOW()
      WHERE r.id = $1
        AND r.status = 'scheduled'
        AND NOT EXISTS (
          SELECT 1 FROM reservations o
          WHERE o.room_id = r.room_id
            AND o.id <> r.id
            AND o.status <> 'cancelled'
            AND o.start_time < $3
            AND o.end_time > $2
        )
      RETURNING` + reservationColumns
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var res Reservation
	err := scanReservation(s.db.QueryRow(ctx, q, id, start, end, price, deposit, auditNote), &res)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isOverlapViolation(err) {
			return nil, ErrOverlap
		}
		return nil, err
	}
	return &res, nil
}

// Cancel marks a reservation cancelled and appends the audit note. Cancelled
// and completed reservations are left untouched.
func (s *ReservationStore) Cancel(ctx context.Context, id int64, auditNote string) (*Reservation, error) {
	q := `
      UPDATE reservations
      SET status = 'cancelled',
          cancelled_at = NOW(),
          notes = CASE WHEN notes = '' THEN $2 ELSE notes || E'\n' || $2 END,
          updated_at = NOW()
      WHERE id = $1
        AND status NOT IN ('cancelled', 'completed')
      RETURNING` + reservationColumns
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	var res Reservation
	if err := scanReservation(s.db.QueryRow(ctx, q, id, auditNote), &res); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &res, nil
}

// AdvanceStatuses moves scheduled reservations into in_progress once their
// start time passes and in_progress ones into completed once their end time
// passes. The background sweeper calls it periodically.
func (s *ReservationStore) AdvanceStatuses(ctx context.Context) (int64, error) {
	q := `
      UPDATE reservations
      SET status = CASE
            WHEN end_time <= NOW() THEN 'completed'
            ELSE 'in_progress'
          END,
          updated_at = NOW()
      WHERE status IN ('scheduled', 'in_progress')
        AND start_time <= NOW()
        AND (status = 'scheduled' OR end_time <= NOW())
    `
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	tag, err := s.db.Exec(ctx, q)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

func (s *ReservationStore) GetByClient(ctx context.Context, clientID int64, filter ReservationFilter) ([]Reservation, error) {
	q := `
      SELECT` + reservationColumns + `
      FROM reservations
      WHERE client_id = $1
        AND ($2::text IS NULL OR status = $2)
      ORDER BY start_time DESC
      LIMIT $3 OFFSET $4
    `
	ctx, cancel := context.WithTimeout(ctx, QueryTimeoutDuration)
	defer cancel()

	offset := (filter.Page - 1) * filter.Limit

	rows, err := s.db.Query(ctx, q, clientID, filter.Status, filter.Limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Reservation
	for rows.Next() {
		var res Reservation
		if err := scanReservation(rows, &res); err != nil {
			return nil, err
		}
		out = append(out, res)
	}
	return out, rows.Err()
}
