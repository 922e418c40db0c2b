// Seeds every configured tenant database with the booking schema and a
// starter set of rooms. Safe to re-run; everything is idempotent.
package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"studiobook/internal/db"
	"studiobook/internal/tenant"
)

var schema = []string{
	`CREATE EXTENSION IF NOT EXISTS btree_gist`,

	`CREATE TABLE IF NOT EXISTS rooms (
		id bigserial PRIMARY KEY,
		name text NOT NULL,
		room_type text NOT NULL,
		description text NOT NULL DEFAULT '',
		capacity int NOT NULL DEFAULT 1,
		hourly_rate numeric(10,2) NOT NULL,
		half_day_rate numeric(10,2),
		full_day_rate numeric(10,2),
		active boolean NOT NULL DEFAULT true,
		bookable boolean NOT NULL DEFAULT true,
		created_at timestamptz NOT NULL DEFAULT NOW(),
		updated_at timestamptz NOT NULL DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS reservations (
		id bigserial PRIMARY KEY,
		code text NOT NULL UNIQUE,
		room_id bigint NOT NULL REFERENCES rooms (id),
		client_id bigint NOT NULL,
		title text NOT NULL DEFAULT '',
		notes text NOT NULL DEFAULT '',
		start_time timestamptz NOT NULL,
		end_time timestamptz NOT NULL,
		status text NOT NULL DEFAULT 'scheduled',
		total_price numeric(10,2) NOT NULL,
		deposit_amount numeric(10,2) NOT NULL,
		deposit_paid boolean NOT NULL DEFAULT false,
		payment_status text NOT NULL DEFAULT 'unpaid',
		created_at timestamptz NOT NULL DEFAULT NOW(),
		updated_at timestamptz NOT NULL DEFAULT NOW(),
		cancelled_at timestamptz,
		CONSTRAINT reservations_valid_interval CHECK (start_time < end_time)
	)`,

	// Half-open intervals: touching reservations are not a conflict, so the
	// range is [), and cancelled rows do not block the slot.
	`DO $$ BEGIN
		ALTER TABLE reservations ADD CONSTRAINT reservations_no_double_book
			EXCLUDE USING gist (
				room_id WITH =,
				tstzrange(start_time, end_time, '[)') WITH &&
			) WHERE (status <> 'cancelled');
	EXCEPTION WHEN duplicate_object THEN NULL;
	END $$`,

	`CREATE INDEX IF NOT EXISTS idx_reservations_room_window
		ON reservations (room_id, start_time, end_time)`,

	`CREATE INDEX IF NOT EXISTS idx_reservations_client
		ON reservations (client_id, start_time DESC)`,

	`CREATE TABLE IF NOT EXISTS client_push_tokens (
		client_id bigint NOT NULL,
		expo_push_token text NOT NULL,
		device_info jsonb,
		last_updated timestamptz NOT NULL DEFAULT NOW(),
		PRIMARY KEY (client_id, expo_push_token)
	)`,
}

var rooms = []string{
	`INSERT INTO rooms (name, room_type, description, capacity, hourly_rate, half_day_rate, full_day_rate)
	 SELECT 'Studio A', 'recording', 'Large live room with iso booth', 8, 50, 180, 300
	 WHERE NOT EXISTS (SELECT 1 FROM rooms WHERE name = 'Studio A')`,
	`INSERT INTO rooms (name, room_type, description, capacity, hourly_rate, half_day_rate, full_day_rate)
	 SELECT 'Studio B', 'mixing', 'Mix suite with ATC monitoring', 3, 35, 120, NULL
	 WHERE NOT EXISTS (SELECT 1 FROM rooms WHERE name = 'Studio B')`,
	`INSERT INTO rooms (name, room_type, description, capacity, hourly_rate, half_day_rate, full_day_rate)
	 SELECT 'Rehearsal 1', 'rehearsal', 'Backline included', 6, 20, NULL, NULL
	 WHERE NOT EXISTS (SELECT 1 FROM rooms WHERE name = 'Rehearsal 1')`,
}

func main() {
	if err := godotenv.Load(); err != nil {
		log.Fatalf("Error loading .env file: %v", err)
	}

	dsns, err := tenant.ParseDSNMap(os.Getenv("TENANTS"))
	if err != nil {
		log.Fatal(err)
	}
	if len(dsns) == 0 {
		log.Fatal("TENANTS is empty, nothing to seed")
	}

	for id, dsn := range dsns {
		pool, err := db.New(dsn, 2, "5m")
		if err != nil {
			log.Fatalf("tenant %s: %v", id, err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		for _, stmt := range schema {
			if _, err := pool.Exec(ctx, stmt); err != nil {
				log.Fatalf("tenant %s: schema: %v", id, err)
			}
		}
		for _, stmt := range rooms {
			if _, err := pool.Exec(ctx, stmt); err != nil {
				log.Fatalf("tenant %s: rooms: %v", id, err)
			}
		}
		cancel()
		pool.Close()

		log.Printf("tenant %s seeded", id)
	}
}
