package main

import (
	"context"
	"time"

	"github.com/google/uuid"

	"studiobook/internal/store"
)

// advanceReservationsEvery30Mins sweeps every live tenant, moving
// reservations into in_progress and completed as their intervals pass.
func (app *application) advanceReservationsEvery30Mins() {
	sweep := func() {
		app.tenants.Each(func(id uuid.UUID, st *store.Storage) {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()

			moved, err := st.Reservations.AdvanceStatuses(ctx)
			if err != nil {
				app.logger.Errorw("reservation status sweep failed", "tenant", id, "error", err)
				return
			}
			if moved > 0 {
				app.logger.Infow("reservation statuses advanced", "tenant", id, "count", moved)
			}
		})
	}

	go func() {
		ticker := time.NewTicker(30 * time.Minute)
		defer ticker.Stop()

		sweep()
		for range ticker.C {
			sweep()
		}
	}()
}
