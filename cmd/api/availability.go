package main

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

// Availability godoc
//
//	@Summary		Room availability calendar
//	@Description	Returns per-day slot grids with booked intervals for a room over a date range of at most 30 days
//	@Tags			Rooms
//	@Produce		json
//	@Param			X-Tenant-ID		header		string					true	"Tenant ID"
//	@Param			roomID			path		int						true	"Room ID"
//	@Param			from			query		string					true	"Range start, 2006-01-02"
//	@Param			to				query		string					true	"Range end (inclusive), 2006-01-02"
//	@Param			slot_minutes	query		int						false	"Slot length override in minutes"
//	@Success		200				{array}		booking.DayAvailability	"Per-day availability"
//	@Failure		400				{object}	error					"Bad Request"
//	@Failure		404				{object}	error					"Not Found"
//	@Failure		500				{object}	error					"Internal Server Error"
//	@Router			/rooms/{roomID}/availability [get]
func (app *application) availabilityHandler(w http.ResponseWriter, r *http.Request) {
	roomID, err := strconv.ParseInt(chi.URLParam(r, "roomID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	from, err := time.Parse("2006-01-02", r.URL.Query().Get("from"))
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid from date: %w", err))
		return
	}
	to, err := time.Parse("2006-01-02", r.URL.Query().Get("to"))
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid to date: %w", err))
		return
	}

	slotMinutes := 0
	if raw := r.URL.Query().Get("slot_minutes"); raw != "" {
		slotMinutes, err = strconv.Atoi(raw)
		if err != nil || slotMinutes < 0 {
			app.badRequestResponse(w, r, fmt.Errorf("invalid slot_minutes"))
			return
		}
	}

	svc := app.bookingService(getStorageFromContext(r))

	days, err := svc.Availability(r.Context(), roomID, from, to, slotMinutes)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, days); err != nil {
		app.internalServerError(w, r, err)
	}
}
