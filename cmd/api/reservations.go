package main

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"studiobook/internal/booking"
	"studiobook/internal/mailer"
	"studiobook/internal/notifications"
	"studiobook/internal/params"
	"studiobook/internal/store"
)

type CreateReservationRequest struct {
	RoomID    int64     `json:"room_id" validate:"required"`
	Title     string    `json:"title" validate:"required,max=120"`
	Notes     string    `json:"notes" validate:"max=2000"`
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`

	// Optional contact details for the emailed confirmation.
	ContactName  string `json:"contact_name" validate:"max=120"`
	ContactEmail string `json:"contact_email" validate:"omitempty,email"`
}

type CancelReservationRequest struct {
	Reason string `json:"reason" validate:"max=500"`
}

type RescheduleReservationRequest struct {
	StartTime time.Time `json:"start_time" validate:"required"`
	EndTime   time.Time `json:"end_time" validate:"required"`
}

// CreateReservation godoc
//
//	@Summary		Book a room
//	@Description	Creates a reservation for a half-open interval, pricing it from the room's rate card
//	@Tags			Reservations
//	@Accept			json
//	@Produce		json
//	@Param			X-Tenant-ID	header		string						true	"Tenant ID"
//	@Param			payload		body		CreateReservationRequest	true	"Reservation data"
//	@Success		201			{object}	store.Reservation			"Created reservation"
//	@Failure		400			{object}	error						"Bad Request"
//	@Failure		404			{object}	error						"Not Found"
//	@Failure		409			{object}	error						"Conflict"
//	@Failure		422			{object}	error						"Unprocessable"
//	@Failure		500			{object}	error						"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/reservations [post]
func (app *application) createReservationHandler(w http.ResponseWriter, r *http.Request) {
	var payload CreateReservationRequest
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	st := getStorageFromContext(r)
	clientID := getClientIDFromContext(r)
	svc := app.bookingService(st)

	res, err := svc.Create(r.Context(), booking.CreateRequest{
		RoomID:    payload.RoomID,
		ClientID:  clientID,
		Title:     payload.Title,
		Notes:     payload.Notes,
		StartTime: payload.StartTime,
		EndTime:   payload.EndTime,
	})
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	app.notifyReservation(st, res, notifications.ReservationCreated)
	if payload.ContactEmail != "" {
		app.emailConfirmation(st, res, payload.ContactName, payload.ContactEmail)
	}

	if err := app.jsonResponse(w, http.StatusCreated, res); err != nil {
		app.internalServerError(w, r, err)
	}
}

// emailConfirmation sends the booking confirmation in the background so SMTP
// latency never blocks the response.
func (app *application) emailConfirmation(st *store.Storage, res *store.Reservation, name, email string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		roomName := "your room"
		if room, err := st.Rooms.GetByID(ctx, res.RoomID); err == nil {
			roomName = room.Name
		}
		if name == "" {
			name = "there"
		}

		data := struct {
			Username      string
			RoomName      string
			Code          string
			StartTime     string
			EndTime       string
			TotalPrice    float64
			DepositAmount float64
		}{
			Username:      name,
			RoomName:      roomName,
			Code:          res.Code,
			StartTime:     res.StartTime.Format(time.RFC1123),
			EndTime:       res.EndTime.Format(time.RFC1123),
			TotalPrice:    res.TotalPrice,
			DepositAmount: res.DepositAmount,
		}

		attempts, err := app.mailer.Send(mailer.ReservationConfirmedTemplate, name, email, data)
		if err != nil {
			app.logger.Errorw("confirmation email failed", "code", res.Code, "error", err)
			return
		}
		app.logger.Infow("confirmation email sent", "code", res.Code, "attempts", attempts)
	}()
}

// GetReservation godoc
//
//	@Summary		Get one reservation
//	@Description	Returns a reservation owned by the requesting client
//	@Tags			Reservations
//	@Produce		json
//	@Param			X-Tenant-ID		header		string				true	"Tenant ID"
//	@Param			reservationID	path		int					true	"Reservation ID"
//	@Success		200				{object}	store.Reservation	"Reservation"
//	@Failure		400				{object}	error				"Bad Request"
//	@Failure		403				{object}	error				"Forbidden"
//	@Failure		404				{object}	error				"Not Found"
//	@Failure		500				{object}	error				"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/reservations/{reservationID} [get]
func (app *application) getReservationHandler(w http.ResponseWriter, r *http.Request) {
	reservationID, err := strconv.ParseInt(chi.URLParam(r, "reservationID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	st := getStorageFromContext(r)

	res, err := st.Reservations.GetByID(r.Context(), reservationID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if res.ClientID != getClientIDFromContext(r) {
		app.forbiddenResponse(w, r, booking.ErrNotOwner)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, res); err != nil {
		app.internalServerError(w, r, err)
	}
}

// ListMyReservations godoc
//
//	@Summary		List my reservations
//	@Description	Returns the requesting client's reservations, newest first
//	@Tags			Reservations
//	@Produce		json
//	@Param			X-Tenant-ID	header		string				true	"Tenant ID"
//	@Param			status		query		string				false	"Filter by status"
//	@Param			page		query		int					false	"Page, default 1"
//	@Param			limit		query		int					false	"Page size, default 20"
//	@Success		200			{array}		store.Reservation	"Reservations"
//	@Failure		400			{object}	error				"Bad Request"
//	@Failure		500			{object}	error				"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/reservations [get]
func (app *application) listMyReservationsHandler(w http.ResponseWriter, r *http.Request) {
	pagination := params.ParsePagination(r.URL.Query())
	filter := store.ReservationFilter{Page: pagination.Page, Limit: pagination.Limit}

	if raw := r.URL.Query().Get("status"); raw != "" {
		filter.Status = &raw
	}

	st := getStorageFromContext(r)

	out, err := st.Reservations.GetByClient(r.Context(), getClientIDFromContext(r), filter)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, out); err != nil {
		app.internalServerError(w, r, err)
	}
}

// CancelReservation godoc
//
//	@Summary		Cancel a reservation
//	@Description	Cancels a scheduled reservation, subject to the advance-notice policy
//	@Tags			Reservations
//	@Accept			json
//	@Produce		json
//	@Param			X-Tenant-ID		header		string						true	"Tenant ID"
//	@Param			reservationID	path		int							true	"Reservation ID"
//	@Param			payload			body		CancelReservationRequest	false	"Cancellation reason"
//	@Success		200				{object}	store.Reservation			"Cancelled reservation"
//	@Failure		400				{object}	error						"Bad Request"
//	@Failure		403				{object}	error						"Forbidden"
//	@Failure		404				{object}	error						"Not Found"
//	@Failure		422				{object}	error						"Unprocessable"
//	@Failure		500				{object}	error						"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/reservations/{reservationID}/cancel [post]
func (app *application) cancelReservationHandler(w http.ResponseWriter, r *http.Request) {
	reservationID, err := strconv.ParseInt(chi.URLParam(r, "reservationID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload CancelReservationRequest
	if r.ContentLength > 0 {
		if err := readJSON(w, r, &payload); err != nil {
			app.badRequestResponse(w, r, err)
			return
		}
		if err := Validate.Struct(payload); err != nil {
			app.badRequestResponse(w, r, err)
			return
		}
	}

	st := getStorageFromContext(r)
	svc := app.bookingService(st)

	res, err := svc.Cancel(r.Context(), reservationID, getClientIDFromContext(r), payload.Reason)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	app.notifyReservation(st, res, notifications.ReservationCancelled)

	if err := app.jsonResponse(w, http.StatusOK, res); err != nil {
		app.internalServerError(w, r, err)
	}
}

// RescheduleReservation godoc
//
//	@Summary		Reschedule a reservation
//	@Description	Moves a scheduled reservation to a new interval and reprices it
//	@Tags			Reservations
//	@Accept			json
//	@Produce		json
//	@Param			X-Tenant-ID		header		string							true	"Tenant ID"
//	@Param			reservationID	path		int								true	"Reservation ID"
//	@Param			payload			body		RescheduleReservationRequest	true	"New interval"
//	@Success		200				{object}	store.Reservation				"Moved reservation"
//	@Failure		400				{object}	error							"Bad Request"
//	@Failure		403				{object}	error							"Forbidden"
//	@Failure		404				{object}	error							"Not Found"
//	@Failure		409				{object}	error							"Conflict"
//	@Failure		422				{object}	error							"Unprocessable"
//	@Failure		500				{object}	error							"Internal Server Error"
//	@Security		ApiKeyAuth
//	@Router			/reservations/{reservationID}/reschedule [patch]
func (app *application) rescheduleReservationHandler(w http.ResponseWriter, r *http.Request) {
	reservationID, err := strconv.ParseInt(chi.URLParam(r, "reservationID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	var payload RescheduleReservationRequest
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	st := getStorageFromContext(r)
	svc := app.bookingService(st)

	res, err := svc.Reschedule(r.Context(), reservationID, getClientIDFromContext(r), payload.StartTime, payload.EndTime)
	if err != nil {
		app.bookingErrorResponse(w, r, err)
		return
	}

	app.notifyReservation(st, res, notifications.ReservationRescheduled)

	if err := app.jsonResponse(w, http.StatusOK, res); err != nil {
		app.internalServerError(w, r, err)
	}
}

// notifyReservation pushes the update to the client's devices from a
// background goroutine so the response is never held up by Expo.
func (app *application) notifyReservation(st *store.Storage, res *store.Reservation, event notifications.ReservationEvent) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		err := notifications.SendReservationNotification(ctx, app.push, st.PushTokens, res.ClientID, event, res.Code)
		if err != nil && !errors.Is(err, notifications.ErrNoTokens) {
			app.logger.Errorw("push notification failed", "code", res.Code, "event", event, "error", err)
		}
	}()
}
