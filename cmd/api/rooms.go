package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"studiobook/internal/store"
)

// ListRooms godoc
//
//	@Summary		List bookable rooms
//	@Description	Returns the studio's active rooms with their rate cards
//	@Tags			Rooms
//	@Produce		json
//	@Param			X-Tenant-ID	header		string		true	"Tenant ID"
//	@Success		200			{array}		store.Room	"Rooms"
//	@Failure		500			{object}	error		"Internal Server Error"
//	@Router			/rooms [get]
func (app *application) listRoomsHandler(w http.ResponseWriter, r *http.Request) {
	st := getStorageFromContext(r)

	rooms, err := st.Rooms.List(r.Context())
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, rooms); err != nil {
		app.internalServerError(w, r, err)
	}
}

// GetRoom godoc
//
//	@Summary		Get one room
//	@Description	Returns a single room with its rate card
//	@Tags			Rooms
//	@Produce		json
//	@Param			X-Tenant-ID	header		string		true	"Tenant ID"
//	@Param			roomID		path		int			true	"Room ID"
//	@Success		200			{object}	store.Room	"Room"
//	@Failure		400			{object}	error		"Bad Request"
//	@Failure		404			{object}	error		"Not Found"
//	@Failure		500			{object}	error		"Internal Server Error"
//	@Router			/rooms/{roomID} [get]
func (app *application) getRoomHandler(w http.ResponseWriter, r *http.Request) {
	roomID, err := strconv.ParseInt(chi.URLParam(r, "roomID"), 10, 64)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	st := getStorageFromContext(r)

	room, err := st.Rooms.GetByID(r.Context(), roomID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			app.notFoundResponse(w, r, err)
			return
		}
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, room); err != nil {
		app.internalServerError(w, r, err)
	}
}
