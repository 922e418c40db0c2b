package mailer

import "embed"

const (
	FromName                     = "StudioBook"
	maxRetries                   = 3
	ReservationConfirmedTemplate = "reservation_confirmed.tmpl"
	ReservationCancelledTemplate = "reservation_cancelled.tmpl"
)

//go:embed "templates"
var FS embed.FS

type Client interface {
	Send(templateFile, username, email string, data any) (int, error)
}
