package notifications

import (
	"context"
	"errors"
	"fmt"

	"github.com/9ssi7/exponent"
)

var ErrNoTokens = errors.New("no push tokens registered")

type ReservationEvent string

const (
	ReservationCreated     ReservationEvent = "CREATED"
	ReservationCancelled   ReservationEvent = "CANCELLED"
	ReservationRescheduled ReservationEvent = "RESCHEDULED"
)

// TokenSource resolves the device tokens a client has registered. The
// tenant-scoped push token store satisfies it.
type TokenSource interface {
	GetByClient(ctx context.Context, clientID int64) ([]string, error)
}

// SendReservationNotification pushes a reservation update to every device a
// client has registered. Delivery is best effort; callers fire it from a
// background goroutine and log failures.
func SendReservationNotification(ctx context.Context, push PushSender, tokens TokenSource, clientID int64, event ReservationEvent, code string) error {
	registered, err := tokens.GetByClient(ctx, clientID)
	if err != nil {
		return err
	}
	if len(registered) == 0 {
		return ErrNoTokens
	}

	var title, body string
	switch event {
	case ReservationCreated:
		title = "Booking Confirmed"
		body = fmt.Sprintf("Your studio booking %s is confirmed. See you there!", code)
	case ReservationCancelled:
		title = "Booking Cancelled"
		body = fmt.Sprintf("Your studio booking %s has been cancelled.", code)
	case ReservationRescheduled:
		title = "Booking Moved"
		body = fmt.Sprintf("Your studio booking %s has been moved to a new time.", code)
	default:
		title = "Booking Update"
		body = fmt.Sprintf("Your studio booking %s has an update.", code)
	}

	msgs := make([]*exponent.Message, 0, len(registered))
	for _, t := range registered {
		token := exponent.Token(t)
		msgs = append(msgs, &exponent.Message{
			To:    []*exponent.Token{&token},
			Title: title,
			Body:  body,
			// The data payload drives deep linking when the push is tapped.
			Data: map[string]string{
				"type":   "reservation",
				"event":  string(event),
				"code":   code,
				"screen": "my-bookings",
			},
		})
	}

	_, err = push.Publish(ctx, msgs)
	return err
}
