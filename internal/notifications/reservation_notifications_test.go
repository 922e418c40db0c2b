package notifications

import (
	"context"
	"testing"

	"github.com/9ssi7/exponent"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturingSender struct {
	msgs []*exponent.Message
}

func (c *capturingSender) Publish(_ context.Context, msgs []*exponent.Message) ([]*exponent.MessageResponse, error) {
	c.msgs = append(c.msgs, msgs...)
	return nil, nil
}

type staticTokens map[int64][]string

func (s staticTokens) GetByClient(_ context.Context, clientID int64) ([]string, error) {
	return s[clientID], nil
}

func TestSendReservationNotification(t *testing.T) {
	sender := &capturingSender{}
	tokens := staticTokens{10: {"ExponentPushToken[aaa]", "ExponentPushToken[bbb]"}}

	err := SendReservationNotification(context.Background(), sender, tokens, 10, ReservationCancelled, "BK-XY2K9Q4M")
	require.NoError(t, err)

	require.Len(t, sender.msgs, 2)
	msg := sender.msgs[0]
	assert.Equal(t, "Booking Cancelled", msg.Title)
	assert.Contains(t, msg.Body, "BK-XY2K9Q4M")
	assert.Equal(t, "CANCELLED", msg.Data["event"])
	assert.Equal(t, "my-bookings", msg.Data["screen"])
}

func TestSendReservationNotification_NoTokens(t *testing.T) {
	sender := &capturingSender{}

	err := SendReservationNotification(context.Background(), sender, staticTokens{}, 10, ReservationCreated, "BK-XY2K9Q4M")
	assert.ErrorIs(t, err, ErrNoTokens)
	assert.Empty(t, sender.msgs)
}
