package notifications

import (
	"context"

	"github.com/9ssi7/exponent"
)

// PushSender abstracts the Expo push pipeline so handlers and tests do not
// hold a live client.
type PushSender interface {
	Publish(ctx context.Context, msgs []*exponent.Message) ([]*exponent.MessageResponse, error)
}

// ExpoSender forwards messages to the Expo push service.
type ExpoSender struct {
	client *exponent.Client
}

func NewExpoSender(c *exponent.Client) *ExpoSender {
	return &ExpoSender{client: c}
}

func (s *ExpoSender) Publish(ctx context.Context, msgs []*exponent.Message) ([]*exponent.MessageResponse, error) {
	return s.client.Publish(ctx, msgs)
}
