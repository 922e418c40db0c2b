// Package refcode issues the short public reference codes printed on
// reservation confirmations. Codes are opaque to clients; the database id
// stays internal.
package refcode

import (
	"fmt"
	"time"

	hashids "github.com/speps/go-hashids/v2"
)

// Alphabet drops 0/O/1/I so codes survive being read over the phone.
const (
	alphabet  = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	minLength = 8
	prefix    = "BK"
)

type Generator struct {
	h     *hashids.HashID
	nowFn func() time.Time
}

// New builds a generator keyed on salt. Two deployments with different salts
// produce disjoint code spaces.
func New(salt string) (*Generator, error) {
	data := hashids.NewData()
	data.Salt = salt
	data.MinLength = minLength
	data.Alphabet = alphabet

	h, err := hashids.NewWithData(data)
	if err != nil {
		return nil, fmt.Errorf("refcode: %w", err)
	}
	return &Generator{h: h, nowFn: time.Now}, nil
}

// Reservation encodes the room, the client and the current second into a
// code like BK-XX6K2M9P. The timestamp keeps repeat bookings of the same
// room by the same client from colliding.
func (g *Generator) Reservation(roomID, clientID int64) (string, error) {
	code, err := g.h.EncodeInt64([]int64{roomID, clientID, g.nowFn().Unix()})
	if err != nil {
		return "", fmt.Errorf("refcode: encode reservation: %w", err)
	}
	return prefix + "-" + code, nil
}
