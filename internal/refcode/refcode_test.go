package refcode

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReservationCode(t *testing.T) {
	gen, err := New("test-salt")
	require.NoError(t, err)

	code, err := gen.Reservation(1, 10)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(code, "BK-"))
	assert.GreaterOrEqual(t, len(code), len("BK-")+8)
	for _, r := range strings.TrimPrefix(code, "BK-") {
		assert.Contains(t, alphabet, string(r))
	}
}

func TestReservationCode_DistinctAcrossInputs(t *testing.T) {
	gen, err := New("test-salt")
	require.NoError(t, err)
	frozen := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	gen.nowFn = func() time.Time { return frozen }

	a, err := gen.Reservation(1, 10)
	require.NoError(t, err)
	b, err := gen.Reservation(1, 11)
	require.NoError(t, err)
	c, err := gen.Reservation(2, 10)
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.NotEqual(t, a, c)
	assert.NotEqual(t, b, c)
}

func TestReservationCode_SaltSeparatesDeployments(t *testing.T) {
	frozen := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	first, err := New("salt-one")
	require.NoError(t, err)
	first.nowFn = func() time.Time { return frozen }

	second, err := New("salt-two")
	require.NoError(t, err)
	second.nowFn = func() time.Time { return frozen }

	a, err := first.Reservation(1, 10)
	require.NoError(t, err)
	b, err := second.Reservation(1, 10)
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}
