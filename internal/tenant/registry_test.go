package tenant

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDSNMap(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	raw := a.String() + "=postgres://localhost/studio_a; " +
		b.String() + "=postgres://localhost/studio_b"

	got, err := ParseDSNMap(raw)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "postgres://localhost/studio_a", got[a])
	assert.Equal(t, "postgres://localhost/studio_b", got[b])
}

func TestParseDSNMap_Rejects(t *testing.T) {
	_, err := ParseDSNMap("not-a-uuid=postgres://localhost/x")
	assert.Error(t, err)

	_, err = ParseDSNMap("missing-separator")
	assert.Error(t, err)
}

func TestParseDSNMap_Empty(t *testing.T) {
	got, err := ParseDSNMap("")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRegistry_UnknownTenant(t *testing.T) {
	reg := NewRegistry(map[uuid.UUID]string{}, 4, "15m")
	_, err := reg.Storage(uuid.New())
	assert.ErrorIs(t, err, ErrUnknownTenant)
}

func TestContextRoundTrip(t *testing.T) {
	id := uuid.New()
	ctx := WithID(context.Background(), id)

	got, ok := IDFromContext(ctx)
	require.True(t, ok)
	assert.Equal(t, id, got)

	_, ok = IDFromContext(context.Background())
	assert.False(t, ok)
}
