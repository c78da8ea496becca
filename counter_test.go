package board

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	t.Parallel()
	p := NewInMemoryStore()
	c := NewCounters(p)
	k := Key{9}

	n, err := c.Read(ctx, k)
	require.NoError(t, err)
	assert.Zero(t, n)

	for want := uint64(0); want < 3; want++ {
		prev, err := c.Advance(ctx, k)
		require.NoError(t, err)
		assert.Equal(t, want, prev)
	}
	n, err = c.Read(ctx, k)
	require.NoError(t, err)
	assert.Equal(t, uint64(3), n)

	raw, err := p.Load(ctx, k.String())
	require.NoError(t, err)
	assert.Equal(t, []byte{0, 0, 0, 0, 0, 0, 0, 3}, raw)
}

func TestCounterExhausted(t *testing.T) {
	t.Parallel()
	c := NewCounters(NewInMemoryStore())
	k := Key{9}
	require.NoError(t, c.write(ctx, k, math.MaxUint64))
	_, err := c.Advance(ctx, k)
	require.Error(t, err)
	n, err := c.Read(ctx, k)
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), n)
}

func TestCorruptCounter(t *testing.T) {
	t.Parallel()
	p := NewInMemoryStore()
	k := Key{9}
	require.NoError(t, p.Store(ctx, k.String(), []byte{1, 2, 3}))
	_, err := NewCounters(p).Read(ctx, k)
	require.ErrorIs(t, err, ErrCorruptCell)
	assert.True(t, IsErrProcess(err))
}
