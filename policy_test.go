package board

import (
	"math"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaxMessages(t *testing.T) {
	t.Parallel()
	for _, c := range []struct {
		k     uint32
		total uint64
		want  uint32
	}{
		{0, 0, 0},
		{5, 0, 0},
		{5, 2, 2},
		{2, 5, 2},
		{5, 5, 5},
		{math.MaxUint32, math.MaxUint32, math.MaxUint32},
		{7, math.MaxUint32 + 1, 7},
		{math.MaxUint32, math.MaxUint64, math.MaxUint32},
	} {
		assert.Equal(t, c.want, MaxMessages(c.k, c.total), "k=%d total=%d", c.k, c.total)
	}
}

func TestOffsetIndex(t *testing.T) {
	t.Parallel()
	for _, c := range []struct {
		k     uint32
		total uint64
		want  uint64
		ok    bool
	}{
		{0, 0, 0, false},
		{0, 1, 0, true},
		{1, 1, 0, false},
		{0, 4, 3, true},
		{3, 4, 0, true},
		{4, 4, 0, false},
		{108, 4, 0, false},
		{0, math.MaxUint32 + 1, math.MaxUint32, true},
		{math.MaxUint32, math.MaxUint32 + 1, 0, true},
	} {
		got, ok := OffsetIndex(c.k, c.total)
		assert.Equal(t, c.ok, ok, "k=%d total=%d", c.k, c.total)
		if c.ok {
			assert.Equal(t, c.want, got, "k=%d total=%d", c.k, c.total)
		}
	}
}

func TestPagingBounds(t *testing.T) {
	t.Parallel()
	properties := gopter.NewProperties(defaultGopterParameters)
	properties.Property("never more than asked for or available",
		prop.ForAll(
			func(k uint32, total uint64) bool {
				n := MaxMessages(k, total)
				return n <= k && uint64(n) <= total
			},
			gen.UInt32(), gen.UInt64Range(0, 2*math.MaxUint32)))
	properties.Property("offsets land inside the sequence",
		prop.ForAll(
			func(k uint32, total uint64) bool {
				i, ok := OffsetIndex(k, total)
				if !ok {
					return uint64(k) >= total
				}
				return i < total && i+uint64(k)+1 == total
			},
			gen.UInt32(), gen.UInt64()))
	properties.TestingRun(t)
}

func TestCharLimit(t *testing.T) {
	t.Parallel()
	require.NoError(t, CheckCharLimit(0))
	require.NoError(t, CheckCharLimit(MaxCharLimit))
	err := CheckCharLimit(MaxCharLimit + 1)
	require.ErrorIs(t, err, ErrCharLimitTooHigh)
	assert.True(t, IsErrInvalid(err))

	require.NoError(t, CheckMessage("", 0))
	require.NoError(t, CheckMessage(strings.Repeat("x", 10), 10))
	require.ErrorIs(t, CheckMessage(strings.Repeat("x", 11), 10), ErrMessageTooLong)
}
