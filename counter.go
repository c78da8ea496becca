package board

import (
	"context"
	"encoding/binary"
	"fmt"
)

// counterWidth is the size of a stored counter cell, a big-endian uint64.
const counterWidth = 8

// Counters maintains monotonic counter cells. A counter that was never
// written reads as zero.
type Counters struct {
	persist Persist
}

// NewCounters returns counters kept in p.
func NewCounters(p Persist) Counters {
	return Counters{p}
}

// Read returns the current value of the counter at k.
func (c Counters) Read(ctx context.Context, k Key) (uint64, error) {
	b, found, err := load(ctx, c.persist, k)
	if err != nil {
		return 0, err
	}
	if !found {
		return 0, nil
	}
	return decodeCounter(k, b)
}

// Advance increments the counter at k and returns its value before the
// increment, which is the index of the record just appended.
func (c Counters) Advance(ctx context.Context, k Key) (uint64, error) {
	n, err := c.Read(ctx, k)
	if err != nil {
		return 0, err
	}
	if n+1 == 0 {
		return 0, fmt.Errorf("advance %s: counter exhausted", k)
	}
	if err := c.write(ctx, k, n+1); err != nil {
		return 0, err
	}
	return n, nil
}

func (c Counters) write(ctx context.Context, k Key, n uint64) error {
	return store(ctx, c.persist, k, encodeCounter(n))
}

func encodeCounter(n uint64) []byte {
	b := make([]byte, counterWidth)
	binary.BigEndian.PutUint64(b, n)
	return b
}

func decodeCounter(k Key, b []byte) (uint64, error) {
	if len(b) != counterWidth {
		return 0, fmt.Errorf("counter %s has %d bytes: %w", k, len(b), ErrCorruptCell)
	}
	return binary.BigEndian.Uint64(b), nil
}
