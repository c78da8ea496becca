package board

import (
	"context"
	"fmt"
)

// An Arena simulates an append-only list on top of point lookups: slot i
// lives under slotKey(i), and a counter cell holds the length. All appends
// go through Append, so the length always equals the highest written slot
// plus one.
type Arena[R any] struct {
	persist  Persist
	counters Counters
	length   Key
	slotKey  func(uint64) Key
	codec    recordCodec[R]
	cache    RecordCache
}

func newArena[R any](p Persist, length Key, slotKey func(uint64) Key, codec recordCodec[R], cache RecordCache) Arena[R] {
	return Arena[R]{
		persist:  p,
		counters: NewCounters(p),
		length:   length,
		slotKey:  slotKey,
		codec:    codec,
		cache:    cache,
	}
}

// Len is the number of records appended so far.
func (a Arena[R]) Len(ctx context.Context) (uint64, error) {
	return a.counters.Read(ctx, a.length)
}

// Append stores r in the next slot and returns its index. The record is
// written before the length advances: if the record write fails nothing
// changes, and if the length write fails the orphaned slot is reused by
// the next Append.
func (a Arena[R]) Append(ctx context.Context, r R) (uint64, error) {
	n, err := a.Len(ctx)
	if err != nil {
		return 0, fmt.Errorf("read length: %w", err)
	}
	b, err := a.codec.marshal(r)
	if err != nil {
		return 0, fmt.Errorf("marshal record %d: %w", n, err)
	}
	k := a.slotKey(n)
	if err := store(ctx, a.persist, k, b); err != nil {
		return 0, err
	}
	prev, err := a.counters.Advance(ctx, a.length)
	if err != nil {
		return 0, fmt.Errorf("advance length: %w", err)
	}
	if prev != n {
		return 0, fmt.Errorf("length moved from %d to %d during append", n, prev)
	}
	if a.cache != nil {
		a.cache.Add(k, r)
	}
	return n, nil
}

// Get loads the record at index i. A missing slot is ErrMissingRecord:
// callers only ask for indices below the length.
func (a Arena[R]) Get(ctx context.Context, i uint64) (R, error) {
	var zero R
	k := a.slotKey(i)
	if a.cache != nil {
		if r, ok := a.cache.Get(k); ok {
			if rec, ok := r.(R); ok {
				return rec, nil
			}
		}
	}
	b, found, err := load(ctx, a.persist, k)
	if err != nil {
		return zero, err
	}
	if !found {
		return zero, fmt.Errorf("index %d (%s): %w", i, k, ErrMissingRecord)
	}
	r, err := a.codec.unmarshal(b)
	if err != nil {
		return zero, fmt.Errorf("unmarshal record %d (%s): %w", i, k, err)
	}
	if a.cache != nil {
		a.cache.Add(k, r)
	}
	return r, nil
}

// ReadRecent returns up to k of the total records, most recent first.
func (a Arena[R]) ReadRecent(ctx context.Context, total uint64, k uint32) ([]Indexed[R], error) {
	n := MaxMessages(k, total)
	out := make([]Indexed[R], 0, n)
	for i := uint32(0); i < n; i++ {
		index := total - uint64(i) - 1
		r, err := a.Get(ctx, index)
		if err != nil {
			return nil, err
		}
		out = append(out, Indexed[R]{index, r})
	}
	return out, nil
}

// ReadByOffset returns the record k before the most recent of total.
// ok is false when there is no such record.
func (a Arena[R]) ReadByOffset(ctx context.Context, total uint64, k uint32) (rec Indexed[R], ok bool, err error) {
	index, ok := OffsetIndex(k, total)
	if !ok {
		return rec, false, nil
	}
	r, err := a.Get(ctx, index)
	if err != nil {
		return rec, false, err
	}
	return Indexed[R]{index, r}, true, nil
}

// Recent is ReadRecent against the current length.
func (a Arena[R]) Recent(ctx context.Context, k uint32) ([]Indexed[R], error) {
	total, err := a.Len(ctx)
	if err != nil {
		return nil, err
	}
	return a.ReadRecent(ctx, total, k)
}

// ByOffset is ReadByOffset against the current length.
func (a Arena[R]) ByOffset(ctx context.Context, k uint32) (Indexed[R], bool, error) {
	total, err := a.Len(ctx)
	if err != nil {
		return Indexed[R]{}, false, err
	}
	return a.ReadByOffset(ctx, total, k)
}
