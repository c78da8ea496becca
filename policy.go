package board

import (
	"fmt"
	"math"
)

// MaxCharLimit is the largest char limit a board may be initialised with.
const MaxCharLimit = 1024

// CheckCharLimit rejects a char limit above MaxCharLimit.
func CheckCharLimit(limit uint64) error {
	if limit > MaxCharLimit {
		return fmt.Errorf("%w: %d > %d", ErrCharLimitTooHigh, limit, MaxCharLimit)
	}
	return nil
}

// CheckMessage rejects a body longer than limit, measured in UTF-8 bytes.
func CheckMessage(body string, limit uint64) error {
	if uint64(len(body)) > limit {
		return fmt.Errorf("%w: %d > %d", ErrMessageTooLong, len(body), limit)
	}
	return nil
}

// MaxMessages caps a request for k records by the total available. A total
// too large for k's width never caps.
func MaxMessages(k uint32, total uint64) uint32 {
	if total > math.MaxUint32 {
		return k
	}
	if uint64(k) < total {
		return k
	}
	return uint32(total)
}

// OffsetIndex converts "k before the most recent" into an absolute index.
// ok is false when there is no such record.
func OffsetIndex(k uint32, total uint64) (index uint64, ok bool) {
	if total > math.MaxUint32 || uint64(k) < total {
		return total - uint64(k) - 1, true
	}
	return 0, false
}
