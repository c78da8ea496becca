package board

import (
	"context"
	"errors"
	"fmt"
)

// load fetches the cell at k; found is false if it was never stored.
func load(ctx context.Context, p Persist, k Key) (value []byte, found bool, err error) {
	value, err = p.Load(ctx, k.String())
	if errors.Is(err, ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("persist load %s: %w", k, err)
	}
	return value, true, nil
}

func store(ctx context.Context, p Persist, k Key, value []byte) error {
	err := p.Store(ctx, k.String(), value)
	if err != nil {
		return fmt.Errorf("persist store %s: %w", k, err)
	}
	return nil
}
