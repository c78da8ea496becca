package board

import (
	"context"
	"fmt"
	"sync"
)

type inMemoryStore struct {
	entries map[string][]byte
	l       sync.Mutex
}

// NewInMemoryStore provides a Persist that keeps cells in a map, usually for testing.
func NewInMemoryStore() Persist {
	return &inMemoryStore{}
}

func (ims *inMemoryStore) Store(ctx context.Context, key string, value []byte) error {
	stored := append([]byte(nil), value...)
	ims.l.Lock()
	if ims.entries == nil {
		ims.entries = map[string][]byte{key: stored}
	} else {
		ims.entries[key] = stored
	}
	ims.l.Unlock()
	return nil
}

func (ims *inMemoryStore) Load(ctx context.Context, key string) ([]byte, error) {
	ims.l.Lock()
	value, ok := ims.entries[key]
	ims.l.Unlock()
	if !ok {
		return nil, fmt.Errorf("inMemoryStore %s: %w", key, ErrNotFound)
	}
	return append([]byte(nil), value...), nil
}

type prefixedStore struct {
	prefix string
	p      Persist
}

// WithPrefix namespaces every name stored through the returned Persist, so
// several boards can share one backend without their fixed cells colliding.
func WithPrefix(p Persist, prefix string) Persist {
	return prefixedStore{prefix, p}
}

func (ps prefixedStore) Store(ctx context.Context, key string, value []byte) error {
	return ps.p.Store(ctx, ps.prefix+key, value)
}

func (ps prefixedStore) Load(ctx context.Context, key string) ([]byte, error) {
	return ps.p.Load(ctx, ps.prefix+key)
}
