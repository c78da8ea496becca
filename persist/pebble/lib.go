// Package pebble stores board cells in a Pebble database.
package pebble

import (
	"context"
	"errors"
	"fmt"

	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/jrhy/board"
)

// Persist implements the board.Persist interface on a Pebble handle.
type Persist struct {
	db        *pebble.DB
	writeOpts *pebble.WriteOptions
}

// Open opens (creating if needed) the database at path. With sync set,
// every Store is flushed to disk before returning.
func Open(path string, sync bool) (*Persist, error) {
	return open(path, &pebble.Options{}, sync)
}

// OpenInMemory opens a database that lives only as long as the process.
func OpenInMemory() (*Persist, error) {
	return open("", &pebble.Options{FS: vfs.NewMem()}, false)
}

func open(path string, opts *pebble.Options, sync bool) (*Persist, error) {
	db, err := pebble.Open(path, opts)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	wo := pebble.NoSync
	if sync {
		wo = pebble.Sync
	}
	return &Persist{db, wo}, nil
}

// Load reads the value stored under name.
func (p *Persist) Load(ctx context.Context, name string) ([]byte, error) {
	v, closer, err := p.db.Get([]byte(name))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", name, board.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close()
	return append([]byte(nil), v...), nil
}

// Store writes value under name.
func (p *Persist) Store(ctx context.Context, name string, value []byte) error {
	return p.db.Set([]byte(name), value, p.writeOpts)
}

// Close releases the database.
func (p *Persist) Close() error {
	return p.db.Close()
}
