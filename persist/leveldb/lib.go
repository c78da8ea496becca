// Package leveldb stores board cells in a LevelDB database.
package leveldb

import (
	"context"
	"errors"
	"fmt"

	"github.com/jrhy/board"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
	"github.com/syndtr/goleveldb/leveldb/storage"
)

// Persist implements the board.Persist interface on a LevelDB handle.
type Persist struct {
	db   *leveldb.DB
	sync bool
}

// Open opens (creating if needed) the database at path. With sync set,
// every Store is flushed to disk before returning.
func Open(path string, sync bool) (*Persist, error) {
	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &Persist{db, sync}, nil
}

// OpenInMemory opens a database that lives only as long as the process.
func OpenInMemory() (*Persist, error) {
	db, err := leveldb.Open(storage.NewMemStorage(), nil)
	if err != nil {
		return nil, err
	}
	return &Persist{db, false}, nil
}

// Load reads the value stored under name.
func (p *Persist) Load(ctx context.Context, name string) ([]byte, error) {
	value, err := p.db.Get([]byte(name), nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, fmt.Errorf("%s: %w", name, board.ErrNotFound)
	}
	return value, err
}

// Store writes value under name.
func (p *Persist) Store(ctx context.Context, name string, value []byte) error {
	return p.db.Put([]byte(name), value, &opt.WriteOptions{Sync: p.sync})
}

// Close releases the database.
func (p *Persist) Close() error {
	return p.db.Close()
}
