package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/jrhy/board"
)

// Persist implements the board.Persist interface for storing and loading
// cells as files, one per name.
type Persist struct {
	basepath string
}

// Load loads the bytes persisted in the named file.
func (p Persist) Load(ctx context.Context, name string) ([]byte, error) {
	b, err := os.ReadFile(filepath.Join(p.basepath, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w", name, board.ErrNotFound)
	}
	return b, err
}

// Store persists the given bytes in a file of the given name, replacing
// it atomically if it exists.
func (p Persist) Store(ctx context.Context, name string, bytes []byte) error {
	f, err := os.CreateTemp(p.basepath, ".store-*")
	if err != nil {
		return err
	}
	tmp := f.Name()
	_, err = f.Write(bytes)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err == nil {
		err = os.Rename(tmp, filepath.Join(p.basepath, name))
	}
	if err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// NewPersistForPath returns a Persist that loads and stores cells as
// files in the directory at the given path, creating it if needed.
//
//	p, err := NewPersistForPath("/var/db/board")
//	blob, err := p.Load(ctx, "AwAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA")
func NewPersistForPath(path string) (Persist, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return Persist{}, err
	}
	return Persist{path}, nil
}
