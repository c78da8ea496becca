package board

import (
	"context"
	"io"
	"log/slog"
)

// Persist is the interface for loading and storing serialized records and
// counter cells. Names are derived keys (see Key.String); the store needs
// nothing beyond atomic single-name get and set.
type Persist interface {
	// Store makes the given bytes accessible by the given name, replacing
	// anything previously stored under it.
	Store(context.Context, string, []byte) error
	// Load retrieves the previously-stored bytes by the given name. Names
	// that were never stored yield an error matching ErrNotFound.
	Load(context.Context, string) ([]byte, error)
}

// Format selects how records are serialized before being handed to Persist.
type Format uint8

const (
	// FormatJSON stores records as JSON objects, the shape existing boards
	// were written with.
	FormatJSON Format = iota
	// FormatBinary stores records in protobuf wire encoding.
	FormatBinary
)

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatBinary:
		return "binary"
	}
	return "unknown"
}

// Config controls where a board's cells live and how they are encoded.
type Config struct {
	// Persist is used to store and load every cell of the board.
	Persist Persist

	// Hash builds the hash used to derive keys, defaults to Keccak256.
	// Changing it makes previously written cells unreachable.
	Hash HashFunc

	// Format of stored records, defaults to FormatJSON.
	Format Format

	// RecordCache caches decoded immutable records and may be shared by
	// boards on the same Persist.
	RecordCache RecordCache

	// Logger receives validation rejections and backend failures.
	// Nil discards them.
	Logger *slog.Logger
}

func (c *Config) withDefaults() Config {
	out := Config{}
	if c != nil {
		out = *c
	}
	if out.Hash == nil {
		out.Hash = Keccak256
	}
	if out.Logger == nil {
		out.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return out
}
