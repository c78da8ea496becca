package board

import (
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strings"
)

// IdentityLength is the size of an account address.
const IdentityLength = 20

// An Identity is an account address. Identities have a total order, used
// to canonicalize pairs.
type Identity [IdentityLength]byte

// ParseIdentity reads 40 hex digits, with or without a leading 0x.
func ParseIdentity(s string) (Identity, error) {
	var id Identity
	s = strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if len(s) != 2*IdentityLength {
		return id, fmt.Errorf("identity %q: want %d hex digits, got %d", s, 2*IdentityLength, len(s))
	}
	_, err := hex.Decode(id[:], []byte(s))
	if err != nil {
		return id, fmt.Errorf("identity %q: %w", s, err)
	}
	return id, nil
}

// Compare returns -1, 0 or 1 as id sorts before, equal to, or after o.
func (id Identity) Compare(o Identity) int {
	return bytes.Compare(id[:], o[:])
}

// Hex is the bare lowercase hex form, as recorded in friend sets.
func (id Identity) Hex() string {
	return hex.EncodeToString(id[:])
}

// String is the 0x-prefixed hex form used in records.
func (id Identity) String() string {
	return "0x" + id.Hex()
}

// MarshalText encodes id as its String form.
func (id Identity) MarshalText() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalText accepts anything ParseIdentity does.
func (id *Identity) UnmarshalText(text []byte) error {
	parsed, err := ParseIdentity(string(text))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

// KeyLength is the size of a derived key.
const KeyLength = 32

// A Key addresses one cell in the Persist.
type Key [KeyLength]byte

// Well-known cells of a board.
var (
	charLimitKey    = Key{1}
	creatorKey      = Key{2}
	broadcastNumKey = Key{3}
)

// String is the name the cell is stored under.
func (k Key) String() string {
	return base64.RawURLEncoding.EncodeToString(k[:])
}
