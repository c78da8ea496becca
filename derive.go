package board

import (
	"encoding/binary"
	"hash"

	"github.com/minio/blake2b-simd"
	"golang.org/x/crypto/sha3"
)

// HashFunc constructs the hash keys are derived with.
type HashFunc func() hash.Hash

var (
	// Keccak256 is the original (pre-SHA3) Keccak, which existing boards
	// were laid out with.
	Keccak256 HashFunc = sha3.NewLegacyKeccak256
	// Blake2b256 is a faster choice for new boards.
	Blake2b256 HashFunc = blake2b.New256
)

const (
	messageTag = "message_key"
	friendsTag = "messaging_friends_key"

	// indexWidth is the fixed width sequence numbers are hashed at.
	indexWidth = 32
)

// Canonical orders a pair so that both directions of a conversation
// derive the same keys.
func Canonical(a, b Identity) (Identity, Identity) {
	if a.Compare(b) > 0 {
		return b, a
	}
	return a, b
}

// A Deriver computes the keys of one board. Every derivation within a tag
// hashes a distinct fixed number of bytes, so different scopes and indices
// never share hash input.
type Deriver struct {
	owner   Identity
	newHash HashFunc
}

// NewDeriver returns a Deriver for the board owned by owner; a nil h means Keccak256.
func NewDeriver(owner Identity, h HashFunc) Deriver {
	if h == nil {
		h = Keccak256
	}
	return Deriver{owner, h}
}

// Owner is the identity every key is namespaced by.
func (d Deriver) Owner() Identity {
	return d.owner
}

func (d Deriver) sum(parts ...[]byte) Key {
	h := d.newHash()
	for _, p := range parts {
		h.Write(p)
	}
	var k Key
	copy(k[:], h.Sum(nil))
	return k
}

func indexBytes(i uint64) []byte {
	b := make([]byte, indexWidth)
	binary.LittleEndian.PutUint64(b, i)
	return b
}

// BroadcastMessage is the key of the i'th broadcast message.
func (d Deriver) BroadcastMessage(i uint64) Key {
	return d.sum([]byte(messageTag), d.owner[:], indexBytes(i))
}

// DirectedMessage is the key of the i'th message between a and b, in either direction.
func (d Deriver) DirectedMessage(i uint64, a, b Identity) Key {
	lo, hi := Canonical(a, b)
	return d.sum([]byte(messageTag), d.owner[:], lo[:], hi[:], indexBytes(i))
}

// Thread is the key of the message counter shared by a and b.
func (d Deriver) Thread(a, b Identity) Key {
	lo, hi := Canonical(a, b)
	return d.sum([]byte(messageTag), d.owner[:], lo[:], hi[:])
}

// Friends is the key of person's friend set.
func (d Deriver) Friends(person Identity) Key {
	return d.sum([]byte(friendsTag), d.owner[:], person[:])
}
