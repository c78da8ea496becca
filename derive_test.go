package board

import (
	"encoding/hex"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/sha3"
)

var defaultGopterParameters = gopter.DefaultTestParameters()

var genIdentity = gen.SliceOfN(IdentityLength, gen.UInt8()).Map(func(b []uint8) Identity {
	var id Identity
	copy(id[:], b)
	return id
})

func TestHashes(t *testing.T) {
	t.Parallel()
	// digests of the empty input
	assert.Equal(t, "c5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470",
		hex.EncodeToString(Keccak256().Sum(nil)))
	assert.Equal(t, "0e5751c026e543b2e8ab2eb06099daa1d1e5df47778f7787faab45cdf12fe3a8",
		hex.EncodeToString(Blake2b256().Sum(nil)))
}

func TestKeyLayout(t *testing.T) {
	t.Parallel()
	d := NewDeriver(owner, nil)
	lo, hi := alice, bob

	index := make([]byte, 32)
	index[0] = 7
	h := sha3.NewLegacyKeccak256()
	h.Write([]byte("message_key"))
	h.Write(owner[:])
	h.Write(index)
	assert.Equal(t, h.Sum(nil), d.BroadcastMessage(7).bytes())

	h.Reset()
	h.Write([]byte("message_key"))
	h.Write(owner[:])
	h.Write(lo[:])
	h.Write(hi[:])
	assert.Equal(t, h.Sum(nil), d.Thread(hi, lo).bytes())

	h.Write(index)
	assert.Equal(t, h.Sum(nil), d.DirectedMessage(7, hi, lo).bytes())

	h.Reset()
	h.Write([]byte("messaging_friends_key"))
	h.Write(owner[:])
	h.Write(carol[:])
	assert.Equal(t, h.Sum(nil), d.Friends(carol).bytes())
}

func (k Key) bytes() []byte { return k[:] }

func TestIndexIsLittleEndian(t *testing.T) {
	t.Parallel()
	b := indexBytes(0x0102)
	require.Len(t, b, 32)
	assert.Equal(t, []byte{0x02, 0x01}, b[:2])
	for _, x := range b[2:] {
		assert.Zero(t, x)
	}
}

func TestCanonicalization(t *testing.T) {
	t.Parallel()
	properties := gopter.NewProperties(defaultGopterParameters)
	properties.Property("pair keys do not depend on direction",
		prop.ForAll(
			func(a, b Identity, i uint64) bool {
				d := NewDeriver(owner, nil)
				return d.Thread(a, b) == d.Thread(b, a) &&
					d.DirectedMessage(i, a, b) == d.DirectedMessage(i, b, a)
			},
			genIdentity, genIdentity, gen.UInt64()))
	properties.Property("canonical pair is ordered",
		prop.ForAll(
			func(a, b Identity) bool {
				lo, hi := Canonical(a, b)
				return lo.Compare(hi) <= 0 &&
					(lo == a && hi == b || lo == b && hi == a)
			},
			genIdentity, genIdentity))
	properties.TestingRun(t)
}

func TestDistinctKeys(t *testing.T) {
	t.Parallel()
	seen := map[Key]string{}
	note := func(k Key, what string) {
		if prev, ok := seen[k]; ok {
			t.Fatalf("%s and %s share key %v", prev, what, k)
		}
		seen[k] = what
	}
	for _, k := range []Key{charLimitKey, creatorKey, broadcastNumKey} {
		note(k, "fixed "+k.String())
	}
	people := []Identity{alice, bob, carol, owner}
	for _, h := range []HashFunc{Keccak256, Blake2b256} {
		for _, o := range []Identity{owner, alice} {
			d := NewDeriver(o, h)
			for i := uint64(0); i < 20; i++ {
				note(d.BroadcastMessage(i), "broadcast")
			}
			for x := range people {
				note(d.Friends(people[x]), "friends")
				for y := x; y < len(people); y++ {
					note(d.Thread(people[x], people[y]), "thread")
					for i := uint64(0); i < 5; i++ {
						note(d.DirectedMessage(i, people[x], people[y]), "directed")
					}
				}
			}
		}
	}
}

func TestDeterministic(t *testing.T) {
	t.Parallel()
	properties := gopter.NewProperties(defaultGopterParameters)
	properties.Property("same inputs give same keys",
		prop.ForAll(
			func(o, a Identity, i uint64) bool {
				d1, d2 := NewDeriver(o, Keccak256), NewDeriver(o, nil)
				return d1.BroadcastMessage(i) == d2.BroadcastMessage(i) &&
					d1.Friends(a) == d2.Friends(a)
			},
			genIdentity, genIdentity, gen.UInt64()))
	properties.TestingRun(t)
}

func TestParseIdentity(t *testing.T) {
	t.Parallel()
	want := id(0xab)
	for _, s := range []string{
		"0x00000000000000000000000000000000000000ab",
		"00000000000000000000000000000000000000ab",
		"0X00000000000000000000000000000000000000AB",
	} {
		got, err := ParseIdentity(s)
		require.NoError(t, err, s)
		assert.Equal(t, want, got)
	}
	_, err := ParseIdentity("0xab")
	assert.Error(t, err)
	_, err = ParseIdentity("zz000000000000000000000000000000000000ab")
	assert.Error(t, err)
	assert.Equal(t, "0x00000000000000000000000000000000000000ab", want.String())
	assert.Equal(t, "00000000000000000000000000000000000000ab", want.Hex())

	text, err := want.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, want.String(), string(text))
	var back Identity
	require.NoError(t, back.UnmarshalText([]byte("00000000000000000000000000000000000000AB")))
	assert.Equal(t, want, back)
	assert.Error(t, back.UnmarshalText([]byte("0x1")))
}

func TestKeyString(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "AQAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA", charLimitKey.String())
}
