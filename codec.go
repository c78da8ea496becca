package board

import (
	"encoding/json"
	"fmt"
	"sort"

	"google.golang.org/protobuf/encoding/protowire"
)

// BroadcastMessage is a message posted to the whole board.
type BroadcastMessage struct {
	Sender  Identity `json:"sender"`
	Message string   `json:"message"`
}

// DirectedMessage is a message in the thread between Sender and Recipient.
type DirectedMessage struct {
	Sender    Identity `json:"sender"`
	Recipient Identity `json:"recipient"`
	Message   string   `json:"message"`
}

// Indexed pairs a record with its position in its sequence.
type Indexed[R any] struct {
	Index  uint64
	Record R
}

type recordCodec[R any] struct {
	marshal   func(R) ([]byte, error)
	unmarshal func([]byte) (R, error)
}

func jsonCodec[R any]() recordCodec[R] {
	return recordCodec[R]{
		marshal: func(r R) ([]byte, error) { return json.Marshal(r) },
		unmarshal: func(b []byte) (R, error) {
			var r R
			err := json.Unmarshal(b, &r)
			return r, err
		},
	}
}

func broadcastCodec(f Format) (recordCodec[BroadcastMessage], error) {
	switch f {
	case FormatJSON:
		return jsonCodec[BroadcastMessage](), nil
	case FormatBinary:
		return recordCodec[BroadcastMessage]{marshalBroadcast, unmarshalBroadcast}, nil
	}
	return recordCodec[BroadcastMessage]{}, fmt.Errorf("format %d: %w", f, ErrUnknownFormat)
}

func directedCodec(f Format) (recordCodec[DirectedMessage], error) {
	switch f {
	case FormatJSON:
		return jsonCodec[DirectedMessage](), nil
	case FormatBinary:
		return recordCodec[DirectedMessage]{marshalDirected, unmarshalDirected}, nil
	}
	return recordCodec[DirectedMessage]{}, fmt.Errorf("format %d: %w", f, ErrUnknownFormat)
}

func friendsCodec(f Format) (recordCodec[FriendSet], error) {
	switch f {
	case FormatJSON:
		c := jsonCodec[FriendSet]()
		// sets written by other implementations are unordered
		decode := c.unmarshal
		c.unmarshal = func(b []byte) (FriendSet, error) {
			fs, err := decode(b)
			return fs.normalized(), err
		}
		return c, nil
	case FormatBinary:
		return recordCodec[FriendSet]{marshalFriends, unmarshalFriends}, nil
	}
	return recordCodec[FriendSet]{}, fmt.Errorf("format %d: %w", f, ErrUnknownFormat)
}

// Field numbers of the binary format.
const (
	fieldSender    protowire.Number = 1
	fieldMessage   protowire.Number = 2
	fieldRecipient protowire.Number = 3
	fieldFriend    protowire.Number = 1
)

func marshalBroadcast(m BroadcastMessage) ([]byte, error) {
	var b []byte
	b = protowire.AppendTag(b, fieldSender, protowire.BytesType)
	b = protowire.AppendBytes(b, m.Sender[:])
	b = protowire.AppendTag(b, fieldMessage, protowire.BytesType)
	b = protowire.AppendString(b, m.Message)
	return b, nil
}

func unmarshalBroadcast(b []byte) (BroadcastMessage, error) {
	var m BroadcastMessage
	err := walkFields(b, func(num protowire.Number, v []byte) error {
		switch num {
		case fieldSender:
			return decodeIdentity(&m.Sender, v)
		case fieldMessage:
			m.Message = string(v)
		}
		return nil
	})
	return m, err
}

func marshalDirected(m DirectedMessage) ([]byte, error) {
	var b []byte
	b = protowire.AppendTag(b, fieldSender, protowire.BytesType)
	b = protowire.AppendBytes(b, m.Sender[:])
	b = protowire.AppendTag(b, fieldMessage, protowire.BytesType)
	b = protowire.AppendString(b, m.Message)
	b = protowire.AppendTag(b, fieldRecipient, protowire.BytesType)
	b = protowire.AppendBytes(b, m.Recipient[:])
	return b, nil
}

func unmarshalDirected(b []byte) (DirectedMessage, error) {
	var m DirectedMessage
	err := walkFields(b, func(num protowire.Number, v []byte) error {
		switch num {
		case fieldSender:
			return decodeIdentity(&m.Sender, v)
		case fieldRecipient:
			return decodeIdentity(&m.Recipient, v)
		case fieldMessage:
			m.Message = string(v)
		}
		return nil
	})
	return m, err
}

func marshalFriends(fs FriendSet) ([]byte, error) {
	var b []byte
	for _, f := range fs.Friends {
		b = protowire.AppendTag(b, fieldFriend, protowire.BytesType)
		b = protowire.AppendString(b, f)
	}
	return b, nil
}

func unmarshalFriends(b []byte) (FriendSet, error) {
	var fs FriendSet
	err := walkFields(b, func(num protowire.Number, v []byte) error {
		if num == fieldFriend {
			fs.Friends = append(fs.Friends, string(v))
		}
		return nil
	})
	return fs.normalized(), err
}

// walkFields calls f with every length-delimited field of b, skipping others.
func walkFields(b []byte, f func(protowire.Number, []byte) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return fmt.Errorf("tag: %w", protowire.ParseError(n))
		}
		b = b[n:]
		if typ != protowire.BytesType {
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return fmt.Errorf("field %d: %w", num, protowire.ParseError(n))
			}
			b = b[n:]
			continue
		}
		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return fmt.Errorf("field %d: %w", num, protowire.ParseError(n))
		}
		b = b[n:]
		if err := f(num, v); err != nil {
			return err
		}
	}
	return nil
}

func decodeIdentity(id *Identity, v []byte) error {
	if len(v) != IdentityLength {
		return fmt.Errorf("identity has %d bytes: %w", len(v), ErrCorruptCell)
	}
	copy(id[:], v)
	return nil
}

// normalized sorts and deduplicates the set.
func (fs FriendSet) normalized() FriendSet {
	if len(fs.Friends) == 0 {
		return FriendSet{}
	}
	out := append([]string(nil), fs.Friends...)
	sort.Strings(out)
	j := 0
	for i := range out {
		if i == 0 || out[i] != out[j-1] {
			out[j] = out[i]
			j++
		}
	}
	return FriendSet{Friends: out[:j]}
}
