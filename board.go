package board

import (
	"context"
	"fmt"
	"log/slog"
)

// Board is a message board laid out over a Persist: a broadcast feed, a
// thread per pair of identities, and a friend set per identity, all
// namespaced by the board's owner.
//
// A Board assumes its caller serializes operations; each operation is a
// short sequence of single-cell reads and writes with no transaction
// around them.
type Board struct {
	persist    Persist
	deriver    Deriver
	counters   Counters
	broadcasts Arena[BroadcastMessage]
	directed   recordCodec[DirectedMessage]
	friends    FriendIndex
	cache      RecordCache
	log        *slog.Logger
}

// Initialize sets up a new board owned by creator in cfg.Persist. A char
// limit above MaxCharLimit is rejected before anything is written.
func Initialize(ctx context.Context, cfg *Config, creator Identity, charLimit uint64) (*Board, error) {
	c := cfg.withDefaults()
	if c.Persist == nil {
		return nil, fmt.Errorf("no persistence mechanism set; set Config.Persist")
	}
	if err := CheckCharLimit(charLimit); err != nil {
		c.Logger.Warn("char_limit_rejected", "char_limit", charLimit, "max", MaxCharLimit)
		return nil, err
	}
	_, found, err := load(ctx, c.Persist, creatorKey)
	if err != nil {
		return nil, fmt.Errorf("load creator: %w", err)
	}
	if found {
		return nil, ErrAlreadyInitialised
	}
	b, err := newBoard(c, creator)
	if err != nil {
		return nil, err
	}
	if err := b.counters.write(ctx, charLimitKey, charLimit); err != nil {
		return nil, fmt.Errorf("store char limit: %w", err)
	}
	if err := store(ctx, c.Persist, creatorKey, creator[:]); err != nil {
		return nil, fmt.Errorf("store creator: %w", err)
	}
	if err := b.counters.write(ctx, broadcastNumKey, 0); err != nil {
		return nil, fmt.Errorf("store message count: %w", err)
	}
	c.Logger.Info("board_initialized", "owner", creator.String(), "char_limit", charLimit)
	return b, nil
}

// Open loads a board previously set up with Initialize.
func Open(ctx context.Context, cfg *Config) (*Board, error) {
	c := cfg.withDefaults()
	if c.Persist == nil {
		return nil, fmt.Errorf("no persistence mechanism set; set Config.Persist")
	}
	v, found, err := load(ctx, c.Persist, creatorKey)
	if err != nil {
		return nil, fmt.Errorf("load creator: %w", err)
	}
	if !found {
		return nil, ErrNotInitialised
	}
	var owner Identity
	if err := decodeIdentity(&owner, v); err != nil {
		return nil, fmt.Errorf("creator: %w", err)
	}
	return newBoard(c, owner)
}

func newBoard(c Config, owner Identity) (*Board, error) {
	bc, err := broadcastCodec(c.Format)
	if err != nil {
		return nil, err
	}
	dc, err := directedCodec(c.Format)
	if err != nil {
		return nil, err
	}
	fc, err := friendsCodec(c.Format)
	if err != nil {
		return nil, err
	}
	d := NewDeriver(owner, c.Hash)
	return &Board{
		persist:    c.Persist,
		deriver:    d,
		counters:   NewCounters(c.Persist),
		broadcasts: newArena(c.Persist, broadcastNumKey, d.BroadcastMessage, bc, c.RecordCache),
		directed:   dc,
		friends:    FriendIndex{c.Persist, d, fc},
		cache:      c.RecordCache,
		log:        c.Logger,
	}, nil
}

// Owner is the identity that initialised the board.
func (b *Board) Owner() Identity {
	return b.deriver.Owner()
}

// Deriver returns the key deriver of the board.
func (b *Board) Deriver() Deriver {
	return b.deriver
}

// CharLimit is the longest message body the board accepts, in bytes.
func (b *Board) CharLimit(ctx context.Context) (uint64, error) {
	return b.counters.Read(ctx, charLimitKey)
}

func (b *Board) checkMessage(ctx context.Context, op, body string) error {
	limit, err := b.CharLimit(ctx)
	if err != nil {
		return fmt.Errorf("read char limit: %w", err)
	}
	if err := CheckMessage(body, limit); err != nil {
		b.log.Info(op+"_rejected", "length", len(body), "char_limit", limit)
		return err
	}
	return nil
}

// Post appends a broadcast message and returns its index.
func (b *Board) Post(ctx context.Context, sender Identity, body string) (uint64, error) {
	if err := b.checkMessage(ctx, "post", body); err != nil {
		return 0, err
	}
	i, err := b.broadcasts.Append(ctx, BroadcastMessage{Sender: sender, Message: body})
	if err != nil {
		b.log.Error("post_store_failed", "sender", sender.String(), "error", err)
		return 0, fmt.Errorf("post: %w", err)
	}
	return i, nil
}

// BroadcastCount is the number of broadcast messages posted.
func (b *Board) BroadcastCount(ctx context.Context) (uint64, error) {
	return b.broadcasts.Len(ctx)
}

// RecentBroadcasts returns up to k broadcast messages, most recent first.
func (b *Board) RecentBroadcasts(ctx context.Context, k uint32) ([]Indexed[BroadcastMessage], error) {
	return b.broadcasts.Recent(ctx, k)
}

// BroadcastByOffset returns the broadcast message k before the most recent.
func (b *Board) BroadcastByOffset(ctx context.Context, k uint32) (Indexed[BroadcastMessage], bool, error) {
	return b.broadcasts.ByOffset(ctx, k)
}

func (b *Board) thread(x, y Identity) Arena[DirectedMessage] {
	d := b.deriver
	slot := func(i uint64) Key { return d.DirectedMessage(i, x, y) }
	return newArena(b.persist, d.Thread(x, y), slot, b.directed, b.cache)
}

// Send appends a message from sender to the thread shared with to, then
// records each as a friend of the other. If the message was stored but the
// friend sets were not updated, the error is a *LinkError carrying the
// message index; calling Link again completes the send.
func (b *Board) Send(ctx context.Context, sender, to Identity, body string) (uint64, error) {
	if err := b.checkMessage(ctx, "send", body); err != nil {
		return 0, err
	}
	m := DirectedMessage{Sender: sender, Recipient: to, Message: body}
	i, err := b.thread(sender, to).Append(ctx, m)
	if err != nil {
		b.log.Error("send_store_failed", "sender", sender.String(), "to", to.String(), "error", err)
		return 0, fmt.Errorf("send: %w", err)
	}
	if err := b.Link(ctx, sender, to); err != nil {
		b.log.Error("send_link_failed", "sender", sender.String(), "to", to.String(), "index", i, "error", err)
		return i, &LinkError{Index: i, Err: err}
	}
	return i, nil
}

// Link makes x and y friends of each other. It is idempotent.
func (b *Board) Link(ctx context.Context, x, y Identity) error {
	if _, err := b.friends.Add(ctx, x, y); err != nil {
		return fmt.Errorf("add %v to friends of %v: %w", y, x, err)
	}
	if _, err := b.friends.Add(ctx, y, x); err != nil {
		return fmt.Errorf("add %v to friends of %v: %w", x, y, err)
	}
	return nil
}

// ThreadCount is the number of messages exchanged between x and y.
func (b *Board) ThreadCount(ctx context.Context, x, y Identity) (uint64, error) {
	return b.thread(x, y).Len(ctx)
}

// RecentMessages returns up to k messages between x and y, in either
// direction, most recent first.
func (b *Board) RecentMessages(ctx context.Context, x, y Identity, k uint32) ([]Indexed[DirectedMessage], error) {
	return b.thread(x, y).Recent(ctx, k)
}

// MessageByOffset returns the message k before the most recent between x and y.
func (b *Board) MessageByOffset(ctx context.Context, x, y Identity, k uint32) (Indexed[DirectedMessage], bool, error) {
	return b.thread(x, y).ByOffset(ctx, k)
}

// Friends returns everyone person has exchanged a directed message with.
func (b *Board) Friends(ctx context.Context, person Identity) (FriendSet, error) {
	return b.friends.Get(ctx, person)
}
