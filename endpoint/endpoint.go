// Package endpoint exposes a board the way an external invoker sees it:
// every operation runs as a caller, validation failures come back as false
// or empty results, and reads come back in their encoded form.
package endpoint

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/jrhy/board"
)

// Endpoint is a board bound to the identity invoking it.
type Endpoint struct {
	board  *board.Board
	caller board.Identity
	log    *slog.Logger
}

func logger(cfg *board.Config) *slog.Logger {
	if cfg != nil && cfg.Logger != nil {
		return cfg.Logger
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// Deploy initialises a board owned by caller. A char limit above
// board.MaxCharLimit is reported and nothing is written.
func Deploy(ctx context.Context, cfg *board.Config, caller board.Identity, charLimit uint64) (*Endpoint, error) {
	log := logger(cfg)
	b, err := board.Initialize(ctx, cfg, caller, charLimit)
	if board.IsErrInvalid(err) {
		log.Warn(fmt.Sprintf("The maximum allowed char limit for messages is %d. Please pick a number <= %d.",
			board.MaxCharLimit, board.MaxCharLimit))
	}
	if err != nil {
		return nil, err
	}
	return &Endpoint{b, caller, log}, nil
}

// Attach opens an existing board as caller.
func Attach(ctx context.Context, cfg *board.Config, caller board.Identity) (*Endpoint, error) {
	b, err := board.Open(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return &Endpoint{b, caller, logger(cfg)}, nil
}

// As returns the same board invoked by another caller.
func (e *Endpoint) As(caller board.Identity) *Endpoint {
	return &Endpoint{e.board, caller, e.log}
}

// Caller is the identity operations run as.
func (e *Endpoint) Caller() board.Identity {
	return e.caller
}

// Board is the underlying board.
func (e *Endpoint) Board() *board.Board {
	return e.board
}

// GetCharLimit is the longest message the board accepts, in bytes.
func (e *Endpoint) GetCharLimit(ctx context.Context) (uint64, error) {
	return e.board.CharLimit(ctx)
}

func (e *Endpoint) rejected(ctx context.Context, err error) {
	if board.IsErrInvalid(err) {
		limit, _ := e.board.CharLimit(ctx)
		e.log.Warn(fmt.Sprintf("The message is longer than the %d character limit. Please shorten and re-send.", limit))
		return
	}
	var linkErr *board.LinkError
	if errors.As(err, &linkErr) {
		e.log.Error("send_incomplete", "caller", e.caller.String(), "index", linkErr.Index, "error", linkErr.Err)
		return
	}
	e.log.Error("operation_failed", "caller", e.caller.String(), "error", err)
}

// Post broadcasts message, reporting false if it was not stored.
func (e *Endpoint) Post(ctx context.Context, message string) bool {
	_, err := e.board.Post(ctx, e.caller, message)
	if err != nil {
		e.rejected(ctx, err)
		return false
	}
	return true
}

// Send sends message to to, reporting false if the send did not complete.
// When the message was stored but the friend sets were not updated, the
// message keeps its index and Link finishes the send; sending again would
// store the message twice.
func (e *Endpoint) Send(ctx context.Context, to board.Identity, message string) bool {
	_, err := e.board.Send(ctx, e.caller, to, message)
	if err != nil {
		e.rejected(ctx, err)
		return false
	}
	return true
}

// Link records the caller and to as friends of each other, reporting false
// if either friend set could not be written. It is idempotent.
func (e *Endpoint) Link(ctx context.Context, to board.Identity) bool {
	if err := e.board.Link(ctx, e.caller, to); err != nil {
		e.log.Error("link_failed", "caller", e.caller.String(), "to", to.String(), "error", err)
		return false
	}
	return true
}

// GetBroadcastMessages returns up to k broadcast messages as a JSON object
// keyed by decimal index, most recent first.
func (e *Endpoint) GetBroadcastMessages(ctx context.Context, k uint32) ([]byte, error) {
	msgs, err := e.board.RecentBroadcasts(ctx, k)
	if err != nil {
		return nil, err
	}
	return encodeIndexed(msgs)
}

// GetBroadcastMessageByIndex returns the JSON-quoted body of the broadcast
// message k before the most recent, or "" if there is none.
func (e *Endpoint) GetBroadcastMessageByIndex(ctx context.Context, k uint32) (string, error) {
	m, ok, err := e.board.BroadcastByOffset(ctx, k)
	if err != nil || !ok {
		return "", err
	}
	return quote(m.Record.Message)
}

// GetMessages returns up to k messages between sender and to, as
// GetBroadcastMessages does.
func (e *Endpoint) GetMessages(ctx context.Context, sender, to board.Identity, k uint32) ([]byte, error) {
	msgs, err := e.board.RecentMessages(ctx, sender, to, k)
	if err != nil {
		return nil, err
	}
	return encodeIndexed(msgs)
}

// GetMessageByIndex returns the JSON-quoted body of the message k before
// the most recent between sender and to, or "" if there is none.
func (e *Endpoint) GetMessageByIndex(ctx context.Context, sender, to board.Identity, k uint32) (string, error) {
	m, ok, err := e.board.MessageByOffset(ctx, sender, to, k)
	if err != nil || !ok {
		return "", err
	}
	return quote(m.Record.Message)
}

// GetFriends returns person's friend set as {"friends":[...]}, or nothing
// if they have none.
func (e *Endpoint) GetFriends(ctx context.Context, person board.Identity) ([]byte, error) {
	fs, err := e.board.Friends(ctx, person)
	if err != nil || fs.Len() == 0 {
		return nil, err
	}
	return json.Marshal(fs)
}

// GetFriendsAsString returns person's friends as text, each preceded by a space.
func (e *Endpoint) GetFriendsAsString(ctx context.Context, person board.Identity) (string, error) {
	fs, err := e.board.Friends(ctx, person)
	if err != nil {
		return "", err
	}
	return fs.String(), nil
}

func quote(s string) (string, error) {
	b, err := json.Marshal(s)
	return string(b), err
}

// encodeIndexed writes records as a JSON object in the order given, which
// json.Marshal of a map would not preserve.
func encodeIndexed[R any](records []board.Indexed[R]) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, r := range records {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(strconv.Quote(strconv.FormatUint(r.Index, 10)))
		buf.WriteByte(':')
		b, err := json.Marshal(r.Record)
		if err != nil {
			return nil, fmt.Errorf("marshal record %d: %w", r.Index, err)
		}
		buf.Write(b)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
