package board

import (
	"errors"
	"fmt"
)

// GenericError is the base of the classified errors below.
type GenericError string

// Classes of error, so callers can tell a rejected request from absent
// data from a corrupted store.
type (
	ExistsError   GenericError
	InvalidError  GenericError
	NotFoundError GenericError
	ProcessError  GenericError
)

// common errors - keep in alphabetic order
var (
	ErrAlreadyInitialised = ExistsError("board is already initialised")
	ErrCharLimitTooHigh   = InvalidError("char limit exceeds the maximum allowed")
	ErrCorruptCell        = ProcessError("stored cell has unexpected length")
	ErrMessageTooLong     = InvalidError("message is longer than the char limit")
	ErrMissingRecord      = ProcessError("record missing below counter")
	ErrNotFound           = NotFoundError("entry not found")
	ErrNotInitialised     = NotFoundError("board is not initialised")
	ErrUnknownFormat      = InvalidError("unknown record format")
)

func (e GenericError) Error() string  { return string(e) }
func (e ExistsError) Error() string   { return string(e) }
func (e InvalidError) Error() string  { return string(e) }
func (e NotFoundError) Error() string { return string(e) }
func (e ProcessError) Error() string  { return string(e) }

// IsErrExists and friends determine the class of an error, looking through
// any wrapping.
func IsErrExists(e error) bool   { var x ExistsError; return errors.As(e, &x) }
func IsErrInvalid(e error) bool  { var x InvalidError; return errors.As(e, &x) }
func IsErrNotFound(e error) bool { var x NotFoundError; return errors.As(e, &x) }
func IsErrProcess(e error) bool  { var x ProcessError; return errors.As(e, &x) }

// LinkError reports a Send whose message was stored (at Index) but whose
// friend-set update failed. Retrying Board.Link completes it.
type LinkError struct {
	Index uint64
	Err   error
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("link friends after message %d: %v", e.Index, e.Err)
}

func (e *LinkError) Unwrap() error { return e.Err }
